// Package retention implements spec.md §4.F: the mutable retention state
// that the interactive controller drives and the deleter later consumes.
package retention

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/jrsmith/dedupe/internal/entities"
)

// Strategy selects a single member to keep from a group. Ties are broken
// by lowest 1-based (encounter) index, per spec.md §4.F and the tie-break
// harmonization decided in SPEC_FULL.md §13.
type Strategy int

const (
	Newest Strategy = iota
	Oldest
	LongestName
	ShortestName
)

// ParseStrategy maps the controller's 1-4 menu input to a Strategy,
// falling back to Newest for unrecognized input per spec.md §4.G.
func ParseStrategy(choice string) Strategy {
	switch choice {
	case "2":
		return Oldest
	case "3":
		return LongestName
	case "4":
		return ShortestName
	default:
		return Newest
	}
}

func (s Strategy) String() string {
	switch s {
	case Newest:
		return "newest"
	case Oldest:
		return "oldest"
	case LongestName:
		return "longest-name"
	case ShortestName:
		return "shortest-name"
	default:
		return "unknown"
	}
}

// Reset sets every group's keep set back to the default {1}.
func Reset(plan *entities.RetentionPlan) {
	for g := range plan.Result.Groups {
		plan.Keep[g] = entities.NewIndexSet(1)
	}
}

// ApplyAuto replaces group g's keep set with the single index the strategy
// selects. g is 0-based; the error is non-nil only for an out-of-range g.
func ApplyAuto(plan *entities.RetentionPlan, g int, strategy Strategy) error {
	if g < 0 || g >= len(plan.Result.Groups) {
		return fmt.Errorf("retention: group %d out of range", g+1)
	}
	idx := selectIndex(plan.Result.Groups[g], strategy)
	plan.Keep[g] = entities.NewIndexSet(idx)
	return nil
}

// ApplyAutoAll applies strategy to every group.
func ApplyAutoAll(plan *entities.RetentionPlan, strategy Strategy) {
	for g := range plan.Result.Groups {
		idx := selectIndex(plan.Result.Groups[g], strategy)
		plan.Keep[g] = entities.NewIndexSet(idx)
	}
}

// SetGroup replaces group g's keep set with subset, rejecting empty sets or
// sets containing an out-of-range index.
func SetGroup(plan *entities.RetentionPlan, g int, subset entities.IndexSet) error {
	if g < 0 || g >= len(plan.Result.Groups) {
		return fmt.Errorf("retention: group %d out of range", g+1)
	}
	if len(subset) == 0 {
		return fmt.Errorf("retention: group %d: empty selection rejected", g+1)
	}
	size := len(plan.Result.Groups[g].Files)
	for idx := range subset {
		if idx < 1 || idx > size {
			return fmt.Errorf("retention: group %d: index %d out of range 1..%d", g+1, idx, size)
		}
	}
	plan.Keep[g] = subset
	return nil
}

// selectIndex returns the 1-based index of the member a strategy picks,
// using a stable sort so ties fall back to lowest encounter index.
func selectIndex(group entities.DuplicateGroup, strategy Strategy) int {
	type candidate struct {
		index int // 0-based position in group.Files
	}

	candidates := make([]candidate, len(group.Files))
	for i := range group.Files {
		candidates[i] = candidate{index: i}
	}

	less := func(i, j int) bool {
		a, b := group.Files[candidates[i].index], group.Files[candidates[j].index]
		switch strategy {
		case Newest:
			return a.ModTime.After(b.ModTime)
		case Oldest:
			return a.ModTime.Before(b.ModTime)
		case LongestName:
			return len(filepath.Base(a.Path)) > len(filepath.Base(b.Path))
		case ShortestName:
			return len(filepath.Base(a.Path)) < len(filepath.Base(b.Path))
		default:
			return false
		}
	}

	sort.SliceStable(candidates, less)
	return candidates[0].index + 1
}
