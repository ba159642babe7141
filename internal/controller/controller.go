// Package controller implements spec.md §4.G: the interactive controller
// that drives the retention planner through the operator port's
// prompt/response loop.
package controller

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/jrsmith/dedupe/internal/entities"
	"github.com/jrsmith/dedupe/internal/humanize"
	"github.com/jrsmith/dedupe/internal/operator"
	"github.com/jrsmith/dedupe/internal/retention"
)

// Controller drives one RetentionPlan's edit loop for one ScanResult.
type Controller struct {
	port operator.Port
}

// New builds a Controller over the given operator port.
func New(port operator.Port) *Controller {
	return &Controller{port: port}
}

// Run drives the command loop from spec.md §4.G (list/view/bare-index/
// auto/all/done) until the operator issues "done" or the port hits EOF,
// then returns the (possibly mutated) plan. Callers are expected to have
// already shown the group listing once via List before entering Run.
func (c *Controller) Run(plan *entities.RetentionPlan) *entities.RetentionPlan {
	c.printHelp()

	for {
		c.port.Prompt("command (list/view N/N/auto/all/done):")
		line, ok := c.port.ReadLine()
		if !ok {
			return plan
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		cmd := strings.ToLower(fields[0])

		switch {
		case cmd == "done":
			return plan
		case cmd == "list":
			c.list(plan)
		case cmd == "view":
			c.view(plan, fields)
		case cmd == "auto":
			c.auto(plan)
		case cmd == "all":
			c.all(plan)
		default:
			if g, err := strconv.Atoi(cmd); err == nil {
				c.editGroup(plan, g)
			} else {
				c.port.EmitError(fmt.Sprintf("unrecognized command %q", fields[0]))
			}
		}
	}
}

// Preview announces how much would be reclaimed under the plan's current
// retention state, per SPEC_FULL.md §12 item 3 (shown before the operator
// is asked whether to customize retention).
func (c *Controller) Preview(plan *entities.RetentionPlan) {
	c.port.Emit(fmt.Sprintf(
		"deletable files: %d, space recoverable: %s",
		plan.DeletedCount(), humanize.Bytes(plan.ReclaimedBytes()),
	))
}

// Final re-displays every group's kept/deleted members and the plan's
// aggregate totals, mirroring the original's displayModifiedRetention.
func (c *Controller) Final(plan *entities.RetentionPlan) {
	c.port.Emit("retention plan:")
	for g := range plan.Result.Groups {
		c.viewGroup(plan, g+1)
	}
	c.port.Emit(fmt.Sprintf(
		"total: keep %d, delete %d, reclaim %s",
		plan.KeptCount(), plan.DeletedCount(), humanize.Bytes(plan.ReclaimedBytes()),
	))
}

// List re-displays all groups with 1-based numbering. Exported so callers
// can show the initial listing before the customize-retention gate.
func (c *Controller) List(plan *entities.RetentionPlan) {
	c.list(plan)
}

func (c *Controller) printHelp() {
	c.port.Emit("commands: list | view <g> | <g> (edit group g) | auto | all | done")
}

// list re-displays every group with 1-based numbering, per spec.md §4.G.
func (c *Controller) list(plan *entities.RetentionPlan) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Group", "Size", "Files", "Keeping"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	for g, group := range plan.Result.Groups {
		table.Append([]string{
			fmt.Sprintf("%d", g+1),
			humanize.Bytes(group.Size()),
			fmt.Sprintf("%d", len(group.Files)),
			plan.Keep[g].String(),
		})
	}
	table.Render()

	c.port.Emit(buf.String())
}

// view displays one group richly: path, size and mtime per member.
func (c *Controller) view(plan *entities.RetentionPlan, fields []string) {
	if len(fields) < 2 {
		c.port.EmitError("view requires a group number")
		return
	}
	g, err := strconv.Atoi(fields[1])
	if err != nil {
		c.port.EmitError(fmt.Sprintf("invalid group number %q", fields[1]))
		return
	}
	c.viewGroup(plan, g)
}

func (c *Controller) viewGroup(plan *entities.RetentionPlan, g int) {
	if g < 1 || g > len(plan.Result.Groups) {
		c.port.EmitError(fmt.Sprintf("group %d out of range (1-%d)", g, len(plan.Result.Groups)))
		return
	}
	group := plan.Result.Groups[g-1]
	keep := plan.Keep[g-1]

	c.port.Emit(fmt.Sprintf("group %d (%d files, %s):", g, len(group.Files), humanize.Bytes(group.Size())))
	for i, f := range group.Files {
		idx := i + 1
		mark := "delete"
		if keep.Contains(idx) {
			mark = "keep"
		}
		c.port.Emit(fmt.Sprintf("  [%d] %-6s %s  (mtime %s)", idx, mark, f.Path, f.ModTime.Format("2006-01-02 15:04:05")))
	}
}

// editGroup implements the bare-integer command: display the group, then
// read a digit-string selecting which members to keep.
func (c *Controller) editGroup(plan *entities.RetentionPlan, g int) {
	if g < 1 || g > len(plan.Result.Groups) {
		c.port.EmitError(fmt.Sprintf("group %d out of range (1-%d)", g, len(plan.Result.Groups)))
		return
	}
	c.viewGroup(plan, g)

	size := len(plan.Result.Groups[g-1].Files)
	if size > 9 {
		c.port.Emit("this group has more than 9 members; use auto/all to narrow it, or list to review")
	}

	c.port.Prompt(fmt.Sprintf("keep which member(s) of group %d (digits 1-9, e.g. 13):", g))
	selection, ok := c.port.ReadLine()
	if !ok {
		return
	}
	selection = strings.TrimSpace(selection)
	if selection == "" {
		c.port.EmitError("empty selection, no change made")
		return
	}

	indices := make([]int, 0, len(selection))
	for _, ch := range selection {
		if ch < '1' || ch > '9' {
			c.port.EmitError(fmt.Sprintf("invalid character %q in selection, no change made", ch))
			return
		}
		indices = append(indices, int(ch-'0'))
	}

	if err := retention.SetGroup(plan, g-1, entities.NewIndexSet(indices...)); err != nil {
		c.port.EmitError(err.Error())
		return
	}
	c.port.Emit(fmt.Sprintf("group %d retention updated: %s", g, plan.Keep[g-1].String()))
}

// auto prompts for a group number, then a strategy, and applies it to
// that one group.
func (c *Controller) auto(plan *entities.RetentionPlan) {
	c.port.Prompt("group number to auto-select:")
	line, ok := c.port.ReadLine()
	if !ok {
		return
	}
	g, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		c.port.EmitError(fmt.Sprintf("invalid group number %q", line))
		return
	}
	if g < 1 || g > len(plan.Result.Groups) {
		c.port.EmitError(fmt.Sprintf("group %d out of range (1-%d)", g, len(plan.Result.Groups)))
		return
	}

	strategy := c.promptStrategy()
	_ = retention.ApplyAuto(plan, g-1, strategy)
	c.port.Emit(fmt.Sprintf("group %d: applied %s strategy, keeping %s", g, strategy, plan.Keep[g-1].String()))
}

// all prompts for a strategy and applies it to every group.
func (c *Controller) all(plan *entities.RetentionPlan) {
	strategy := c.promptStrategy()
	retention.ApplyAutoAll(plan, strategy)
	c.port.Emit(fmt.Sprintf("applied %s strategy to all %d groups", strategy, len(plan.Result.Groups)))
}

func (c *Controller) promptStrategy() retention.Strategy {
	c.port.Emit("1=newest 2=oldest 3=longest-name 4=shortest-name")
	c.port.Prompt("strategy:")
	line, ok := c.port.ReadLine()
	if !ok {
		return retention.Newest
	}
	return retention.ParseStrategy(strings.TrimSpace(line))
}
