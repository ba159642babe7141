// Package session implements the top-level flow that wires the scan
// orchestrator, retention planner, interactive controller and deleter
// together: spec.md §4.E through §4.H end to end, plus the customize- and
// confirm-delete gates and per-folder coda from spec.md §9.
package session

import (
	"fmt"
	"log/slog"

	"github.com/jrsmith/dedupe/internal/controller"
	"github.com/jrsmith/dedupe/internal/deleter"
	"github.com/jrsmith/dedupe/internal/entities"
	"github.com/jrsmith/dedupe/internal/humanize"
	"github.com/jrsmith/dedupe/internal/operator"
	"github.com/jrsmith/dedupe/internal/scanner"
)

// Options configures one end-to-end run.
type Options struct {
	Mode    scanner.Mode
	DryRun  bool
	NoSkip  bool
	AutoYes bool
	Root    string
}

// Session ties every component together for one invocation.
type Session struct {
	log  *slog.Logger
	port operator.Port
	orch *scanner.Orchestrator
	ctl  *controller.Controller
	fs   deleteApplier
	opts Options
}

// deleteApplier is the subset of fsport.Port the deleter needs, isolated
// here so session doesn't need to import fsport directly for wiring.
type deleteApplier interface {
	Delete(path string) error
}

// New builds a Session.
func New(log *slog.Logger, port operator.Port, orch *scanner.Orchestrator, fs deleteApplier, opts Options) *Session {
	return &Session{
		log:  log,
		port: port,
		orch: orch,
		ctl:  controller.New(port),
		fs:   fs,
		opts: opts,
	}
}

// RunFlat scans the whole root as one namespace and drives one
// customize/confirm/delete cycle over the result.
func (s *Session) RunFlat() error {
	result, err := s.orch.ScanFlat(s.opts.Root)
	if err != nil {
		return fmt.Errorf("session: scan %s: %w", s.opts.Root, err)
	}
	s.port.Emit(fmt.Sprintf(
		"scanned %d files (%s) in %s: found %d duplicate group(s)",
		result.TotalFiles, humanize.Bytes(result.TotalBytes), result.Duration, len(result.Groups),
	))

	s.processResult(result)
	return nil
}

// RunFolders scans directory-by-directory, driving one cycle per folder
// with the "continue to next folder?" coda between them.
func (s *Session) RunFolders() error {
	dirCount := 0
	skipped := 0

	err := s.orch.ScanFolders(s.opts.Root, func(dir string, result *entities.ScanResult, hasNext bool) bool {
		dirCount++
		if len(result.Groups) == 0 {
			if s.opts.NoSkip {
				s.port.Emit(fmt.Sprintf("[%s] no duplicates (%d files scanned)", dir, result.TotalFiles))
			}
			skipped++
			return s.continuePrompt(hasNext)
		}

		s.port.Emit(fmt.Sprintf(
			"[%s] %d files (%s), %d duplicate group(s), scanned in %s",
			dir, result.TotalFiles, humanize.Bytes(result.TotalBytes), len(result.Groups), result.Duration,
		))
		s.processResult(result)
		return s.continuePrompt(hasNext)
	})
	if err != nil {
		return fmt.Errorf("session: per-folder scan of %s: %w", s.opts.Root, err)
	}

	s.port.Emit(fmt.Sprintf("processed %d folder(s), skipped %d without duplicates", dirCount, skipped))
	return nil
}

// continuePrompt implements the per-folder coda from spec.md §4.G:
// default YES, auto-confirm always continues without asking, and no
// prompt at all once there is no next folder to continue to.
func (s *Session) continuePrompt(hasNext bool) bool {
	if !hasNext {
		return true
	}
	if s.opts.AutoYes {
		return true
	}
	return s.port.PromptYesNo("continue to next folder?", true)
}

// processResult runs the customize/confirm/delete cycle for one scan
// result, per spec.md §9's default yes/no polarities.
func (s *Session) processResult(result *entities.ScanResult) {
	if len(result.Groups) == 0 {
		return
	}

	plan := entities.NewRetentionPlan(result)

	s.ctl.List(plan)
	s.ctl.Preview(plan)

	if s.port.PromptYesNo("customize retention?", false) {
		s.ctl.Run(plan)
		s.ctl.Final(plan)
	}

	if !s.port.PromptYesNo("confirm delete?", false) {
		s.port.Emit("cancelled, no files deleted")
		return
	}

	s.applyDeletion(plan)
}

func (s *Session) applyDeletion(plan *entities.RetentionPlan) {
	report := deleter.Apply(s.log, s.fs, plan, s.opts.DryRun, func(line deleter.Line) {
		switch {
		case s.opts.DryRun:
			s.port.Emit(fmt.Sprintf("would delete: %s (%s)", line.Path, humanize.Bytes(line.Size)))
		case line.Deleted:
			s.port.Emit(fmt.Sprintf("deleted: %s (%s)", line.Path, humanize.Bytes(line.Size)))
		default:
			s.port.EmitError(fmt.Sprintf("failed to delete %s: %v", line.Path, line.Err))
		}
	})

	label := "reclaimed"
	if report.Projected {
		label = "projected reclaim"
	}
	s.port.Emit(fmt.Sprintf(
		"done: %d succeeded, %d failed, %s %s",
		report.SuccessCount, report.FailureCount, label, humanize.Bytes(report.ReclaimedBytes),
	))
}
