// Package usecase contains application business logic: the gather
// pipeline and the undo operation.
package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/dazzletools/wingather/internal/classify"
	"github.com/dazzletools/wingather/internal/concern"
	"github.com/dazzletools/wingather/internal/domain"
	"github.com/dazzletools/wingather/internal/plan"
	"github.com/dazzletools/wingather/internal/trust"
)

// Run modes recorded on the report.
const (
	ModeList   = "list"
	ModeDryRun = "dry-run"
	ModeLive   = "live"
)

// Gatherer orchestrates a single pass: enumerate, classify, score,
// verify, plan, act, report. Batch-synchronous; one run, then exit.
type Gatherer struct {
	enum     domain.WindowEnumerator
	act      domain.WindowActuator
	resolver domain.ProcessResolver
	verifier *trust.Verifier
	undo     domain.UndoStore
	logger   *zap.Logger
}

// NewGatherer wires the pipeline's collaborators.
func NewGatherer(
	enum domain.WindowEnumerator,
	act domain.WindowActuator,
	resolver domain.ProcessResolver,
	verifier *trust.Verifier,
	undo domain.UndoStore,
	logger *zap.Logger,
) *Gatherer {
	return &Gatherer{
		enum:     enum,
		act:      act,
		resolver: resolver,
		verifier: verifier,
		undo:     undo,
		logger:   logger,
	}
}

// Run performs one full pass and returns the report. Enumeration
// failure is fatal; per-window failures are recorded on the window's
// result and processing continues.
func (g *Gatherer) Run(ctx context.Context, opts domain.Options) (*domain.GatherReport, error) {
	if err := g.enum.Setup(); err != nil {
		return nil, fmt.Errorf("platform setup: %w", err)
	}

	elevated := g.enum.IsElevated()
	if !elevated {
		g.logger.Warn("not running elevated; elevated windows may not be movable")
	}

	work, err := g.enum.WorkArea(opts.Monitor)
	if err != nil {
		g.logger.Debug("monitor index unavailable, falling back to primary",
			zap.Int("monitor", opts.Monitor),
			zap.Error(err))
		if work, err = g.enum.PrimaryWorkArea(); err != nil {
			return nil, fmt.Errorf("resolve work area: %w", err)
		}
	}

	monitors, err := g.enum.Monitors()
	if err != nil {
		return nil, fmt.Errorf("enumerate monitors: %w", err)
	}

	windows, err := g.enum.EnumerateWindows(ctx, opts.ShowHidden || opts.IncludeVirtual)
	if err != nil {
		return nil, fmt.Errorf("enumerate windows: %w", err)
	}
	g.logger.Info("enumerated windows", zap.Int("count", len(windows)))

	windows = g.resolveOwners(windows)
	windows = applyFilters(windows, opts)

	mode := ModeLive
	switch {
	case opts.ListOnly:
		mode = ModeList
	case opts.DryRun:
		mode = ModeDryRun
	}
	report := &domain.GatherReport{Mode: mode, WorkArea: work, Elevated: elevated}

	for i := range windows {
		report.Results = append(report.Results, g.assess(ctx, windows[i], monitors))
	}

	suspicious := 0
	suppressed := 0
	for _, r := range report.Results {
		if r.Suspicious() {
			suspicious++
		}
		if r.Suppressed {
			suppressed++
		}
	}
	if suspicious > 0 {
		g.logger.Info("flagged suspicious windows", zap.Int("count", suspicious))
	}
	if suppressed > 0 {
		g.logger.Info("trusted windows, flagging suppressed", zap.Int("count", suppressed))
	}

	if opts.ListOnly {
		return report, nil
	}

	ordered := plan.Build(report.Results, work, opts)

	var revealed []domain.UndoEntry
	for _, r := range ordered {
		g.execute(r, opts)
		if !opts.DryRun && r.State == domain.StateHidden && strings.Contains(r.ActionTaken, "shown") {
			revealed = append(revealed, domain.UndoEntry{
				Handle:      r.Window.Handle,
				PID:         r.Window.PID,
				ProcessName: r.Window.ProcessName,
				ExePath:     r.Window.ExePath,
				Title:       r.Window.Title,
			})
		}
	}

	if len(revealed) > 0 {
		if err := g.undo.Save(revealed); err != nil {
			g.logger.Warn("could not save undo state", zap.Error(err))
		} else {
			g.logger.Info("saved undo state",
				zap.Int("windows", len(revealed)),
				zap.String("path", g.undo.Path()))
		}
	}

	sortForReport(report.Results)
	return report, nil
}

// resolveOwners fills each record's process identity from its PID,
// once per process. A window whose owner exited between enumeration
// and inspection keeps a placeholder name and is marked so it is never
// silently trusted.
func (g *Gatherer) resolveOwners(windows []domain.WindowRecord) []domain.WindowRecord {
	type outcome struct {
		id  domain.ProcessIdentity
		err error
	}
	cache := make(map[int]outcome)

	for i := range windows {
		w := &windows[i]
		if w.ProcessName != "" {
			continue // enumerator already resolved it
		}
		res, ok := cache[w.PID]
		if !ok {
			id, err := g.resolver.Resolve(w.PID)
			res = outcome{id: id, err: err}
			cache[w.PID] = res
		}
		if res.err != nil {
			g.logger.Debug("owner process not resolvable",
				zap.Int("pid", w.PID),
				zap.Error(res.err))
			w.ProcessName = fmt.Sprintf("<pid:%d>", w.PID)
			w.ResolveFailed = true
			continue
		}
		w.ProcessName = res.id.Name
		w.ExePath = res.id.ExePath
	}
	return windows
}

// applyFilters applies the include/exclude patterns (matched against
// "title process") and the per-process exclusions.
func applyFilters(windows []domain.WindowRecord, opts domain.Options) []domain.WindowRecord {
	filtered := windows[:0]
	for _, w := range windows {
		matchStr := w.Title + " " + w.ProcessName
		if opts.Filter != "" && !trust.Match(opts.Filter, matchStr) {
			continue
		}
		if opts.Exclude != "" && trust.Match(opts.Exclude, matchStr) {
			continue
		}
		if trust.MatchAny(opts.ExcludeProcs, w.ProcessName) {
			continue
		}
		filtered = append(filtered, w)
	}
	return filtered
}

// assess runs the pure pipeline stages for one window: classify,
// verify trust, score. The verdict feeds the scorer, and a trusted
// verdict suppresses the user-facing flag without deleting evidence.
func (g *Gatherer) assess(ctx context.Context, w domain.WindowRecord, monitors []domain.Rect) *domain.Result {
	state := classify.Classify(w, monitors)
	verdict := g.verifier.Verify(ctx, w)
	assessment := concern.Assess(w, state, verdict, monitors)

	r := &domain.Result{
		Window:     w,
		State:      state,
		Verdict:    verdict,
		Assessment: assessment,
		Suppressed: verdict.Trusted() && assessment.Flagged(),
	}
	if w.ResolveFailed {
		r.Notes = append(r.Notes, "owner process exited before inspection")
	}
	return r
}

// execute carries out one window's plan, accumulating the action
// string and per-step failure notes. Actuation failures never abort
// the run.
func (g *Gatherer) execute(r *domain.Result, opts domain.Options) {
	if r.Plan.Skipped() {
		r.ActionTaken = "skip:" + r.Plan.SkipReason
		return
	}

	if opts.DryRun {
		parts := make([]string, len(r.Plan.Steps))
		for i, s := range r.Plan.Steps {
			parts[i] = string(s)
		}
		if r.Plan.ZOrder == domain.ZTopmost {
			parts = append(parts, "topmost")
		}
		if r.Plan.Raise {
			parts = append(parts, "foreground")
		}
		r.ActionTaken = "would:" + strings.Join(parts, "+")
		return
	}

	var parts []string
	h := r.Window.Handle
	for _, step := range r.Plan.Steps {
		switch step {
		case domain.StepRestore:
			if err := g.act.Restore(h); err != nil {
				g.noteFailure(r, "restore", err)
				r.ActionTaken = "failed:restore"
				return
			}
			parts = append(parts, "restored")

		case domain.StepShow:
			if err := g.act.Show(h); err != nil {
				g.noteFailure(r, "show", err)
				r.ActionTaken = "failed:show"
				return
			}
			parts = append(parts, "shown")

		case domain.StepPull:
			if err := g.act.PullToCurrentDesktop(h); err != nil {
				g.noteFailure(r, "pull-desktop", err)
				r.ActionTaken = "failed:pull-desktop"
				return
			}
			parts = append(parts, "pulled-from-desktop")
			// Pulled windows may arrive still hidden.
			_ = g.act.Show(h)

		case domain.StepCenter:
			if err := g.act.MoveResize(h, *r.Plan.Target); err != nil {
				g.noteFailure(r, "center", err)
				parts = append(parts, "center-failed")
			} else {
				parts = append(parts, "centered")
			}
		}
	}

	if r.Plan.ZOrder == domain.ZTopmost {
		if err := g.act.SetTopmost(h); err != nil {
			g.noteFailure(r, "topmost", err)
		} else {
			parts = append(parts, "topmost")
		}
	}
	if r.Plan.Raise {
		if err := g.act.Raise(h); err != nil {
			g.noteFailure(r, "foreground", err)
		} else {
			parts = append(parts, "foreground")
		}
	}

	if len(parts) == 0 {
		r.ActionTaken = "unchanged"
		return
	}
	r.ActionTaken = strings.Join(parts, "+")
}

func (g *Gatherer) noteFailure(r *domain.Result, op string, err error) {
	g.logger.Warn("window action failed",
		zap.String("op", op),
		zap.Uint64("handle", uint64(r.Window.Handle)),
		zap.String("process", r.Window.ProcessName),
		zap.Error(err))
	r.Notes = append(r.Notes, fmt.Sprintf("%s denied: %v", op, err))
}

// sortForReport orders results highest concern first, then everything
// else in enumeration order.
func sortForReport(results []*domain.Result) {
	sort.SliceStable(results, func(i, j int) bool {
		si, sj := results[i].Suspicious(), results[j].Suspicious()
		if si != sj {
			return si
		}
		if si && sj {
			return results[i].Assessment.Level < results[j].Assessment.Level
		}
		return false
	})
}
