package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/dazzletools/wingather/internal/domain"
)

// UndoResult summarizes an undo pass.
type UndoResult struct {
	Hidden  int
	Skipped int
}

// Undoer reverses a previous hidden-window reveal. Entries whose
// handle now belongs to a different process are skipped silently:
// handle reuse by the OS is an expected race, not a failure.
type Undoer struct {
	act    domain.WindowActuator
	store  domain.UndoStore
	logger *zap.Logger
}

// NewUndoer creates an undo operation over the store and actuator.
func NewUndoer(act domain.WindowActuator, store domain.UndoStore, logger *zap.Logger) *Undoer {
	return &Undoer{act: act, store: store, logger: logger}
}

// Run re-hides every stored window whose (handle, pid) still match,
// then clears the store regardless of skips. A second reveal rebuilds
// fresh state; there is no partial retry.
func (u *Undoer) Run(ctx context.Context) (UndoResult, error) {
	var res UndoResult

	entries, savedAt, err := u.store.Load()
	if err != nil {
		return res, err
	}
	if len(entries) == 0 {
		u.logger.Info("undo state is empty, nothing to re-hide")
		return res, u.store.Clear()
	}
	u.logger.Info("loaded undo state",
		zap.Time("saved_at", savedAt),
		zap.Int("windows", len(entries)))

	for _, e := range entries {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}

		pid, err := u.act.OwnerPID(e.Handle)
		if err != nil {
			u.logger.Debug("skip: handle no longer exists",
				zap.Uint64("handle", uint64(e.Handle)),
				zap.String("process", e.ProcessName))
			res.Skipped++
			continue
		}
		if pid != e.PID {
			u.logger.Debug("skip: handle reused by another process",
				zap.Uint64("handle", uint64(e.Handle)),
				zap.Int("expected_pid", e.PID),
				zap.Int("actual_pid", pid))
			res.Skipped++
			continue
		}

		visible, err := u.act.IsVisible(e.Handle)
		if err != nil || !visible {
			u.logger.Debug("skip: window already hidden",
				zap.Uint64("handle", uint64(e.Handle)),
				zap.String("process", e.ProcessName))
			res.Skipped++
			continue
		}

		if err := u.act.Hide(e.Handle); err != nil {
			u.logger.Debug("skip: hide failed",
				zap.Uint64("handle", uint64(e.Handle)),
				zap.Error(err))
			res.Skipped++
			continue
		}
		res.Hidden++
	}

	if err := u.store.Clear(); err != nil {
		return res, err
	}
	u.logger.Info("undo complete",
		zap.Int("hidden", res.Hidden),
		zap.Int("skipped", res.Skipped))
	return res, nil
}
