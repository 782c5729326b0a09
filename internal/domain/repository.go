package domain

import (
	"context"
	"time"
)

// WindowEnumerator produces the full set of current top-level windows
// for the active session, plus monitor geometry.
// Implementation: one per operating system; injected into the pipeline.
type WindowEnumerator interface {
	// Setup performs platform initialization (e.g. DPI awareness).
	Setup() error

	// IsElevated reports whether the process runs with admin privileges.
	// Elevated windows may not be movable otherwise.
	IsElevated() bool

	// Monitors returns the bounds of every attached monitor.
	Monitors() ([]Rect, error)

	// WorkArea returns the work area of the monitor at index, or an
	// error when the index does not exist.
	WorkArea(index int) (Rect, error)

	// PrimaryWorkArea returns the primary monitor's work area.
	PrimaryWorkArea() (Rect, error)

	// EnumerateWindows returns a snapshot of all top-level windows.
	// Hidden windows are included only when includeHidden is set.
	EnumerateWindows(ctx context.Context, includeHidden bool) ([]WindowRecord, error)
}

// WindowActuator exposes geometry and visibility operations keyed by
// handle. Each call may fail independently (e.g. insufficient privilege
// on an elevated-owned window) without aborting the run.
type WindowActuator interface {
	// Restore brings a minimized or maximized window back to normal.
	Restore(h Handle) error

	// MoveResize places the window at the given rectangle.
	MoveResize(h Handle, bounds Rect) error

	// Raise brings the window to the foreground once.
	Raise(h Handle) error

	// SetTopmost pins the window above all others until cleared.
	SetTopmost(h Handle) error

	// Show makes a hidden window visible.
	Show(h Handle) error

	// Hide makes a visible window hidden (reverse of Show).
	Hide(h Handle) error

	// IsVisible reports whether the window is currently visible.
	// Used by undo to skip windows the user already re-hid.
	IsVisible(h Handle) (bool, error)

	// PullToCurrentDesktop moves a window from another virtual desktop
	// to the active one.
	PullToCurrentDesktop(h Handle) error

	// OwnerPID re-resolves the process currently owning a handle.
	// Used by undo to detect handle reuse.
	OwnerPID(h Handle) (int, error)
}

// SignatureInfo is the result of checking an executable's digital signature.
type SignatureInfo struct {
	Valid    bool   // signature chain validates
	OSVendor bool   // chain terminates in the OS vendor
	Signer   string // signer subject, for reporting
}

// SignatureVerifier checks an executable's digital signature. The call
// is slow; implementations are wrapped in a per-run cache so each path
// is verified at most once.
type SignatureVerifier interface {
	Verify(ctx context.Context, exePath string) (SignatureInfo, error)
}

// ProcessIdentity is the resolved identity of a window's owning process.
type ProcessIdentity struct {
	Name    string
	ExePath string
}

// ProcessResolver maps a PID to its process identity.
// Implementation: uses gopsutil for cross-platform support.
type ProcessResolver interface {
	// Resolve returns the process name and executable path for a PID.
	// Fails when the process exited between enumeration and inspection.
	Resolve(pid int) (ProcessIdentity, error)
}

// UndoStore is the durable record of hidden windows revealed by a
// previous run. Single expected writer; persisted with atomic
// full-file replacement.
type UndoStore interface {
	// Save replaces the stored set with the given entries.
	Save(entries []UndoEntry) error

	// Load returns the stored entries and when they were saved.
	// Returns ErrNoUndoState when no store exists.
	Load() ([]UndoEntry, time.Time, error)

	// Clear removes the store entirely.
	Clear() error

	// Path returns the store file location (for messages and tests).
	Path() string
}
