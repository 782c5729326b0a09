// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

import (
	"strings"
	"time"
)

// Handle is an opaque platform window identifier (HWND on Windows,
// CGWindowID on macOS). The core never interprets it.
type Handle uint64

// Rect describes a window or monitor rectangle in screen coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"w"`
	Height int `json:"h"`
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Area returns the rectangle's area, zero for degenerate rects.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

// Intersect returns the overlapping region of two rectangles.
// The result is empty when they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.X+r.Width, o.X+o.Width)
	y2 := min(r.Y+r.Height, o.Y+o.Height)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Intersects reports whether two rectangles overlap.
func (r Rect) Intersects(o Rect) bool {
	return !r.Intersect(o).Empty()
}

// StyleFlags carries the platform-neutral window style bits the
// classifier cares about.
type StyleFlags uint8

const (
	StyleVisible StyleFlags = 1 << iota
	StyleMinimized
	StyleMaximized
)

// Has reports whether all given bits are set.
func (s StyleFlags) Has(f StyleFlags) bool { return s&f == f }

// CloakType is the DWM cloak attribute bitmask.
type CloakType int

const (
	CloakNone      CloakType = 0
	CloakApp       CloakType = 1 // cloaked by the application itself
	CloakShell     CloakType = 2 // cloaked by the shell/OS (e.g. suspended UWP)
	CloakInherited CloakType = 4 // inherited from an ancestor window
)

// ShellOriginated reports whether cloaking came from the shell/OS
// rather than a user action like moving the window to another desktop.
func (c CloakType) ShellOriginated() bool {
	return c&(CloakShell|CloakInherited) != 0
}

// WindowRecord is an immutable snapshot of a top-level window taken at
// enumeration time. Created fresh each run, read-only within the pipeline.
type WindowRecord struct {
	Handle           Handle
	PID              int
	ProcessName      string
	ExePath          string
	Title            string
	ClassName        string
	Style            StyleFlags
	Bounds           Rect
	Cloak            CloakType
	OnCurrentDesktop bool

	// ResolveFailed is set when the owning process exited between
	// enumeration and inspection. Such windows are never auto-trusted.
	ResolveFailed bool
}

// Classification is the single semantic state assigned to a window.
// Exactly one per window per run; see classify for the priority order.
type Classification string

const (
	StateNormal        Classification = "normal"
	StateMinimized     Classification = "minimized"
	StateMaximized     Classification = "maximized"
	StateHidden        Classification = "hidden"
	StateOffScreen     Classification = "off-screen"
	StatePartOffScreen Classification = "partially-off-screen"
	StateCloaked       Classification = "cloaked"
)

// Indicator names a suspicious fact observed about a window.
type Indicator string

const (
	IndicatorTrustVerifyFailed Indicator = "trust-verification-failed"
	IndicatorOffScreen         Indicator = "off-screen"
	IndicatorShrunk            Indicator = "shrunk"
	IndicatorDialog            Indicator = "dialog"
	IndicatorPartOffScreen     Indicator = "partially-off-screen"
	IndicatorCloaked           Indicator = "cloaked"
	IndicatorShellCloaked      Indicator = "shell-cloaked"
)

// Finding is an indicator plus the human-readable detail that triggered
// it (e.g. "shrunk(120x40)").
type Finding struct {
	Indicator Indicator `json:"indicator"`
	Detail    string    `json:"detail"`
}

// ConcernAssessment is the scored result for one window. Immutable once
// computed. A zero Score means the window is not flagged.
type ConcernAssessment struct {
	Findings []Finding `json:"findings,omitempty"`
	Score    int       `json:"score"`
	Level    int       `json:"level"` // 1 = highest concern, 5 = informational, 0 = none
	Label    string    `json:"label"` // ALERT / CONCERN / NOTE
}

// Flagged reports whether any indicator fired.
func (a ConcernAssessment) Flagged() bool { return a.Score > 0 }

// Reason joins the finding details into the single human-readable
// string shown next to the flag.
func (a ConcernAssessment) Reason() string {
	if len(a.Findings) == 0 {
		return ""
	}
	parts := make([]string, len(a.Findings))
	for i, f := range a.Findings {
		parts[i] = f.Detail
	}
	return strings.Join(parts, ", ")
}

// TrustStatus is the outcome of the trust-verification chain.
type TrustStatus string

const (
	TrustTrusted      TrustStatus = "trusted"
	TrustUntrusted    TrustStatus = "untrusted"
	TrustVerifyFailed TrustStatus = "verification-failed"
)

// Trust sources recorded on a verdict.
const (
	TrustSourceUser         = "user"
	TrustSourceDefault      = "default"
	TrustSourceVendorSigned = "vendor-signed"
)

// TrustVerdict records the result of evaluating a window's owning
// process against the trust policy, including which check failed.
type TrustVerdict struct {
	Status   TrustStatus `json:"status"`
	Source   string      `json:"source,omitempty"`   // user / default / vendor-signed
	Pattern  string      `json:"pattern,omitempty"`  // the trust pattern that matched
	Verified string      `json:"verified,omitempty"` // "vendor" when signature-verified
	Failure  string      `json:"failure,omitempty"`  // failed check detail for verification-failed
}

// Trusted reports whether flagging should be suppressed for this window.
func (v TrustVerdict) Trusted() bool { return v.Status == TrustTrusted }

// StepKind is a single actuation step in a plan, applied in order.
type StepKind string

const (
	StepRestore StepKind = "restore"
	StepShow    StepKind = "show"
	StepPull    StepKind = "pull-desktop"
	StepCenter  StepKind = "center"
)

// ZOrder is the z-order treatment chosen by the planner.
type ZOrder int

const (
	ZNone ZOrder = iota
	ZRaiseOnce
	ZTopmost
)

// ActionPlan is the planner's decision for one window. Consumed by the
// actuation layer; never persisted.
type ActionPlan struct {
	Steps      []StepKind
	SkipReason string // non-empty means the window is skipped entirely
	Target     *Rect  // destination for the center step
	ZOrder     ZOrder
	Raise      bool // bring to foreground at least once
}

// Skipped reports whether the plan performs no actuation.
func (p ActionPlan) Skipped() bool { return p.SkipReason != "" }

// Result carries everything known about one window after a pass:
// snapshot, classification, assessment, verdict, plan, and the outcome.
type Result struct {
	Window WindowRecord
	State  Classification

	Assessment ConcernAssessment
	Verdict    TrustVerdict

	// Suppressed means the window matched trust policy: the assessment
	// is retained for reporting but the suspicious flag is not applied.
	Suppressed bool

	Plan        ActionPlan
	ActionTaken string
	Notes       []string // per-window failure notes (privilege, races)
}

// Suspicious reports whether the window is flagged for the user:
// a non-empty indicator set not suppressed by trust.
func (r *Result) Suspicious() bool {
	return r.Assessment.Flagged() && !r.Suppressed
}

// GatherReport is the full outcome of a single run.
type GatherReport struct {
	Mode     string // list / dry-run / live
	WorkArea Rect
	Results  []*Result
	Elevated bool
}

// UndoEntry records one hidden window revealed by a --show-hidden run.
// Owned exclusively by the undo store.
type UndoEntry struct {
	Handle      Handle `json:"handle"`
	PID         int    `json:"pid"`
	ProcessName string `json:"process_name,omitempty"`
	ExePath     string `json:"exe_path,omitempty"`
	Title       string `json:"title,omitempty"`
}

// UndoState is the persisted undo file schema.
type UndoState struct {
	Version   int         `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	App       string      `json:"app_version,omitempty"`
	Entries   []UndoEntry `json:"windows_shown"`
}

// Options is the per-run option set assembled from flags and config.
type Options struct {
	ListOnly       bool
	DryRun         bool
	All            bool
	ShowHidden     bool
	IncludeVirtual bool
	Monitor        int
	Filter         string
	Exclude        string
	ExcludeProcs   []string
	TrustPatterns  []string
	NoDefaultTrust bool
	JSON           bool
	Verbose        bool
}

// ActOnAll reports whether the suspicious-only restriction is lifted.
// An explicit filter always widens the restriction: explicitly targeted
// windows are acted on regardless of suspicion.
func (o Options) ActOnAll() bool { return o.All || o.Filter != "" }
