package report

import (
	"encoding/json"
	"io"

	"github.com/dazzletools/wingather/internal/domain"
)

// jsonEntry is the machine-readable shape of one window result. Field
// set varies: concern fields appear only on flagged windows, trust
// fields only on trusted ones.
type jsonEntry struct {
	Handle  uint64 `json:"handle"`
	Title   string `json:"title"`
	Class   string `json:"class"`
	Process string `json:"process"`
	PID     int    `json:"pid"`
	State   string `json:"state"`
	Action  string `json:"action"`

	CurrentPosition domain.Rect `json:"current_position"`
	TargetPosition  *jsonTarget `json:"target_position,omitempty"`

	ConcernLevel  int    `json:"concern_level,omitempty"`
	ConcernScore  int    `json:"concern_score,omitempty"`
	ConcernReason string `json:"concern_reason,omitempty"`

	Trusted            bool   `json:"trusted,omitempty"`
	TrustSource        string `json:"trust_source,omitempty"`
	TrustVerified      string `json:"trust_verified,omitempty"`
	WouldConcernLevel  int    `json:"would_concern_level,omitempty"`
	WouldConcernReason string `json:"would_concern_reason,omitempty"`

	Notes []string `json:"notes,omitempty"`
}

type jsonTarget struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// JSON writes the report as an indented JSON array, one entry per
// window, in report order.
func JSON(w io.Writer, rep *domain.GatherReport) error {
	entries := make([]jsonEntry, 0, len(rep.Results))
	for _, r := range rep.Results {
		e := jsonEntry{
			Handle:          uint64(r.Window.Handle),
			Title:           r.Window.Title,
			Class:           r.Window.ClassName,
			Process:         r.Window.ProcessName,
			PID:             r.Window.PID,
			State:           string(r.State),
			Action:          r.ActionTaken,
			CurrentPosition: r.Window.Bounds,
			Notes:           r.Notes,
		}
		if r.Plan.Target != nil {
			e.TargetPosition = &jsonTarget{X: r.Plan.Target.X, Y: r.Plan.Target.Y}
		}
		if r.Suspicious() {
			e.ConcernLevel = r.Assessment.Level
			e.ConcernScore = r.Assessment.Score
			e.ConcernReason = r.Assessment.Reason()
		}
		if r.Verdict.Trusted() {
			e.Trusted = true
			e.TrustSource = r.Verdict.Source
			e.TrustVerified = r.Verdict.Verified
			if r.Suppressed {
				e.WouldConcernLevel = r.Assessment.Level
				e.WouldConcernReason = r.Assessment.Reason()
			}
		}
		entries = append(entries, e)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}
