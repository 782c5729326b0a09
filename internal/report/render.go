// Package report renders a gather pass for the terminal: a wrapped
// column table with per-window flag lines, or JSON for scripting.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dazzletools/wingather/internal/concern"
	"github.com/dazzletools/wingather/internal/domain"
	"github.com/dazzletools/wingather/internal/usecase"
)

// column is one table column: header label, width, gap to the next
// column, and alignment. An empty label renders blank in the header and
// separator rows (used for the [!N] flag prefix).
type column struct {
	label      string
	width      int
	gap        int
	rightAlign bool
}

func columnsFor(showTarget bool) []column {
	cols := []column{
		{"", 4, 1, false},
		{"HWND", 10, 2, true},
		{"PID", 7, 2, true},
		{"STATE", 12, 2, false},
	}
	if showTarget {
		cols = append(cols,
			column{"ACTION", 28, 2, false},
			column{"CURRENT POS", 22, 2, false},
			column{"TARGET POS", 14, 2, false},
		)
	} else {
		cols = append(cols, column{"ACTION", 12, 2, false})
	}
	return append(cols,
		column{"PROCESS", 24, 2, false},
		column{"TITLE", 35, 0, false},
	)
}

// renderWrapped lays cells out at their column start positions. When a
// cell overflows past the next column's start, the remaining cells wrap
// to a new line at their correct positions.
func renderWrapped(starts []int, cells []string) string {
	var lines []string
	line := ""
	for i, cell := range cells {
		start := starts[i]
		if len(line) > start && strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimRight(line, " "))
			line = strings.Repeat(" ", start) + cell
			continue
		}
		if pad := start - len(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		line += cell
	}
	if strings.TrimSpace(line) != "" {
		lines = append(lines, strings.TrimRight(line, " "))
	}
	return strings.Join(lines, "\n")
}

func alignCell(c column, text string) string {
	if c.rightAlign {
		return fmt.Sprintf("%*s", c.width, text)
	}
	return fmt.Sprintf("%-*s", c.width, text)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func modeHeader(mode string) string {
	switch mode {
	case usecase.ModeList:
		return "DISCOVERED"
	case usecase.ModeDryRun:
		return "DRY RUN"
	case usecase.ModeLive:
		return "GATHERED"
	}
	return "WINDOWS"
}

// Table writes the human-readable report: header, wrapped column rows
// with flag lines, action summary, flag summary, and the
// trusted-suppressed section.
func Table(w io.Writer, rep *domain.GatherReport) {
	results := rep.Results
	if len(results) == 0 {
		fmt.Fprintln(w, "No windows found.")
		return
	}

	showTarget := rep.Mode != usecase.ModeList

	fmt.Fprintf(w, "\n  %s: %d window(s)\n", modeHeader(rep.Mode), len(results))
	if rep.Mode == usecase.ModeDryRun {
		fmt.Fprintf(w, "  (no windows will be moved)\n\n")
	} else {
		fmt.Fprintln(w)
	}

	cols := columnsFor(showTarget)
	starts := make([]int, len(cols))
	pos := 0
	for i, c := range cols {
		starts[i] = pos
		pos += c.width + c.gap
	}

	hdr := make([]string, len(cols))
	sep := make([]string, len(cols))
	for i, c := range cols {
		if c.label == "" {
			hdr[i] = strings.Repeat(" ", c.width)
			sep[i] = strings.Repeat(" ", c.width)
			continue
		}
		hdr[i] = alignCell(c, c.label)
		sep[i] = strings.Repeat("-", c.width)
	}
	fmt.Fprintln(w, renderWrapped(starts, hdr))
	fmt.Fprintln(w, renderWrapped(starts, sep))

	for _, r := range results {
		fmt.Fprintln(w, renderWrapped(starts, rowCells(r, rep.Mode, showTarget)))
		if r.Suspicious() {
			fmt.Fprintf(w, "      ** %s %d: %s\n",
				r.Assessment.Label, r.Assessment.Level, r.Assessment.Reason())
		}
		for _, note := range r.Notes {
			fmt.Fprintf(w, "      !! %s\n", note)
		}
	}
	fmt.Fprintln(w)

	printSummary(w, rep)
	printSuppressed(w, results)
	fmt.Fprintln(w)
}

func rowCells(r *domain.Result, mode string, showTarget bool) []string {
	action := r.ActionTaken
	if action == "" {
		if mode == usecase.ModeList {
			action = "--"
		} else {
			action = "skipped"
		}
	}
	title := truncate(r.Window.Title, 50)
	if title == "" {
		title = "<untitled>"
	}
	proc := truncate(r.Window.ProcessName, 20)
	if proc == "" {
		proc = "<unknown>"
	}
	flag := "    "
	if r.Suspicious() {
		flag = fmt.Sprintf("[!%d]", r.Assessment.Level)
	}

	cells := []string{
		flag,
		fmt.Sprintf("%10d", r.Window.Handle),
		fmt.Sprintf("%7d", r.Window.PID),
		string(r.State),
	}
	if showTarget {
		b := r.Window.Bounds
		cur := fmt.Sprintf("(%d,%d) %dx%d", b.X, b.Y, b.Width, b.Height)
		tgt := ""
		if r.Plan.Target != nil {
			tgt = fmt.Sprintf("-> (%d,%d)", r.Plan.Target.X, r.Plan.Target.Y)
		}
		cells = append(cells, action, cur, tgt)
	} else {
		cells = append(cells, action)
	}
	return append(cells, proc, title)
}

func printSummary(w io.Writer, rep *domain.GatherReport) {
	if rep.Mode != usecase.ModeList {
		actions := make(map[string]int)
		for _, r := range rep.Results {
			a := r.ActionTaken
			if a == "" {
				a = "skipped"
			}
			actions[a]++
		}
		keys := make([]string, 0, len(actions))
		for k := range actions {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%d %s", actions[k], k)
		}
		fmt.Fprintf(w, "  Summary: %s\n", strings.Join(parts, ", "))
	}

	var flagged []*domain.Result
	for _, r := range rep.Results {
		if r.Suspicious() {
			flagged = append(flagged, r)
		}
	}
	if len(flagged) == 0 {
		return
	}
	byLevel := make(map[int]int)
	for _, r := range flagged {
		byLevel[r.Assessment.Level]++
	}
	levels := make([]int, 0, len(byLevel))
	for l := range byLevel {
		levels = append(levels, l)
	}
	sort.Ints(levels)
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = fmt.Sprintf("%dx level %d", byLevel[l], l)
	}
	fmt.Fprintf(w, "  Flagged: %d window(s) (%s)\n", len(flagged), strings.Join(parts, ", "))
	fmt.Fprintln(w, "  Scale: 1=highest concern, 5=informational.")
}

// printSuppressed lists trusted windows whose flagging was suppressed,
// with the level they would have carried, so the skips are auditable.
func printSuppressed(w io.Writer, results []*domain.Result) {
	var trusted []*domain.Result
	for _, r := range results {
		if r.Suppressed {
			trusted = append(trusted, r)
		}
	}
	if len(trusted) == 0 {
		return
	}

	fmt.Fprintf(w, "\n  Trusted (flagging suppressed): %d window(s)\n", len(trusted))
	for _, r := range trusted {
		proc := truncate(r.Window.ProcessName, 24)
		if proc == "" {
			proc = "<unknown>"
		}
		badge := r.Verdict.Source
		if r.Verdict.Verified != "" {
			badge += ", " + verifiedLabel(r.Verdict.Verified)
		}
		fmt.Fprintf(w, "    %-24s would be [!%d] %s: %s  [%s]\n",
			proc,
			r.Assessment.Level,
			concern.LabelFor(r.Assessment.Level),
			r.Assessment.Reason(),
			badge)
	}
	fmt.Fprintln(w, "  Use --no-default-trust to flag these windows too.")
}

func verifiedLabel(verified string) string {
	if verified == "vendor" {
		return "vendor-signed"
	}
	return verified
}

// ShowHiddenBanner explains what revealing hidden windows means and how
// to reverse it. Printed before a --show-hidden pass.
func ShowHiddenBanner(w io.Writer, gatherAll bool) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  NOTE: Hidden windows are typically system internals (GDI+ surfaces,")
	fmt.Fprintln(w, "  DDE handlers, .NET event pumps) with no user interface. They are")
	fmt.Fprintln(w, "  hidden because they serve background functions. Use --undo to reverse.")
	if gatherAll {
		fmt.Fprintf(w, "  Mode: showing ALL hidden windows.\n\n")
	} else {
		fmt.Fprintf(w, "  Mode: suspicious hidden windows only. Use --all to reveal all.\n\n")
	}
}
