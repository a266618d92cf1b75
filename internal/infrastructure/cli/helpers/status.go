package helpers

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/doeshing/ronde/internal/application/monitor"
	"github.com/doeshing/ronde/internal/domain"
)

var (
	okColor   = color.New(color.FgGreen)
	errColor  = color.New(color.FgRed, color.Bold)
	dimColor  = color.New(color.Faint)
	warnColor = color.New(color.FgYellow)
)

// RenderSummary prints the headline of a run or a history.
func RenderSummary(out io.Writer, summary domain.Summary) {
	if summary.Healthy() {
		okColor.Fprintf(out, "✔ All systems operational (%d/%d)\n", summary.OK, summary.Total())
		return
	}
	plural := "s"
	if summary.Failing == 1 {
		plural = ""
	}
	errColor.Fprintf(out, "⚠ %d probe%s failing (%d/%d ok)\n", summary.Failing, plural, summary.OK, summary.Total())
}

// RenderReport prints the outcome of one run.
func RenderReport(out io.Writer, report monitor.Report) {
	RenderSummary(out, report.Summary)
	for _, r := range report.Results {
		if !r.Outcome.IsFailure() {
			continue
		}
		errColor.Fprintf(out, "  ✘ %s", r.Name)
		fmt.Fprintf(out, ": %s\n", firstLine(r.Outcome.String()))
	}
	for _, n := range report.Notified {
		warnColor.Fprintf(out, "  ✉ %s\n", n.Title)
	}
	dimColor.Fprintf(out, "run %s\n", report.RunID)
}

// RenderHistory prints one line per probe: status, bar of buckets and the
// age of the newest entry relative to now.
func RenderHistory(out io.Writer, history *domain.History, now time.Time) {
	RenderSummary(out, history.SummaryFromLatest())
	width := 0
	for _, p := range history.Probes {
		width = max(width, len(p.Name))
	}
	for i := range history.Probes {
		p := &history.Probes[i]
		last, ok := p.Latest()
		switch {
		case !ok:
			dimColor.Fprintf(out, "? %-*s  no entries\n", width, p.Name)
			continue
		case last.IsFailure():
			errColor.Fprintf(out, "✘ %-*s", width, p.Name)
		default:
			okColor.Fprintf(out, "✔ %-*s", width, p.Name)
		}
		fmt.Fprintf(out, "  %s  %s, %s\n",
			Bar(p.Entries),
			humanize.RelTime(last.Timestamp, now, "ago", "from now"),
			entryCount(len(p.Entries)))
	}
}

// Bar renders every entry as its coloured tag label.
func Bar(entries []domain.HistoryEntry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte(' ')
		}
		if e.IsFailure() {
			b.WriteString(errColor.Sprint(e.Tag.Label()))
		} else {
			b.WriteString(okColor.Sprint(e.Tag.Label()))
		}
	}
	return b.String()
}

func entryCount(n int) string {
	if n == 1 {
		return "1 entry"
	}
	return humanize.Comma(int64(n)) + " entries"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
