package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/brainstein/loghound/internal/analyze"
	"github.com/brainstein/loghound/internal/event"
)

const unknownDate = "????-??-?? ??:??:??"

var (
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))             // green
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))            // yellow
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true) // red bold
	styleUnknown = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))            // gray
	styleSearch  = lipgloss.NewStyle().Foreground(lipgloss.Color("201"))            // magenta
	styleHeader  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))             // cyan
	styleMuted   = lipgloss.NewStyle().Faint(true)
)

// Renderer prints live scan output to the terminal. It implements the
// scanner's Echo interface.
type Renderer struct {
	w       io.Writer
	noColor bool
}

func New(w io.Writer, noColor bool) *Renderer {
	return &Renderer{w: w, noColor: noColor}
}

func (r *Renderer) paint(s lipgloss.Style, text string) string {
	if r.noColor {
		return text
	}
	return s.Render(text)
}

func (r *Renderer) categoryStyle(cat event.Category) lipgloss.Style {
	switch cat {
	case event.Success:
		return styleSuccess
	case event.Warning:
		return styleWarning
	case event.Error:
		return styleError
	default:
		return styleUnknown
	}
}

// Event prints one classified line that passed the verbosity filter.
func (r *Renderer) Event(ev event.Event) {
	date := unknownDate
	if !ev.Timestamp.IsZero() {
		date = ev.Timestamp.Format("2006-01-02 15:04:05")
	}
	code := r.paint(r.categoryStyle(ev.Category), "CODE="+ev.Code)
	fmt.Fprintf(r.w, "[%s] %s:%d  %s %s\n", date, ev.Source, ev.Line, code, ev.Description)
}

// SearchHit prints one search-matched line, truncated like a grep preview.
func (r *Renderer) SearchHit(pattern string, ev event.Event) {
	preview := ev.Raw
	if len(preview) > 80 {
		preview = preview[:80] + "..."
	}
	tag := r.paint(styleSearch, fmt.Sprintf("[SEARCH: %s]", pattern))
	fmt.Fprintf(r.w, "%s %s:%d -> %s\n", tag, ev.Source, ev.Line, preview)
}

// FileSkipped reports a file the scan could not read.
func (r *Renderer) FileSkipped(path, reason string) {
	fmt.Fprintf(r.w, "%s %s: %s\n", r.paint(styleError, "[SKIP]"), path, reason)
}

// Summary prints the post-scan totals and the report location.
func (r *Renderer) Summary(agg *analyze.Aggregate, reportPath string) {
	fmt.Fprintf(r.w, "\n%s\n", r.paint(styleHeader, "[OK] Scan completed:"))
	fmt.Fprintf(r.w, "  * Files processed: %d\n", agg.Files)
	fmt.Fprintf(r.w, "  * Lines analyzed: %d\n", agg.Lines)
	fmt.Fprintf(r.w, "  * Events classified: %d\n", agg.Total())
	if n := agg.HitCount(); n > 0 {
		fmt.Fprintf(r.w, "  * Search matches: %d\n", n)
	}
	if len(agg.Skipped) > 0 {
		fmt.Fprintf(r.w, "  * Files skipped: %d\n", len(agg.Skipped))
	}
	if reportPath != "" {
		fmt.Fprintf(r.w, "  Report: %s\n", reportPath)
	}
}

var hound = []string{
	`      / \__`,
	`     (    @\___`,
	`     /         O`,
	`   /   (_____/`,
	`  /_____/   U`,
}

// Banner prints the startup header.
func (r *Renderer) Banner(version string) {
	divider := r.paint(styleHeader, "============================================================")
	fmt.Fprintln(r.w, divider)
	for _, line := range hound {
		fmt.Fprintln(r.w, r.paint(styleWarning, line))
	}
	fmt.Fprintf(r.w, "\n%s %s\n", r.paint(styleHeader, "LOGHOUND"), r.paint(styleMuted, version))
	fmt.Fprintln(r.w, "  EFT/SFTP log analyzer: errors, warnings, suspicious IPs")
	fmt.Fprintln(r.w, divider)
}
