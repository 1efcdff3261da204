package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/brainstein/loghound/internal/analyze"
	"github.com/brainstein/loghound/internal/event"
)

const rule = "============================================================"
const thinRule = "  --------------------------------------------------------"

// successHitLimit caps the successful-lines listing in the search section;
// errors and warnings are always listed in full.
const successHitLimit = 20

// Meta carries run facts stamped into the report header. GeneratedAt is
// the only time-dependent input: the same aggregate and meta always render
// the same text.
type Meta struct {
	GeneratedAt time.Time
	BasePath    string
	Patterns    []string
	Threshold   int
	TopLimit    int
}

// Assemble renders the final report. It covers the full aggregate in every
// section regardless of the run's console verbosity, and never fails:
// a run with nothing parsed yields a valid near-empty report.
func Assemble(agg *analyze.Aggregate, meta Meta) string {
	var b strings.Builder

	header(&b, agg, meta)
	codeSection(&b, agg, event.Error, "[ERROR] ERRORS", "No errors detected.")
	codeSection(&b, agg, event.Warning, "[WARNING] WARNINGS", "No warnings detected.")
	codeSection(&b, agg, event.Success, "[SUCCESS] SUCCESSFUL OPERATIONS", "No successful operations recorded.")
	codeSection(&b, agg, event.Unknown, "[UNKNOWN] UNCLASSIFIED CODES", "No unclassified codes.")
	ipSection(&b, agg, meta)
	fileSection(&b, agg, meta)
	patternSection(&b, agg, meta)
	if len(meta.Patterns) > 0 {
		searchSection(&b, agg, meta)
	}
	skippedSection(&b, agg)

	b.WriteString("\n=== END OF REPORT ===\n")
	return b.String()
}

func header(b *strings.Builder, agg *analyze.Aggregate, meta Meta) {
	fmt.Fprintf(b, "%s\n    [LOGHOUND] - ANALYSIS SUMMARY\n%s\n\n", rule, rule)
	fmt.Fprintf(b, "Analysis date: %s\n", meta.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(b, "Scanned directory: %s\n", meta.BasePath)
	if len(meta.Patterns) > 0 {
		fmt.Fprintf(b, "Search patterns: %s\n", strings.Join(meta.Patterns, ", "))
	}
	fmt.Fprintf(b, "Files processed: %d\n", agg.Files)
	fmt.Fprintf(b, "Lines analyzed: %d\n", agg.Lines)
	fmt.Fprintf(b, "Events classified: %d\n\n", agg.Total())
}

func codeSection(b *strings.Builder, agg *analyze.Aggregate, cat event.Category, title, empty string) {
	fmt.Fprintf(b, "%s\n%s\n%s\n", rule, title, rule)

	tallies := agg.CodesFor(cat)
	if len(tallies) == 0 {
		fmt.Fprintf(b, "  [OK] %s\n\n", empty)
		return
	}
	for _, t := range tallies {
		fmt.Fprintf(b, "  %s - %s -> %d occurrences\n", t.Code, t.Description, t.Count)
	}
	b.WriteString("\n")
}

func ipSection(b *strings.Builder, agg *analyze.Aggregate, meta Meta) {
	fmt.Fprintf(b, "%s\n[NETWORK] IPs WITH MOST ACTIVITY (Top %d)\n%s\n", rule, meta.TopLimit, rule)
	top := agg.TopIPs(meta.TopLimit)
	if len(top) == 0 {
		b.WriteString("  No source IPs recorded.\n")
	}
	for _, c := range top {
		fmt.Fprintf(b, "  %s -> %d events\n", c.Key, c.N)
	}
	b.WriteString("\n")
}

func fileSection(b *strings.Builder, agg *analyze.Aggregate, meta Meta) {
	fmt.Fprintf(b, "%s\n[FILES] MOST TRANSFERRED FILES (Top %d)\n%s\n", rule, meta.TopLimit, rule)
	top := agg.TopFiles(meta.TopLimit)
	if len(top) == 0 {
		b.WriteString("  No transfers recorded.\n")
	}
	for _, c := range top {
		fmt.Fprintf(b, "  %s -> %d transfers\n", c.Key, c.N)
	}
	b.WriteString("\n")
}

func patternSection(b *strings.Builder, agg *analyze.Aggregate, meta Meta) {
	fmt.Fprintf(b, "%s\n[PATTERNS] DETECTED PATTERNS\n%s\n", rule, rule)

	suspicious := agg.SuspiciousIPs(meta.Threshold)
	if len(suspicious) == 0 {
		b.WriteString("  [OK] No suspicious IPs detected.\n\n")
		return
	}
	fmt.Fprintf(b, "[ALERT] Suspicious IPs due to abnormal activity (>=%d events):\n", meta.Threshold)
	for _, c := range suspicious {
		fmt.Fprintf(b, "  * %s (%d events)\n", c.Key, c.N)
	}
	b.WriteString("\n")
}

func searchSection(b *strings.Builder, agg *analyze.Aggregate, meta Meta) {
	fmt.Fprintf(b, "%s\n[SEARCH] SEARCH: %s\n%s\n", rule, strings.Join(meta.Patterns, ", "), rule)

	errors := agg.Hits[event.Error]
	warnings := agg.Hits[event.Warning]
	successes := append(append([]analyze.Hit{}, agg.Hits[event.Success]...), agg.Hits[event.Unknown]...)

	total := len(errors) + len(warnings) + len(successes)
	if total == 0 {
		b.WriteString("  No matches found.\n\n")
		return
	}

	fmt.Fprintf(b, "  Total matches: %d\n", total)
	fmt.Fprintf(b, "    * With ERRORS: %d\n", len(errors))
	fmt.Fprintf(b, "    * With WARNINGS: %d\n", len(warnings))
	fmt.Fprintf(b, "    * Successful: %d\n\n", len(successes))

	hitGroup(b, "[ERROR] LINES WITH ERRORS:", errors, 0)
	hitGroup(b, "[WARNING] LINES WITH WARNINGS:", warnings, 0)
	hitGroup(b, fmt.Sprintf("[SUCCESS] LINES WITHOUT ERRORS (showing first %d):", successHitLimit), successes, successHitLimit)
}

func hitGroup(b *strings.Builder, title string, hits []analyze.Hit, limit int) {
	if len(hits) == 0 {
		return
	}
	fmt.Fprintf(b, "%s\n  %s\n%s\n", thinRule, title, thinRule)

	shown := hits
	if limit > 0 && len(hits) > limit {
		shown = hits[:limit]
	}
	for _, h := range shown {
		fmt.Fprintf(b, "\n  [%s] %s:%d\n", h.Pattern, h.Event.Source, h.Event.Line)
		fmt.Fprintf(b, "    CODE %s: %s\n", h.Event.Code, h.Event.Description)
		fmt.Fprintf(b, "    -> %s\n", h.Event.Raw)
	}
	if limit > 0 && len(hits) > limit {
		fmt.Fprintf(b, "\n  ... and %d more successful operations.\n", len(hits)-limit)
	}
	b.WriteString("\n")
}

func skippedSection(b *strings.Builder, agg *analyze.Aggregate) {
	if len(agg.Skipped) == 0 {
		return
	}
	fmt.Fprintf(b, "%s\n[SKIPPED] FILES NOT READ\n%s\n", rule, rule)
	for _, s := range agg.Skipped {
		fmt.Fprintf(b, "  %s (%s)\n", s.Path, s.Reason)
	}
	b.WriteString("\n")
}
