package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/brainstein/loghound/internal/event"
	"github.com/brainstein/loghound/internal/taxonomy"
)

// Parser converts one raw log line into a classified Event. The second
// return value is false when the line is malformed or carries no code;
// such lines are skipped and never counted.
type Parser interface {
	Parse(raw, source string, line int) (event.Event, bool)
}

// ForDialect returns the parser for a file's declared dialect.
func ForDialect(d event.Dialect, cat *taxonomy.Catalog) Parser {
	if d == event.DialectCL {
		return &CLParser{cat: cat}
	}
	return &EXParser{cat: cat}
}

var (
	dateRe = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`)
	ipRe   = regexp.MustCompile(`\b(\d{1,3}(?:\.\d{1,3}){3})\b`)
	pathRe = regexp.MustCompile(`/[\w\-/.+]+`)
)

const timeLayout = "2006-01-02 15:04:05"

// ---------------------------------------------------------------------------
// CL parser (semicolon-delimited transfer records)
// ---------------------------------------------------------------------------

// CLParser handles CL logs:
//
//	Time; Protocol; Host; Port; User; LocalPath; RemotePath; Operation; RESULT_CODE;
//
// Field 8 is the result code: 0 on success, an FTP reply code or a Winsock
// error otherwise.
type CLParser struct {
	cat *taxonomy.Catalog
}

func (p *CLParser) Parse(raw, source string, line int) (event.Event, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return event.Event{}, false
	}

	fields := strings.Split(trimmed, ";")
	if len(fields) < 9 {
		return event.Event{}, false
	}

	token := strings.TrimSpace(fields[8])
	code, err := strconv.Atoi(token)
	if err != nil {
		return event.Event{}, false
	}

	return classify(p.cat, event.DialectCL, code, token, trimmed, source, line), true
}

// ---------------------------------------------------------------------------
// EX parser (free-text W3C/FTP protocol lines)
// ---------------------------------------------------------------------------

// EXParser handles EX logs: space-separated free text with an embedded
// 3-to-5-digit reply code and possible Winsock error annotation.
type EXParser struct {
	cat *taxonomy.Catalog
}

func (p *EXParser) Parse(raw, source string, line int) (event.Event, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return event.Event{}, false
	}

	token, code, ok := extractCode(trimmed)
	if !ok {
		return event.Event{}, false
	}

	return classify(p.cat, event.DialectEX, code, token, trimmed, source, line), true
}

// extractCode finds the first standalone 3-to-5-digit token in the line.
// Digit runs embedded in dates, IPs, ranges, or identifiers are rejected by
// checking the characters adjacent to the run, and values of 100000 and up
// (session IDs) are ignored.
func extractCode(line string) (string, int, bool) {
	for i := 0; i < len(line); {
		if !isDigit(line[i]) {
			i++
			continue
		}
		j := i
		for j < len(line) && isDigit(line[j]) {
			j++
		}
		runLen := j - i
		if runLen >= 3 && runLen <= 5 && cleanBoundary(line, i, j) {
			code, err := strconv.Atoi(line[i:j])
			if err == nil && code < 100000 {
				return line[i:j], code, true
			}
		}
		i = j
	}
	return "", 0, false
}

func cleanBoundary(line string, start, end int) bool {
	if start > 0 && !isSeparator(line[start-1]) {
		return false
	}
	if end < len(line) && !isSeparator(line[end]) {
		return false
	}
	return true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// isSeparator reports whether b may border a standalone code token.
// Colons, dots, and dashes bind digits into timestamps, IPs, and ranges.
func isSeparator(b byte) bool {
	if isDigit(b) || b == ':' || b == '.' || b == '-' || b == '_' {
		return false
	}
	if (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') {
		return false
	}
	return true
}

// ---------------------------------------------------------------------------
// Shared field extraction
// ---------------------------------------------------------------------------

func classify(cat *taxonomy.Catalog, d event.Dialect, code int, token, raw, source string, line int) event.Event {
	// Winsock errors ride inside CL and EX lines but live in their own
	// code space.
	if code >= 10000 {
		d = event.DialectWinsock
	}

	category, desc := cat.Resolve(d, code)

	return event.Event{
		Timestamp:   extractTime(raw),
		Dialect:     d,
		Code:        token,
		Category:    category,
		Description: desc,
		SourceIP:    extractIP(raw),
		Filename:    extractPath(raw),
		Raw:         raw,
		Source:      source,
		Line:        line,
	}
}

func extractTime(raw string) time.Time {
	m := dateRe.FindStringSubmatch(raw)
	if m == nil {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, m[1])
	if err != nil {
		return time.Time{}
	}
	return t
}

func extractIP(raw string) string {
	return ipRe.FindString(raw)
}

func extractPath(raw string) string {
	return pathRe.FindString(raw)
}
