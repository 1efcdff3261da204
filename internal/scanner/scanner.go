package scanner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/brainstein/loghound/internal/analyze"
	"github.com/brainstein/loghound/internal/config"
	"github.com/brainstein/loghound/internal/event"
	"github.com/brainstein/loghound/internal/parser"
	"github.com/brainstein/loghound/internal/taxonomy"
)

// Echo receives live per-line output during the scan. What reaches Event
// already passed the verbosity filter; aggregation is unaffected either way.
type Echo interface {
	Event(ev event.Event)
	SearchHit(pattern string, ev event.Event)
	FileSkipped(path string, reason string)
}

// NopEcho discards all live output.
type NopEcho struct{}

func (NopEcho) Event(event.Event)             {}
func (NopEcho) SearchHit(string, event.Event) {}
func (NopEcho) FileSkipped(string, string)    {}

// FileRef is one discovered log file with its inferred dialect.
type FileRef struct {
	Path    string
	Dialect event.Dialect
}

// Scanner walks the log corpus and feeds every line through the
// classify-filter-aggregate pipeline.
type Scanner struct {
	cfg     *config.Config
	cat     *taxonomy.Catalog
	matcher *analyze.Matcher
	level   analyze.Level
	echo    Echo
	log     zerolog.Logger

	since, until time.Time
}

func New(cfg *config.Config, cat *taxonomy.Catalog, matcher *analyze.Matcher, level analyze.Level, echo Echo, log zerolog.Logger) *Scanner {
	if echo == nil {
		echo = NopEcho{}
	}
	return &Scanner{cfg: cfg, cat: cat, matcher: matcher, level: level, echo: echo, log: log}
}

// SetTimeRange restricts counting to events stamped within [since, until).
// Events whose line carried no parseable date are always counted.
func (s *Scanner) SetTimeRange(since, until time.Time) {
	s.since, s.until = since, until
}

// Run scans every discovered file and returns the full aggregate. Per-file
// read failures are recorded in the aggregate and do not abort the run;
// only a failure to enumerate the corpus itself is returned as an error.
func (s *Scanner) Run(ctx context.Context) (*analyze.Aggregate, error) {
	agg := analyze.NewAggregate()

	files, err := s.Discover(agg)
	if err != nil {
		return nil, err
	}

	for _, ref := range files {
		select {
		case <-ctx.Done():
			return agg, ctx.Err()
		default:
		}
		s.scanFile(ref, agg)
	}
	return agg, nil
}

// Discover walks the base path and returns every file matching the
// configured extensions and log-type patterns, with its dialect. Unreadable
// subtrees are noted on the aggregate and skipped.
func (s *Scanner) Discover(agg *analyze.Aggregate) ([]FileRef, error) {
	info, err := os.Stat(s.cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", s.cfg.BasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scanning %s: not a directory", s.cfg.BasePath)
	}

	var refs []FileRef
	walkErr := filepath.WalkDir(s.cfg.BasePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			agg.NoteSkipped(path, err.Error())
			s.echo.FileSkipped(path, err.Error())
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		name := strings.ToLower(d.Name())
		if !s.matchesExtension(name) {
			return nil
		}
		dialect, ok := s.matchesLogType(name)
		if !ok {
			return nil
		}
		refs = append(refs, FileRef{Path: path, Dialect: dialect})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("scanning %s: %w", s.cfg.BasePath, walkErr)
	}
	return refs, nil
}

func (s *Scanner) matchesExtension(name string) bool {
	for _, ext := range s.cfg.Extensions {
		pat := "*" + strings.ToLower(ext)
		if ok, err := doublestar.Match(pat, name); err == nil && ok {
			return true
		}
	}
	return false
}

// Log-type filename markers: CL logs are cl[yymmdd].log, EX logs are
// u_ex[yymmdd].log, TED6 client logs are [stamp]-#_u.log. TED6 lines are
// free text and share the EX parser.
func (s *Scanner) matchesLogType(name string) (event.Dialect, bool) {
	enabled := func(t string) bool {
		for _, lt := range s.cfg.LogTypes {
			u := strings.ToUpper(lt)
			if u == "ALL" || u == t {
				return true
			}
		}
		return false
	}

	switch {
	case strings.Contains(name, "u_ex"):
		return event.DialectEX, enabled("EX")
	case strings.Contains(name, "_u."):
		return event.DialectEX, enabled("TED6")
	case strings.Contains(name, "cl"):
		return event.DialectCL, enabled("CL")
	}
	return "", false
}

func (s *Scanner) scanFile(ref FileRef, agg *analyze.Aggregate) {
	f, err := os.Open(ref.Path)
	if err != nil {
		agg.NoteSkipped(ref.Path, err.Error())
		s.echo.FileSkipped(ref.Path, err.Error())
		return
	}
	defer f.Close()

	r, err := decodeReader(f)
	if err != nil {
		agg.NoteSkipped(ref.Path, err.Error())
		s.echo.FileSkipped(ref.Path, err.Error())
		return
	}

	p := parser.ForDialect(ref.Dialect, s.cat)
	agg.Files++

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		agg.Lines++

		ev, ok := p.Parse(sc.Text(), ref.Path, lineNo)
		if !ok {
			continue
		}
		if !s.inRange(ev.Timestamp) {
			continue
		}
		if ev.Category == event.Unknown {
			s.log.Debug().Str("file", ref.Path).Int("line", lineNo).Str("code", ev.Code).Msg("unknown code")
		}

		matched := s.matcher.Match(ev)
		agg.Ingest(ev, matched)

		if matched != "" {
			s.echo.SearchHit(matched, ev)
		} else if analyze.Visible(ev.Category, s.level) {
			s.echo.Event(ev)
		}
	}
	if err := sc.Err(); err != nil {
		agg.NoteSkipped(ref.Path, err.Error())
		s.echo.FileSkipped(ref.Path, err.Error())
	}
}

// inRange applies the optional time window. Events without a timestamp are
// always in range: a line with an unparseable date still counts.
func (s *Scanner) inRange(ts time.Time) bool {
	if ts.IsZero() {
		return true
	}
	if !s.since.IsZero() && ts.Before(s.since) {
		return false
	}
	if !s.until.IsZero() && !ts.Before(s.until) {
		return false
	}
	return true
}

// decodeReader detects the file encoding and returns a UTF-8 reader.
// Windows CL logs are UTF-16LE (usually with a BOM); everything else is
// UTF-8 with a Latin-1 fallback.
func decodeReader(f *os.File) (io.Reader, error) {
	br := bufio.NewReader(f)

	head, err := br.Peek(1024)
	if err != nil && err != io.EOF {
		return nil, err
	}

	if isUTF16LE(head) {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, dec), nil
	}
	// The peek may split a multibyte rune at the end; trim up to three
	// trailing bytes before judging validity.
	trimmed := head
	for i := 0; i < 3 && len(trimmed) > 0 && !utf8.Valid(trimmed); i++ {
		trimmed = trimmed[:len(trimmed)-1]
	}
	if utf8.Valid(trimmed) {
		return br, nil
	}
	return transform.NewReader(br, charmap.ISO8859_1.NewDecoder()), nil
}

func isUTF16LE(head []byte) bool {
	if len(head) >= 2 && head[0] == 0xFF && head[1] == 0xFE {
		return true
	}
	// No BOM: ASCII text encoded as UTF-16LE has a NUL in every odd byte.
	if len(head) < 4 {
		return false
	}
	zeros := 0
	for i := 1; i < len(head); i += 2 {
		if head[i] == 0x00 {
			zeros++
		}
	}
	return zeros*3 >= len(head) // over two thirds of odd bytes are NUL
}
