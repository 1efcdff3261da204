package analyze

import (
	"sort"

	"github.com/brainstein/loghound/internal/event"
)

// CodeTally is the per-code occurrence count within one category.
type CodeTally struct {
	Code        string
	Category    event.Category
	Description string
	Count       int
}

// Hit is one search-matched event, kept in insertion order for the report.
type Hit struct {
	Pattern string
	Event   event.Event
}

// SkippedFile records a log file the run could not read.
type SkippedFile struct {
	Path   string
	Reason string
}

// Count is a (key, count) pair used for IP and filename rankings.
type Count struct {
	Key string
	N   int
}

// codeKey separates tallies for the same numeric code landing in different
// categories (226 is a success in EX logs but an error as a CL result code).
type codeKey struct {
	Code     string
	Category event.Category
}

// Aggregate is the run's accumulated state. It has a single writer during
// the scan and is read by the report assembler afterwards; no operation
// ever decrements it.
type Aggregate struct {
	ByCategory map[event.Category]int
	ByCode     map[codeKey]*CodeTally
	ByIP       map[string]int
	ByFile     map[string]int
	Hits       map[event.Category][]Hit

	Files   int
	Lines   int
	Skipped []SkippedFile
}

func NewAggregate() *Aggregate {
	return &Aggregate{
		ByCategory: make(map[event.Category]int),
		ByCode:     make(map[codeKey]*CodeTally),
		ByIP:       make(map[string]int),
		ByFile:     make(map[string]int),
		Hits:       make(map[event.Category][]Hit),
	}
}

// Ingest folds one classified event into the aggregate. matchedPattern is
// the search pattern the event matched, or "" for none.
func (a *Aggregate) Ingest(ev event.Event, matchedPattern string) {
	a.ByCategory[ev.Category]++

	k := codeKey{Code: ev.Code, Category: ev.Category}
	t := a.ByCode[k]
	if t == nil {
		t = &CodeTally{Code: ev.Code, Category: ev.Category, Description: ev.Description}
		a.ByCode[k] = t
	}
	t.Count++

	if ev.SourceIP != "" {
		a.ByIP[ev.SourceIP]++
	}
	if ev.IsTransfer() {
		a.ByFile[ev.Filename]++
	}
	if matchedPattern != "" {
		a.Hits[ev.Category] = append(a.Hits[ev.Category], Hit{Pattern: matchedPattern, Event: ev})
	}
}

// NoteSkipped records a file that could not be read; the scan continues.
func (a *Aggregate) NoteSkipped(path, reason string) {
	a.Skipped = append(a.Skipped, SkippedFile{Path: path, Reason: reason})
}

// Total is the number of classified events, equal to the sum over
// category counts.
func (a *Aggregate) Total() int {
	n := 0
	for _, c := range a.ByCategory {
		n += c
	}
	return n
}

// HitCount is the total number of search-matched events.
func (a *Aggregate) HitCount() int {
	n := 0
	for _, hs := range a.Hits {
		n += len(hs)
	}
	return n
}

// Merge folds a partial aggregate into this one. Category, IP, and file
// counts sum; hit sequences and skipped files concatenate in argument order.
func (a *Aggregate) Merge(b *Aggregate) {
	for k, v := range b.ByCategory {
		a.ByCategory[k] += v
	}
	for k, v := range b.ByCode {
		t := a.ByCode[k]
		if t == nil {
			t = &CodeTally{Code: v.Code, Category: v.Category, Description: v.Description}
			a.ByCode[k] = t
		}
		t.Count += v.Count
	}
	for k, v := range b.ByIP {
		a.ByIP[k] += v
	}
	for k, v := range b.ByFile {
		a.ByFile[k] += v
	}
	for cat, hs := range b.Hits {
		a.Hits[cat] = append(a.Hits[cat], hs...)
	}
	a.Files += b.Files
	a.Lines += b.Lines
	a.Skipped = append(a.Skipped, b.Skipped...)
}

// SuspiciousIPs returns the IPs whose event count meets or exceeds the
// threshold, ordered by count descending, ties broken by IP ascending.
func (a *Aggregate) SuspiciousIPs(threshold int) []Count {
	var out []Count
	for ip, n := range a.ByIP {
		if n >= threshold {
			out = append(out, Count{Key: ip, N: n})
		}
	}
	sortCounts(out)
	return out
}

// TopIPs returns up to n IPs by event count, count descending then key
// ascending.
func (a *Aggregate) TopIPs(n int) []Count {
	return topN(a.ByIP, n)
}

// TopFiles returns up to n transferred files by transfer count.
func (a *Aggregate) TopFiles(n int) []Count {
	return topN(a.ByFile, n)
}

// CodesFor returns the per-code tallies for one category, count descending
// then code ascending.
func (a *Aggregate) CodesFor(cat event.Category) []*CodeTally {
	var out []*CodeTally
	for _, t := range a.ByCode {
		if t.Category == cat {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Code < out[j].Code
	})
	return out
}

func topN(m map[string]int, n int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Key: k, N: v})
	}
	sortCounts(out)
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func sortCounts(cs []Count) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].N != cs[j].N {
			return cs[i].N > cs[j].N
		}
		return cs[i].Key < cs[j].Key
	})
}
