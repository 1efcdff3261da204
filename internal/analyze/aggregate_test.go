package analyze

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainstein/loghound/internal/event"
)

func ev(cat event.Category, code, ip, file string) event.Event {
	return event.Event{
		Category: cat,
		Code:     code,
		SourceIP: ip,
		Filename: file,
		Raw:      fmt.Sprintf("%s %s %s %s", cat, code, ip, file),
	}
}

func TestAggregate_CategorySumEqualsTotal(t *testing.T) {
	agg := NewAggregate()

	events := []event.Event{
		ev(event.Success, "0", "10.0.0.1", "/a.csv"),
		ev(event.Warning, "331", "10.0.0.1", ""),
		ev(event.Error, "550", "10.0.0.2", "/b.csv"),
		ev(event.Error, "550", "", ""),
		ev(event.Unknown, "799", "", ""),
	}
	for _, e := range events {
		agg.Ingest(e, "")
	}

	assert.Equal(t, len(events), agg.Total())
	sum := agg.ByCategory[event.Success] + agg.ByCategory[event.Warning] +
		agg.ByCategory[event.Error] + agg.ByCategory[event.Unknown]
	assert.Equal(t, len(events), sum)
}

func TestAggregate_OptionalFieldsExcludedFromBreakdowns(t *testing.T) {
	agg := NewAggregate()
	agg.Ingest(ev(event.Error, "550", "", ""), "")

	assert.Equal(t, 1, agg.Total())
	assert.Empty(t, agg.ByIP)
	assert.Empty(t, agg.ByFile)
}

func TestAggregate_TransfersCountPerFile(t *testing.T) {
	agg := NewAggregate()
	agg.Ingest(ev(event.Success, "0", "10.0.0.1", "/in/a.csv"), "")
	agg.Ingest(ev(event.Success, "0", "10.0.0.2", "/in/a.csv"), "")
	agg.Ingest(ev(event.Error, "550", "10.0.0.1", "/in/b.csv"), "")

	assert.Equal(t, 2, agg.ByFile["/in/a.csv"])
	assert.Equal(t, 1, agg.ByFile["/in/b.csv"])
}

func TestAggregate_SearchHitsGroupedByCategory(t *testing.T) {
	agg := NewAggregate()
	agg.Ingest(ev(event.Error, "550", "10.0.0.1", ""), "renan")
	agg.Ingest(ev(event.Success, "0", "10.0.0.1", ""), "renan")
	agg.Ingest(ev(event.Error, "530", "10.0.0.2", ""), "")

	require.Len(t, agg.Hits[event.Error], 1)
	require.Len(t, agg.Hits[event.Success], 1)
	assert.Equal(t, "renan", agg.Hits[event.Error][0].Pattern)
	assert.Equal(t, 2, agg.HitCount())
}

func TestAggregate_SameCodeDifferentCategories(t *testing.T) {
	agg := NewAggregate()
	// 226 is a success in EX logs but an error as a nonzero CL result code.
	agg.Ingest(ev(event.Success, "226", "", ""), "")
	agg.Ingest(ev(event.Error, "226", "", ""), "")

	succ := agg.CodesFor(event.Success)
	errs := agg.CodesFor(event.Error)
	require.Len(t, succ, 1)
	require.Len(t, errs, 1)
	assert.Equal(t, 1, succ[0].Count)
	assert.Equal(t, 1, errs[0].Count)
}

func TestAggregate_Idempotence(t *testing.T) {
	events := []event.Event{
		ev(event.Success, "0", "10.0.0.1", "/a.csv"),
		ev(event.Error, "550", "10.0.0.1", "/a.csv"),
		ev(event.Warning, "331", "10.0.0.2", ""),
	}

	run := func() *Aggregate {
		agg := NewAggregate()
		for _, e := range events {
			agg.Ingest(e, "")
		}
		return agg
	}

	a, b := run(), run()
	assert.Equal(t, a.ByCategory, b.ByCategory)
	assert.Equal(t, a.ByIP, b.ByIP)
	assert.Equal(t, a.ByFile, b.ByFile)
	assert.Equal(t, a.Total(), b.Total())
}

func TestSuspiciousIPs_ThresholdAndOrdering(t *testing.T) {
	agg := NewAggregate()
	agg.ByIP = map[string]int{"A": 51, "B": 49, "C": 51}

	got := agg.SuspiciousIPs(50)
	require.Len(t, got, 2)
	assert.Equal(t, Count{Key: "A", N: 51}, got[0])
	assert.Equal(t, Count{Key: "C", N: 51}, got[1])
}

func TestSuspiciousIPs_ThresholdIsInclusive(t *testing.T) {
	agg := NewAggregate()
	agg.ByIP = map[string]int{"10.0.0.5": 50}

	got := agg.SuspiciousIPs(50)
	require.Len(t, got, 1)
	assert.Equal(t, "10.0.0.5", got[0].Key)
}

func TestTopN_OrderingAndLimit(t *testing.T) {
	agg := NewAggregate()
	agg.ByIP = map[string]int{"b": 3, "a": 3, "c": 9, "d": 1}

	got := agg.TopIPs(3)
	require.Len(t, got, 3)
	assert.Equal(t, []Count{{"c", 9}, {"a", 3}, {"b", 3}}, got)
}

func TestMerge_PartialAggregates(t *testing.T) {
	left := NewAggregate()
	left.Ingest(ev(event.Success, "0", "10.0.0.1", "/a.csv"), "x")
	left.Files, left.Lines = 1, 10

	right := NewAggregate()
	right.Ingest(ev(event.Error, "550", "10.0.0.1", "/a.csv"), "")
	right.NoteSkipped("/logs/gone.log", "permission denied")
	right.Files, right.Lines = 2, 20

	left.Merge(right)

	assert.Equal(t, 2, left.Total())
	assert.Equal(t, 2, left.ByIP["10.0.0.1"])
	assert.Equal(t, 2, left.ByFile["/a.csv"])
	assert.Equal(t, 3, left.Files)
	assert.Equal(t, 30, left.Lines)
	require.Len(t, left.Skipped, 1)
	assert.Len(t, left.Hits[event.Success], 1)
}
