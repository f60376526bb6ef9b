package search

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rxcompare/rxcompare-api/cache"
	"github.com/rxcompare/rxcompare-api/sources"
)

// countingSearcher returns a fixed result list and counts invocations.
type countingSearcher struct {
	results []sources.MedicationResult
	calls   atomic.Int64
}

func (s *countingSearcher) Search(ctx context.Context, term string) []sources.MedicationResult {
	s.calls.Add(1)
	return s.results
}

func rxnormResult(name string) sources.MedicationResult {
	return sources.MedicationResult{Source: "rxnorm", Name: name, RxCUI: "83367"}
}

func fdaResult(name string) sources.MedicationResult {
	return sources.MedicationResult{Source: "openfda", Name: name, NDC: "0071-0155"}
}

func newTestAggregator(t *testing.T, rxnorm, fda Searcher) *Aggregator {
	t.Helper()
	c := cache.New(time.Minute)
	t.Cleanup(c.Stop)
	return NewAggregator(rxnorm, fda, c)
}

func TestSearchShortTermSkipsAdapters(t *testing.T) {
	rxnorm := &countingSearcher{}
	fda := &countingSearcher{}
	agg := newTestAggregator(t, rxnorm, fda)

	for _, term := range []string{"", "a", "  a  ", " "} {
		got := agg.Search(context.Background(), term)
		if got == nil {
			t.Errorf("Search(%q) = nil, want empty slice", term)
		}
		if len(got) != 0 {
			t.Errorf("Search(%q) returned %d results, want 0", term, len(got))
		}
	}

	if rxnorm.calls.Load() != 0 || fda.calls.Load() != 0 {
		t.Errorf("short terms reached adapters: rxnorm=%d fda=%d",
			rxnorm.calls.Load(), fda.calls.Load())
	}
}

func TestSearchMergesBothSources(t *testing.T) {
	rxnorm := &countingSearcher{results: []sources.MedicationResult{
		rxnormResult("atorvastatin 10 MG Oral Tablet"),
	}}
	fda := &countingSearcher{results: []sources.MedicationResult{
		fdaResult("LIPITOR"),
	}}
	agg := newTestAggregator(t, rxnorm, fda)

	got := agg.Search(context.Background(), "lipitor")
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].Source != "rxnorm" {
		t.Errorf("first result source = %q, want rxnorm priority", got[0].Source)
	}
}

func TestSearchDedupesByNormalizedName(t *testing.T) {
	rxnorm := &countingSearcher{results: []sources.MedicationResult{
		rxnormResult("Atorvastatin"),
	}}
	fda := &countingSearcher{results: []sources.MedicationResult{
		fdaResult("ATORVASTATIN"),
		fdaResult("  atorvastatin "),
		fdaResult("Atorvastatín"),
	}}
	agg := newTestAggregator(t, rxnorm, fda)

	got := agg.Search(context.Background(), "atorvastatin")
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1 after dedupe", len(got))
	}
	if got[0].Source != "rxnorm" {
		t.Errorf("surviving entry source = %q, want rxnorm", got[0].Source)
	}
}

func TestSearchTruncatesMergedList(t *testing.T) {
	var rxnormList, fdaList []sources.MedicationResult
	for i := 0; i < 15; i++ {
		rxnormList = append(rxnormList, rxnormResult(fmt.Sprintf("drug-rx-%d", i)))
		fdaList = append(fdaList, fdaResult(fmt.Sprintf("drug-fda-%d", i)))
	}
	agg := newTestAggregator(t,
		&countingSearcher{results: rxnormList},
		&countingSearcher{results: fdaList})

	got := agg.Search(context.Background(), "drug")
	if len(got) != MaxResults {
		t.Fatalf("got %d results, want %d", len(got), MaxResults)
	}
	for i := 0; i < 15; i++ {
		if got[i].Source != "rxnorm" {
			t.Fatalf("result %d source = %q, want all rxnorm entries before fda", i, got[i].Source)
		}
	}
}

func TestSearchToleratesOneSourceEmpty(t *testing.T) {
	// A degraded adapter returns its empty value; the other source still
	// produces results.
	rxnorm := &countingSearcher{}
	fda := &countingSearcher{results: []sources.MedicationResult{fdaResult("ibuprofen")}}
	agg := newTestAggregator(t, rxnorm, fda)

	got := agg.Search(context.Background(), "ibuprofen")
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1", len(got))
	}
	if got[0].Name != "ibuprofen" {
		t.Errorf("got %q, want ibuprofen", got[0].Name)
	}
}

func TestSearchCachesByNormalizedTerm(t *testing.T) {
	rxnorm := &countingSearcher{results: []sources.MedicationResult{
		rxnormResult("metformin 500 MG Oral Tablet"),
	}}
	fda := &countingSearcher{}
	agg := newTestAggregator(t, rxnorm, fda)

	first := agg.Search(context.Background(), "Metformin")
	second := agg.Search(context.Background(), "  METFORMIN ")

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("got %d / %d results, want 1 each", len(first), len(second))
	}
	if rxnorm.calls.Load() != 1 {
		t.Errorf("rxnorm called %d times, want 1 (case variants share a cache key)",
			rxnorm.calls.Load())
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Lipitor", "lipitor"},
		{"  Ibuprofen  ", "ibuprofen"},
		{"Atorvastatín", "atorvastatin"},
		{"DOLIPRANE", "doliprane"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := normalizeName(tt.in); got != tt.want {
			t.Errorf("normalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
