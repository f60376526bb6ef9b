package pricing

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rxcompare/rxcompare-api/cache"
	"github.com/rxcompare/rxcompare-api/sources"
)

// recordingQuoteSource answers only the configured queries and records every
// attempt it receives.
type recordingQuoteSource struct {
	answers map[string]*sources.CostPlusResult
	calls   []quoteCall
}

type quoteCall struct {
	name     string
	strength string
	quantity int
}

func (s *recordingQuoteSource) Quote(ctx context.Context, name, strength string, quantity int) *sources.CostPlusResult {
	s.calls = append(s.calls, quoteCall{name, strength, quantity})
	return s.answers[quoteKey(name, strength, quantity)]
}

func quoteKey(name, strength string, quantity int) string {
	return strings.ToLower(name) + "|" + strength + "|" + strconv.Itoa(quantity)
}

type fakeGenericLookup struct {
	equivalents map[string]string
}

func (f *fakeGenericLookup) GenericEquivalent(ctx context.Context, name string) string {
	return f.equivalents[strings.ToLower(name)]
}

func newTestResolver(t *testing.T, quotes *recordingQuoteSource, generics *fakeGenericLookup) *Resolver {
	t.Helper()
	c := cache.New(time.Minute)
	t.Cleanup(c.Stop)
	if generics == nil {
		generics = &fakeGenericLookup{}
	}
	return NewResolver(quotes, generics, c)
}

func TestResolveRelaxesParametersInOrder(t *testing.T) {
	// Source only has data for the bare generic name without strength or
	// quantity, so the chain must walk down to the name-only attempt.
	quote := &sources.CostPlusResult{MedicationName: "Atorvastatin", UnitPrice: 0.12}
	quotes := &recordingQuoteSource{
		answers: map[string]*sources.CostPlusResult{
			quoteKey("atorvastatin", "", 0): quote,
		},
	}
	resolver := newTestResolver(t, quotes, nil)

	got := resolver.Resolve(context.Background(), "atorvastatin 20 MG Oral Tablet [Lipitor]", "20mg", 30)
	if got != quote {
		t.Fatalf("Resolve returned %+v, want the configured quote", got)
	}

	want := []quoteCall{
		{"atorvastatin", "20mg", 30},
		{"atorvastatin", "", 30},
		{"atorvastatin", "", 0},
	}
	if len(quotes.calls) != len(want) {
		t.Fatalf("made %d attempts %v, want %d", len(quotes.calls), quotes.calls, len(want))
	}
	for i, call := range want {
		if quotes.calls[i] != call {
			t.Errorf("attempt %d = %+v, want %+v", i+1, quotes.calls[i], call)
		}
	}
}

func TestResolveStopsAtFirstSuccess(t *testing.T) {
	quote := &sources.CostPlusResult{MedicationName: "Lisinopril", UnitPrice: 0.05}
	quotes := &recordingQuoteSource{
		answers: map[string]*sources.CostPlusResult{
			quoteKey("lisinopril", "10mg", 30): quote,
		},
	}
	resolver := newTestResolver(t, quotes, nil)

	if got := resolver.Resolve(context.Background(), "lisinopril", "10mg", 30); got != quote {
		t.Fatalf("Resolve = %+v, want quote", got)
	}
	if len(quotes.calls) != 1 {
		t.Errorf("made %d attempts, want 1 (chain must short-circuit)", len(quotes.calls))
	}
}

func TestResolveSubstitutesKnownBrand(t *testing.T) {
	// "Lipitor" is in the brand table; the chain should search the generic
	// substitute first.
	quote := &sources.CostPlusResult{MedicationName: "Atorvastatin", UnitPrice: 0.12}
	quotes := &recordingQuoteSource{
		answers: map[string]*sources.CostPlusResult{
			quoteKey("atorvastatin", "", 0): quote,
		},
	}
	resolver := newTestResolver(t, quotes, nil)

	if got := resolver.Resolve(context.Background(), "Lipitor", "", 0); got != quote {
		t.Fatalf("Resolve = %+v, want quote", got)
	}
	if quotes.calls[0].name != "atorvastatin" {
		t.Errorf("first attempt used %q, want the generic substitute", quotes.calls[0].name)
	}
}

func TestResolveRetriesWithOriginalName(t *testing.T) {
	// The price source only knows the brand name; the generic-first chain
	// must exhaust and retry with the name held in reserve.
	quote := &sources.CostPlusResult{MedicationName: "Lipitor", UnitPrice: 4.50}
	quotes := &recordingQuoteSource{
		answers: map[string]*sources.CostPlusResult{
			quoteKey("lipitor", "", 0): quote,
		},
	}
	resolver := newTestResolver(t, quotes, nil)

	got := resolver.Resolve(context.Background(), "atorvastatin 20 MG Oral Tablet [Lipitor]", "", 30)
	if got != quote {
		t.Fatalf("Resolve = %+v, want brand quote", got)
	}

	sawBrand := false
	for _, call := range quotes.calls {
		if strings.EqualFold(call.name, "Lipitor") {
			sawBrand = true
		}
	}
	if !sawBrand {
		t.Errorf("chain never retried the reserved brand name; calls: %v", quotes.calls)
	}
}

func TestResolveFallsBackToGenericEquivalent(t *testing.T) {
	// "Zypitamag" is not in the static brand table, so only the ingredient
	// lookup can resolve it.
	quote := &sources.CostPlusResult{MedicationName: "Pitavastatin", UnitPrice: 0.95}
	quotes := &recordingQuoteSource{
		answers: map[string]*sources.CostPlusResult{
			quoteKey("pitavastatin", "", 0): quote,
		},
	}
	generics := &fakeGenericLookup{
		equivalents: map[string]string{"zypitamag": "pitavastatin"},
	}
	c := cache.New(time.Minute)
	t.Cleanup(c.Stop)
	resolver := NewResolver(quotes, generics, c)

	if got := resolver.Resolve(context.Background(), "Zypitamag 2 MG Oral Tablet", "", 0); got == nil {
		t.Fatal("Resolve = nil, want quote from generic-equivalent lookup")
	}
}

func TestResolveExhaustedReturnsNil(t *testing.T) {
	quotes := &recordingQuoteSource{}
	resolver := newTestResolver(t, quotes, nil)

	if got := resolver.Resolve(context.Background(), "obscuredrug 5 MG Tablet", "5mg", 10); got != nil {
		t.Fatalf("Resolve = %+v, want nil for an unavailable medication", got)
	}
	if len(quotes.calls) == 0 {
		t.Error("expected at least one attempt before giving up")
	}
}

func TestResolveReadsThroughCache(t *testing.T) {
	quote := &sources.CostPlusResult{MedicationName: "Metformin", UnitPrice: 0.03}
	quotes := &recordingQuoteSource{
		answers: map[string]*sources.CostPlusResult{
			quoteKey("metformin", "", 0): quote,
		},
	}
	resolver := newTestResolver(t, quotes, nil)

	resolver.Resolve(context.Background(), "metformin", "", 0)
	first := len(quotes.calls)

	resolver.Resolve(context.Background(), "metformin", "", 0)
	if len(quotes.calls) != first {
		t.Errorf("second resolve issued %d new calls, want 0 (cache read-through)",
			len(quotes.calls)-first)
	}
}

func TestResolveCachesNegativeOutcomes(t *testing.T) {
	quotes := &recordingQuoteSource{}
	resolver := newTestResolver(t, quotes, nil)

	resolver.Resolve(context.Background(), "nosuchdrug", "", 0)
	first := len(quotes.calls)

	resolver.Resolve(context.Background(), "nosuchdrug", "", 0)
	if len(quotes.calls) != first {
		t.Errorf("negative outcome was not cached: %d new calls", len(quotes.calls)-first)
	}
}

func TestResolveEmptyNameReturnsNil(t *testing.T) {
	quotes := &recordingQuoteSource{}
	resolver := newTestResolver(t, quotes, nil)

	if got := resolver.Resolve(context.Background(), "   ", "", 0); got != nil {
		t.Fatalf("Resolve = %+v, want nil", got)
	}
	if len(quotes.calls) != 0 {
		t.Errorf("empty name still made %d attempts", len(quotes.calls))
	}
}
