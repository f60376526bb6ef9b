// Package search implements the multi-source medication search aggregator.
// It fans out to the RxNorm and openFDA adapters in parallel, merges the
// results RxNorm-first, de-duplicates by normalized name, and truncates the
// merged list.
package search

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/rxcompare/rxcompare-api/cache"
	"github.com/rxcompare/rxcompare-api/logging"
	"github.com/rxcompare/rxcompare-api/sources"
)

const (
	// MinTermLength is enforced here, once; adapters do not re-validate.
	MinTermLength = 2

	// MaxResults bounds the merged result list.
	MaxResults = 20
)

// Searcher is the adapter contract the aggregator fans out to.
type Searcher interface {
	Search(ctx context.Context, term string) []sources.MedicationResult
}

// Aggregator merges medication search results from multiple sources.
type Aggregator struct {
	rxnorm Searcher
	fda    Searcher
	cache  *cache.Cache
}

func NewAggregator(rxnorm, fda Searcher, c *cache.Cache) *Aggregator {
	return &Aggregator{rxnorm: rxnorm, fda: fda, cache: c}
}

// normalizeName lower-cases and strips diacritics so that brand spellings
// collapse to one dedupe identity.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func normalizeName(name string) string {
	folded, _, err := transform.String(stripMarks, name)
	if err != nil {
		folded = name
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// Search returns up to MaxResults merged results for a term. Terms shorter
// than MinTermLength return an empty list without any network call. The two
// adapter calls run concurrently and both are awaited before merging; an
// adapter failure degrades to its empty value upstream, so one source
// failing never suppresses the other's results. Merge order is
// deterministic: RxNorm entries first, then FDA, first occurrence winning on
// a name collision.
func (a *Aggregator) Search(ctx context.Context, term string) []sources.MedicationResult {
	term = strings.TrimSpace(term)
	if len(term) < MinTermLength {
		return []sources.MedicationResult{}
	}

	cacheKey := "search|" + normalizeName(term)
	if v, ok := a.cache.Get(cacheKey); ok {
		if results, ok := v.([]sources.MedicationResult); ok {
			return results
		}
	}

	var (
		wg            sync.WaitGroup
		rxnormResults []sources.MedicationResult
		fdaResults    []sources.MedicationResult
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		rxnormResults = a.rxnorm.Search(ctx, term)
	}()
	go func() {
		defer wg.Done()
		fdaResults = a.fda.Search(ctx, term)
	}()
	wg.Wait()

	merged := dedupe(rxnormResults, fdaResults)

	logging.Debug("Medication search completed",
		"term", term,
		"rxnorm", len(rxnormResults),
		"fda", len(fdaResults),
		"merged", len(merged))

	a.cache.Set(cacheKey, merged)
	return merged
}

// dedupe concatenates the lists in priority order, keeps the first entry per
// normalized name, and truncates to MaxResults.
func dedupe(lists ...[]sources.MedicationResult) []sources.MedicationResult {
	seen := make(map[string]bool)
	merged := make([]sources.MedicationResult, 0, MaxResults)

	for _, list := range lists {
		for _, result := range list {
			key := normalizeName(result.Name)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, result)
			if len(merged) == MaxResults {
				return merged
			}
		}
	}
	return merged
}
