package pricing

import (
	"context"
	"fmt"
	"strings"

	"github.com/rxcompare/rxcompare-api/cache"
	"github.com/rxcompare/rxcompare-api/logging"
	"github.com/rxcompare/rxcompare-api/metrics"
	"github.com/rxcompare/rxcompare-api/sources"
)

// QuoteSource supplies cash price quotes. nil is a legitimate no-match.
type QuoteSource interface {
	Quote(ctx context.Context, name, strength string, quantity int) *sources.CostPlusResult
}

// GenericLookup resolves a name to its active-ingredient name, used as the
// last resort of the fallback chain.
type GenericLookup interface {
	GenericEquivalent(ctx context.Context, name string) string
}

// Resolver runs the layered fallback chain against the quote source. Each
// attempt is read-through the TTL cache keyed by its own parameter tuple, so
// repeated renders within the window do not re-issue identical upstream
// calls. Negative outcomes are cached like positive ones.
type Resolver struct {
	quotes   QuoteSource
	generics GenericLookup
	cache    *cache.Cache
}

func NewResolver(quotes QuoteSource, generics GenericLookup, c *cache.Cache) *Resolver {
	return &Resolver{quotes: quotes, generics: generics, cache: c}
}

// cachedQuote wraps a quote so that a cached negative result is
// distinguishable from a cache miss.
type cachedQuote struct {
	quote *sources.CostPlusResult
}

// Resolve finds a cash quote for a display name, relaxing the query one
// parameter at a time:
//
//  1. resolved name + strength + quantity
//  2. resolved name + quantity
//  3. resolved name only
//  4. resolved name, lower-cased
//  5. the whole chain again with the original (possibly brand) name
//  6. the generic-equivalent lookup as a last resort
//
// The chain is strictly sequential and stops at the first hit. nil after all
// six attempts means the medication is unavailable through this price
// source, which callers treat as a valid negative, not an error.
func (r *Resolver) Resolve(ctx context.Context, displayName, strength string, quantity int) *sources.CostPlusResult {
	parsed := ParseDisplayName(displayName)

	primary := parsed.Generic
	if primary == "" {
		primary = strings.TrimSpace(displayName)
	}
	if primary == "" {
		return nil
	}
	if strength == "" {
		strength = parsed.Strength
	}

	// Prefer the generic substitute when the input is a known brand, holding
	// the original name in reserve for step 5.
	reserve := parsed.Brand
	if generic, ok := GenericFor(primary); ok {
		reserve = primary
		primary = generic
	}

	attempts := 0

	if quote := r.runChain(ctx, primary, strength, quantity, &attempts); quote != nil {
		metrics.PriceFallbackDepth.Observe(float64(attempts))
		return quote
	}

	if reserve != "" && !strings.EqualFold(reserve, primary) {
		if quote := r.runChain(ctx, reserve, strength, quantity, &attempts); quote != nil {
			metrics.PriceFallbackDepth.Observe(float64(attempts))
			return quote
		}
	}

	// Last resort: resolve the active ingredient and try the bare name.
	lookupName := primary
	if reserve != "" {
		lookupName = reserve
	}
	if equivalent := r.generics.GenericEquivalent(ctx, lookupName); equivalent != "" &&
		!strings.EqualFold(equivalent, primary) {
		attempts++
		if quote := r.attempt(ctx, equivalent, "", 0); quote != nil {
			metrics.PriceFallbackDepth.Observe(float64(attempts))
			return quote
		}
	}

	logging.Debug("Price fallback chain exhausted",
		"name", displayName, "attempts", attempts)
	return nil
}

// runChain runs attempts 1-4 for one name.
func (r *Resolver) runChain(ctx context.Context, name, strength string, quantity int, attempts *int) *sources.CostPlusResult {
	steps := []struct {
		name     string
		strength string
		quantity int
	}{
		{name, strength, quantity},
		{name, "", quantity},
		{name, "", 0},
		{strings.ToLower(name), "", 0},
	}

	for _, step := range steps {
		*attempts++
		if quote := r.attempt(ctx, step.name, step.strength, step.quantity); quote != nil {
			return quote
		}
	}
	return nil
}

// attempt performs one cache-read-through quote lookup.
func (r *Resolver) attempt(ctx context.Context, name, strength string, quantity int) *sources.CostPlusResult {
	key := fmt.Sprintf("quote|%s|%s|%d", name, strength, quantity)

	if v, ok := r.cache.Get(key); ok {
		if cached, ok := v.(cachedQuote); ok {
			return cached.quote
		}
	}

	quote := r.quotes.Quote(ctx, name, strength, quantity)
	r.cache.Set(key, cachedQuote{quote: quote})
	return quote
}
