package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rxcompare/rxcompare-api/interfaces"
	"github.com/rxcompare/rxcompare-api/pharmacy"
	"github.com/rxcompare/rxcompare-api/pricing"
	"github.com/rxcompare/rxcompare-api/safety"
	"github.com/rxcompare/rxcompare-api/sources"
	"github.com/rxcompare/rxcompare-api/validation"
)

// PriceResolver runs the commercial price fallback chain.
type PriceResolver interface {
	Resolve(ctx context.Context, displayName, strength string, quantity int) *sources.CostPlusResult
}

// ReferenceSource provides live NADAC lookups for medications outside the
// snapshot roster.
type ReferenceSource interface {
	LookupPrice(ctx context.Context, name string) *sources.NADACRecord
}

// priceComparison is the compare endpoint's response body.
type priceComparison struct {
	Success        bool                           `json:"success"`
	Medication     string                         `json:"medication"`
	PriceSource    string                         `json:"priceSource"`
	Quote          *sources.CostPlusResult        `json:"quote"`
	ReferencePrice *referencePrice                `json:"referencePrice"`
	Markup         *pricing.MarkupResult          `json:"markup"`
	PriceRating    string                         `json:"priceRating,omitempty"`
	Estimates      map[string]pricing.RetailRange `json:"estimates"`
	Pharmacies     []pharmacy.Pharmacy            `json:"pharmacies"`
	Message        string                         `json:"message,omitempty"`
}

type referencePrice struct {
	PerUnit       float64 `json:"perUnit"`
	PricingUnit   string  `json:"pricingUnit"`
	EffectiveDate string  `json:"effectiveDate"`
}

// ComparePrices handles GET /api/prices/compare?name=&strength=&quantity=&zip=
//
// The commercial quote comes from the fallback chain; the wholesale
// reference comes from the snapshot when the medication is on the roster and
// from a live NADAC query otherwise. When the chain is exhausted the
// response degrades to a NADAC-derived estimate, and when that is also
// unavailable the outcome is a neutral no-pricing message, not an error.
func ComparePrices(resolver PriceResolver, reference ReferenceSource, snapshot interfaces.SnapshotStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		name, err := validation.ValidateSearchTerm(query.Get("name"))
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		quantity, err := validation.ValidateQuantity(query.Get("quantity"))
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		strength := query.Get("strength")

		resp := priceComparison{
			Success:    true,
			Medication: name,
			Estimates:  map[string]pricing.RetailRange{},
			Pharmacies: []pharmacy.Pharmacy{},
		}

		resp.Quote = resolver.Resolve(r.Context(), name, strength, quantity)
		resp.ReferencePrice = lookupReference(r.Context(), name, reference, snapshot)

		switch {
		case resp.Quote != nil:
			resp.PriceSource = "costplus"
		case resp.ReferencePrice != nil:
			resp.PriceSource = "nadac_estimate"
		default:
			resp.PriceSource = "unavailable"
			resp.Message = "No pricing found for this medication"
		}

		if resp.ReferencePrice != nil {
			wholesale := resp.ReferencePrice.PerUnit
			for _, pt := range []pricing.PharmacyType{
				pricing.PharmacyChain, pricing.PharmacyIndependent, pricing.PharmacyOnline,
			} {
				resp.Estimates[string(pt)] = pricing.EstimateRetailRange(wholesale, pt)
			}

			if resp.Quote != nil {
				markup := pricing.Markup(resp.Quote.UnitPrice, wholesale)
				resp.Markup = &markup
				resp.PriceRating = pricing.ClassifyMarkup(markup.MarkupPercent)
			}
		}

		if zip := query.Get("zip"); zip != "" {
			if validZip, err := validation.ValidateZip(zip); err == nil {
				resp.Pharmacies = pharmacy.GeneratePharmaciesForZip(validZip)
			}
		}

		RespondWithJSON(w, http.StatusOK, resp)
	}
}

// lookupReference prefers the snapshot, falling back to a live query.
func lookupReference(ctx context.Context, name string, reference ReferenceSource, snapshot interfaces.SnapshotStore) *referencePrice {
	parsed := pricing.ParseDisplayName(name)
	lookupName := parsed.Generic
	if generic, ok := pricing.GenericFor(lookupName); ok {
		lookupName = generic
	}

	if price, ok := snapshot.GetPrice(lookupName); ok {
		return &referencePrice{
			PerUnit:       price.PerUnit,
			PricingUnit:   price.PricingUnit,
			EffectiveDate: price.EffectiveDate,
		}
	}

	rec := reference.LookupPrice(ctx, lookupName)
	if rec == nil {
		return nil
	}
	perUnit, err := strconv.ParseFloat(rec.NADACPerUnit, 64)
	if err != nil || perUnit <= 0 {
		return nil
	}
	return &referencePrice{
		PerUnit:       perUnit,
		PricingUnit:   rec.PricingUnit,
		EffectiveDate: rec.EffectiveDate,
	}
}

// pharmacyEntry pairs a roster entry with its chain-level features.
type pharmacyEntry struct {
	pharmacy.Pharmacy
	Features pharmacy.ChainFeatures `json:"features"`
}

// NearbyPharmacies handles GET /api/pharmacies?zip=
func NearbyPharmacies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zip, err := validation.ValidateZip(r.URL.Query().Get("zip"))
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		roster := pharmacy.GeneratePharmaciesForZip(zip)
		entries := make([]pharmacyEntry, 0, len(roster))
		for _, p := range roster {
			entries = append(entries, pharmacyEntry{
				Pharmacy: p,
				Features: pharmacy.FeaturesForChain(p.Chain),
			})
		}

		RespondWithJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"zip":        zip,
			"count":      len(entries),
			"pharmacies": entries,
		})
	}
}

// maxSafetyBody bounds the safety format request body.
const maxSafetyBody = 1 << 20

// FormatSafetyInfo handles POST /api/safety/format. Formatting failures
// never surface as errors; the raw-wrap fallback ships with a 200.
func FormatSafetyInfo(pipeline SafetyPipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req safety.FormatRequest
		decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSafetyBody))
		if err := decoder.Decode(&req); err != nil {
			RespondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.MedicationName == "" {
			RespondWithError(w, http.StatusBadRequest, "medicationName is required")
			return
		}

		sections := pipeline.FormatSections(r.Context(), req)
		RespondWithJSON(w, http.StatusOK, sections)
	}
}
