package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rxcompare/rxcompare-api/interfaces"
	"github.com/rxcompare/rxcompare-api/safety"
	"github.com/rxcompare/rxcompare-api/sources"
	"github.com/rxcompare/rxcompare-api/validation"
)

// Dependency contracts, defined here so handler tests can mock them.

// MedicationSearcher is the multi-source search aggregator.
type MedicationSearcher interface {
	Search(ctx context.Context, term string) []sources.MedicationResult
}

// DetailsSource provides RxNorm point lookups.
type DetailsSource interface {
	GetDetails(ctx context.Context, rxcui string) *sources.MedicationDetails
	GetRelated(ctx context.Context, rxcui string) []sources.RelatedDrug
	GetInteractions(ctx context.Context, rxcui string) []sources.Interaction
}

// AlternativesSource suggests therapeutic alternatives.
type AlternativesSource interface {
	FindAlternatives(ctx context.Context, drugName string) []sources.Alternative
}

// NDCSource provides NDC directory lookups.
type NDCSource interface {
	LookupNDC(ctx context.Context, ndc string) *sources.NDCDrug
}

// SearchMedications handles GET /api/medications/search?q=
func SearchMedications(searcher MedicationSearcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term, err := validation.ValidateSearchTerm(r.URL.Query().Get("q"))
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		results := searcher.Search(r.Context(), term)

		RespondWithJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"count":   len(results),
			"results": results,
		})
	}
}

// MedicationDetails handles GET /api/medications/{rxcui}/details
func MedicationDetails(details DetailsSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rxcui, err := validation.ValidateRxCUI(chi.URLParam(r, "rxcui"))
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		medication := details.GetDetails(r.Context(), rxcui)
		if medication == nil {
			RespondWithError(w, http.StatusNotFound, "medication not found")
			return
		}

		related := details.GetRelated(r.Context(), rxcui)
		interactions := details.GetInteractions(r.Context(), rxcui)

		RespondWithJSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"medication":   medication,
			"relatedDrugs": related,
			"interactions": interactions,
		})
	}
}

// MedicationAlternatives handles GET /api/medications/alternatives?brandName=
func MedicationAlternatives(alternatives AlternativesSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brandName, err := validation.ValidateSearchTerm(r.URL.Query().Get("brandName"))
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, "brandName is required")
			return
		}

		found := alternatives.FindAlternatives(r.Context(), brandName)

		RespondWithJSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"brandName":    brandName,
			"count":        len(found),
			"alternatives": found,
		})
	}
}

// LookupNDC handles GET /api/medications/ndc/{ndc}
func LookupNDC(ndcSource NDCSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ndc, err := validation.ValidateNDC(chi.URLParam(r, "ndc"))
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		drug := ndcSource.LookupNDC(r.Context(), ndc)
		if drug == nil {
			RespondWithError(w, http.StatusNotFound, "drug not found")
			return
		}

		RespondWithJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"drug":    drug,
		})
	}
}

// SafetyPipeline is the label fetch + format pipeline.
type SafetyPipeline interface {
	FetchSafety(ctx context.Context, displayName string) *safety.Sections
	FormatSections(ctx context.Context, req safety.FormatRequest) *safety.Sections
}

// MedicationSafety handles GET /api/medications/safety?name=
func MedicationSafety(pipeline SafetyPipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := validation.ValidateSearchTerm(r.URL.Query().Get("name"))
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, "name is required")
			return
		}

		sections := pipeline.FetchSafety(r.Context(), name)

		RespondWithJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"name":     name,
			"sections": sections,
		})
	}
}

// HealthCheck handles GET /api/health
func HealthCheck(checker interfaces.HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, details, httpStatus := checker.HealthCheck()

		payload := map[string]any{
			"status":       status,
			"timestamp":    time.Now().UTC().Format(time.RFC3339),
			"next_refresh": checker.NextRefresh().Format(time.RFC3339),
		}
		for k, v := range details {
			payload[k] = v
		}

		RespondWithJSON(w, httpStatus, payload)
	}
}
