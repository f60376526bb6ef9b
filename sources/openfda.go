package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const openFDABaseURL = "https://api.fda.gov/drug"

// OpenFDAClient wraps the openFDA NDC directory and drug label endpoints.
type OpenFDAClient struct {
	apiClient
	baseURL string
}

// NDCDrug is a normalized NDC directory entry.
type NDCDrug struct {
	NDC           string   `json:"ndc"`
	BrandName     string   `json:"brandName,omitempty"`
	GenericName   string   `json:"genericName,omitempty"`
	Manufacturer  string   `json:"manufacturer,omitempty"`
	DosageForm    string   `json:"dosageForm,omitempty"`
	Route         []string `json:"route,omitempty"`
	ActiveIngreds []string `json:"activeIngredients,omitempty"`
}

func NewOpenFDAClient(timeout time.Duration) *OpenFDAClient {
	return &OpenFDAClient{
		apiClient: newAPIClient("openfda", timeout),
		baseURL:   openFDABaseURL,
	}
}

// ndcRecord mirrors the fields we read from the directory endpoint.
type ndcRecord struct {
	ProductNDC        string   `json:"product_ndc"`
	BrandName         string   `json:"brand_name"`
	GenericName       string   `json:"generic_name"`
	LabelerName       string   `json:"labeler_name"`
	DosageForm        string   `json:"dosage_form"`
	Route             []string `json:"route"`
	ActiveIngredients []struct {
		Name     string `json:"name"`
		Strength string `json:"strength"`
	} `json:"active_ingredients"`
}

// Search queries the NDC directory by brand or generic name and maps each hit
// into the shared search shape. openFDA answers a no-match query with 404,
// which degrades to an empty slice like every other failure.
func (c *OpenFDAClient) Search(ctx context.Context, term string) []MedicationResult {
	query := fmt.Sprintf(`brand_name:"%s" generic_name:"%s"`, term, term)
	searchURL := fmt.Sprintf("%s/ndc.json?search=%s&limit=10", c.baseURL, url.QueryEscape(query))

	var resp struct {
		Results []ndcRecord `json:"results"`
	}

	if err := c.getJSON(ctx, searchURL, &resp); err != nil {
		c.logDegraded("search", err)
		return []MedicationResult{}
	}

	results := make([]MedicationResult, 0, len(resp.Results))
	for _, rec := range resp.Results {
		name := rec.BrandName
		if name == "" {
			name = rec.GenericName
		}
		if name == "" {
			continue
		}
		results = append(results, MedicationResult{
			Source:       "fda",
			NDC:          rec.ProductNDC,
			Name:         name,
			GenericName:  rec.GenericName,
			Manufacturer: rec.LabelerName,
		})
	}
	return results
}

// LookupNDC fetches a single NDC directory entry. nil means no match.
func (c *OpenFDAClient) LookupNDC(ctx context.Context, ndc string) *NDCDrug {
	query := fmt.Sprintf(`product_ndc:"%s"`, ndc)
	lookupURL := fmt.Sprintf("%s/ndc.json?search=%s&limit=1", c.baseURL, url.QueryEscape(query))

	var resp struct {
		Results []ndcRecord `json:"results"`
	}

	if err := c.getJSON(ctx, lookupURL, &resp); err != nil {
		c.logDegraded("ndc_lookup", err)
		return nil
	}
	if len(resp.Results) == 0 {
		return nil
	}

	rec := resp.Results[0]
	drug := &NDCDrug{
		NDC:          rec.ProductNDC,
		BrandName:    rec.BrandName,
		GenericName:  rec.GenericName,
		Manufacturer: rec.LabelerName,
		DosageForm:   rec.DosageForm,
		Route:        rec.Route,
	}
	for _, ing := range rec.ActiveIngredients {
		s := strings.TrimSpace(ing.Name + " " + ing.Strength)
		if s != "" {
			drug.ActiveIngreds = append(drug.ActiveIngreds, s)
		}
	}
	return drug
}

// GetLabel fetches the structured product label for a brand or generic name.
// The safety pipeline tries the brand first, then the generic; this method
// performs one attempt for one name.
func (c *OpenFDAClient) GetLabel(ctx context.Context, name string) *DrugLabel {
	query := fmt.Sprintf(`openfda.brand_name:"%s" openfda.generic_name:"%s"`, name, name)
	labelURL := fmt.Sprintf("%s/label.json?search=%s&limit=1", c.baseURL, url.QueryEscape(query))

	var resp struct {
		Results []struct {
			BoxedWarning      []string `json:"boxed_warning"`
			Warnings          []string `json:"warnings"`
			Contraindications []string `json:"contraindications"`
			AdverseReactions  []string `json:"adverse_reactions"`
			DrugInteractions  []string `json:"drug_interactions"`
			OpenFDA           struct {
				BrandName   []string `json:"brand_name"`
				GenericName []string `json:"generic_name"`
			} `json:"openfda"`
		} `json:"results"`
	}

	if err := c.getJSON(ctx, labelURL, &resp); err != nil {
		c.logDegraded("label", err)
		return nil
	}
	if len(resp.Results) == 0 {
		return nil
	}

	rec := resp.Results[0]
	label := &DrugLabel{
		BoxedWarning:      rec.BoxedWarning,
		Warnings:          rec.Warnings,
		Contraindications: rec.Contraindications,
		AdverseReactions:  rec.AdverseReactions,
		DrugInteractions:  rec.DrugInteractions,
	}
	if len(rec.OpenFDA.BrandName) > 0 {
		label.BrandName = rec.OpenFDA.BrandName[0]
	}
	if len(rec.OpenFDA.GenericName) > 0 {
		label.GenericName = rec.OpenFDA.GenericName[0]
	}
	return label
}
