package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	nadacBaseURL = "https://data.medicaid.gov/api/1/datastore/query"
	// Weekly NADAC (National Average Drug Acquisition Cost) dataset.
	nadacDatasetID = "4d7af295-2132-55a8-b40c-d661f0f63f06"
)

// NADACClient queries the CMS datastore for wholesale acquisition costs.
type NADACClient struct {
	apiClient
	baseURL   string
	datasetID string
}

// NewNADACClient creates a NADAC adapter. apiKey may be empty; CMS accepts
// unauthenticated queries at a lower quota.
func NewNADACClient(apiKey string, timeout time.Duration) *NADACClient {
	c := &NADACClient{
		apiClient: newAPIClient("nadac", timeout),
		baseURL:   nadacBaseURL,
		datasetID: nadacDatasetID,
	}
	if apiKey != "" {
		c.headers = map[string]string{"X-API-Key": apiKey}
	}
	return c
}

// LookupPrice finds the most recent NADAC record whose description contains
// the medication name. Matching is description-based and loose; the query
// sorts by effective date descending and keeps one row so the newest price
// wins. nil means no reference price is known.
func (c *NADACClient) LookupPrice(ctx context.Context, name string) *NADACRecord {
	params := url.Values{}
	params.Set("conditions[0][property]", "ndc_description")
	params.Set("conditions[0][operator]", "contains")
	params.Set("conditions[0][value]", strings.ToUpper(name))
	params.Set("sorts[0][property]", "effective_date")
	params.Set("sorts[0][order]", "desc")
	params.Set("limit", "1")

	queryURL := fmt.Sprintf("%s/%s/0?%s", c.baseURL, c.datasetID, params.Encode())

	var resp struct {
		Results []NADACRecord `json:"results"`
	}

	if err := c.getJSON(ctx, queryURL, &resp); err != nil {
		c.logDegraded("lookup_price", err)
		return nil
	}
	if len(resp.Results) == 0 {
		return nil
	}

	rec := resp.Results[0]
	if rec.NADACPerUnit == "" {
		return nil
	}
	return &rec
}
