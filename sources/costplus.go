package sources

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

const costPlusBaseURL = "https://us.api.costplusdrugs.com/v1"

// CostPlusClient wraps the Cost Plus Drugs public price-quote API.
type CostPlusClient struct {
	apiClient
	baseURL string
}

func NewCostPlusClient(timeout time.Duration) *CostPlusClient {
	return &CostPlusClient{
		apiClient: newAPIClient("costplus", timeout),
		baseURL:   costPlusBaseURL,
	}
}

// costPlusRow mirrors one upstream quote. Prices arrive as strings.
type costPlusRow struct {
	MedicationName string `json:"medication_name"`
	Strength       string `json:"strength"`
	Quantity       string `json:"quantity_units"`
	UnitPrice      string `json:"unit_price"`
	RequestedQuote string `json:"requested_quote"`
	Form           string `json:"form"`
	BrandGeneric   string `json:"brand_generic_flag"`
}

// Quote requests a price quote. strength and quantity are optional; empty
// values are omitted from the query. Only the first match is retained, so a
// non-nil result is a single definitive quote. nil means the medication is
// unavailable through this price source, which is a legitimate negative
// outcome rather than a failure.
func (c *CostPlusClient) Quote(ctx context.Context, name, strength string, quantity int) *CostPlusResult {
	params := url.Values{}
	params.Set("medication_name", name)
	if strength != "" {
		params.Set("strength", strength)
	}
	if quantity > 0 {
		params.Set("quantity", strconv.Itoa(quantity))
	}

	quoteURL := fmt.Sprintf("%s/pricequote?%s", c.baseURL, params.Encode())

	var resp struct {
		Results []costPlusRow `json:"results"`
	}

	if err := c.getJSON(ctx, quoteURL, &resp); err != nil {
		c.logDegraded("quote", err)
		return nil
	}
	if len(resp.Results) == 0 {
		return nil
	}

	row := resp.Results[0]
	unit, err := strconv.ParseFloat(row.UnitPrice, 64)
	if err != nil || unit < 0 {
		c.logDegraded("quote", fmt.Errorf("unparseable unit_price %q", row.UnitPrice))
		return nil
	}
	total, _ := strconv.ParseFloat(row.RequestedQuote, 64)

	return &CostPlusResult{
		MedicationName: row.MedicationName,
		Strength:       row.Strength,
		Quantity:       row.Quantity,
		UnitPrice:      unit,
		TotalPrice:     total,
		Form:           row.Form,
		IsGeneric:      row.isGeneric(),
	}
}

func (r costPlusRow) isGeneric() bool {
	return r.BrandGeneric == "Generic" || r.BrandGeneric == "generic"
}
