package sources

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestNADACLookupPrice(t *testing.T) {
	var gotQuery string
	var gotAPIKey string
	srv := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAPIKey = r.Header.Get("X-API-Key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": [{
			"ndc_description": "ATORVASTATIN 10 MG TABLET",
			"nadac_per_unit": "0.04182",
			"pricing_unit": "EA",
			"effective_date": "2026-08-19"
		}]}`))
	}))

	c := NewNADACClient("test-key", time.Second)
	c.baseURL = srv.URL

	got := c.LookupPrice(context.Background(), "atorvastatin")
	if got == nil {
		t.Fatal("got nil record")
	}
	if got.NADACPerUnit != "0.04182" || got.PricingUnit != "EA" {
		t.Errorf("record = %+v", got)
	}
	if gotAPIKey != "test-key" {
		t.Errorf("X-API-Key = %q, want test-key", gotAPIKey)
	}
	// The description match is upper-cased and newest-first.
	for _, want := range []string{"ATORVASTATIN", "effective_date", "desc", "limit=1"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestNADACLookupPriceNoMatchIsNil(t *testing.T) {
	srv := newTestServer(t, jsonHandler(`{"results": []}`))
	c := NewNADACClient("", time.Second)
	c.baseURL = srv.URL

	if got := c.LookupPrice(context.Background(), "notadrug"); got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestNADACLookupPriceEmptyPerUnitIsNil(t *testing.T) {
	srv := newTestServer(t, jsonHandler(`{"results": [{"ndc_description": "X", "nadac_per_unit": ""}]}`))
	c := NewNADACClient("", time.Second)
	c.baseURL = srv.URL

	if got := c.LookupPrice(context.Background(), "x"); got != nil {
		t.Errorf("got %+v, want nil for record without a per-unit price", got)
	}
}

func TestNADACLookupPriceDegradesToNil(t *testing.T) {
	srv := newTestServer(t, statusHandler(http.StatusServiceUnavailable))
	c := NewNADACClient("", time.Second)
	c.baseURL = srv.URL

	if got := c.LookupPrice(context.Background(), "atorvastatin"); got != nil {
		t.Errorf("got %+v, want nil on upstream failure", got)
	}
}
