// Package safety produces patient-safety label sections for a medication.
// Raw openFDA label text is handed to an external formatting collaborator
// that returns titled sections; the response is validated, and any failure
// of the collaborator (transport, malformed payload, schema violation) falls
// back to wrapping the raw text verbatim. The fallback is required behavior,
// never an error surfaced to the caller.
package safety

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Section is one titled block of formatted label text.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Sections groups formatted label content per safety category. Absent
// categories default to empty slices, never nil in responses.
type Sections struct {
	BlackBoxWarnings  []Section `json:"blackBoxWarnings"`
	Warnings          []Section `json:"warnings"`
	Contraindications []Section `json:"contraindications"`
	AdverseReactions  []Section `json:"adverseReactions"`
	DrugInteractions  []Section `json:"drugInteractions"`
}

// FormatRequest carries the raw label text for one medication.
type FormatRequest struct {
	MedicationName    string   `json:"medicationName"`
	BlackBoxWarnings  []string `json:"blackBoxWarnings"`
	Warnings          []string `json:"warnings"`
	Contraindications []string `json:"contraindications"`
	AdverseReactions  []string `json:"adverseReactions"`
	DrugInteractions  []string `json:"drugInteractions"`
}

// Formatter is the opaque text-formatting collaborator.
type Formatter interface {
	Format(ctx context.Context, req FormatRequest) (*Sections, error)
}

// HTTPFormatter calls an external formatting service over JSON/HTTP.
type HTTPFormatter struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

func NewHTTPFormatter(url, apiKey string, timeout time.Duration) *HTTPFormatter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPFormatter{
		url:        url,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Format posts the raw label text and decodes the structured sections. The
// caller validates the result; this method only moves bytes.
func (f *HTTPFormatter) Format(ctx context.Context, req FormatRequest) (*Sections, error) {
	if f.url == "" {
		return nil, fmt.Errorf("formatter url not configured")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding format request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building format request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if f.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+f.apiKey)
	}

	resp, err := f.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("formatter call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("formatter returned status %d", resp.StatusCode)
	}

	var sections Sections
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&sections); err != nil {
		return nil, fmt.Errorf("decoding formatter response: %w", err)
	}
	return &sections, nil
}
