package safety

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rxcompare/rxcompare-api/sources"
)

// stubFormatter returns a canned result or error.
type stubFormatter struct {
	sections *Sections
	err      error
}

func (f *stubFormatter) Format(ctx context.Context, req FormatRequest) (*Sections, error) {
	return f.sections, f.err
}

// recordingLabelSource serves labels by name and records lookups.
type recordingLabelSource struct {
	labels  map[string]*sources.DrugLabel
	lookups []string
}

func (s *recordingLabelSource) GetLabel(ctx context.Context, name string) *sources.DrugLabel {
	s.lookups = append(s.lookups, name)
	return s.labels[name]
}

func sampleRequest() FormatRequest {
	return FormatRequest{
		MedicationName:   "atorvastatin 10 MG Oral Tablet [Lipitor]",
		Warnings:         []string{"Liver enzyme abnormalities have been reported."},
		AdverseReactions: []string{"Myalgia, diarrhea, nausea."},
	}
}

func TestFormatSectionsPassesThroughValidOutput(t *testing.T) {
	want := &Sections{
		Warnings: []Section{{Title: "Liver Function", Content: "Monitor liver enzymes."}},
	}
	p := NewPipeline(nil, &stubFormatter{sections: want})

	got := p.FormatSections(context.Background(), sampleRequest())
	if len(got.Warnings) != 1 || got.Warnings[0].Title != "Liver Function" {
		t.Errorf("formatted output not passed through: %+v", got.Warnings)
	}
	if got.BlackBoxWarnings == nil || got.DrugInteractions == nil {
		t.Error("absent categories should be normalized to empty slices, not nil")
	}
}

func TestFormatSectionsFallsBackOnFormatterError(t *testing.T) {
	p := NewPipeline(nil, &stubFormatter{err: errors.New("service unavailable")})

	got := p.FormatSections(context.Background(), sampleRequest())
	if len(got.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1 raw-wrapped", len(got.Warnings))
	}
	if got.Warnings[0].Title != labelWarnings {
		t.Errorf("fallback title = %q, want %q", got.Warnings[0].Title, labelWarnings)
	}
	if got.Warnings[0].Content != "Liver enzyme abnormalities have been reported." {
		t.Errorf("fallback content altered: %q", got.Warnings[0].Content)
	}
	if len(got.AdverseReactions) != 1 || got.AdverseReactions[0].Title != labelAdverseReactions {
		t.Errorf("adverse reactions not raw-wrapped: %+v", got.AdverseReactions)
	}
	if len(got.BlackBoxWarnings) != 0 {
		t.Errorf("empty input category produced %d sections", len(got.BlackBoxWarnings))
	}
}

func TestFormatSectionsFallsBackOnSchemaViolation(t *testing.T) {
	tests := []struct {
		name     string
		sections *Sections
	}{
		{"nil sections", nil},
		{"missing title", &Sections{Warnings: []Section{{Content: "text"}}}},
		{"missing content", &Sections{Warnings: []Section{{Title: "Warnings"}}}},
		{"bad element among good", &Sections{AdverseReactions: []Section{
			{Title: "Common", Content: "Nausea."},
			{Title: "", Content: "Headache."},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline(nil, &stubFormatter{sections: tt.sections})

			got := p.FormatSections(context.Background(), sampleRequest())
			if len(got.Warnings) != 1 || got.Warnings[0].Title != labelWarnings {
				t.Errorf("expected raw-wrapped fallback, got %+v", got.Warnings)
			}
		})
	}
}

func TestFetchSafetyPrefersBrandLabel(t *testing.T) {
	labels := &recordingLabelSource{labels: map[string]*sources.DrugLabel{
		"Lipitor": {Warnings: []string{"brand label text"}},
	}}
	p := NewPipeline(labels, &stubFormatter{err: errors.New("down")})

	got := p.FetchSafety(context.Background(), "atorvastatin 10 MG Oral Tablet [Lipitor]")
	if len(labels.lookups) != 1 || labels.lookups[0] != "Lipitor" {
		t.Errorf("lookups = %v, want brand queried first and only", labels.lookups)
	}
	if len(got.Warnings) != 1 || got.Warnings[0].Content != "brand label text" {
		t.Errorf("got %+v, want brand label content", got.Warnings)
	}
}

func TestFetchSafetyFallsBackToGenericLabel(t *testing.T) {
	labels := &recordingLabelSource{labels: map[string]*sources.DrugLabel{
		"atorvastatin": {Warnings: []string{"generic label text"}},
	}}
	p := NewPipeline(labels, &stubFormatter{err: errors.New("down")})

	got := p.FetchSafety(context.Background(), "atorvastatin 10 MG Oral Tablet [Lipitor]")
	want := []string{"Lipitor", "atorvastatin"}
	if len(labels.lookups) != 2 || labels.lookups[0] != want[0] || labels.lookups[1] != want[1] {
		t.Errorf("lookups = %v, want %v", labels.lookups, want)
	}
	if len(got.Warnings) != 1 || got.Warnings[0].Content != "generic label text" {
		t.Errorf("got %+v, want generic label content", got.Warnings)
	}
}

func TestFetchSafetyNoLabelReturnsEmptySections(t *testing.T) {
	labels := &recordingLabelSource{}
	p := NewPipeline(labels, &stubFormatter{err: errors.New("down")})

	got := p.FetchSafety(context.Background(), "obscuredrug 5 MG Tablet")
	if got == nil {
		t.Fatal("got nil, want empty sections")
	}
	if got.Warnings == nil || len(got.Warnings) != 0 {
		t.Errorf("Warnings = %v, want empty non-nil slice", got.Warnings)
	}
	if got.BlackBoxWarnings == nil || got.Contraindications == nil ||
		got.AdverseReactions == nil || got.DrugInteractions == nil {
		t.Error("all categories should be empty non-nil slices")
	}
}

func TestHTTPFormatterRoundTrip(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"warnings":[{"title":"Liver Function","content":"Monitor enzymes."}]}`))
	}))
	defer srv.Close()

	f := NewHTTPFormatter(srv.URL, "test-key", time.Second)
	got, err := f.Format(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}
	if len(got.Warnings) != 1 || got.Warnings[0].Title != "Liver Function" {
		t.Errorf("decoded sections = %+v", got.Warnings)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want bearer key", gotAuth)
	}
}

func TestHTTPFormatterErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"warnings": [{`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			f := NewHTTPFormatter(srv.URL, "", time.Second)
			if _, err := f.Format(context.Background(), sampleRequest()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestHTTPFormatterUnconfiguredURL(t *testing.T) {
	f := NewHTTPFormatter("", "", time.Second)
	if _, err := f.Format(context.Background(), sampleRequest()); err == nil {
		t.Error("expected error for empty url")
	}
}
