package safety

import (
	"context"
	"fmt"

	"github.com/rxcompare/rxcompare-api/logging"
	"github.com/rxcompare/rxcompare-api/pricing"
	"github.com/rxcompare/rxcompare-api/sources"
)

// LabelSource fetches a structured product label for one name. nil means the
// provider has no label under that name.
type LabelSource interface {
	GetLabel(ctx context.Context, name string) *sources.DrugLabel
}

// Pipeline fetches raw label data and formats it into sections.
type Pipeline struct {
	labels    LabelSource
	formatter Formatter
}

func NewPipeline(labels LabelSource, formatter Formatter) *Pipeline {
	return &Pipeline{labels: labels, formatter: formatter}
}

// FetchSafety resolves a display name to label data and returns formatted
// sections. The label is queried by brand first, then generic, whichever
// yields results. A medication with no label at all returns empty sections.
func (p *Pipeline) FetchSafety(ctx context.Context, displayName string) *Sections {
	parsed := pricing.ParseDisplayName(displayName)

	var label *sources.DrugLabel
	if parsed.Brand != "" {
		label = p.labels.GetLabel(ctx, parsed.Brand)
	}
	if label == nil && parsed.Generic != "" {
		label = p.labels.GetLabel(ctx, parsed.Generic)
	}
	if label == nil {
		logging.Debug("No label found", "name", displayName)
		return emptySections()
	}

	req := FormatRequest{
		MedicationName:    displayName,
		BlackBoxWarnings:  label.BoxedWarning,
		Warnings:          label.Warnings,
		Contraindications: label.Contraindications,
		AdverseReactions:  label.AdverseReactions,
		DrugInteractions:  label.DrugInteractions,
	}
	return p.FormatSections(ctx, req)
}

// FormatSections runs the formatting collaborator and validates its output.
// On call failure or schema violation the raw text is wrapped verbatim under
// generic category labels. Callers always get a usable result.
func (p *Pipeline) FormatSections(ctx context.Context, req FormatRequest) *Sections {
	formatted, err := p.formatter.Format(ctx, req)
	if err == nil {
		err = validateSections(formatted)
	}
	if err != nil {
		logging.Warn("Formatter output rejected, using raw label text",
			"medication", req.MedicationName, "error", err)
		return rawSections(req)
	}

	normalizeNils(formatted)
	return formatted
}

// validateSections enforces the response schema: every element of every
// category needs a non-empty title and content. Categories themselves are
// optional.
func validateSections(s *Sections) error {
	if s == nil {
		return fmt.Errorf("formatter returned no sections")
	}
	for category, sections := range map[string][]Section{
		"blackBoxWarnings":  s.BlackBoxWarnings,
		"warnings":          s.Warnings,
		"contraindications": s.Contraindications,
		"adverseReactions":  s.AdverseReactions,
		"drugInteractions":  s.DrugInteractions,
	} {
		for i, section := range sections {
			if section.Title == "" || section.Content == "" {
				return fmt.Errorf("%s[%d]: missing title or content", category, i)
			}
		}
	}
	return nil
}

// Category labels used when wrapping raw text.
const (
	labelBlackBox          = "Black Box Warning"
	labelWarnings          = "Warnings"
	labelContraindications = "Contraindications"
	labelAdverseReactions  = "Adverse Reactions"
	labelDrugInteractions  = "Drug Interactions"
)

// rawSections wraps each raw string as a section under its category label.
func rawSections(req FormatRequest) *Sections {
	return &Sections{
		BlackBoxWarnings:  wrapRaw(labelBlackBox, req.BlackBoxWarnings),
		Warnings:          wrapRaw(labelWarnings, req.Warnings),
		Contraindications: wrapRaw(labelContraindications, req.Contraindications),
		AdverseReactions:  wrapRaw(labelAdverseReactions, req.AdverseReactions),
		DrugInteractions:  wrapRaw(labelDrugInteractions, req.DrugInteractions),
	}
}

func wrapRaw(label string, raw []string) []Section {
	sections := make([]Section, 0, len(raw))
	for _, text := range raw {
		if text == "" {
			continue
		}
		sections = append(sections, Section{Title: label, Content: text})
	}
	return sections
}

func emptySections() *Sections {
	return &Sections{
		BlackBoxWarnings:  []Section{},
		Warnings:          []Section{},
		Contraindications: []Section{},
		AdverseReactions:  []Section{},
		DrugInteractions:  []Section{},
	}
}

// normalizeNils replaces nil categories with empty slices so JSON responses
// carry [] rather than null.
func normalizeNils(s *Sections) {
	if s.BlackBoxWarnings == nil {
		s.BlackBoxWarnings = []Section{}
	}
	if s.Warnings == nil {
		s.Warnings = []Section{}
	}
	if s.Contraindications == nil {
		s.Contraindications = []Section{}
	}
	if s.AdverseReactions == nil {
		s.AdverseReactions = []Section{}
	}
	if s.DrugInteractions == nil {
		s.DrugInteractions = []Section{}
	}
}
