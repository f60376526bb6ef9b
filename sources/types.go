package sources

// MedicationResult is the normalized shape shared by the RxNorm and openFDA
// search adapters. Identity for de-duplication is the lower-cased Name; the
// aggregator relies on RxNorm entries being merged ahead of FDA entries so
// that RxNorm wins on collision.
type MedicationResult struct {
	Source       string `json:"source"` // "rxnorm" or "fda"
	RxCUI        string `json:"rxcui,omitempty"`
	NDC          string `json:"ndc,omitempty"`
	Name         string `json:"name"`
	Type         string `json:"type,omitempty"`
	GenericName  string `json:"genericName,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
}

// NADACRecord is a CMS wholesale acquisition-cost record. When a description
// matches several rows, the query keeps only the most recent effective date.
type NADACRecord struct {
	NDC            string `json:"ndc"`
	NDCDescription string `json:"ndc_description"`
	NADACPerUnit   string `json:"nadac_per_unit"`
	EffectiveDate  string `json:"effective_date"`
	PricingUnit    string `json:"pricing_unit"`
	Classification string `json:"classification_for_rate_setting"`
}

// CostPlusResult is a single commercial cash quote. Only the first match per
// query is retained.
type CostPlusResult struct {
	MedicationName string  `json:"medication_name"`
	Strength       string  `json:"strength"`
	Quantity       string  `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	TotalPrice     float64 `json:"total_price,omitempty"`
	Form           string  `json:"form"`
	IsGeneric      bool    `json:"is_generic"`
}

// MedicationDetails groups the RxNorm point-lookup payloads used by the
// details endpoint.
type MedicationDetails struct {
	RxCUI    string `json:"rxcui"`
	Name     string `json:"name"`
	Synonym  string `json:"synonym,omitempty"`
	TTY      string `json:"tty,omitempty"`
	Language string `json:"language,omitempty"`
}

// RelatedDrug is a brand/generic concept related to a looked-up rxcui.
type RelatedDrug struct {
	RxCUI string `json:"rxcui"`
	Name  string `json:"name"`
	TTY   string `json:"tty"`
}

// Interaction is one drug-drug interaction warning.
type Interaction struct {
	Drug1       string `json:"drug1"`
	Drug2       string `json:"drug2"`
	Description string `json:"description"`
}

// DrugLabel carries the openFDA label sections consumed by the safety
// pipeline. Each field is the provider's array of long-form text blocks.
type DrugLabel struct {
	BrandName         string   `json:"brandName,omitempty"`
	GenericName       string   `json:"genericName,omitempty"`
	BoxedWarning      []string `json:"boxedWarning,omitempty"`
	Warnings          []string `json:"warnings,omitempty"`
	Contraindications []string `json:"contraindications,omitempty"`
	AdverseReactions  []string `json:"adverseReactions,omitempty"`
	DrugInteractions  []string `json:"drugInteractions,omitempty"`
}

// Alternative is a therapeutic alternative suggested by RxClass membership.
type Alternative struct {
	Name      string `json:"name"`
	RxCUI     string `json:"rxcui,omitempty"`
	ClassName string `json:"className,omitempty"`
}
