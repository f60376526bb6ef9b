package pricing

import "math"

// MarkupResult compares a retail price against a wholesale reference price.
type MarkupResult struct {
	MarkupAmount  float64 `json:"markupAmount"`
	MarkupPercent int     `json:"markupPercent"`
	IsFairPrice   bool    `json:"isFairPrice"`
}

// fairMarkupCeiling: a markup percentage strictly below this is "fair".
const fairMarkupCeiling = 200

// Markup computes the absolute and relative markup of retail over reference.
// A reference price of zero yields MarkupPercent 0 instead of dividing.
func Markup(retail, reference float64) MarkupResult {
	amount := retail - reference

	percent := 0
	if reference > 0 {
		percent = int(math.Round(amount / reference * 100))
	}

	return MarkupResult{
		MarkupAmount:  amount,
		MarkupPercent: percent,
		IsFairPrice:   percent < fairMarkupCeiling,
	}
}

// ClassifyMarkup maps a markup percentage into a qualitative band. Bands are
// evaluated in order; the first match wins.
func ClassifyMarkup(markupPercent int) string {
	switch {
	case markupPercent < 150:
		return "Excellent"
	case markupPercent < 200:
		return "Fair"
	case markupPercent < 300:
		return "High"
	default:
		return "Very High"
	}
}

// PharmacyType selects the markup-multiplier range for a retail estimate.
type PharmacyType string

const (
	PharmacyChain       PharmacyType = "chain"
	PharmacyIndependent PharmacyType = "independent"
	PharmacyOnline      PharmacyType = "online"
)

// RetailRange is an estimated retail-price band derived from a wholesale
// price. Typical applies the mean of the low and high multipliers.
type RetailRange struct {
	Low     float64 `json:"low"`
	High    float64 `json:"high"`
	Typical float64 `json:"typical"`
}

var retailMultipliers = map[PharmacyType][2]float64{
	PharmacyChain:       {2.5, 4.0},
	PharmacyIndependent: {2.0, 3.5},
	PharmacyOnline:      {1.5, 2.5},
}

// EstimateRetailRange projects a retail band from a wholesale price for a
// pharmacy type. Unknown types use the chain multipliers. Each bound is
// rounded to cents.
func EstimateRetailRange(wholesale float64, pt PharmacyType) RetailRange {
	mult, ok := retailMultipliers[pt]
	if !ok {
		mult = retailMultipliers[PharmacyChain]
	}

	low := roundCents(wholesale * mult[0])
	high := roundCents(wholesale * mult[1])
	typical := roundCents(wholesale * (mult[0] + mult[1]) / 2)

	return RetailRange{Low: low, High: high, Typical: typical}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
