// Package validation checks caller-supplied request parameters. Input errors
// are the only error class surfaced to clients as 4xx; everything upstream
// of the handlers degrades silently instead.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// MinSearchTermLength matches the aggregator's precondition.
	MinSearchTermLength = 2
	// MaxSearchTermLength guards against abusive query strings.
	MaxSearchTermLength = 100

	MaxQuantity = 1000
)

var (
	zipPattern   = regexp.MustCompile(`^\d{5}$`)
	rxcuiPattern = regexp.MustCompile(`^\d{1,10}$`)
	// NDC in 4-4-2, 5-3-2 or 5-4-1 segment form, or 10/11 bare digits.
	ndcPattern = regexp.MustCompile(`^(\d{4,5}-\d{3,4}(-\d{1,2})?|\d{10,11})$`)
)

// ValidateSearchTerm checks the free-text medication search term.
func ValidateSearchTerm(term string) (string, error) {
	term = strings.TrimSpace(term)
	if len(term) < MinSearchTermLength {
		return "", fmt.Errorf("search term must be at least %d characters", MinSearchTermLength)
	}
	if len(term) > MaxSearchTermLength {
		return "", fmt.Errorf("search term must be at most %d characters", MaxSearchTermLength)
	}
	return term, nil
}

// ValidateZip checks a five-digit US ZIP code.
func ValidateZip(zip string) (string, error) {
	zip = strings.TrimSpace(zip)
	if !zipPattern.MatchString(zip) {
		return "", fmt.Errorf("zip must be a five-digit code")
	}
	return zip, nil
}

// ValidateRxCUI checks an RxNorm concept identifier.
func ValidateRxCUI(rxcui string) (string, error) {
	rxcui = strings.TrimSpace(rxcui)
	if !rxcuiPattern.MatchString(rxcui) {
		return "", fmt.Errorf("rxcui must be numeric")
	}
	return rxcui, nil
}

// ValidateNDC checks a National Drug Code in segment or bare-digit form.
func ValidateNDC(ndc string) (string, error) {
	ndc = strings.TrimSpace(ndc)
	if !ndcPattern.MatchString(ndc) {
		return "", fmt.Errorf("ndc must be a valid drug code")
	}
	return ndc, nil
}

// ValidateQuantity parses an optional quantity parameter. Empty input means
// no quantity and returns zero.
func ValidateQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	quantity, err := strconv.Atoi(raw)
	if err != nil || quantity < 1 {
		return 0, fmt.Errorf("quantity must be a positive integer")
	}
	if quantity > MaxQuantity {
		return 0, fmt.Errorf("quantity must be at most %d", MaxQuantity)
	}
	return quantity, nil
}
