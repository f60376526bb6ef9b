// Package pricing implements the commercial price resolution pipeline: the
// display-name parser, the brand-to-generic substitution table, the layered
// fallback chain against the cash price source, and the pure markup and
// retail-range calculators.
package pricing

import (
	"regexp"
	"strings"
)

// RxNorm display names follow the convention
//
//	<generic> <strength> <unit> <form> ["[" <brand> "]"]
//
// e.g. "atorvastatin 20 MG Oral Tablet [Lipitor]". The brand is carried in
// bracket notation, not a structured field, so it is parsed here once instead
// of with ad hoc regexes at each call site.

// ParsedName is the decomposition of a display name.
type ParsedName struct {
	Generic  string // first whitespace-delimited token
	Strength string // numeric token plus its unit, e.g. "20 MG"
	Form     string // remaining tokens between strength and brand
	Brand    string // bracket contents, empty when absent
}

var (
	brandPattern    = regexp.MustCompile(`\[([^\]]+)\]`)
	strengthPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// ParseDisplayName decomposes a display name. It never fails: a free-form
// name that does not follow the convention yields the first token as Generic
// and empty remaining fields.
func ParseDisplayName(displayName string) ParsedName {
	var parsed ParsedName

	name := strings.TrimSpace(displayName)
	if name == "" {
		return parsed
	}

	if m := brandPattern.FindStringSubmatch(name); m != nil {
		parsed.Brand = strings.TrimSpace(m[1])
		name = strings.TrimSpace(brandPattern.ReplaceAllString(name, ""))
	}

	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return parsed
	}
	parsed.Generic = tokens[0]

	rest := tokens[1:]
	for i, tok := range rest {
		if !strengthPattern.MatchString(tok) {
			continue
		}
		parsed.Strength = tok
		// The unit follows the number when present
		if i+1 < len(rest) && !strengthPattern.MatchString(rest[i+1]) {
			parsed.Strength += " " + rest[i+1]
			parsed.Form = strings.Join(rest[i+2:], " ")
		} else {
			parsed.Form = strings.Join(rest[i+1:], " ")
		}
		return parsed
	}

	// No strength token; everything after the generic is the form.
	parsed.Form = strings.Join(rest, " ")
	return parsed
}
