package pharmacy

import (
	"hash/fnv"
	"strings"
)

// ChainFeatures describes service flags for a pharmacy chain outside the
// deterministic roster generator (e.g. the chain comparison table).
type ChainFeatures struct {
	Is24Hour       bool `json:"is24Hour"`
	HasDriveThru   bool `json:"hasDriveThru"`
	AcceptsGoodRx  bool `json:"acceptsGoodRx"`
	HasVaccination bool `json:"hasVaccination"`
}

// FeaturesForChain returns the feature flags for a chain name. The flags are
// pinned by an FNV-1a hash of the normalized name so that the same chain
// always reports the same features, which keeps test fixtures reproducible.
// This lookup is intentionally separate from GeneratePharmaciesForZip, whose
// per-index flags follow fixed parity rules.
func FeaturesForChain(chain string) ChainFeatures {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(chain))))
	v := h.Sum32()

	return ChainFeatures{
		Is24Hour:       v%100 < 25,
		HasDriveThru:   v/100%100 < 60,
		AcceptsGoodRx:  v/10000%100 < 80,
		HasVaccination: v/1000000%100 < 90,
	}
}
