// Package data provides the thread-safe reference-price snapshot shared by
// the compare endpoint and the scheduler. Snapshots are replaced wholesale
// through atomic pointers, so readers never observe a partial refresh.
package data

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/rxcompare/rxcompare-api/logging"
)

// ReferencePrice is one medication's NADAC-derived wholesale price.
type ReferencePrice struct {
	Medication     string  `json:"medication"`
	PerUnit        float64 `json:"perUnit"`
	PricingUnit    string  `json:"pricingUnit"`
	EffectiveDate  string  `json:"effectiveDate"`
	NDCDescription string  `json:"ndcDescription"`
}

// SnapshotContainer holds the reference prices with atomic pointers for
// zero-downtime refreshes.
type SnapshotContainer struct {
	prices          atomic.Value // map[string]ReferencePrice, keyed by lower-cased medication
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewSnapshotContainer creates a container with an empty snapshot.
func NewSnapshotContainer() *SnapshotContainer {
	sc := &SnapshotContainer{}
	sc.prices.Store(make(map[string]ReferencePrice))
	sc.lastUpdated.Store(time.Time{})
	sc.serverStartTime.Store(time.Time{})
	return sc
}

// GetPrices returns the current snapshot map.
func (sc *SnapshotContainer) GetPrices() map[string]ReferencePrice {
	if v := sc.prices.Load(); v != nil {
		if prices, ok := v.(map[string]ReferencePrice); ok {
			return prices
		}
	}

	logging.Warn("Reference price snapshot is empty or invalid")
	return make(map[string]ReferencePrice)
}

// GetPrice looks up one medication by name, case-insensitively.
func (sc *SnapshotContainer) GetPrice(medication string) (ReferencePrice, bool) {
	price, ok := sc.GetPrices()[strings.ToLower(strings.TrimSpace(medication))]
	return price, ok
}

// UpdatePrices swaps in a new snapshot.
func (sc *SnapshotContainer) UpdatePrices(prices map[string]ReferencePrice) {
	sc.prices.Store(prices)
	sc.lastUpdated.Store(time.Now())
}

// GetLastUpdated returns the timestamp of the last snapshot refresh.
func (sc *SnapshotContainer) GetLastUpdated() time.Time {
	if v := sc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true while a refresh is in progress.
func (sc *SnapshotContainer) IsUpdating() bool {
	return sc.updating.Load()
}

// BeginUpdate marks a refresh as started; false means one is already
// running.
func (sc *SnapshotContainer) BeginUpdate() bool {
	return sc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the running refresh as finished.
func (sc *SnapshotContainer) EndUpdate() {
	sc.updating.Store(false)
}

// SetServerStartTime sets the server start time
func (sc *SnapshotContainer) SetServerStartTime(startTime time.Time) {
	sc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (sc *SnapshotContainer) GetServerStartTime() time.Time {
	if v := sc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}
