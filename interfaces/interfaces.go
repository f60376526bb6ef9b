// Package interfaces defines the core abstractions shared across the
// rxcompare API: snapshot storage, health checking, and scheduling. They
// exist to keep the packages loosely coupled and mockable in tests.
package interfaces

import (
	"time"

	"github.com/rxcompare/rxcompare-api/data"
)

// SnapshotStore is the contract for the reference-price snapshot. It
// provides thread-safe reads and atomic wholesale replacement.
type SnapshotStore interface {
	GetPrices() map[string]data.ReferencePrice
	GetPrice(medication string) (data.ReferencePrice, bool)
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time

	UpdatePrices(prices map[string]data.ReferencePrice)
	BeginUpdate() bool
	EndUpdate()
	SetServerStartTime(startTime time.Time)
}

// HealthChecker reports service health derived from snapshot freshness.
type HealthChecker interface {
	HealthCheck() (status string, data map[string]any, httpStatus int)
	NextRefresh() time.Time
}

// Scheduler manages the periodic snapshot refresh.
type Scheduler interface {
	Start() error
	Stop()
}
