// Package health reports service health derived from the reference-price
// snapshot. The service works without a snapshot (live lookups only), so a
// missing or stale snapshot degrades the status without taking the API down.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/rxcompare/rxcompare-api/interfaces"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	snapshot interfaces.SnapshotStore
}

// NewHealthChecker creates a health checker with injected dependencies
func NewHealthChecker(snapshot interfaces.SnapshotStore) interfaces.HealthChecker {
	return &HealthCheckerImpl{snapshot: snapshot}
}

// HealthCheck returns the health status for the /api/health endpoint.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	prices := h.snapshot.GetPrices()
	lastUpdate := h.snapshot.GetLastUpdated()
	isUpdating := h.snapshot.IsUpdating()

	snapshotAge := time.Since(lastUpdate)

	// Refreshes run twice a day; a snapshot older than three missed cycles
	// means the scheduler or the upstream is stuck.
	switch {
	case len(prices) == 0:
		status = "degraded"
		httpStatus = http.StatusOK

	case snapshotAge > 36*time.Hour:
		status = "degraded"
		httpStatus = http.StatusOK

	default:
		status = "ok"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"snapshot_last_update": lastUpdate.Format(time.RFC3339),
		"snapshot_age_hours":   math.Round(snapshotAge.Hours()*10) / 10,
		"reference_prices":     len(prices),
		"is_updating":          isUpdating,
	}

	return status, data, httpStatus
}

// NextRefresh returns the next scheduled snapshot refresh time.
func (h *HealthCheckerImpl) NextRefresh() time.Time {
	now := time.Now()

	sixAM := time.Date(now.Year(), now.Month(), now.Day(), 6, 0, 0, 0, now.Location())
	sixPM := time.Date(now.Year(), now.Month(), now.Day(), 18, 0, 0, 0, now.Location())

	if now.Before(sixAM) {
		return sixAM
	}
	if now.Before(sixPM) {
		return sixPM
	}
	return sixAM.AddDate(0, 0, 1)
}
