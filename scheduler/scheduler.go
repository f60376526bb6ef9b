// Package scheduler refreshes the reference-price snapshot on a fixed
// schedule. The common-medication roster is re-priced against NADAC twice a
// day and swapped into the snapshot container atomically.
package scheduler

import (
	"context"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/rxcompare/rxcompare-api/data"
	"github.com/rxcompare/rxcompare-api/interfaces"
	"github.com/rxcompare/rxcompare-api/logging"
	"github.com/rxcompare/rxcompare-api/pricing"
	"github.com/rxcompare/rxcompare-api/sources"
)

// Compile-time check to ensure Scheduler implements interfaces.Scheduler
var _ interfaces.Scheduler = (*Scheduler)(nil)

// ReferenceSource supplies wholesale price records for the refresh.
type ReferenceSource interface {
	LookupPrice(ctx context.Context, name string) *sources.NADACRecord
}

// refreshTimeout bounds one full roster refresh.
const refreshTimeout = 2 * time.Minute

// Scheduler drives the snapshot refresh using dependency injection.
type Scheduler struct {
	snapshot  interfaces.SnapshotStore
	reference ReferenceSource
	roster    []string
	scheduler *gocron.Scheduler
}

// NewScheduler creates a scheduler over the common-medication roster.
func NewScheduler(snapshot interfaces.SnapshotStore, reference ReferenceSource) *Scheduler {
	return &Scheduler{
		snapshot:  snapshot,
		reference: reference,
		roster:    pricing.CommonMedications,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start performs the initial refresh and schedules the twice-daily ones. An
// unreachable price source leaves the snapshot empty rather than failing
// startup; the compare endpoint falls back to live lookups until the next
// refresh succeeds.
func (s *Scheduler) Start() error {
	s.refresh()

	_, err := s.scheduler.Every(1).Days().At("06:00;18:00").Do(func() {
		s.refresh()
	})
	if err != nil {
		logging.Error("Failed to schedule snapshot refresh", "error", err)
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// refresh re-prices the roster and swaps the snapshot.
func (s *Scheduler) refresh() {
	if !s.snapshot.BeginUpdate() {
		logging.Info("Snapshot refresh already in progress, skipping...")
		return
	}
	defer s.snapshot.EndUpdate()

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	start := time.Now()
	prices := make(map[string]data.ReferencePrice, len(s.roster))

	for _, medication := range s.roster {
		rec := s.reference.LookupPrice(ctx, medication)
		if rec == nil {
			continue
		}
		perUnit, err := strconv.ParseFloat(rec.NADACPerUnit, 64)
		if err != nil || perUnit <= 0 {
			logging.Warn("Skipping unparseable reference price",
				"medication", medication, "per_unit", rec.NADACPerUnit)
			continue
		}
		prices[medication] = data.ReferencePrice{
			Medication:     medication,
			PerUnit:        perUnit,
			PricingUnit:    rec.PricingUnit,
			EffectiveDate:  rec.EffectiveDate,
			NDCDescription: rec.NDCDescription,
		}
	}

	if len(prices) == 0 {
		logging.Warn("Snapshot refresh produced no prices, keeping previous snapshot")
		return
	}

	s.snapshot.UpdatePrices(prices)
	logging.Info("Snapshot refresh completed",
		"duration", time.Since(start).String(),
		"priced", len(prices),
		"roster", len(s.roster))
}
