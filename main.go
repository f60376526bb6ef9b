package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rxcompare/rxcompare-api/cache"
	"github.com/rxcompare/rxcompare-api/config"
	"github.com/rxcompare/rxcompare-api/data"
	"github.com/rxcompare/rxcompare-api/health"
	"github.com/rxcompare/rxcompare-api/logging"
	"github.com/rxcompare/rxcompare-api/pricing"
	"github.com/rxcompare/rxcompare-api/safety"
	"github.com/rxcompare/rxcompare-api/scheduler"
	"github.com/rxcompare/rxcompare-api/search"
	"github.com/rxcompare/rxcompare-api/server"
	"github.com/rxcompare/rxcompare-api/sources"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLogger(cfg.LogDir, cfg.LogLevel)

	// Upstream adapters
	rxnorm := sources.NewRxNormClient(cfg.UpstreamTimeout)
	openFDA := sources.NewOpenFDAClient(cfg.UpstreamTimeout)
	nadac := sources.NewNADACClient(cfg.CMSAPIKey, cfg.UpstreamTimeout)
	costPlus := sources.NewCostPlusClient(cfg.UpstreamTimeout)
	rxclass := sources.NewRxClassClient(cfg.UpstreamTimeout)

	// Shared TTL cache; owns a sweep goroutine until Stop.
	ttlCache := cache.New(cfg.CacheTTL)
	defer ttlCache.Stop()

	// Core pipeline
	aggregator := search.NewAggregator(rxnorm, openFDA, ttlCache)
	resolver := pricing.NewResolver(costPlus, rxnorm, ttlCache)
	formatter := safety.NewHTTPFormatter(cfg.FormatterURL, cfg.FormatterAPIKey, 30*time.Second)
	safetyPipeline := safety.NewPipeline(openFDA, formatter)

	// Reference-price snapshot and its refresh schedule
	snapshot := data.NewSnapshotContainer()
	snapshot.SetServerStartTime(time.Now())

	sched := scheduler.NewScheduler(snapshot, nadac)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	healthChecker := health.NewHealthChecker(snapshot)

	srv := server.NewServer(cfg, server.Dependencies{
		Searcher:     aggregator,
		Details:      rxnorm,
		Alternatives: rxclass,
		NDC:          openFDA,
		Resolver:     resolver,
		Reference:    nadac,
		Snapshot:     snapshot,
		Safety:       safetyPipeline,
		Health:       healthChecker,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	logging.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Server close error", "error", err)
	} else {
		logging.Info("Server exited gracefully")
	}
}
