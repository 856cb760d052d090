// FILE: live.go
// Package main – Run drivers.
//
// The default mode is one run per process invocation (cron/systemd-timer
// friendly). Loop mode keeps the process alive and re-runs the purchase
// cycle on a ticker, with the metrics server up for the duration.

package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// runOnce drives a single purchase cycle.
func runOnce(ctx context.Context, trader *Trader) error {
	start := time.Now()
	err := trader.Run(ctx)
	if err != nil {
		log.Error().Err(err).Dur("took", time.Since(start)).Msg("run: finished with error")
		return err
	}
	log.Info().Dur("took", time.Since(start)).Msg("run: finished")
	return nil
}

// runLoop re-runs the purchase cycle every intervalSec seconds until the
// context is canceled. A failed run is logged and retried on the next tick;
// the loop itself never aborts.
func runLoop(ctx context.Context, trader *Trader, intervalSec int) {
	if intervalSec <= 0 {
		intervalSec = 86400
	}
	log.Info().
		Str("gateway", trader.gw.Name()).
		Str("product", trader.cfg.ProductID).
		Bool("dry_run", trader.cfg.DryRun).
		Int("interval_sec", intervalSec).
		Msg("starting loop")

	// First run immediately, then on the ticker.
	_ = runOnce(ctx, trader)

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutdown")
			return
		case <-ticker.C:
			_ = runOnce(ctx, trader)
		}
	}
}
