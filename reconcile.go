// FILE: reconcile.go
// Package main – Order reconciliation against exchange state.
//
// Two duties, both failure-tolerant:
//   • SyncStatuses: resolve the fill status of ledger records the exchange
//     hasn't confirmed yet. Lookup errors leave the record untouched.
//   • CancelStale: cancel OPEN orders older than the time-in-force window.
//
// Nothing here aborts the run; every per-order failure is logged and skipped.
package main

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const statusFilled = "filled"

type Reconciler struct {
	cfg Config
	gw  ExchangeGateway
}

func NewReconciler(cfg Config, gw ExchangeGateway) *Reconciler {
	return &Reconciler{cfg: cfg, gw: gw}
}

// SyncStatuses queries the gateway for every ledger record whose fill status
// is still unknown. Records with a settled status are never re-queried.
func (rc *Reconciler) SyncStatuses(ctx context.Context, led *Ledger) {
	for _, rec := range led.Unresolved() {
		status, err := rc.gw.GetOrderStatus(ctx, rec.OrderID)
		if err != nil {
			log.Warn().Str("order_id", rec.OrderID).Err(err).Msg("reconcile: status lookup failed")
			IncReconcileError()
			continue
		}
		status = strings.ToLower(strings.TrimSpace(status))
		if status == "" {
			// Exchange returned nothing usable; try again next run.
			continue
		}
		filled := status == statusFilled
		rec.Status = status
		rec.Filled = &filled
		log.Info().Str("order_id", rec.OrderID).Str("status", status).Msg("reconcile: status updated")
	}
}

// CancelStale lists all OPEN orders for the product and cancels those whose
// age exceeds the time-in-force. Returns the number of cancellations issued.
func (rc *Reconciler) CancelStale(ctx context.Context, now time.Time) int {
	open, err := listAllOrders(ctx, rc.gw, rc.cfg.ProductID, "OPEN")
	if err != nil {
		log.Warn().Err(err).Msg("reconcile: listing open orders failed, skipping stale cancel")
		return 0
	}
	canceled := 0
	tif := rc.cfg.TimeInForce()
	for _, o := range open {
		if o.CreatedTime.IsZero() || now.Sub(o.CreatedTime) <= tif {
			continue
		}
		if err := rc.gw.CancelOrders(ctx, []string{o.OrderID}); err != nil {
			log.Warn().Str("order_id", o.OrderID).Err(err).Msg("reconcile: cancel failed")
			continue
		}
		canceled++
		IncCancel()
		log.Info().Str("order_id", o.OrderID).
			Dur("age", now.Sub(o.CreatedTime)).
			Msg("reconcile: canceled stale order")
	}
	return canceled
}
