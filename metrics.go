// FILE: metrics.go
// Package main – Prometheus metrics for observability.
//
// Exposes the metrics the bot updates during operation:
//   • dca_runs_total{path}            – Runs by chosen path (ladder|market_fallback)
//   • dca_orders_total{type,outcome}  – Orders by type (market|limit) and outcome (placed|failed)
//   • dca_cancels_total               – Stale orders canceled
//   • dca_reconcile_errors_total      – Failed status lookups during reconciliation
//   • dca_sentiment_score             – Last Fear & Greed score used (gauge)
//   • dca_adjusted_quote              – Last adjusted purchase budget (gauge)
//   • dca_ledger_records              – Ledger size after the run (gauge)
//
// These are registered in init() and served by the HTTP handler started in
// main.go at /metrics (loop mode).

package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

var (
	mtxRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dca_runs_total",
			Help: "Purchase runs by chosen path",
		},
		[]string{"path"}, // ladder|market_fallback
	)

	mtxOrders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dca_orders_total",
			Help: "Orders by type and outcome",
		},
		[]string{"type", "outcome"}, // market|limit, placed|failed
	)

	mtxCancels = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dca_cancels_total",
			Help: "Stale limit orders canceled",
		},
	)

	mtxReconcileErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dca_reconcile_errors_total",
			Help: "Failed order status lookups during reconciliation",
		},
	)

	mtxSentiment = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dca_sentiment_score",
			Help: "Last Fear & Greed score used (neutral 50 on provider failure)",
		},
	)

	mtxAdjustedQuote = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dca_adjusted_quote",
			Help: "Last adjusted purchase budget in quote currency",
		},
	)

	mtxLedgerRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dca_ledger_records",
			Help: "Order records in the ledger after the run",
		},
	)
)

func init() {
	prometheus.MustRegister(mtxRuns, mtxOrders, mtxCancels, mtxReconcileErrors)
	prometheus.MustRegister(mtxSentiment, mtxAdjustedQuote, mtxLedgerRecords)
}

// Helper setters used across files.
func IncRun(path string)                   { mtxRuns.WithLabelValues(path).Inc() }
func IncOrder(t OrderType, outcome string) { mtxOrders.WithLabelValues(string(t), outcome).Inc() }
func IncCancel()                           { mtxCancels.Inc() }
func IncReconcileError()                   { mtxReconcileErrors.Inc() }
func SetSentiment(score int)               { mtxSentiment.Set(float64(score)) }
func SetAdjustedQuote(q decimal.Decimal)   { mtxAdjustedQuote.Set(q.InexactFloat64()) }
func SetLedgerRecords(n int)               { mtxLedgerRecords.Set(float64(n)) }
