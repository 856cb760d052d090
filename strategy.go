// FILE: strategy.go
// Package main – Fallback decision and budget adjustment.
//
// Fallback: repeated unfilled limit attempts over the full recency window
// mean the market is trending away from the discounted entries; a market buy
// guarantees participation instead of indefinite non-execution.
//
// Budget adjustment: the fixed per-run budget is scaled by price momentum
// (buy more into a ≥10% drop, less into a ≥10% rise) and by the Fear & Greed
// score (contrarian at the extremes), then rounded to fiat cents.
package main

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	one = decimal.NewFromInt(1)

	dropTrigger = decimal.RequireFromString("0.9") // current < 0.9×last → double up
	riseTrigger = decimal.RequireFromString("1.1") // current ≥ 1.1×last → halve

	factorDouble = decimal.RequireFromString("2.0")
	factorHalf   = decimal.RequireFromString("0.5")
	factorFear   = decimal.RequireFromString("1.5")
)

const (
	extremeFear  = 20
	extremeGreed = 80
)

// Decision is the outcome of the fallback check for one run.
type Decision struct {
	MarketFallback bool
	RecentLimits   int
	AnyFilled      bool
}

// decideFallback inspects recent limit-order activity. Market fallback fires
// only when a full window's worth of limit attempts exists and none filled;
// with fewer data points the ladder is the default.
func decideFallback(led *Ledger, now time.Time, cfg Config) Decision {
	recent := led.RecentLimitOrders(now, cfg.FallbackWindow())
	d := Decision{RecentLimits: len(recent)}
	for _, r := range recent {
		if r.IsFilled() {
			d.AnyFilled = true
			break
		}
	}
	d.MarketFallback = !d.AnyFilled && len(recent) >= cfg.FallbackDays
	return d
}

// momentumFactor compares the current price to the last confirmed fill.
// The drop branch is strict: exactly 0.9×last is still neutral.
func momentumFactor(current, last decimal.Decimal) decimal.Decimal {
	if !last.IsPositive() {
		return one
	}
	switch {
	case current.LessThan(last.Mul(dropTrigger)):
		return factorDouble
	case current.GreaterThanOrEqual(last.Mul(riseTrigger)):
		return factorHalf
	default:
		return one
	}
}

// sentimentFactor is contrarian: extreme fear buys more, extreme greed less.
func sentimentFactor(score int) decimal.Decimal {
	switch {
	case score <= extremeFear:
		return factorFear
	case score >= extremeGreed:
		return factorHalf
	default:
		return one
	}
}

// adjustQuote computes the run's purchase budget in quote-currency units,
// rounded to two decimals (fiat minor-unit convention).
func adjustQuote(base, current, last decimal.Decimal, sentiment int) decimal.Decimal {
	return base.
		Mul(momentumFactor(current, last)).
		Mul(sentimentFactor(sentiment)).
		Round(2)
}
