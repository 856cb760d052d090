// FILE: ladder.go
// Package main – Ladder planning.
//
// The ladder splits one adjusted budget across fixed discount tiers to
// increase fill probability across a price range: a shallow rung just below
// market and deeper rungs that only fill on a real dip.
package main

import (
	"github.com/shopspring/decimal"
)

// LadderRung is one concrete limit order derived from a tier.
type LadderRung struct {
	Discount   decimal.Decimal
	Fraction   decimal.Decimal
	Quote      decimal.Decimal // budget share in quote currency
	LimitPrice decimal.Decimal // round(price × discount, 2)
	BaseSize   decimal.Decimal // round(quote / limitPrice, BaseSizePrecision)
}

// planLadder maps each configured (discount, fraction) tier onto a concrete
// limit order. Tier order is preserved; tiers that round down to a
// non-positive size are dropped.
func planLadder(cfg Config, adjustedQuote, currentPrice decimal.Decimal) []LadderRung {
	rungs := make([]LadderRung, 0, len(cfg.TierDiscounts))
	for i := range cfg.TierDiscounts {
		discount, fraction := cfg.TierDiscounts[i], cfg.TierFractions[i]
		limitPrice := currentPrice.Mul(discount).Round(2)
		if !limitPrice.IsPositive() {
			continue
		}
		quote := adjustedQuote.Mul(fraction).Round(2)
		baseSize := quote.Div(limitPrice).Round(cfg.BaseSizePrecision)
		if !baseSize.IsPositive() {
			continue
		}
		rungs = append(rungs, LadderRung{
			Discount:   discount,
			Fraction:   fraction,
			Quote:      quote,
			LimitPrice: limitPrice,
			BaseSize:   baseSize,
		})
	}
	return rungs
}
