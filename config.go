// FILE: config.go
// Package main – Runtime configuration model and loader.
//
// This file defines the Config struct (all the knobs the bot uses) and a
// helper to populate it from environment variables. The .env file is read
// by loadBotEnv() (see env.go), so you can tune behavior without exports.
//
// Typical flow (see main.go):
//   loadBotEnv()
//   cfg := loadConfigFromEnv()
//   cfg.Validate()   // fatal on bad ladder tiers

package main

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all runtime knobs for a single scheduled purchase run.
// It is built once and passed into each component; nothing reads the
// environment after startup.
type Config struct {
	// Trading target
	ProductID   string          // e.g., "BTC-USD"
	QuoteAmount decimal.Decimal // base budget per run, in quote currency

	// Order lifecycle
	TimeInForceHours int // unfilled limit orders older than this are canceled
	FallbackDays     int // recency window (days) and count threshold for market fallback

	// Ladder tiers: parallel lists. Discounts are fractions of the current
	// price (0.998 = 0.2% below market); fractions split the adjusted budget
	// and must sum to exactly 1.0 (enforced by Validate).
	TierDiscounts []decimal.Decimal
	TierFractions []decimal.Decimal

	// BaseSizePrecision is the decimal precision of computed base sizes
	// (8 matches the BTC base increment of 1e-8).
	BaseSizePrecision int32

	// Ops
	LedgerFile string // path to the persisted order history
	DryRun     bool   // route orders to the in-memory paper gateway
	Port       int    // /metrics + /healthz port in loop mode
	FNGAPIURL  string // Fear & Greed index endpoint
}

// loadConfigFromEnv reads the process env (already hydrated by loadBotEnv())
// and returns a Config with sane defaults if keys are missing.
func loadConfigFromEnv() Config {
	return Config{
		ProductID:   getEnv("PRODUCT_ID", "BTC-USD"),
		QuoteAmount: getEnvDecimal("QUOTE_AMOUNT", "10"),

		TimeInForceHours: getEnvInt("TIF_HOURS", 24),
		FallbackDays:     getEnvInt("FALLBACK_DAYS", 3),

		TierDiscounts: getEnvDecimalList("TIER_DISCOUNTS", "0.998,0.96"),
		TierFractions: getEnvDecimalList("TIER_FRACTIONS", "0.5,0.5"),

		BaseSizePrecision: int32(getEnvInt("BASE_SIZE_PRECISION", 8)),

		LedgerFile: getEnv("LEDGER_FILE", "order_history.json"),
		DryRun:     getEnvBool("DRY_RUN", true),
		Port:       getEnvInt("PORT", 8080),
		FNGAPIURL:  getEnv("FNG_API_URL", "https://api.alternative.me/fng/"),
	}
}

// Validate checks startup invariants. It runs before any exchange
// interaction; a violation aborts the process.
func (c Config) Validate() error {
	if c.ProductID == "" {
		return fmt.Errorf("PRODUCT_ID must not be empty")
	}
	if !c.QuoteAmount.IsPositive() {
		return fmt.Errorf("QUOTE_AMOUNT must be > 0, got %s", c.QuoteAmount)
	}
	if c.TimeInForceHours <= 0 {
		return fmt.Errorf("TIF_HOURS must be > 0, got %d", c.TimeInForceHours)
	}
	if c.FallbackDays <= 0 {
		return fmt.Errorf("FALLBACK_DAYS must be > 0, got %d", c.FallbackDays)
	}
	if c.BaseSizePrecision <= 0 {
		return fmt.Errorf("BASE_SIZE_PRECISION must be > 0, got %d", c.BaseSizePrecision)
	}
	if len(c.TierDiscounts) == 0 || len(c.TierDiscounts) != len(c.TierFractions) {
		return fmt.Errorf("TIER_DISCOUNTS (%d) and TIER_FRACTIONS (%d) must be non-empty parallel lists",
			len(c.TierDiscounts), len(c.TierFractions))
	}
	sum := decimal.Zero
	for i := range c.TierDiscounts {
		d, f := c.TierDiscounts[i], c.TierFractions[i]
		if !d.IsPositive() || d.GreaterThan(one) {
			return fmt.Errorf("tier %d: discount %s must be in (0,1]", i, d)
		}
		if !f.IsPositive() {
			return fmt.Errorf("tier %d: fraction %s must be > 0", i, f)
		}
		sum = sum.Add(f)
	}
	if !sum.Equal(one) {
		return fmt.Errorf("TIER_FRACTIONS must sum to 1.0, got %s", sum)
	}
	return nil
}

func (c Config) TimeInForce() time.Duration {
	return time.Duration(c.TimeInForceHours) * time.Hour
}

// FallbackWindow is the recency window for the fallback decision. An order
// counts as recent iff now − order.time < FallbackWindow; for positive ages
// this matches calendar-day truncation (floor(days) < FallbackDays).
func (c Config) FallbackWindow() time.Duration {
	return time.Duration(c.FallbackDays) * 24 * time.Hour
}
