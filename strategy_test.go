package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFallbackThreshold(t *testing.T) {
	cfg := Config{FallbackDays: 3}
	now := time.Now().UTC()

	seed := func(n int, anyFilled bool) *Ledger {
		led := NewLedger("")
		for i := 0; i < n; i++ {
			rec := OrderRecord{
				OrderID: string(rune('a' + i)),
				Type:    OrderTypeLimit,
				Time:    now.Add(-time.Duration(i+1) * 12 * time.Hour),
			}
			if anyFilled && i == 0 {
				filled := true
				rec.Filled = &filled
			}
			led.Append(rec)
		}
		return led
	}

	assert.True(t, decideFallback(seed(3, false), now, cfg).MarketFallback,
		"full window of unfilled limit orders triggers the market fallback")
	assert.False(t, decideFallback(seed(2, false), now, cfg).MarketFallback,
		"insufficient evidence keeps the ladder path")
	assert.False(t, decideFallback(seed(3, true), now, cfg).MarketFallback,
		"any recent fill keeps the ladder path")
	assert.False(t, decideFallback(seed(0, false), now, cfg).MarketFallback)
}

func TestFallbackIgnoresOrdersOutsideWindow(t *testing.T) {
	cfg := Config{FallbackDays: 3}
	now := time.Now().UTC()
	led := NewLedger("")
	for i := 0; i < 3; i++ {
		led.Append(OrderRecord{
			OrderID: string(rune('a' + i)),
			Type:    OrderTypeLimit,
			Time:    now.Add(-4 * 24 * time.Hour),
		})
	}
	got := decideFallback(led, now, cfg)
	assert.Equal(t, 0, got.RecentLimits)
	assert.False(t, got.MarketFallback)
}

func TestMomentumFactorBoundaries(t *testing.T) {
	last := d("100000")

	// Exactly 0.9×last is still neutral: the double-up branch is strict.
	assert.True(t, momentumFactor(d("90000"), last).Equal(d("1")))
	assert.True(t, momentumFactor(d("89999.9"), last).Equal(d("2.0")))

	// The damping branch is inclusive at 1.1×last.
	assert.True(t, momentumFactor(d("110000"), last).Equal(d("0.5")))
	assert.True(t, momentumFactor(d("109999.99"), last).Equal(d("1")))

	// No fill history degenerates to neutral.
	assert.True(t, momentumFactor(d("50000"), d("0")).Equal(d("1")))
}

func TestSentimentFactor(t *testing.T) {
	assert.True(t, sentimentFactor(0).Equal(d("1.5")))
	assert.True(t, sentimentFactor(20).Equal(d("1.5")))
	assert.True(t, sentimentFactor(21).Equal(d("1")))
	assert.True(t, sentimentFactor(50).Equal(d("1")))
	assert.True(t, sentimentFactor(79).Equal(d("1")))
	assert.True(t, sentimentFactor(80).Equal(d("0.5")))
	assert.True(t, sentimentFactor(100).Equal(d("0.5")))
}

func TestAdjustQuote(t *testing.T) {
	base := d("10")

	// Neutral everything.
	assert.True(t, adjustQuote(base, d("100000"), d("100000"), neutralSentiment).Equal(d("10.00")))

	// ≥10% drop and extreme fear compound: 10 × 2.0 × 1.5 = 30.00.
	assert.True(t, adjustQuote(base, d("85000"), d("100000"), 10).Equal(d("30.00")))

	// ≥10% rise and extreme greed compound: 10 × 0.5 × 0.5 = 2.50.
	assert.True(t, adjustQuote(base, d("115000"), d("100000"), 90).Equal(d("2.50")))

	// Result is rounded to fiat cents.
	assert.True(t, adjustQuote(d("3.333"), d("100000"), d("100000"), 10).Equal(d("5.00")))
}
