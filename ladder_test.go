package main

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ladderConfig(discounts, fractions []string) Config {
	cfg := Config{BaseSizePrecision: 8}
	for _, s := range discounts {
		cfg.TierDiscounts = append(cfg.TierDiscounts, d(s))
	}
	for _, s := range fractions {
		cfg.TierFractions = append(cfg.TierFractions, d(s))
	}
	return cfg
}

func TestPlanLadderTwoTierScenario(t *testing.T) {
	cfg := ladderConfig([]string{"0.998", "0.96"}, []string{"0.5", "0.5"})

	rungs := planLadder(cfg, d("10"), d("100000"))
	require.Len(t, rungs, 2)

	assert.True(t, rungs[0].LimitPrice.Equal(d("99800.00")), "got %s", rungs[0].LimitPrice)
	assert.True(t, rungs[0].Quote.Equal(d("5.00")))
	assert.True(t, rungs[0].BaseSize.Equal(d("0.0000501")), "got %s", rungs[0].BaseSize)

	assert.True(t, rungs[1].LimitPrice.Equal(d("96000.00")), "got %s", rungs[1].LimitPrice)
	assert.True(t, rungs[1].Quote.Equal(d("5.00")))
	assert.True(t, rungs[1].BaseSize.Equal(d("0.00005208")), "got %s", rungs[1].BaseSize)
}

func TestPlanLadderPreservesTierOrder(t *testing.T) {
	cfg := ladderConfig([]string{"0.998", "0.98", "0.95"}, []string{"0.5", "0.3", "0.2"})

	rungs := planLadder(cfg, d("100"), d("50000"))
	require.Len(t, rungs, 3)
	for i := 1; i < len(rungs); i++ {
		assert.True(t, rungs[i].LimitPrice.LessThan(rungs[i-1].LimitPrice),
			"descending discounts must yield descending limit prices")
	}
	assert.True(t, rungs[0].Quote.Equal(d("50.00")))
	assert.True(t, rungs[1].Quote.Equal(d("30.00")))
	assert.True(t, rungs[2].Quote.Equal(d("20.00")))
}

func TestPlanLadderRoundsLimitPriceToCents(t *testing.T) {
	cfg := ladderConfig([]string{"0.995"}, []string{"1"})

	rungs := planLadder(cfg, d("10"), d("100.01"))
	require.Len(t, rungs, 1)
	// 100.01 × 0.995 = 99.50995 → rounds half-up to 99.51
	assert.True(t, rungs[0].LimitPrice.Equal(d("99.51")), "got %s", rungs[0].LimitPrice)
}

func TestPlanLadderDropsVanishingTiers(t *testing.T) {
	cfg := ladderConfig([]string{"0.998", "0.96"}, []string{"0.999", "0.001"})

	// The second tier's share rounds to 0.00 in quote currency; it has no
	// meaningful order to place and is skipped.
	rungs := planLadder(cfg, d("1"), d("100000"))
	require.Len(t, rungs, 1)
	assert.True(t, rungs[0].Fraction.Equal(d("0.999")))
}

func TestPlanLadderPrecisionKnob(t *testing.T) {
	cfg := ladderConfig([]string{"0.998"}, []string{"1"})
	cfg.BaseSizePrecision = 6

	rungs := planLadder(cfg, d("10"), d("100000"))
	require.Len(t, rungs, 1)
	// 10 / 99800 = 0.000100200… → 0.0001 at 6 decimal places
	assert.True(t, rungs[0].BaseSize.Equal(decimal.RequireFromString("0.0001")), "got %s", rungs[0].BaseSize)
}
