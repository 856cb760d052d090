package main

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		ProductID:         "BTC-USD",
		QuoteAmount:       d("10"),
		TimeInForceHours:  24,
		FallbackDays:      3,
		TierDiscounts:     []decimal.Decimal{d("0.998"), d("0.96")},
		TierFractions:     []decimal.Decimal{d("0.5"), d("0.5")},
		BaseSizePrecision: 8,
		LedgerFile:        "order_history.json",
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateRejectsFractionsNotSummingToOne(t *testing.T) {
	cfg := validConfig()
	cfg.TierFractions = []decimal.Decimal{d("0.5"), d("0.4")}
	assert.Error(t, cfg.Validate())

	// Exact decimal arithmetic: 0.1×10 is not a float trap here.
	cfg.TierDiscounts = make([]decimal.Decimal, 10)
	cfg.TierFractions = make([]decimal.Decimal, 10)
	for i := range cfg.TierFractions {
		cfg.TierDiscounts[i] = d("0.99")
		cfg.TierFractions[i] = d("0.1")
	}
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsMismatchedTierLists(t *testing.T) {
	cfg := validConfig()
	cfg.TierFractions = cfg.TierFractions[:1]
	assert.Error(t, cfg.Validate())

	cfg.TierDiscounts = nil
	cfg.TierFractions = nil
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadKnobs(t *testing.T) {
	cfg := validConfig()
	cfg.QuoteAmount = d("0")
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.TimeInForceHours = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.TierDiscounts[0] = d("1.01")
	assert.Error(t, cfg.Validate(), "a discount above market makes no sense for a buy ladder")
}

func TestFallbackWindow(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, 72*time.Hour, cfg.FallbackWindow())
	assert.Equal(t, 24*time.Hour, cfg.TimeInForce())
}

func TestParseDecimalList(t *testing.T) {
	got, err := parseDecimalList("0.998, 0.96,0.9")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[1].Equal(d("0.96")))

	_, err = parseDecimalList("0.998,nope")
	assert.Error(t, err)
}
