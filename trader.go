// FILE: trader.go
// Package main – The orchestrated purchase run.
//
// One Run() is one scheduled invocation:
//   1) load ledger
//   2) reconcile fill statuses (non-fatal per order)
//   3) cancel stale OPEN orders past time-in-force
//   4) decide market fallback vs. laddered limits
//   5) execute the chosen path
//   6) persist the ledger — guaranteed by defer, so a successfully placed
//      order survives any later failure
//
// Safety:
//   - Every write call gets a fresh uuid client order id (idempotency token).
//   - Per-tier failures are contained: one declined rung never blocks the rest.
//   - Re-running is safe: duplicate order ids are rejected at the ledger.

package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type Trader struct {
	cfg       Config
	gw        ExchangeGateway
	sentiment SentimentProvider
	ledger    *Ledger
	rec       *Reconciler
}

func NewTrader(cfg Config, gw ExchangeGateway, sentiment SentimentProvider) *Trader {
	return &Trader{
		cfg:       cfg,
		gw:        gw,
		sentiment: sentiment,
		ledger:    NewLedger(cfg.LedgerFile),
		rec:       NewReconciler(cfg, gw),
	}
}

// Run executes one purchase cycle. The returned error reflects the primary
// path's outcome; the ledger is persisted regardless.
func (t *Trader) Run(ctx context.Context) (err error) {
	now := time.Now().UTC()
	t.ledger.Load()

	defer func() {
		if serr := t.ledger.Save(); serr != nil {
			log.Error().Err(serr).Str("path", t.cfg.LedgerFile).Msg("ledger: save failed")
			if err == nil {
				err = serr
			}
		}
		SetLedgerRecords(t.ledger.Len())
	}()

	t.rec.SyncStatuses(ctx, t.ledger)
	t.rec.CancelStale(ctx, now)

	d := decideFallback(t.ledger, now, t.cfg)
	log.Info().
		Int("recent_limits", d.RecentLimits).
		Bool("any_filled", d.AnyFilled).
		Bool("market_fallback", d.MarketFallback).
		Msg("run: decision")

	if d.MarketFallback {
		IncRun("market_fallback")
		return t.runMarketFallback(ctx, now)
	}
	IncRun("ladder")
	return t.runLadder(ctx, now)
}

// runMarketFallback places one unconditional market buy for the base budget.
func (t *Trader) runMarketFallback(ctx context.Context, now time.Time) error {
	price, err := t.gw.GetProductPrice(ctx, t.cfg.ProductID)
	if err != nil {
		// Informational only on this path; the market order is by quote size.
		log.Warn().Err(err).Msg("fallback: price fetch failed, recording zero")
		price = decimal.Zero
	}

	res, err := t.gw.MarketBuy(ctx, uuid.New().String(), t.cfg.ProductID, t.cfg.QuoteAmount)
	if err != nil {
		log.Error().Err(err).Msg("fallback: market buy failed")
		IncOrder(OrderTypeMarket, "failed")
		return err
	}
	if !res.Success {
		log.Error().Str("reason", res.FailureReason).Msg("fallback: market buy declined")
		IncOrder(OrderTypeMarket, "failed")
		return nil
	}

	filled := true
	if !t.ledger.Append(OrderRecord{
		OrderID: res.OrderID,
		Type:    OrderTypeMarket,
		Filled:  &filled, // market IOC: assumed filled on success
		Time:    now,
		Price:   price,
	}) {
		log.Warn().Str("order_id", res.OrderID).Msg("fallback: duplicate order id, not re-recorded")
		return nil
	}
	IncOrder(OrderTypeMarket, "placed")
	log.Info().Str("order_id", res.OrderID).Str("quote", t.cfg.QuoteAmount.StringFixed(2)).
		Msg("fallback: market buy placed")
	return nil
}

// runLadder computes the adjusted budget and places one limit buy per tier.
func (t *Trader) runLadder(ctx context.Context, now time.Time) error {
	price, err := t.gw.GetProductPrice(ctx, t.cfg.ProductID)
	if err != nil {
		log.Error().Err(err).Msg("ladder: price fetch failed, skipping placement")
		return err
	}

	last, ok := t.ledger.LastFilledPrice()
	if !ok {
		last = price
	}
	score := t.fetchSentiment(ctx)
	adjusted := adjustQuote(t.cfg.QuoteAmount, price, last, score)
	SetAdjustedQuote(adjusted)
	log.Info().
		Str("price", price.String()).
		Str("last_fill", last.String()).
		Int("sentiment", score).
		Str("adjusted_quote", adjusted.StringFixed(2)).
		Msg("ladder: budget adjusted")

	for i, rung := range planLadder(t.cfg, adjusted, price) {
		res, err := t.gw.LimitBuyGTC(ctx, uuid.New().String(), t.cfg.ProductID, rung.BaseSize, rung.LimitPrice)
		if err != nil {
			log.Warn().Int("tier", i).Err(err).Msg("ladder: limit buy failed")
			IncOrder(OrderTypeLimit, "failed")
			continue
		}
		if !res.Success {
			log.Warn().Int("tier", i).Str("reason", res.FailureReason).Msg("ladder: limit buy declined")
			IncOrder(OrderTypeLimit, "failed")
			continue
		}
		limitPrice, fraction := rung.LimitPrice, rung.Fraction
		if !t.ledger.Append(OrderRecord{
			OrderID:    res.OrderID,
			Type:       OrderTypeLimit,
			Time:       now,
			Price:      price,
			LimitPrice: &limitPrice,
			Fraction:   &fraction,
		}) {
			log.Warn().Int("tier", i).Str("order_id", res.OrderID).Msg("ladder: duplicate order id, not re-recorded")
			continue
		}
		IncOrder(OrderTypeLimit, "placed")
		log.Info().Int("tier", i).
			Str("order_id", res.OrderID).
			Str("limit_price", rung.LimitPrice.StringFixed(2)).
			Str("base_size", rung.BaseSize.String()).
			Msg("ladder: limit buy placed")
	}
	return nil
}

// fetchSentiment substitutes the neutral midpoint on any provider failure.
func (t *Trader) fetchSentiment(ctx context.Context) int {
	score, err := t.sentiment.GetSentiment(ctx)
	if err != nil {
		log.Warn().Err(err).Int("default", neutralSentiment).Msg("sentiment: fetch failed, using neutral")
		score = neutralSentiment
	}
	SetSentiment(score)
	return score
}
