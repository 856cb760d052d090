// FILE: gateway.go
// Package main – Exchange gateway abstraction shared by all backends.
//
// This file defines the minimal interface the purchase run needs to talk to
// an execution venue (paper or real):
//   • ExchangeGateway interface: price lookup, order listing/status/cancel,
//     market buy by quote size, limit GTC buy by base size
//   • Common types: OpenOrder, OrderPage, PlaceResult
//
// Two concrete implementations live in separate files:
//   • gateway_paper.go     – in-memory paper gateway (no external calls)
//   • gateway_coinbase.go  – Coinbase Advanced Trade REST client
package main

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OrderType distinguishes the two kinds of buys the bot places.
type OrderType string

const (
	OrderTypeMarket OrderType = "market"
	OrderTypeLimit  OrderType = "limit"
)

// OpenOrder is a normalized view of an exchange-reported order.
type OpenOrder struct {
	OrderID     string
	ProductID   string
	Status      string
	CreatedTime time.Time
}

// OrderPage is one page of a paginated order listing.
type OrderPage struct {
	Orders  []OpenOrder
	HasNext bool
	Cursor  string
}

// PlaceResult reports the outcome of an order placement. A declined order is
// an expected failure mode, not a transport error: Success=false with a
// FailureReason. Transport/auth errors surface as the method's error return.
type PlaceResult struct {
	Success       bool
	OrderID       string
	FailureReason string
}

// ExchangeGateway is the minimal surface the bot needs to operate.
// Every write call takes a caller-supplied clientOrderID: a fresh idempotency
// token per attempt, so a retried request can never execute twice venue-side.
type ExchangeGateway interface {
	Name() string
	GetProductPrice(ctx context.Context, product string) (decimal.Decimal, error)
	ListOrders(ctx context.Context, product, status, cursor string) (OrderPage, error)
	GetOrderStatus(ctx context.Context, orderID string) (string, error)
	CancelOrders(ctx context.Context, orderIDs []string) error
	MarketBuy(ctx context.Context, clientOrderID, product string, quoteSize decimal.Decimal) (PlaceResult, error)
	LimitBuyGTC(ctx context.Context, clientOrderID, product string, baseSize, limitPrice decimal.Decimal) (PlaceResult, error)
}

// listAllOrders follows pagination until the gateway reports no further pages.
func listAllOrders(ctx context.Context, gw ExchangeGateway, product, status string) ([]OpenOrder, error) {
	var all []OpenOrder
	cursor := ""
	for {
		page, err := gw.ListOrders(ctx, product, status, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Orders...)
		if !page.HasNext || page.Cursor == "" {
			return all, nil
		}
		cursor = page.Cursor
	}
}
