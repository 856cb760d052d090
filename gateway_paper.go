// FILE: gateway_paper.go
// Package main – In-memory paper gateway (no external calls).
//
// This gateway simulates execution at a fixed price. It's used for dry runs:
// market buys fill instantly, limit buys stay OPEN until canceled, and the
// whole reconcile/cancel/place cycle works without credentials.
//
// Methods mirror the ExchangeGateway interface; see gateway.go.
package main

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaperGateway keeps a single mutable price and an in-memory order table.
type PaperGateway struct {
	mu     sync.Mutex
	price  decimal.Decimal
	orders map[string]*OpenOrder
}

func NewPaperGateway() *PaperGateway {
	return &PaperGateway{
		price:  getEnvDecimal("PAPER_PRICE", "108000"),
		orders: make(map[string]*OpenOrder),
	}
}

func (p *PaperGateway) Name() string { return "paper" }

func (p *PaperGateway) GetProductPrice(ctx context.Context, product string) (decimal.Decimal, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.price, nil
}

// SetPrice adjusts the simulated market price.
func (p *PaperGateway) SetPrice(d decimal.Decimal) {
	p.mu.Lock()
	p.price = d
	p.mu.Unlock()
}

func (p *PaperGateway) ListOrders(ctx context.Context, product, status, cursor string) (OrderPage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	want := strings.ToUpper(status)
	var page OrderPage
	for _, o := range p.orders {
		if product != "" && o.ProductID != product {
			continue
		}
		if want != "" && o.Status != want {
			continue
		}
		page.Orders = append(page.Orders, *o)
	}
	return page, nil
}

func (p *PaperGateway) GetOrderStatus(ctx context.Context, orderID string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	o, ok := p.orders[orderID]
	if !ok {
		return "", errors.New("paper: unknown order " + orderID)
	}
	return o.Status, nil
}

func (p *PaperGateway) CancelOrders(ctx context.Context, orderIDs []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range orderIDs {
		if o, ok := p.orders[id]; ok && o.Status == "OPEN" {
			o.Status = "CANCELLED"
		}
	}
	return nil
}

// MarketBuy simulates an instantly-filled market order at the current price.
func (p *PaperGateway) MarketBuy(ctx context.Context, clientOrderID, product string, quoteSize decimal.Decimal) (PlaceResult, error) {
	if !quoteSize.IsPositive() {
		return PlaceResult{Success: false, FailureReason: "quote size must be > 0"}, nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	id := uuid.New().String()
	p.orders[id] = &OpenOrder{
		OrderID:     id,
		ProductID:   product,
		Status:      "FILLED",
		CreatedTime: time.Now().UTC(),
	}
	return PlaceResult{Success: true, OrderID: id}, nil
}

// LimitBuyGTC records an OPEN resting order; it never fills on its own.
func (p *PaperGateway) LimitBuyGTC(ctx context.Context, clientOrderID, product string, baseSize, limitPrice decimal.Decimal) (PlaceResult, error) {
	if !baseSize.IsPositive() || !limitPrice.IsPositive() {
		return PlaceResult{Success: false, FailureReason: "size and price must be > 0"}, nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	id := uuid.New().String()
	p.orders[id] = &OpenOrder{
		OrderID:     id,
		ProductID:   product,
		Status:      "OPEN",
		CreatedTime: time.Now().UTC(),
	}
	return PlaceResult{Success: true, OrderID: id}, nil
}
