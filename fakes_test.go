package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// --- Test doubles shared across the package tests ---------------------------

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type placeCall struct {
	clientOrderID string
	baseSize      decimal.Decimal
	limitPrice    decimal.Decimal
	quoteSize     decimal.Decimal
}

// fakeGateway scripts gateway behavior per call and records what the bot did.
type fakeGateway struct {
	price    decimal.Decimal
	priceErr error

	statuses    map[string]string
	statusErrs  map[string]error
	statusCalls []string

	openPages []OrderPage
	listErr   error
	listCalls int

	canceled  []string
	cancelErr error

	limitResults []PlaceResult
	limitErrs    []error
	limitCalls   []placeCall

	marketResult PlaceResult
	marketErr    error
	marketCalls  []placeCall
}

func (f *fakeGateway) Name() string { return "fake" }

func (f *fakeGateway) GetProductPrice(ctx context.Context, product string) (decimal.Decimal, error) {
	if f.priceErr != nil {
		return decimal.Zero, f.priceErr
	}
	return f.price, nil
}

func (f *fakeGateway) ListOrders(ctx context.Context, product, status, cursor string) (OrderPage, error) {
	if f.listErr != nil {
		return OrderPage{}, f.listErr
	}
	i := f.listCalls
	f.listCalls++
	if i >= len(f.openPages) {
		return OrderPage{}, nil
	}
	return f.openPages[i], nil
}

func (f *fakeGateway) GetOrderStatus(ctx context.Context, orderID string) (string, error) {
	f.statusCalls = append(f.statusCalls, orderID)
	if err, ok := f.statusErrs[orderID]; ok {
		return "", err
	}
	return f.statuses[orderID], nil
}

func (f *fakeGateway) CancelOrders(ctx context.Context, orderIDs []string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.canceled = append(f.canceled, orderIDs...)
	return nil
}

func (f *fakeGateway) MarketBuy(ctx context.Context, clientOrderID, product string, quoteSize decimal.Decimal) (PlaceResult, error) {
	f.marketCalls = append(f.marketCalls, placeCall{clientOrderID: clientOrderID, quoteSize: quoteSize})
	if f.marketErr != nil {
		return PlaceResult{}, f.marketErr
	}
	if f.marketResult.OrderID == "" && !f.marketResult.Success && f.marketResult.FailureReason == "" {
		return PlaceResult{Success: true, OrderID: "market-1"}, nil
	}
	return f.marketResult, nil
}

func (f *fakeGateway) LimitBuyGTC(ctx context.Context, clientOrderID, product string, baseSize, limitPrice decimal.Decimal) (PlaceResult, error) {
	i := len(f.limitCalls)
	f.limitCalls = append(f.limitCalls, placeCall{clientOrderID: clientOrderID, baseSize: baseSize, limitPrice: limitPrice})
	if i < len(f.limitErrs) && f.limitErrs[i] != nil {
		return PlaceResult{}, f.limitErrs[i]
	}
	if i < len(f.limitResults) {
		return f.limitResults[i], nil
	}
	return PlaceResult{Success: true, OrderID: fmt.Sprintf("limit-%d", i+1)}, nil
}

// fakeSentiment scripts the sentiment provider.
type fakeSentiment struct {
	score int
	err   error
}

func (f *fakeSentiment) GetSentiment(ctx context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.score, nil
}
