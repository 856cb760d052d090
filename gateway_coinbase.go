// FILE: gateway_coinbase.go
package main

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const listOrdersPageLimit = 100

type CoinbaseGateway struct {
	apiBase string // default https://api.coinbase.com
	hc      *http.Client
	// Auth modes:
	//  - If bearerToken set, use it
	//  - Else if keyName + privateKeyPEM set, mint per-request JWT
	keyName       string
	privateKeyPEM string
	bearerToken   string
}

func NewCoinbaseGateway() *CoinbaseGateway {
	return &CoinbaseGateway{
		apiBase:       strings.TrimRight(getEnv("COINBASE_API_BASE", "https://api.coinbase.com"), "/"),
		hc:            &http.Client{Timeout: 15 * time.Second},
		keyName:       strings.TrimSpace(getEnv("COINBASE_API_KEY_NAME", "")),
		privateKeyPEM: normalizeMultiline(getEnv("COINBASE_API_PRIVATE_KEY", getEnv("COINBASE_API_SECRET", ""))),
		bearerToken:   strings.TrimSpace(getEnv("COINBASE_BEARER_TOKEN", "")),
	}
}

func (cb *CoinbaseGateway) Name() string { return "coinbase" }

// HasCredentials reports whether any usable auth material is configured.
// Checked in main before the run starts; the bot refuses to trade without it.
func (cb *CoinbaseGateway) HasCredentials() bool {
	return cb.bearerToken != "" || (cb.keyName != "" && cb.privateKeyPEM != "")
}

// ---------- Price ----------

func (cb *CoinbaseGateway) GetProductPrice(ctx context.Context, product string) (decimal.Decimal, error) {
	u := fmt.Sprintf("%s/api/v3/brokerage/products/%s", cb.apiBase, url.PathEscape(product))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("User-Agent", "dcabot/coinbase-go")
	cb.addAuthIfAvailable(req) // product is often public, but allow auth too

	res, err := cb.hc.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(res.Body)
		return decimal.Zero, fmt.Errorf("product %d: %s", res.StatusCode, string(b))
	}
	var j map[string]any
	if err := json.NewDecoder(res.Body).Decode(&j); err != nil {
		return decimal.Zero, err
	}
	// Try common numeric fields
	for _, k := range []string{"price", "mid_market_price", "best_ask", "best_bid"} {
		s := firstString(j[k])
		if s == "" {
			continue
		}
		if d, err := decimal.NewFromString(s); err == nil && d.IsPositive() {
			return d, nil
		}
	}
	return decimal.Zero, errors.New("no usable price in product payload")
}

// ---------- Order listing / status / cancel ----------

func (cb *CoinbaseGateway) ListOrders(ctx context.Context, product, status, cursor string) (OrderPage, error) {
	qs := url.Values{
		"product_id": []string{product},
		"limit":      []string{fmt.Sprintf("%d", listOrdersPageLimit)},
	}
	if status != "" {
		qs.Set("order_status", strings.ToUpper(status))
	}
	if cursor != "" {
		qs.Set("cursor", cursor)
	}
	u := fmt.Sprintf("%s/api/v3/brokerage/orders/historical/batch?%s", cb.apiBase, qs.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return OrderPage{}, err
	}
	req.Header.Set("User-Agent", "dcabot/coinbase-go")
	if err := cb.addAuth(req); err != nil {
		return OrderPage{}, err
	}

	res, err := cb.hc.Do(req)
	if err != nil {
		return OrderPage{}, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(res.Body)
		return OrderPage{}, fmt.Errorf("list orders %d: %s", res.StatusCode, string(b))
	}

	var j struct {
		Orders []struct {
			OrderID     string `json:"order_id"`
			ProductID   string `json:"product_id"`
			Status      string `json:"status"`
			CreatedTime string `json:"created_time"`
		} `json:"orders"`
		HasNext bool   `json:"has_next"`
		Cursor  string `json:"cursor"`
	}
	if err := json.NewDecoder(res.Body).Decode(&j); err != nil {
		return OrderPage{}, err
	}

	page := OrderPage{HasNext: j.HasNext, Cursor: j.Cursor}
	for _, o := range j.Orders {
		created, _ := time.Parse(time.RFC3339, o.CreatedTime)
		page.Orders = append(page.Orders, OpenOrder{
			OrderID:     o.OrderID,
			ProductID:   o.ProductID,
			Status:      o.Status,
			CreatedTime: created.UTC(),
		})
	}
	return page, nil
}

func (cb *CoinbaseGateway) GetOrderStatus(ctx context.Context, orderID string) (string, error) {
	if strings.TrimSpace(orderID) == "" {
		return "", errors.New("empty order id")
	}
	u := fmt.Sprintf("%s/api/v3/brokerage/orders/historical/%s", cb.apiBase, url.PathEscape(orderID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "dcabot/coinbase-go")
	if err := cb.addAuth(req); err != nil {
		return "", err
	}

	res, err := cb.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("get order %d: %s", res.StatusCode, string(b))
	}
	var j map[string]any
	if err := json.NewDecoder(res.Body).Decode(&j); err != nil {
		return "", err
	}
	// Usual shape: {"order":{"status":"FILLED", ...}}; tolerate a flat status.
	if m, ok := j["order"].(map[string]any); ok {
		return firstString(m["status"]), nil
	}
	return firstString(j["status"]), nil
}

func (cb *CoinbaseGateway) CancelOrders(ctx context.Context, orderIDs []string) error {
	if len(orderIDs) == 0 {
		return nil
	}
	body, _ := json.Marshal(map[string]any{"order_ids": orderIDs})
	u := cb.apiBase + "/api/v3/brokerage/orders/batch_cancel"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "dcabot/coinbase-go")
	req.Header.Set("Content-Type", "application/json")
	if err := cb.addAuth(req); err != nil {
		return err
	}

	res, err := cb.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(res.Body)
		return fmt.Errorf("batch cancel %d: %s", res.StatusCode, string(b))
	}
	return nil
}

// ---------- Order placement ----------

func (cb *CoinbaseGateway) MarketBuy(ctx context.Context, clientOrderID, product string, quoteSize decimal.Decimal) (PlaceResult, error) {
	if !quoteSize.IsPositive() {
		return PlaceResult{}, fmt.Errorf("invalid quote size: %s", quoteSize)
	}
	return cb.createOrder(ctx, clientOrderID, product, map[string]any{
		"market_market_ioc": map[string]string{
			"quote_size": quoteSize.StringFixed(2),
		},
	})
}

func (cb *CoinbaseGateway) LimitBuyGTC(ctx context.Context, clientOrderID, product string, baseSize, limitPrice decimal.Decimal) (PlaceResult, error) {
	if !baseSize.IsPositive() || !limitPrice.IsPositive() {
		return PlaceResult{}, fmt.Errorf("invalid limit order: size=%s price=%s", baseSize, limitPrice)
	}
	return cb.createOrder(ctx, clientOrderID, product, map[string]any{
		"limit_limit_gtc": map[string]string{
			"base_size":   baseSize.String(),
			"limit_price": limitPrice.StringFixed(2),
		},
	})
}

func (cb *CoinbaseGateway) createOrder(ctx context.Context, clientOrderID, product string, orderConfig map[string]any) (PlaceResult, error) {
	body := map[string]any{
		"client_order_id":     clientOrderID,
		"product_id":          product,
		"side":                "BUY",
		"order_configuration": orderConfig,
	}
	bs, _ := json.Marshal(body)
	u := cb.apiBase + "/api/v3/brokerage/orders"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(bs))
	if err != nil {
		return PlaceResult{}, err
	}
	req.Header.Set("User-Agent", "dcabot/coinbase-go")
	req.Header.Set("Content-Type", "application/json")
	if err := cb.addAuth(req); err != nil {
		return PlaceResult{}, err
	}

	res, err := cb.hc.Do(req)
	if err != nil {
		return PlaceResult{}, err
	}
	defer res.Body.Close()
	rb, _ := io.ReadAll(res.Body)
	if res.StatusCode >= 300 {
		return PlaceResult{}, fmt.Errorf("order %d: %s", res.StatusCode, string(rb))
	}

	// A declined order still comes back 200: {"success":false,"error_response":{...}}.
	var generic map[string]any
	_ = json.Unmarshal(rb, &generic)

	success := false
	if sv, ok := generic["success"].(bool); ok {
		success = sv
	}
	if !success {
		reason := firstString(
			nested(generic, "error_response", "message"),
			nested(generic, "error_response", "error"),
			generic["failure_reason"],
		)
		if reason == "" {
			reason = strings.TrimSpace(string(rb))
		}
		return PlaceResult{Success: false, FailureReason: reason}, nil
	}

	orderID := firstString(
		nested(generic, "success_response", "order_id"),
		generic["order_id"],
	)
	if orderID == "" {
		// Fall back to the idempotency token if the venue omits the id.
		orderID = clientOrderID
	}
	return PlaceResult{Success: true, OrderID: orderID}, nil
}

// ---------- auth helpers ----------

func (cb *CoinbaseGateway) addAuthIfAvailable(req *http.Request) {
	if cb.HasCredentials() {
		_ = cb.addAuth(req)
	}
}

func (cb *CoinbaseGateway) addAuth(req *http.Request) error {
	// Prefer fixed bearer if provided (useful if you supply externally-minted tokens)
	if cb.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+cb.bearerToken)
		return nil
	}
	// Else mint a short-lived JWT using key name + private key.
	if cb.keyName == "" || cb.privateKeyPEM == "" {
		return errors.New("coinbase auth not configured (set COINBASE_BEARER_TOKEN or COINBASE_API_KEY_NAME + COINBASE_API_PRIVATE_KEY)")
	}
	token, err := mintCoinbaseJWT(cb.keyName, cb.privateKeyPEM, 25*time.Second)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("CB-ACCESS-KEY", cb.keyName)
	return nil
}

func mintCoinbaseJWT(keyName, privatePEM string, ttl time.Duration) (string, error) {
	block, _ := pem.Decode([]byte(privatePEM))
	if block == nil {
		return "", errors.New("invalid private key (no PEM block)")
	}
	var (
		signer any
		method jwt.SigningMethod
	)
	switch block.Type {
	case "PRIVATE KEY":
		k, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return "", err
		}
		switch t := k.(type) {
		case *rsa.PrivateKey:
			signer, method = t, jwt.SigningMethodRS256
		case *ecdsa.PrivateKey:
			signer, method = t, jwt.SigningMethodES256
		default:
			return "", errors.New("unsupported PKCS8 key type")
		}
	case "RSA PRIVATE KEY":
		k, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return "", err
		}
		signer, method = k, jwt.SigningMethodRS256
	case "EC PRIVATE KEY":
		k, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return "", err
		}
		signer, method = k, jwt.SigningMethodES256
	default:
		return "", fmt.Errorf("unsupported key type: %s", block.Type)
	}
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": keyName,           // API key name
		"aud": "retail_rest_api", // audience per Advanced Trade docs
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
		"nbf": now.Add(-5 * time.Second).Unix(),
		"jti": uuid.New().String(),
	}
	t := jwt.NewWithClaims(method, claims)
	return t.SignedString(signer)
}

// ---------- small utils ----------

func firstString(vals ...any) string {
	for _, v := range vals {
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case fmt.Stringer:
			s := strings.TrimSpace(t.String())
			if s != "" {
				return s
			}
		}
	}
	return ""
}

func nested(m map[string]any, keys ...string) any {
	cur := any(m)
	for _, k := range keys {
		mm, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = mm[k]
	}
	return cur
}

func normalizeMultiline(s string) string {
	if strings.Contains(s, `\n`) {
		return strings.ReplaceAll(s, `\n`, "\n")
	}
	return s
}
