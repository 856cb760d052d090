// FILE: sentiment.go
// Package main – Fear & Greed index provider.
//
// The sentiment score is a bounded integer in [0,100] used to scale the
// purchase budget contrarian to market extremes. Any provider failure is
// substituted with the neutral midpoint (50) by the orchestrator; nothing
// here ever aborts a run.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const neutralSentiment = 50

// SentimentProvider returns the current market sentiment score.
type SentimentProvider interface {
	GetSentiment(ctx context.Context) (int, error)
}

// FearGreedClient fetches the alternative.me Fear & Greed index.
type FearGreedClient struct {
	apiURL string
	hc     *http.Client
}

func NewFearGreedClient(apiURL string) *FearGreedClient {
	return &FearGreedClient{
		apiURL: apiURL,
		hc:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *FearGreedClient) GetSentiment(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", "dcabot/fng-go")

	res, err := c.hc.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(res.Body)
		return 0, fmt.Errorf("fng %d: %s", res.StatusCode, string(b))
	}

	// Shape: {"data":[{"value":"39","value_classification":"Fear",...}]}
	var j struct {
		Data []struct {
			Value string `json:"value"`
		} `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&j); err != nil {
		return 0, err
	}
	if len(j.Data) == 0 {
		return 0, errors.New("fng: empty data array")
	}
	v, err := strconv.Atoi(strings.TrimSpace(j.Data[0].Value))
	if err != nil {
		return 0, fmt.Errorf("fng: bad value %q", j.Data[0].Value)
	}
	return clampSentiment(v), nil
}

func clampSentiment(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
