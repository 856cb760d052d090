// FILE: main.go
// Package main – Program entrypoint.
//
// Boot sequence:
//   1) loadBotEnv()               – read dca.env (no shell exports required)
//   2) cfg := loadConfigFromEnv() – build runtime Config
//   3) cfg.Validate()             – ladder tiers checked before any I/O
//   4) credential precondition    – fatal when live without auth material
//   5) wire gateway/sentiment/trader
//   6) run once (default) or loop with the /metrics server up
//
// Flags:
//   -loop             Keep running on a ticker instead of exiting after one run
//   -interval <sec>   Loop cadence in seconds (default 86400)
//
// Example:
//   go run . -loop -interval 3600

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// ---- Flags ----
	var loop bool
	var intervalSec int
	flag.BoolVar(&loop, "loop", false, "Re-run on a ticker instead of exiting after one run")
	flag.IntVar(&intervalSec, "interval", 86400, "Loop interval in seconds")
	flag.Parse()

	// ---- Logging ----
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// ---- Environment & Config ----
	loadBotEnv()
	cfg := loadConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// ---- Gateway wiring ----
	var gw ExchangeGateway
	if cfg.DryRun {
		gw = NewPaperGateway()
	} else {
		cb := NewCoinbaseGateway()
		// Missing credentials are the one fatal precondition: abort before
		// any exchange interaction rather than half-run a cycle.
		if !cb.HasCredentials() {
			log.Fatal().Msg("missing Coinbase credentials (set COINBASE_API_KEY_NAME + COINBASE_API_PRIVATE_KEY, or COINBASE_BEARER_TOKEN)")
		}
		gw = cb
	}

	trader := NewTrader(cfg, gw, NewFearGreedClient(cfg.FNGAPIURL))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if !loop {
		if err := runOnce(ctx, trader); err != nil {
			os.Exit(1)
		}
		return
	}

	// ---- HTTP metrics/health (loop mode only) ----
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Port), Handler: mux}
	go func() {
		log.Info().Int("port", cfg.Port).Msg("serving /metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("metrics server")
		}
	}()

	runLoop(ctx, trader, intervalSec)

	// ---- Graceful shutdown for HTTP server ----
	shutdownCtx, c := context.WithTimeout(context.Background(), 2*time.Second)
	defer c()
	_ = srv.Shutdown(shutdownCtx)
}
