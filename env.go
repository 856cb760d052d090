// FILE: env.go
// Package main – Environment helpers for the DCA bot.
//
// This file provides:
//   1) Small helpers to read environment variables with sane defaults
//      (strings, ints, bools, decimals, decimal lists).
//   2) A safe loader (loadBotEnv) that reads dca.env only, so the bot can
//      be tuned without shell exports.
//
// Notes:
//   • The bot never requires `export $(cat .env ...)`.
//   • Keys already present in the process env always win.

package main

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// --------- Env helpers (used across files) ---------

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "1", "true", "y", "yes":
		return true
	case "0", "false", "n", "no":
		return false
	default:
		return def
	}
}

func getEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvDecimal(key string, def string) decimal.Decimal {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		v = def
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		d, _ = decimal.NewFromString(def)
	}
	return d
}

// getEnvDecimalList parses a comma-separated decimal list, e.g. "0.998,0.96".
func getEnvDecimalList(key string, def string) []decimal.Decimal {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		v = def
	}
	out, err := parseDecimalList(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Err(err).Msg("env: bad decimal list, using default")
		out, _ = parseDecimalList(def)
	}
	return out
}

func parseDecimalList(s string) ([]decimal.Decimal, error) {
	parts := strings.Split(s, ",")
	out := make([]decimal.Decimal, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		d, err := decimal.NewFromString(p)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// --------- .env loader (bot-only) ---------

// loadBotEnv reads dca.env (or DCA_ENV_FILE) and sets ONLY the keys the bot needs.
// It won't override variables already in the environment.
func loadBotEnv() {
	path := getEnv("DCA_ENV_FILE", "dca.env")
	f, err := os.Open(path)
	if err != nil {
		log.Debug().Str("path", path).Msg("env: file not found, relying on process env")
		return
	}
	defer f.Close()

	needed := map[string]struct{}{
		"PRODUCT_ID": {}, "QUOTE_AMOUNT": {}, "TIF_HOURS": {}, "FALLBACK_DAYS": {},
		"TIER_DISCOUNTS": {}, "TIER_FRACTIONS": {}, "BASE_SIZE_PRECISION": {},
		"LEDGER_FILE": {}, "DRY_RUN": {}, "PORT": {},
		"FNG_API_URL": {}, "PAPER_PRICE": {},
		"COINBASE_API_BASE": {}, "COINBASE_API_KEY_NAME": {},
		"COINBASE_API_PRIVATE_KEY": {}, "COINBASE_API_SECRET": {},
		"COINBASE_BEARER_TOKEN": {},
	}

	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(line[len("export "):])
		}
		eq := strings.Index(line, "=")
		if eq <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		if _, ok := needed[key]; !ok {
			continue
		}
		val := strings.TrimSpace(line[eq+1:])
		if len(val) >= 2 && ((val[0] == '"' && val[len(val)-1] == '"') || (val[0] == '\'' && val[len(val)-1] == '\'')) {
			val = val[1 : len(val)-1]
		} else if idx := strings.Index(val, "#"); idx >= 0 {
			val = strings.TrimSpace(val[:idx])
		}
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, val)
		}
	}
	log.Info().Str("path", path).Msg("env: loaded")
}
