// FILE: ledger.go
// Package main – Durable order ledger.
//
// The ledger is the system of record across runs: an ordered JSON array of
// OrderRecord, one per successfully placed order. Records are append-only;
// only the fill status of an existing record ever changes. Saves go through
// a temp file + rename so a crash mid-write can never leave a truncated
// ledger behind.
package main

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// OrderRecord is one persisted order.
//
// Filled is a tri-state: nil means the fill status is not yet known and the
// record is a candidate for reconciliation; once set (either way) the record
// is settled from the reconciler's point of view and is never re-queried.
type OrderRecord struct {
	OrderID    string           `json:"order_id,omitempty"`
	Type       OrderType        `json:"type"`
	Filled     *bool            `json:"filled,omitempty"`
	Status     string           `json:"status,omitempty"` // exchange-reported, lower-cased
	Time       time.Time        `json:"time"`             // placement time, UTC
	Price      decimal.Decimal  `json:"price"`            // market price observed at placement
	LimitPrice *decimal.Decimal `json:"limit_price,omitempty"`
	Fraction   *decimal.Decimal `json:"fraction,omitempty"` // budget share for laddered orders
}

// FillKnown reports whether the exchange has told us anything about this order.
func (r *OrderRecord) FillKnown() bool { return r.Filled != nil }

// IsFilled reports a confirmed fill.
func (r *OrderRecord) IsFilled() bool { return r.Filled != nil && *r.Filled }

// Ledger holds the in-memory view of the persisted order history.
type Ledger struct {
	path    string
	records []*OrderRecord
}

func NewLedger(path string) *Ledger {
	return &Ledger{path: path}
}

// Load reads the persisted ledger. A missing file yields an empty history;
// corrupt content is logged and likewise treated as empty, never surfaced
// to the caller.
func (l *Ledger) Load() {
	l.records = nil
	bs, err := os.ReadFile(l.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("path", l.path).Err(err).Msg("ledger: unreadable, starting empty")
		}
		return
	}
	var recs []*OrderRecord
	if err := json.Unmarshal(bs, &recs); err != nil {
		log.Warn().Str("path", l.path).Err(err).Msg("ledger: corrupt, starting empty")
		return
	}
	l.records = recs
}

// Save serializes the full history and atomically replaces the previous
// file. The rename is the commit point: a crash before it leaves the old
// ledger intact.
func (l *Ledger) Save() error {
	bs, err := json.MarshalIndent(l.records, "", " ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, bs, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, l.path)
}

// Append adds a record unless its order id is already present. Returns false
// on a duplicate; the ledger never holds two records for one exchange order.
func (l *Ledger) Append(rec OrderRecord) bool {
	if rec.OrderID != "" && l.Has(rec.OrderID) {
		return false
	}
	l.records = append(l.records, &rec)
	return true
}

func (l *Ledger) Has(orderID string) bool {
	for _, r := range l.records {
		if r.OrderID == orderID {
			return true
		}
	}
	return false
}

func (l *Ledger) Len() int { return len(l.records) }

// Records exposes the live record slice; reconciliation mutates fill status
// through it.
func (l *Ledger) Records() []*OrderRecord { return l.records }

// Unresolved returns records with an order id but no known fill status.
func (l *Ledger) Unresolved() []*OrderRecord {
	var out []*OrderRecord
	for _, r := range l.records {
		if r.OrderID != "" && !r.FillKnown() {
			out = append(out, r)
		}
	}
	return out
}

// RecentLimitOrders returns limit records placed within the window ending now.
func (l *Ledger) RecentLimitOrders(now time.Time, window time.Duration) []*OrderRecord {
	var out []*OrderRecord
	for _, r := range l.records {
		if r.Type != OrderTypeLimit {
			continue
		}
		if age := now.Sub(r.Time); age >= 0 && age < window {
			out = append(out, r)
		}
	}
	return out
}

// LastFilledPrice returns the placement-time price of the most recent
// confirmed filled buy, or false if the ledger holds none.
func (l *Ledger) LastFilledPrice() (decimal.Decimal, bool) {
	for i := len(l.records) - 1; i >= 0; i-- {
		if l.records[i].IsFilled() {
			return l.records[i].Price, true
		}
	}
	return decimal.Zero, false
}
