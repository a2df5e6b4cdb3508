// Package persist snapshots an Account's margin ledger, position, and
// resting orders to a Pebble-backed key-value store, so a backtest driver
// can checkpoint and resume a run. Ported from the teacher's
// account-keyed JSON-blob store: one key per account, one JSON document per
// snapshot, no secondary indexes.
package persist

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/marginforge/isolex/internal/core"
	"github.com/marginforge/isolex/internal/market"
	"github.com/marginforge/isolex/internal/money"
)

// Store wraps a Pebble database tuned for small, infrequent writes of
// whole-account snapshots rather than a high-throughput write path.
type Store struct {
	db *pebble.DB
}

// Open opens (creating if necessary) a Pebble store at dir.
func Open(dir string) (*Store, error) {
	opts := &pebble.Options{
		MemTableSize:                64 << 20,
		MemTableStopWritesThreshold: 4,
	}
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("persist: open %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// orderRecord is the wire form of a core.Order: amounts as decimal strings
// so the snapshot is stable across money's internal representation.
type orderRecord struct {
	ID         uint64  `json:"id"`
	Side       int8    `json:"side"`
	Size       string  `json:"size"`
	LimitPrice *string `json:"limit_price,omitempty"`
	Timestamp  uint64  `json:"timestamp_ns"`
	Status     int8    `json:"status"`
}

// snapshot is the wire form of an Account plus its MarketState, as of the
// moment it was taken.
type snapshot struct {
	FuturesType      int8          `json:"futures_type"`
	WalletBalance    string        `json:"wallet_balance"`
	PositionMargin   string        `json:"position_margin"`
	OrderMargin      string        `json:"order_margin"`
	PositionSize     string        `json:"position_size"`
	EntryPrice       string        `json:"entry_price"`
	Orders           []orderRecord `json:"orders"`
	MarketBid        string        `json:"market_bid"`
	MarketAsk        string        `json:"market_ask"`
	MarketLow        string        `json:"market_low"`
	MarketHigh       string        `json:"market_high"`
	MarketStep       uint64        `json:"market_step"`
	MarketTimestamp  uint64        `json:"market_timestamp_ns"`
}

// SaveExchange snapshots exchange's account and market state under key.
func (s *Store) SaveExchange(key string, exchange *core.Exchange) error {
	acc := exchange.Account()
	state := exchange.MarketState()
	snap := snapshot{
		FuturesType:     int8(acc.FuturesType()),
		WalletBalance:   acc.Margin().WalletBalance().String(),
		PositionMargin:  acc.Margin().PositionMargin().String(),
		OrderMargin:     acc.Margin().OrderMargin().String(),
		PositionSize:    acc.Position().Size().String(),
		EntryPrice:      acc.Position().EntryPrice().String(),
		MarketBid:       state.Bid().String(),
		MarketAsk:       state.Ask().String(),
		MarketLow:       state.Low().String(),
		MarketHigh:      state.High().String(),
		MarketStep:      state.Step(),
		MarketTimestamp: state.Timestamp(),
	}
	for _, o := range acc.ActiveOrders() {
		rec := orderRecord{ID: o.ID, Side: int8(o.Side), Size: o.Size.String(), Timestamp: o.TimestampNs, Status: int8(o.Status)}
		if o.LimitPrice != nil {
			p := o.LimitPrice.String()
			rec.LimitPrice = &p
		}
		snap.Orders = append(snap.Orders, rec)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("persist: marshal snapshot: %w", err)
	}
	return s.db.Set([]byte("account:"+key), data, pebble.Sync)
}

// LoadInto restores key's most recent snapshot onto acc directly — it does
// not reconstruct a *core.Exchange, since the caller already owns one and
// its Config (fees, filters, leverage) is not part of the snapshot.
func (s *Store) LoadInto(key string, acc *core.Account) (bool, error) {
	data, closer, err := s.db.Get([]byte("account:" + key))
	if err == pebble.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("persist: get %s: %w", key, err)
	}
	defer closer.Close()

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return false, fmt.Errorf("persist: unmarshal snapshot: %w", err)
	}

	ft := money.FuturesType(snap.FuturesType)
	size := parsePaired(ft, snap.PositionSize)
	entry := money.QuoteFromString(nonEmpty(snap.EntryPrice, "0"))
	positionMargin := parseMargin(ft, snap.PositionMargin)
	acc.ChangePosition(size, entry, positionMargin)
	acc.RestoreMargin(parseMargin(ft, snap.WalletBalance), positionMargin, parseMargin(ft, snap.OrderMargin))

	for _, rec := range snap.Orders {
		order := &core.Order{
			ID:          rec.ID,
			Side:        market.Side(rec.Side),
			Size:        parsePaired(ft, rec.Size),
			TimestampNs: rec.Timestamp,
			Status:      core.Status(rec.Status),
		}
		if rec.LimitPrice != nil {
			p := money.QuoteFromString(*rec.LimitPrice)
			order.LimitPrice = &p
		}
		acc.RestoreOrder(order)
	}
	return true, nil
}

func parsePaired(ft money.FuturesType, s string) money.Amount {
	if ft == money.Linear {
		return money.BaseFromString(nonEmpty(s, "0"))
	}
	return money.QuoteFromString(nonEmpty(s, "0"))
}

func parseMargin(ft money.FuturesType, s string) money.Amount {
	if ft == money.Linear {
		return money.QuoteFromString(nonEmpty(s, "0"))
	}
	return money.BaseFromString(nonEmpty(s, "0"))
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
