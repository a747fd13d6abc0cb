package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalidOrder = errors.New("invalid order")

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Order is a manually recorded spot position. Orders are only read by the
// alert cycle; the HTTP API creates and deletes them.
type Order struct {
	ID         string  `json:"id"`
	Timestamp  int64   `json:"timestamp"` // ms since epoch
	Asset      string  `json:"asset"`
	Quantity   float64 `json:"quantity"`
	EntryPrice float64 `json:"entryPrice"`
	Side       Side    `json:"side,omitempty"`
}

// Symbol returns the upper-cased asset used for every price lookup.
func (o Order) Symbol() string {
	return strings.ToUpper(strings.TrimSpace(o.Asset))
}

// EffectiveSide resolves the side of the order. Legacy records carry no side
// and are read as SELL; the second return value reports that fallback.
func (o Order) EffectiveSide() (Side, bool) {
	switch Side(strings.ToUpper(string(o.Side))) {
	case SideBuy:
		return SideBuy, false
	case SideSell:
		return SideSell, false
	default:
		return SideSell, true
	}
}

// Notional is the quote-currency value at which the position was opened.
func (o Order) Notional() float64 {
	return o.Quantity * o.EntryPrice
}

// Valid reports whether quantity and entry price are positive finite numbers.
func (o Order) Valid() bool {
	return isPositiveFinite(o.Quantity) && isPositiveFinite(o.EntryPrice)
}

// Validate checks an order before it is recorded.
func (o Order) Validate() error {
	if o.Symbol() == "" {
		return fmt.Errorf("%w: asset is required", ErrInvalidOrder)
	}
	if !isPositiveFinite(o.Quantity) {
		return fmt.Errorf("%w: quantity must be a positive number", ErrInvalidOrder)
	}
	if !isPositiveFinite(o.EntryPrice) {
		return fmt.Errorf("%w: entryPrice must be a positive number", ErrInvalidOrder)
	}
	switch o.Side {
	case "", SideBuy, SideSell:
		return nil
	default:
		return fmt.Errorf("%w: side must be BUY or SELL", ErrInvalidOrder)
	}
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// DistinctSymbols returns the upper-cased symbols referenced by orders, in
// first-seen order.
func DistinctSymbols(orders []Order) []string {
	seen := make(map[string]struct{}, len(orders))
	symbols := make([]string, 0, len(orders))
	for _, o := range orders {
		s := o.Symbol()
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		symbols = append(symbols, s)
	}
	return symbols
}
