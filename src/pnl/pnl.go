// Package pnl computes the fee-adjusted net profit of closing a recorded
// position at a given market price.
package pnl

import (
	"math"

	"positionalerts/src/model"
)

// FeeRate is the exchange fee charged on the closing leg. The opening leg's
// fee is not modelled.
const FeeRate = 0.0015

// ComputeNet returns the net P&L, in quote currency, of closing order at
// currentPrice. Bad inputs (non-positive or non-finite price, quantity or
// entry price) yield 0 so they can never produce a signal.
//
// SELL orders close by buying back: the original notional repurchases
// notional/currentPrice units, less the fee, and the surplus over the
// recorded quantity is valued at currentPrice. BUY orders close by selling
// at currentPrice, less the fee, against the original cost.
func ComputeNet(order model.Order, currentPrice float64) float64 {
	if !positiveFinite(currentPrice) || !order.Valid() {
		return 0
	}

	side, _ := order.EffectiveSide()
	if side == model.SideBuy {
		proceeds := order.Quantity * currentPrice
		return proceeds - proceeds*FeeRate - order.Notional()
	}

	grossQty := order.Notional() / currentPrice
	netQty := grossQty - grossQty*FeeRate
	return (netQty - order.Quantity) * currentPrice
}

// SignOf maps a net P&L to -1, 0 or +1. No rounding is applied.
func SignOf(net float64) int {
	switch {
	case net > 0:
		return 1
	case net < 0:
		return -1
	default:
		return 0
	}
}

// IsCrossing reports a move from non-positive into positive territory.
func IsCrossing(prior, next int) bool {
	return prior <= 0 && next > 0
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
