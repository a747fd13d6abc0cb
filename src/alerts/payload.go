package alerts

import (
	"fmt"

	"github.com/shopspring/decimal"

	"positionalerts/src/model"
)

// BuildPayload formats the notification sent when order turns profitable.
func BuildPayload(order model.Order, net, price float64, quote string) model.Payload {
	side, _ := order.EffectiveSide()
	symbol := order.Symbol()

	return model.Payload{
		Title: fmt.Sprintf("%s position in profit", symbol),
		Body: fmt.Sprintf("Net %s %s | %s %s %s @ %s | now %s",
			signedAmount(net),
			quote,
			side,
			decimal.NewFromFloat(order.Quantity).String(),
			symbol,
			decimal.NewFromFloat(order.EntryPrice).String(),
			decimal.NewFromFloat(price).String(),
		),
	}
}

func signedAmount(net float64) string {
	amount := decimal.NewFromFloat(net).StringFixed(2)
	if net > 0 {
		return "+" + amount
	}
	return amount
}
