package connectors

import (
	"context"
	"fmt"
)

// PriceSource resolves the current price of one symbol.
type PriceSource interface {
	Price(ctx context.Context, symbol string) (float64, error)
}

var (
	_ PriceSource = (*BinanceClient)(nil)
	_ PriceSource = (*GoexTicker)(nil)
)

// NewPriceSource builds the configured source.
func NewPriceSource(config Config) (PriceSource, error) {
	switch config.PriceSource {
	case SourceBinance, "":
		return NewBinanceClient(config.BinanceBaseURL, config.QuoteCurrency, config.PriceTimeout), nil
	case SourceGoex:
		return NewGoexTicker(config.BinanceBaseURL, config.QuoteCurrency, config.PriceTimeout), nil
	default:
		return nil, fmt.Errorf("unsupported PRICE_SOURCE %q", config.PriceSource)
	}
}
