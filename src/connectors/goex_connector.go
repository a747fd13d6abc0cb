package connectors

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nntaoli-project/goex"
	"github.com/nntaoli-project/goex/binance"
)

// GoexTicker resolves prices through the goex exchange SDK. It is the
// PRICE_SOURCE=goex alternative to BinanceClient.
type GoexTicker struct {
	quote    string
	exchange goex.API
}

func NewGoexTicker(baseURL, quote string, timeout time.Duration) *GoexTicker {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = binance.GLOBAL_API_BASE_URL
	}
	apiConfig := &goex.APIConfig{
		HttpClient: &http.Client{Timeout: timeout},
		Endpoint:   strings.TrimRight(baseURL, "/"),
	}
	return NewGoexTickerWithAPI(binance.NewWithConfig(apiConfig), quote)
}

func NewGoexTickerWithAPI(api goex.API, quote string) *GoexTicker {
	return &GoexTicker{quote: strings.ToUpper(quote), exchange: api}
}

func (g *GoexTicker) Price(ctx context.Context, symbol string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}

	base := strings.ToUpper(strings.TrimSpace(symbol))
	pair := goex.NewCurrencyPair(goex.Currency{Symbol: base}, goex.Currency{Symbol: g.quote})

	ticker, err := g.exchange.GetTicker(pair)
	if err != nil {
		return 0, fmt.Errorf("%w: %s%s: %v", ErrPriceUnavailable, base, g.quote, err)
	}
	if ticker == nil {
		return 0, fmt.Errorf("%w: %s%s: empty ticker", ErrPriceUnavailable, base, g.quote)
	}
	return checkPrice(base+g.quote, ticker.Last)
}
