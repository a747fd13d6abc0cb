// PUBLIC SPOT TICKER CLIENT FOR BINANCE
// RESTY ONLY + INTERNAL RETRY
package connectors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"
)

const (
	defaultBinanceBaseURL = "https://api.binance.com"
	tickerPricePath       = "/api/v3/ticker/price"

	defaultRetryAttempts   = 3
	defaultRetryBaseDelay  = 300 * time.Millisecond
	defaultRetryMaxBackoff = 2 * time.Second
)

// ErrPriceUnavailable marks a symbol whose price could not be resolved this
// cycle.
var ErrPriceUnavailable = errors.New("price unavailable")

type tickerPriceResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

type binanceErrorResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func isRetryableResp(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}

	if r == nil {
		return false
	}

	code := r.StatusCode()

	if code >= 500 && code <= 599 {
		return true
	}
	if code == 429 {
		return true
	}
	if code == 408 {
		return true
	}
	return false
}

// BinanceClient resolves spot prices against a fixed quote currency.
type BinanceClient struct {
	quote string
	http  *resty.Client
}

func NewBinanceClient(baseURL, quote string, timeout time.Duration) *BinanceClient {
	retryCount := defaultRetryAttempts - 1

	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBinanceBaseURL
		logger.Warnf("No base URL provided, using default: %s", baseURL)
	}
	baseURL = strings.TrimRight(baseURL, "/")

	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(retryCount).
		SetRetryWaitTime(defaultRetryBaseDelay).
		SetRetryMaxWaitTime(defaultRetryMaxBackoff).
		AddRetryCondition(isRetryableResp)

	return &BinanceClient{
		quote: strings.ToUpper(quote),
		http:  httpClient,
	}
}

// PairFor maps a ticker symbol to the exchange pair, ETH -> ETHUSDT.
func (c *BinanceClient) PairFor(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol)) + c.quote
}

// Price returns the last traded price of symbol in the quote currency. Any
// non-200 answer, undecodable body or non-positive/non-finite price is
// reported as ErrPriceUnavailable.
func (c *BinanceClient) Price(ctx context.Context, symbol string) (float64, error) {
	pair := c.PairFor(symbol)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam("symbol", pair).
		Get(tickerPricePath)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrPriceUnavailable, pair, err)
	}

	raw := resp.Body()
	if resp.StatusCode() != 200 {
		var apiErr binanceErrorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Code != 0 {
			return 0, fmt.Errorf("%w: %s: HTTP %d %s (%s)", ErrPriceUnavailable, pair, resp.StatusCode(), GetErrorMsg(apiErr.Code), apiErr.Msg)
		}
		return 0, fmt.Errorf("%w: %s: HTTP %d: %s", ErrPriceUnavailable, pair, resp.StatusCode(), string(raw))
	}

	var ticker tickerPriceResponse
	if err := json.Unmarshal(raw, &ticker); err != nil {
		return 0, fmt.Errorf("%w: %s: json unmarshal failed: %v", ErrPriceUnavailable, pair, err)
	}

	return parsePrice(pair, ticker.Price)
}

func parsePrice(pair, s string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: bad price %q", ErrPriceUnavailable, pair, s)
	}
	return checkPrice(pair, price)
}

func checkPrice(pair string, price float64) (float64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, fmt.Errorf("%w: %s: non-usable price %v", ErrPriceUnavailable, pair, price)
	}
	return price, nil
}
