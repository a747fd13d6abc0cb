package connectors

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	SourceBinance = "binance"
	SourceGoex    = "goex"
)

type Config struct {
	PriceSource    string        `envconfig:"PRICE_SOURCE" default:"binance"`
	BinanceBaseURL string        `envconfig:"BINANCE_BASE_URL" default:"https://api.binance.com"`
	QuoteCurrency  string        `envconfig:"QUOTE_CURRENCY" default:"USDT"`
	PriceTimeout   time.Duration `envconfig:"PRICE_TIMEOUT" default:"8s"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
