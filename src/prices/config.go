package prices

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Concurrency int `envconfig:"PRICE_CONCURRENCY" default:"8"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
