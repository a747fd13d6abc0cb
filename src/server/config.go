package server

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port string `envconfig:"PORT" default:"9898"`
	// bcrypt hash of the bearer secret required by the cron trigger
	CronSecretHash string   `envconfig:"CRON_SECRET_HASH"`
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

func GetConfig() *Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return &config
}
