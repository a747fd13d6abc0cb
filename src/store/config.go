package store

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

const (
	BackendAuto     = ""
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

type Config struct {
	Backend   string `envconfig:"STORE_BACKEND"`
	AppEnv    string `envconfig:"APP_ENV" default:"development"`
	Namespace string `envconfig:"STORE_NAMESPACE" default:"cryptotracker"`
	RedisURL  string `envconfig:"REDIS_URL"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}

func (c Config) Production() bool {
	return c.AppEnv == "production"
}
