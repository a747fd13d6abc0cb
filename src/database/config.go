package database

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DatabaseURL  string `envconfig:"DATABASE_URL"`
	SQLitePath   string `envconfig:"SQLITE_PATH" default:".data/positionalerts.db"`
	GormLogLevel int    `envconfig:"GORM_LOG_LEVEL" default:"2"` // 1 silent, 2 error, 3 warn, 4 info
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
