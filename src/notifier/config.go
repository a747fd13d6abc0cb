package notifier

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	VAPIDPublicKey  string        `envconfig:"VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string        `envconfig:"VAPID_PRIVATE_KEY"`
	VAPIDSubject    string        `envconfig:"VAPID_SUBJECT" default:"mailto:alerts@example.com"`
	TTL             int           `envconfig:"PUSH_TTL" default:"3600"` // seconds the push service may hold a message
	Concurrency     int           `envconfig:"PUSH_CONCURRENCY" default:"16"`
	Timeout         time.Duration `envconfig:"PUSH_TIMEOUT" default:"10s"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}

// VAPID returns the signing identity for the transport.
func (c Config) VAPID() VAPIDConfig {
	return VAPIDConfig{
		PublicKey:  c.VAPIDPublicKey,
		PrivateKey: c.VAPIDPrivateKey,
		Subject:    c.VAPIDSubject,
		TTL:        c.TTL,
	}
}
