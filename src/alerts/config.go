package alerts

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Record sign transitions even when nobody is subscribed. Off keeps the
	// early "no subscribers" exit, which leaves the sign state untouched.
	TrackWithoutSubscribers bool `envconfig:"ALERTS_TRACK_WITHOUT_SUBSCRIBERS" default:"false"`
	CompactSignState        bool `envconfig:"ALERTS_COMPACT_SIGN_STATE" default:"true"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
