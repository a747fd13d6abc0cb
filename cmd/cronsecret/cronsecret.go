package cronsecret

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"positionalerts/src/auth"
)

// CronSecret prints the bearer secret for the cron trigger and the bcrypt
// hash the server is configured with. The hash is single-quoted because it
// contains '$'.
type CronSecret struct {
	Out io.Writer
}

// Start hashes secret, or a fresh random one when secret is empty.
func (c *CronSecret) Start(secret string) error {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		secret = uuid.NewString()
	}

	hash, err := auth.HashSecret(secret)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.Out, "CRON_SECRET=%s\nCRON_SECRET_HASH='%s'\n", secret, hash)
	return err
}
