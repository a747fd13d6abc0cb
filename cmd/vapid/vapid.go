package vapid

import (
	"fmt"
	"io"

	"positionalerts/src/notifier"
)

// Vapid prints a fresh VAPID key pair as environment lines.
type Vapid struct {
	Out io.Writer
}

func (v *Vapid) Start() error {
	publicKey, privateKey, err := notifier.GenerateVAPIDKeys()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(v.Out, "VAPID_PUBLIC_KEY=%s\nVAPID_PRIVATE_KEY=%s\n", publicKey, privateKey)
	return err
}
