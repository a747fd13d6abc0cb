package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"positionalerts/src/model"
)

var ErrMissingVAPIDKeys = errors.New("VAPID public and private keys are required")

// VAPIDConfig is the application server identity used to sign pushes.
type VAPIDConfig struct {
	PublicKey  string
	PrivateKey string
	Subject    string // mailto: address or https URL
	TTL        int
}

// DeliveryError is a failed push. StatusCode is 0 when no HTTP answer was
// received.
type DeliveryError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("push to %s failed: HTTP %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("push to %s failed: %v", e.Endpoint, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Gone reports whether the push service says the endpoint no longer exists.
func (e *DeliveryError) Gone() bool {
	return e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusGone
}

// WebPushTransport delivers encrypted payloads with VAPID authentication.
type WebPushTransport struct {
	vapid  VAPIDConfig
	client *http.Client
}

func NewWebPushTransport(vapid VAPIDConfig, timeout time.Duration) (*WebPushTransport, error) {
	if vapid.PublicKey == "" || vapid.PrivateKey == "" {
		return nil, ErrMissingVAPIDKeys
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebPushTransport{
		vapid:  vapid,
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (t *WebPushTransport) Send(ctx context.Context, sub model.Subscription, payload []byte) error {
	var target webpush.Subscription
	if err := json.Unmarshal(sub.Raw, &target); err != nil {
		return &DeliveryError{Endpoint: sub.Endpoint, Err: fmt.Errorf("decode subscription: %w", err)}
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &target, &webpush.Options{
		HTTPClient:      t.client,
		Subscriber:      strings.TrimPrefix(t.vapid.Subject, "mailto:"),
		VAPIDPublicKey:  t.vapid.PublicKey,
		VAPIDPrivateKey: t.vapid.PrivateKey,
		TTL:             t.vapid.TTL,
		Urgency:         webpush.UrgencyHigh,
	})
	if err != nil {
		return &DeliveryError{Endpoint: sub.Endpoint, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &DeliveryError{Endpoint: sub.Endpoint, StatusCode: resp.StatusCode}
	}
	return nil
}

// GenerateVAPIDKeys returns a fresh key pair.
func GenerateVAPIDKeys() (publicKey, privateKey string, err error) {
	privateKey, publicKey, err = webpush.GenerateVAPIDKeys()
	return publicKey, privateKey, err
}
