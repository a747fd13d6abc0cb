package model

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrMissingEndpoint = errors.New("subscription endpoint is required")

// Subscription is a browser push subscription. Only the endpoint is typed;
// the full record (keys, expirationTime, anything a browser adds later) is
// kept verbatim in Raw and handed to the push transport as is.
type Subscription struct {
	Endpoint string
	Raw      json.RawMessage
}

type subscriptionEndpoint struct {
	Endpoint string `json:"endpoint"`
}

// ParseSubscription decodes a subscription record as produced by the
// browser's PushManager.
func ParseSubscription(raw []byte) (Subscription, error) {
	var sub Subscription
	if err := sub.UnmarshalJSON(raw); err != nil {
		return Subscription{}, err
	}
	if sub.Endpoint == "" {
		return Subscription{}, ErrMissingEndpoint
	}
	return sub, nil
}

func (s *Subscription) UnmarshalJSON(data []byte) error {
	var head subscriptionEndpoint
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	s.Endpoint = strings.TrimSpace(head.Endpoint)
	s.Raw = append(json.RawMessage(nil), data...)
	return nil
}

func (s Subscription) MarshalJSON() ([]byte, error) {
	if len(s.Raw) > 0 {
		return s.Raw, nil
	}
	return json.Marshal(subscriptionEndpoint{Endpoint: s.Endpoint})
}
