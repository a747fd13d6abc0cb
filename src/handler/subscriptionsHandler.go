package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	logger "github.com/sirupsen/logrus"

	"positionalerts/src/model"
)

type subscriptionStore interface {
	Add(ctx context.Context, sub model.Subscription) (bool, error)
	Remove(ctx context.Context, endpoint string) (bool, error)
}

// SubscribeHandler stores the PushSubscription record posted by a browser.
// The record is kept verbatim; a second post for the same endpoint replaces
// the first.
func SubscribeHandler(repo subscriptionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		sub, err := model.ParseSubscription(raw)
		if err != nil {
			logger.WithError(err).Warn("invalid push subscription")
			http.Error(w, "Invalid subscription", http.StatusBadRequest)
			return
		}

		created, err := repo.Add(r.Context(), sub)
		if err != nil {
			logger.WithError(err).Error("failed to store push subscription")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		writeJSON(w, status, map[string]any{"ok": true, "created": created})
	}
}

// UnsubscribeHandler drops the subscription whose endpoint is posted as
// {"endpoint": "..."}.
func UnsubscribeHandler(repo subscriptionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Endpoint string `json:"endpoint"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&payload); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		endpoint := strings.TrimSpace(payload.Endpoint)
		if endpoint == "" {
			http.Error(w, "endpoint is required", http.StatusBadRequest)
			return
		}

		removed, err := repo.Remove(r.Context(), endpoint)
		if err != nil {
			logger.WithError(err).Error("failed to remove push subscription")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if !removed {
			http.Error(w, "subscription not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// PublicKeyHandler exposes the VAPID public key browsers need to subscribe.
func PublicKeyHandler(publicKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if publicKey == "" {
			http.Error(w, "push is not configured", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"publicKey": publicKey})
	}
}
