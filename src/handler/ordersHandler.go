package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"positionalerts/src/model"
)

type orderStore interface {
	Load(ctx context.Context) ([]model.Order, error)
	Add(ctx context.Context, order model.Order) error
	Delete(ctx context.Context, id string) (bool, error)
}

type createOrderPayload struct {
	Asset      string  `json:"asset"`
	Quantity   float64 `json:"quantity"`
	EntryPrice float64 `json:"entryPrice"`
	Side       string  `json:"side"`
}

// ListOrdersHandler returns every recorded order.
func ListOrdersHandler(repo orderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := repo.Load(r.Context())
		if err != nil {
			logger.WithError(err).Error("failed to load orders")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if orders == nil {
			orders = []model.Order{}
		}
		writeJSON(w, http.StatusOK, orders)
	}
}

// CreateOrderHandler records a new order. The id and timestamp are assigned
// here.
func CreateOrderHandler(repo orderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createOrderPayload
		decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&payload); err != nil {
			logger.WithError(err).Warn("invalid order payload")
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		order := model.Order{
			ID:         uuid.NewString(),
			Timestamp:  time.Now().UnixMilli(),
			Asset:      strings.ToUpper(strings.TrimSpace(payload.Asset)),
			Quantity:   payload.Quantity,
			EntryPrice: payload.EntryPrice,
			Side:       model.Side(strings.ToUpper(strings.TrimSpace(payload.Side))),
		}
		if err := order.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := repo.Add(r.Context(), order); err != nil {
			logger.WithError(err).Error("failed to record order")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, order)
	}
}

// DeleteOrderHandler removes the order named by the {id} route parameter.
func DeleteOrderHandler(repo orderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "missing id", http.StatusBadRequest)
			return
		}

		deleted, err := repo.Delete(r.Context(), id)
		if err != nil {
			logger.WithError(err).WithField("id", id).Error("failed to delete order")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if !deleted {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
