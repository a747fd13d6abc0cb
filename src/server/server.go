package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	logger "github.com/sirupsen/logrus"

	"positionalerts/src/alerts"
	"positionalerts/src/auth"
	"positionalerts/src/handler"
	"positionalerts/src/repository"
)

type Deps struct {
	Orders         *repository.OrderRepository
	Subscriptions  *repository.SubscriptionRepository
	Cycle          *alerts.Cycle
	VAPIDPublicKey string
	CronSecretHash string
	AllowedOrigins []string
}

func NewRouter(deps Deps) http.Handler {
	// Router with middleware
	r := chi.NewRouter()

	// Public routes
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error(" \"/health error")
		}
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/push/public-key", handler.PublicKeyHandler(deps.VAPIDPublicKey))

		r.Get("/orders", handler.ListOrdersHandler(deps.Orders))
		r.Post("/orders", handler.CreateOrderHandler(deps.Orders))
		r.Delete("/orders/{id}", handler.DeleteOrderHandler(deps.Orders))

		r.Post("/subscriptions", handler.SubscribeHandler(deps.Subscriptions))
		r.Delete("/subscriptions", handler.UnsubscribeHandler(deps.Subscriptions))

		// Scheduler trigger
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireSecret(deps.CronSecretHash))
			r.Post("/cron/check", handler.CycleHandler(deps.Cycle))
			// Hosted cron platforms call with GET; only offered behind the secret
			// so crawlers and link previews cannot send notifications.
			if deps.CronSecretHash != "" {
				r.Get("/cron/check", handler.CycleHandler(deps.Cycle))
			}
		})
	})

	// The browser app may be served from another origin.
	c := cors.New(cors.Options{
		AllowedOrigins: deps.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	return c.Handler(r)
}

// StartServer serves h on port until ctx is cancelled, then shuts down
// gracefully.
func StartServer(ctx context.Context, port string, h http.Handler) error {
	addr := ":" + port
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.WithError(err).Error("Server crashed")
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Shutdown error")
		return err
	}
	return nil
}
