// Package auth guards operator endpoints with a shared secret stored as a
// bcrypt hash.
package auth

import (
	"net/http"
	"strings"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// RequireSecret returns middleware accepting only requests that carry
// "Authorization: Bearer <secret>" matching hash. An empty hash disables the
// check.
func RequireSecret(hash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if hash == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			secret, ok := bearerToken(r)
			if !ok || bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) != nil {
				logger.WithField("path", r.URL.Path).Warn("rejected request with invalid secret")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// HashSecret returns the bcrypt hash to configure for secret.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
