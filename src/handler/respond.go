package handler

import (
	"encoding/json"
	"net/http"

	logger "github.com/sirupsen/logrus"
)

const maxBodyBytes = 64 << 10

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.WithError(err).Error("failed to encode response")
	}
}
