package handler

import (
	"context"
	"net/http"

	"positionalerts/src/model"
)

type cycleRunner interface {
	Run(ctx context.Context) model.CycleResult
}

// CycleHandler runs one alert cycle per request and returns its result.
// A failed cycle answers 500 so the scheduler can see it.
func CycleHandler(runner cycleRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := runner.Run(r.Context())
		status := http.StatusOK
		if !result.OK {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, result)
	}
}
