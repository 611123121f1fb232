package httpapi

import (
	"encoding/json"
	"net/http"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.L().Error("failed to encode response", zap.Error(err))
	}
}

func respondData(w http.ResponseWriter, status int, data any) {
	respondJSON(w, status, map[string]any{
		"success": true,
		"data":    data,
	})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}

// respondInternal reports a server-side failure, logging the cause and
// echoing its raw string to the caller.
func respondInternal(w http.ResponseWriter, r *http.Request, message string, err error) {
	logger.FromCtx(r.Context()).Error(message, zap.Error(err))
	respondJSON(w, http.StatusInternalServerError, map[string]any{
		"success": false,
		"message": message,
		"error":   err.Error(),
	})
}
