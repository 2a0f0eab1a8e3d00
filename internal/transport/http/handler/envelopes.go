package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-finlink-api/internal/domain"
	"github.com/go-finlink-api/internal/infrastructure/plaid"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// TokenEnvelope wraps login responses.
type TokenEnvelope struct {
	Token string `json:"token"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeRaw passes an upstream JSON body through unmodified.
func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// writeServiceError maps service-layer errors onto the HTTP contract.
// Aggregator failures keep their upstream body; domain sentinels map to 400;
// everything else is a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var apiErr *plaid.APIError
	if errors.As(err, &apiErr) {
		if len(apiErr.Body) > 0 {
			writeRaw(w, http.StatusInternalServerError, apiErr.Body)
			return
		}
		writeError(w, http.StatusInternalServerError, apiErr.Error())
		return
	}
	switch {
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrBadRequest),
		errors.Is(err, domain.ErrNoAccessToken),
		errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
