package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-finlink-api/internal/application/link"
	"github.com/go-finlink-api/internal/domain"
	"github.com/go-finlink-api/internal/pkg/validate"
	"github.com/go-finlink-api/internal/transport/http/middleware"
)

// LinkHandler handles the aggregator proxy endpoints.
type LinkHandler struct {
	svc link.Service
}

func NewLinkHandler(svc link.Service) *LinkHandler {
	return &LinkHandler{svc: svc}
}

func (h *LinkHandler) CreateLinkToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	body, err := h.svc.CreateLinkToken(r.Context(), claims.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, body)
}

func (h *LinkHandler) ExchangePublicToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.ExchangePublicTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := h.svc.ExchangePublicToken(r.Context(), claims.Email, req.PublicToken); err != nil {
		writeServiceError(w, err)
		return
	}
	// The access token stays server-side; the caller only gets an ack.
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "account linked"})
}

func (h *LinkHandler) FetchTransactions(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	txns, err := h.svc.FetchTransactions(r.Context(), claims.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, txns)
}
