package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"knowledgegate/internal/service"
)

// RedirectHandler releases the gated destination, and only after server-side
// verification: the persisted session outcome must show success and the gate
// pass must check out. The client never learns the URL any other way.
type RedirectHandler struct {
	gateService *service.GateService
}

// NewRedirectHandler creates a new redirect handler.
func NewRedirectHandler(gateService *service.GateService) *RedirectHandler {
	return &RedirectHandler{gateService: gateService}
}

type redirectRequest struct {
	SessionID    string `json:"sessionId"`
	CollectionID string `json:"collectionId"`
	GatePass     string `json:"gatePass"`
}

// SuccessRedirect handles POST /api/success-redirect.
func (h *RedirectHandler) SuccessRedirect(w http.ResponseWriter, r *http.Request) {
	var req redirectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "Error decoding redirect request", err)
		return
	}
	if req.SessionID == "" || req.CollectionID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing session data", "", nil)
		return
	}

	url, err := h.gateService.RedirectURL(req.SessionID, req.CollectionID, req.GatePass)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownCollection):
			respondWithError(w, http.StatusNotFound, "Unknown collection", "", err)
		case errors.Is(err, service.ErrNotCompleted), errors.Is(err, service.ErrInvalidGatePass):
			respondWithError(w, http.StatusForbidden, "Session not completed or invalid", "Redirect verification failed", err)
		case errors.Is(err, service.ErrNoRedirectURL):
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Redirect URL not configured", err)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error resolving redirect", err)
		}
		return
	}

	http.Redirect(w, r, url, http.StatusFound)
}
