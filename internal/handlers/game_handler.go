package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"knowledgegate/internal/analytics"
	"knowledgegate/internal/config"
	"knowledgegate/internal/game"
	"knowledgegate/internal/models"
	"knowledgegate/internal/service"
)

// GameHandler exposes the game engine over the JSON API.
type GameHandler struct {
	gateService *service.GateService
	cfg         *config.Config
}

// NewGameHandler creates a new game handler.
func NewGameHandler(gateService *service.GateService, cfg *config.Config) *GameHandler {
	return &GameHandler{gateService: gateService, cfg: cfg}
}

type startGameRequest struct {
	CollectionID     string `json:"collectionId"`
	ScreenResolution string `json:"screenResolution"`
}

type selectItemRequest struct {
	ItemID string `json:"itemId"`
}

// StartGame creates a new game session for a collection and returns the study
// material plus the initial (studying) state. Round choices are withheld
// until the challenge actually starts.
func (h *GameHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	var req startGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "Error decoding start request", err)
		return
	}
	if req.CollectionID == "" {
		req.CollectionID = config.DefaultCollectionID
	}

	meta := h.sessionMeta(r, req.ScreenResolution)
	snapshot, pool, err := h.gateService.StartSession(req.CollectionID, meta)
	if err != nil {
		var insufficient *game.InsufficientContentError
		switch {
		case errors.Is(err, service.ErrUnknownCollection):
			respondWithError(w, http.StatusNotFound, "Unknown collection", "", err)
			return
		case errors.As(err, &insufficient):
			// Engine exists in the failed state; let the UI show the
			// content-shortage message rather than a hard error.
			log.Printf("Content pool cannot satisfy rounds for %s: %v", req.CollectionID, err)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error starting session", err)
			return
		}
	}

	col, colErr := h.gateService.Collection(req.CollectionID)
	if colErr != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error loading collection", colErr)
		return
	}

	respondJSON(w, http.StatusOK, sessionStartView{
		State:          toGameStateView(snapshot),
		CollectionName: col.Name,
		Theme:          col.Theme,
		ReferenceItems: toItemViews(pool.Reference),
		RoundDuration:  int(h.cfg.RoundDuration.Seconds()),
	})
}

// GetState returns the current state of a session, timer included.
func (h *GameHandler) GetState(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.gateService.State(r.PathValue("sessionId"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, ErrSessionNotFound, "", err)
		return
	}
	respondJSON(w, http.StatusOK, toGameStateView(snapshot))
}

// StartChallenge moves a session from studying to playing and returns round
// one.
func (h *GameHandler) StartChallenge(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.gateService.StartChallenge(r.PathValue("sessionId"))
	if err != nil {
		var initErr *game.GameInitializationError
		switch {
		case errors.Is(err, service.ErrUnknownSession):
			respondWithError(w, http.StatusNotFound, ErrSessionNotFound, "", err)
		case errors.As(err, &initErr):
			// Status stayed in studying; the client may retry.
			respondWithError(w, http.StatusConflict, "Challenge could not start, try again", "Error starting challenge", err)
		case errors.Is(err, game.ErrNotPlaying):
			respondWithError(w, http.StatusConflict, "Challenge already started", "", err)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error starting challenge", err)
		}
		return
	}
	respondJSON(w, http.StatusOK, toGameStateView(snapshot))
}

// SelectItem applies a choice to the current round and returns the outcome.
func (h *GameHandler) SelectItem(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionId")

	var req selectItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "Error decoding select request", err)
		return
	}

	result, err := h.gateService.Select(sessionID, req.ItemID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownSession):
			respondWithError(w, http.StatusNotFound, ErrSessionNotFound, "", err)
		case errors.Is(err, game.ErrInvalidSelection):
			respondWithError(w, http.StatusBadRequest, "Invalid item selection", "", err)
		case errors.Is(err, game.ErrNotPlaying):
			respondWithError(w, http.StatusConflict, "Game is not accepting selections", "", err)
		default:
			// Inconsistent state or missing round data: the engine already
			// forced the session into failed.
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error applying selection", err)
		}
		return
	}

	view := selectionResultView{
		IsCorrect: result.IsCorrect,
		State:     toGameStateView(result.Snapshot),
	}

	if result.Snapshot.Status == models.StatusSuccess {
		if col, err := h.gateService.Collection(result.Snapshot.CollectionID); err == nil {
			view.SuccessMessage = col.SuccessMessage
		}
		pass, err := h.gateService.IssueGatePass(result.Snapshot.SessionID)
		if err != nil {
			log.Printf("Error issuing gate pass for %s: %v", result.Snapshot.SessionID, err)
		}
		view.GatePass = pass
	}

	respondJSON(w, http.StatusOK, view)
}

// RestartGame rebuilds the session with a fresh id and round table.
func (h *GameHandler) RestartGame(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionId")

	oldSnapshot, err := h.gateService.State(sessionID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, ErrSessionNotFound, "", err)
		return
	}

	meta := h.sessionMeta(r, "")
	snapshot, err := h.gateService.Restart(sessionID, meta)
	if err != nil {
		var insufficient *game.InsufficientContentError
		if errors.As(err, &insufficient) {
			log.Printf("Content pool cannot satisfy rounds on restart: %v", err)
		} else {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error restarting game", err)
			return
		}
	}

	reference, refErr := h.gateService.ReferenceItems(oldSnapshot.CollectionID)
	if refErr != nil {
		log.Printf("Error loading reference items on restart: %v", refErr)
	}
	col, _ := h.gateService.Collection(oldSnapshot.CollectionID)

	respondJSON(w, http.StatusOK, sessionStartView{
		State:          toGameStateView(snapshot),
		CollectionName: col.Name,
		Theme:          col.Theme,
		ReferenceItems: toItemViews(reference),
		RoundDuration:  int(h.cfg.RoundDuration.Seconds()),
	})
}

// sessionMeta assembles the analytics metadata for a new session from the
// request.
func (h *GameHandler) sessionMeta(r *http.Request, screenResolution string) service.SessionMeta {
	visitorID, returning := GetVisitorFromContext(r.Context())

	language := r.Header.Get("Accept-Language")
	if idx := strings.IndexAny(language, ",;"); idx >= 0 {
		language = language[:idx]
	}

	return service.SessionMeta{
		VisitorID:          visitorID,
		UserAgent:          r.UserAgent(),
		Language:           language,
		ScreenResolution:   screenResolution,
		IsReturningVisitor: returning,
		Traffic:            analytics.ParseTraffic(r),
	}
}
