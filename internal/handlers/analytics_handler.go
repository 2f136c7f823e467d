package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"knowledgegate/internal/analytics"
	"knowledgegate/internal/models"
)

// AnalyticsHandler ingests the {type, payload} telemetry envelope the
// frontend posts. The server records its own authoritative session and round
// events; this endpoint exists for client-measured supplements (screen size,
// visibility-loss completions) and is deliberately forgiving: only a
// malformed envelope is an error, storage failures are logged by the reporter
// and answered with 202 regardless.
type AnalyticsHandler struct {
	reporter analytics.Reporter
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(reporter analytics.Reporter) *AnalyticsHandler {
	return &AnalyticsHandler{reporter: reporter}
}

type analyticsEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type sessionPayload struct {
	SessionID        string `json:"sessionId"`
	CollectionID     string `json:"collectionId"`
	UserAgent        string `json:"userAgent"`
	Language         string `json:"language"`
	ScreenResolution string `json:"screenResolution"`
	ReferrerURL      string `json:"referrerUrl"`
	LandingPage      string `json:"landingPage"`
	UTMSource        string `json:"utmSource"`
	UTMMedium        string `json:"utmMedium"`
	UTMCampaign      string `json:"utmCampaign"`
}

type roundPayload struct {
	SessionID       string   `json:"sessionId"`
	CollectionID    string   `json:"collectionId"`
	RoundNumber     int      `json:"roundNumber"`
	Category        string   `json:"category"`
	ItemsShown      []string `json:"itemsShown"`
	CorrectItemID   string   `json:"correctItemId"`
	SelectedItemID  string   `json:"selectedItemId"`
	SelectionTimeMs int64    `json:"selectionTimeMs"`
	WasTimeout      bool     `json:"wasTimeout"`
}

type completionPayload struct {
	SessionID       string `json:"sessionId"`
	Success         bool   `json:"success"`
	TotalDurationMs int64  `json:"totalDurationMs"`
}

// Ingest handles POST /api/analytics.
func (h *AnalyticsHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var envelope analyticsEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "Error decoding analytics envelope", err)
		return
	}

	visitorID, returning := GetVisitorFromContext(r.Context())
	now := time.Now()

	switch envelope.Type {
	case "session":
		var p sessionPayload
		if err := json.Unmarshal(envelope.Payload, &p); err != nil || p.SessionID == "" {
			respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "Invalid session payload", err)
			return
		}
		browser := analytics.ParseUserAgent(p.UserAgent)
		h.reporter.TrackSession(models.SessionEvent{
			SessionID:          p.SessionID,
			CollectionID:       p.CollectionID,
			VisitorID:          visitorID,
			UserAgent:          p.UserAgent,
			BrowserType:        browser.BrowserType,
			BrowserVersion:     browser.BrowserVersion,
			OperatingSystem:    browser.OperatingSystem,
			DeviceType:         browser.DeviceType,
			DeviceModel:        browser.DeviceModel,
			Language:           p.Language,
			ScreenResolution:   p.ScreenResolution,
			ReferrerURL:        p.ReferrerURL,
			LandingPage:        p.LandingPage,
			UTMSource:          p.UTMSource,
			UTMMedium:          p.UTMMedium,
			UTMCampaign:        p.UTMCampaign,
			IsReturningVisitor: returning,
			CreatedAt:          now,
		})

	case "round":
		var p roundPayload
		if err := json.Unmarshal(envelope.Payload, &p); err != nil || p.SessionID == "" {
			respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "Invalid round payload", err)
			return
		}
		h.reporter.TrackRound(models.RoundEvent{
			SessionID:       p.SessionID,
			CollectionID:    p.CollectionID,
			RoundNumber:     p.RoundNumber,
			Category:        p.Category,
			ItemsShown:      p.ItemsShown,
			CorrectItemID:   p.CorrectItemID,
			SelectedItemID:  p.SelectedItemID,
			SelectionTimeMs: p.SelectionTimeMs,
			WasTimeout:      p.WasTimeout,
			CreatedAt:       now,
		})

	case "completion":
		var p completionPayload
		if err := json.Unmarshal(envelope.Payload, &p); err != nil || p.SessionID == "" {
			respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "Invalid completion payload", err)
			return
		}
		h.reporter.TrackCompletion(models.CompletionEvent{
			SessionID:       p.SessionID,
			Success:         p.Success,
			TotalDurationMs: p.TotalDurationMs,
			CompletedAt:     now,
		})

	default:
		respondWithError(w, http.StatusBadRequest, "Invalid analytics type", "", nil)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]bool{"accepted": true})
}
