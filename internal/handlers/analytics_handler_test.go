package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"knowledgegate/internal/models"
)

type captureReporter struct {
	sessions    []models.SessionEvent
	rounds      []models.RoundEvent
	completions []models.CompletionEvent
}

func (c *captureReporter) TrackSession(ev models.SessionEvent) {
	c.sessions = append(c.sessions, ev)
}

func (c *captureReporter) TrackRound(ev models.RoundEvent) {
	c.rounds = append(c.rounds, ev)
}

func (c *captureReporter) TrackCompletion(ev models.CompletionEvent) {
	c.completions = append(c.completions, ev)
}

func TestIngest(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		check      func(t *testing.T, c *captureReporter)
	}{
		{
			name: "session event",
			body: `{"type": "session", "payload": {
				"sessionId": "s1", "collectionId": "default",
				"userAgent": "Mozilla/5.0 (Windows NT 10.0) Chrome/120.0.0.0 Safari/537.36",
				"utmSource": "newsletter"
			}}`,
			wantStatus: http.StatusAccepted,
			check: func(t *testing.T, c *captureReporter) {
				if len(c.sessions) != 1 {
					t.Fatalf("sessions = %d, want 1", len(c.sessions))
				}
				ev := c.sessions[0]
				if ev.SessionID != "s1" || ev.UTMSource != "newsletter" {
					t.Errorf("event = %+v", ev)
				}
				if ev.BrowserType != "Chrome" {
					t.Errorf("BrowserType = %s, want Chrome", ev.BrowserType)
				}
			},
		},
		{
			name: "round event",
			body: `{"type": "round", "payload": {
				"sessionId": "s1", "roundNumber": 2, "itemsShown": ["a", "b"],
				"correctItemId": "a", "selectedItemId": "b", "selectionTimeMs": 1500
			}}`,
			wantStatus: http.StatusAccepted,
			check: func(t *testing.T, c *captureReporter) {
				if len(c.rounds) != 1 {
					t.Fatalf("rounds = %d, want 1", len(c.rounds))
				}
				if c.rounds[0].RoundNumber != 2 || c.rounds[0].SelectedItemID != "b" {
					t.Errorf("event = %+v", c.rounds[0])
				}
			},
		},
		{
			name:       "completion event",
			body:       `{"type": "completion", "payload": {"sessionId": "s1", "success": true, "totalDurationMs": 42000}}`,
			wantStatus: http.StatusAccepted,
			check: func(t *testing.T, c *captureReporter) {
				if len(c.completions) != 1 || !c.completions[0].Success {
					t.Errorf("completions = %+v", c.completions)
				}
			},
		},
		{
			name:       "malformed envelope",
			body:       `{"type": "session"`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown type",
			body:       `{"type": "pageview", "payload": {"sessionId": "s1"}}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing session id",
			body:       `{"type": "completion", "payload": {"success": true}}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reporter := &captureReporter{}
			h := NewAnalyticsHandler(reporter)

			w := httptest.NewRecorder()
			h.Ingest(w, postJSON("/api/analytics", tt.body))

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.check != nil {
				tt.check(t, reporter)
			}
		})
	}
}
