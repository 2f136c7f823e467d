package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"knowledgegate/internal/database"
	"knowledgegate/internal/models"
)

// ErrSessionNotFound is returned when no telemetry row exists for a session.
var ErrSessionNotFound = errors.New("session not found")

// AnalyticsRepository persists game telemetry: one row per session plus one
// row per round attempt.
type AnalyticsRepository struct {
	db database.Querier
}

// NewAnalyticsRepository creates a new analytics repository.
func NewAnalyticsRepository(db database.Querier) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// CreateSession inserts the session row recorded at game start.
func (r *AnalyticsRepository) CreateSession(ev models.SessionEvent) error {
	query := `
		INSERT INTO game_sessions (
			session_id, collection_id, visitor_id, user_agent,
			browser_type, browser_version, operating_system,
			device_type, device_model, language, screen_resolution,
			referrer_url, landing_page, utm_source, utm_medium, utm_campaign,
			is_returning_visitor, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	createdAt := ev.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.Exec(query,
		ev.SessionID, ev.CollectionID, ev.VisitorID, ev.UserAgent,
		ev.BrowserType, ev.BrowserVersion, ev.OperatingSystem,
		ev.DeviceType, ev.DeviceModel, ev.Language, ev.ScreenResolution,
		ev.ReferrerURL, ev.LandingPage, ev.UTMSource, ev.UTMMedium, ev.UTMCampaign,
		ev.IsReturningVisitor, createdAt,
	)
	return err
}

// RecordRound inserts one round attempt. Timeouts are rounds with an empty
// selected id and the timeout flag set.
func (r *AnalyticsRepository) RecordRound(ev models.RoundEvent) error {
	query := `
		INSERT INTO round_attempts (
			session_id, collection_id, round_number, category,
			items_shown, correct_item_id, selected_item_id,
			selection_time_ms, was_timeout, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	createdAt := ev.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.Exec(query,
		ev.SessionID, ev.CollectionID, ev.RoundNumber, ev.Category,
		strings.Join(ev.ItemsShown, ","), ev.CorrectItemID, ev.SelectedItemID,
		ev.SelectionTimeMs, ev.WasTimeout, createdAt,
	)
	return err
}

// CompleteSession closes out the session row with the terminal outcome.
func (r *AnalyticsRepository) CompleteSession(ev models.CompletionEvent) error {
	query := `
		UPDATE game_sessions
		SET completed_at = ?, success = ?, total_duration_ms = ?
		WHERE session_id = ?
	`
	completedAt := ev.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}
	_, err := r.db.Exec(query, completedAt, ev.Success, ev.TotalDurationMs, ev.SessionID)
	return err
}

// SessionOutcome reports whether a session finished successfully. The redirect
// endpoint uses this to verify completion server-side before releasing the
// gated URL.
func (r *AnalyticsRepository) SessionOutcome(sessionID, collectionID string) (success bool, completedAt *time.Time, err error) {
	query := `
		SELECT success, completed_at
		FROM game_sessions
		WHERE session_id = ? AND collection_id = ?
	`
	var nullSuccess sql.NullBool
	var nullCompleted sql.NullTime
	err = r.db.QueryRow(query, sessionID, collectionID).Scan(&nullSuccess, &nullCompleted)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil, ErrSessionNotFound
	}
	if err != nil {
		return false, nil, err
	}
	if nullCompleted.Valid {
		completedAt = &nullCompleted.Time
	}
	return nullSuccess.Valid && nullSuccess.Bool, completedAt, nil
}

// RoundAttemptCount returns the number of recorded attempts for a session.
func (r *AnalyticsRepository) RoundAttemptCount(sessionID string) (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM round_attempts WHERE session_id = ?", sessionID,
	).Scan(&count)
	return count, err
}
