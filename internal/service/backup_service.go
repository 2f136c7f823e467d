package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"knowledgegate/internal/database"
)

// BackupService exports and imports the analytics tables as JSON. Used by the
// backup CLI for moving telemetry between deployments and off sqlite files
// before host migrations.
type BackupService struct {
	db database.Querier
}

// NewBackupService creates a backup service.
func NewBackupService(db database.Querier) *BackupService {
	return &BackupService{db: db}
}

type sessionBackupRow struct {
	SessionID          string     `json:"sessionId"`
	CollectionID       string     `json:"collectionId"`
	VisitorID          string     `json:"visitorId,omitempty"`
	UserAgent          string     `json:"userAgent,omitempty"`
	BrowserType        string     `json:"browserType,omitempty"`
	BrowserVersion     string     `json:"browserVersion,omitempty"`
	OperatingSystem    string     `json:"operatingSystem,omitempty"`
	DeviceType         string     `json:"deviceType,omitempty"`
	DeviceModel        string     `json:"deviceModel,omitempty"`
	Language           string     `json:"language,omitempty"`
	ScreenResolution   string     `json:"screenResolution,omitempty"`
	ReferrerURL        string     `json:"referrerUrl,omitempty"`
	LandingPage        string     `json:"landingPage,omitempty"`
	UTMSource          string     `json:"utmSource,omitempty"`
	UTMMedium          string     `json:"utmMedium,omitempty"`
	UTMCampaign        string     `json:"utmCampaign,omitempty"`
	IsReturningVisitor bool       `json:"isReturningVisitor"`
	CreatedAt          time.Time  `json:"createdAt"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
	Success            *bool      `json:"success,omitempty"`
	TotalDurationMs    *int64     `json:"totalDurationMs,omitempty"`
}

type roundBackupRow struct {
	SessionID       string    `json:"sessionId"`
	CollectionID    string    `json:"collectionId"`
	RoundNumber     int       `json:"roundNumber"`
	Category        string    `json:"category,omitempty"`
	ItemsShown      string    `json:"itemsShown,omitempty"`
	CorrectItemID   string    `json:"correctItemId"`
	SelectedItemID  string    `json:"selectedItemId,omitempty"`
	SelectionTimeMs int64     `json:"selectionTimeMs"`
	WasTimeout      bool      `json:"wasTimeout"`
	CreatedAt       time.Time `json:"createdAt"`
}

type backupFile struct {
	ExportedAt time.Time          `json:"exportedAt"`
	Sessions   []sessionBackupRow `json:"sessions"`
	Rounds     []roundBackupRow   `json:"rounds"`
}

// Export writes both analytics tables to a JSON file.
func (s *BackupService) Export(path string) error {
	sessions, err := s.exportSessions()
	if err != nil {
		return fmt.Errorf("failed to export sessions: %w", err)
	}
	rounds, err := s.exportRounds()
	if err != nil {
		return fmt.Errorf("failed to export rounds: %w", err)
	}

	data, err := json.MarshalIndent(backupFile{
		ExportedAt: time.Now(),
		Sessions:   sessions,
		Rounds:     rounds,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

func (s *BackupService) exportSessions() ([]sessionBackupRow, error) {
	rows, err := s.db.Query(`
		SELECT session_id, collection_id, visitor_id, user_agent,
			browser_type, browser_version, operating_system,
			device_type, device_model, language, screen_resolution,
			referrer_url, landing_page, utm_source, utm_medium, utm_campaign,
			is_returning_visitor, created_at, completed_at, success, total_duration_ms
		FROM game_sessions
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sessionBackupRow
	for rows.Next() {
		var r sessionBackupRow
		var visitorID, userAgent, browserType, browserVersion, operatingSystem sql.NullString
		var deviceType, deviceModel, language, screenResolution sql.NullString
		var referrerURL, landingPage, utmSource, utmMedium, utmCampaign sql.NullString
		var completedAt sql.NullTime
		var success sql.NullBool
		var totalDurationMs sql.NullInt64

		err := rows.Scan(
			&r.SessionID, &r.CollectionID, &visitorID, &userAgent,
			&browserType, &browserVersion, &operatingSystem,
			&deviceType, &deviceModel, &language, &screenResolution,
			&referrerURL, &landingPage, &utmSource, &utmMedium, &utmCampaign,
			&r.IsReturningVisitor, &r.CreatedAt, &completedAt, &success, &totalDurationMs,
		)
		if err != nil {
			return nil, err
		}

		r.VisitorID = visitorID.String
		r.UserAgent = userAgent.String
		r.BrowserType = browserType.String
		r.BrowserVersion = browserVersion.String
		r.OperatingSystem = operatingSystem.String
		r.DeviceType = deviceType.String
		r.DeviceModel = deviceModel.String
		r.Language = language.String
		r.ScreenResolution = screenResolution.String
		r.ReferrerURL = referrerURL.String
		r.LandingPage = landingPage.String
		r.UTMSource = utmSource.String
		r.UTMMedium = utmMedium.String
		r.UTMCampaign = utmCampaign.String
		if completedAt.Valid {
			r.CompletedAt = &completedAt.Time
		}
		if success.Valid {
			r.Success = &success.Bool
		}
		if totalDurationMs.Valid {
			r.TotalDurationMs = &totalDurationMs.Int64
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *BackupService) exportRounds() ([]roundBackupRow, error) {
	rows, err := s.db.Query(`
		SELECT session_id, collection_id, round_number, category,
			items_shown, correct_item_id, selected_item_id,
			selection_time_ms, was_timeout, created_at
		FROM round_attempts
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []roundBackupRow
	for rows.Next() {
		var r roundBackupRow
		var category, itemsShown, selectedItemID sql.NullString
		var selectionTimeMs sql.NullInt64

		err := rows.Scan(
			&r.SessionID, &r.CollectionID, &r.RoundNumber, &category,
			&itemsShown, &r.CorrectItemID, &selectedItemID,
			&selectionTimeMs, &r.WasTimeout, &r.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		r.Category = category.String
		r.ItemsShown = itemsShown.String
		r.SelectedItemID = selectedItemID.String
		r.SelectionTimeMs = selectionTimeMs.Int64
		out = append(out, r)
	}
	return out, rows.Err()
}

// Import merges a backup file into the database. Existing session ids are
// skipped rather than overwritten, so importing the same file twice is safe.
func (s *BackupService) Import(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	var backup backupFile
	if err := json.Unmarshal(data, &backup); err != nil {
		return fmt.Errorf("failed to parse backup file: %w", err)
	}

	imported := 0
	for _, r := range backup.Sessions {
		var count int
		err := s.db.QueryRow(
			"SELECT COUNT(*) FROM game_sessions WHERE session_id = ?", r.SessionID,
		).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to check session %s: %w", r.SessionID, err)
		}
		if count > 0 {
			continue
		}

		_, err = s.db.Exec(`
			INSERT INTO game_sessions (
				session_id, collection_id, visitor_id, user_agent,
				browser_type, browser_version, operating_system,
				device_type, device_model, language, screen_resolution,
				referrer_url, landing_page, utm_source, utm_medium, utm_campaign,
				is_returning_visitor, created_at, completed_at, success, total_duration_ms
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			r.SessionID, r.CollectionID, r.VisitorID, r.UserAgent,
			r.BrowserType, r.BrowserVersion, r.OperatingSystem,
			r.DeviceType, r.DeviceModel, r.Language, r.ScreenResolution,
			r.ReferrerURL, r.LandingPage, r.UTMSource, r.UTMMedium, r.UTMCampaign,
			r.IsReturningVisitor, r.CreatedAt, r.CompletedAt, r.Success, r.TotalDurationMs,
		)
		if err != nil {
			return fmt.Errorf("failed to import session %s: %w", r.SessionID, err)
		}
		imported++

		for _, round := range backup.Rounds {
			if round.SessionID != r.SessionID {
				continue
			}
			_, err = s.db.Exec(`
				INSERT INTO round_attempts (
					session_id, collection_id, round_number, category,
					items_shown, correct_item_id, selected_item_id,
					selection_time_ms, was_timeout, created_at
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
				round.SessionID, round.CollectionID, round.RoundNumber, round.Category,
				round.ItemsShown, round.CorrectItemID, round.SelectedItemID,
				round.SelectionTimeMs, round.WasTimeout, round.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to import round for %s: %w", round.SessionID, err)
			}
		}
	}

	fmt.Printf("Imported %d sessions (%d already present)\n", imported, len(backup.Sessions)-imported)
	return nil
}
