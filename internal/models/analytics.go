package models

import "time"

// SessionEvent is recorded once when a game session is created. Device and
// traffic fields come from request headers and query params; all of them are
// best-effort and may be empty.
type SessionEvent struct {
	SessionID          string
	CollectionID       string
	VisitorID          string
	UserAgent          string
	BrowserType        string
	BrowserVersion     string
	OperatingSystem    string
	DeviceType         string
	DeviceModel        string
	Language           string
	ScreenResolution   string
	ReferrerURL        string
	LandingPage        string
	UTMSource          string
	UTMMedium          string
	UTMCampaign        string
	IsReturningVisitor bool
	CreatedAt          time.Time
}

// RoundEvent is recorded once per round attempt, including timeouts (in which
// case SelectedItemID is empty and WasTimeout is set).
type RoundEvent struct {
	SessionID       string
	CollectionID    string
	RoundNumber     int
	Category        string
	ItemsShown      []string
	CorrectItemID   string
	SelectedItemID  string
	SelectionTimeMs int64
	WasTimeout      bool
	CreatedAt       time.Time
}

// CompletionEvent closes out a session row when the game reaches a terminal
// state.
type CompletionEvent struct {
	SessionID       string
	Success         bool
	TotalDurationMs int64
	CompletedAt     time.Time
}
