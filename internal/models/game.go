package models

import "time"

// GameStatus is the lifecycle state of a game session.
type GameStatus string

const (
	StatusStudying GameStatus = "studying"
	StatusPlaying  GameStatus = "playing"
	StatusSuccess  GameStatus = "success"
	StatusFailed   GameStatus = "failed"
	StatusLocked   GameStatus = "locked"
)

// Terminal reports whether the status can only be left via a restart.
func (s GameStatus) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed || s == StatusLocked
}

// RoundPhase records which selection strategy produced a round's choices.
// Strict means every choice matched the round's target category; relaxed means
// the category filter had to be widened because the exact-category pool ran dry.
type RoundPhase string

const (
	PhaseStrict  RoundPhase = "strict"
	PhaseRelaxed RoundPhase = "relaxed"
)

// Round is one pre-generated timed challenge: a shuffled choice set containing
// exactly one correct item.
type Round struct {
	RoundNumber int
	Choices     []Item
	CorrectID   string
	Category    string
	Phase       RoundPhase
}

// SelectedChoice is the record of one round attempt. Appended, never mutated,
// and discarded wholesale on restart.
type SelectedChoice struct {
	RoundNumber     int
	ItemID          string
	IsCorrect       bool
	SelectionTimeMs int64
	Timestamp       time.Time
}
