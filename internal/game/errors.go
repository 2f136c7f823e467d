package game

import (
	"errors"
	"fmt"
)

// Errors raised during play. These indicate either a bad request (invalid
// selection) or a broken invariant; handlers convert them into a generic
// user-facing message and log the detail.
var (
	ErrInvalidSelection  = errors.New("item not in current round choices")
	ErrInconsistentState = errors.New("game state is inconsistent")
	ErrMissingRoundData  = errors.New("missing round data")
	ErrNotPlaying        = errors.New("game is not in a playable state")
)

// ConfigurationError means static configuration is malformed or inconsistent.
// Fatal for the session, no retry.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// InsufficientContentError means the content pool cannot satisfy the round
// constraints. It names the offending round and category so operators can see
// which part of the pool ran dry.
type InsufficientContentError struct {
	Round    int    // 1-based round number, 0 when no specific round applies
	Category string // empty in category-agnostic mode
	Kind     string // "correct" or "distractor"
	Need     int
	Have     int
}

func (e *InsufficientContentError) Error() string {
	if e.Round == 0 {
		return fmt.Sprintf("not enough %s items: need %d, have %d", e.Kind, e.Need, e.Have)
	}
	if e.Category == "" {
		return fmt.Sprintf("not enough %s items for round %d: need %d, have %d",
			e.Kind, e.Round, e.Need, e.Have)
	}
	return fmt.Sprintf("not enough %s %s items for round %d: need %d, have %d",
		e.Kind, e.Category, e.Round, e.Need, e.Have)
}

// GameInitializationError means the challenge could not start because round
// preconditions were unmet. The session stays in studying and may retry.
type GameInitializationError struct {
	Reason string
}

func (e *GameInitializationError) Error() string {
	return "game initialization failed: " + e.Reason
}
