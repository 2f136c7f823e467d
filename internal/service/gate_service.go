package service

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"knowledgegate/internal/analytics"
	"knowledgegate/internal/config"
	"knowledgegate/internal/content"
	"knowledgegate/internal/game"
	"knowledgegate/internal/models"
)

var (
	// ErrUnknownCollection means the requested collection id has no config.
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrUnknownSession means no live engine exists for the session id.
	ErrUnknownSession = errors.New("unknown session")

	// ErrNotCompleted means the session has not verifiably reached success.
	ErrNotCompleted = errors.New("session not completed")

	// ErrNoRedirectURL means no destination is configured for the collection.
	ErrNoRedirectURL = errors.New("redirect URL not configured")
)

// OutcomeStore is the persisted view of session outcomes the redirect check
// reads. Satisfied by the analytics repository.
type OutcomeStore interface {
	SessionOutcome(sessionID, collectionID string) (success bool, completedAt *time.Time, err error)
}

// SessionMeta is the request-derived metadata recorded with a new session.
type SessionMeta struct {
	VisitorID          string
	UserAgent          string
	Language           string
	ScreenResolution   string
	IsReturningVisitor bool
	Traffic            analytics.Traffic
}

// GateService owns the live game sessions: it partitions the pool, builds
// engines, routes transitions to them, and verifies completion for the
// redirect endpoint. Engines live in memory for the duration of a page visit;
// the expiry sweep reclaims abandoned ones.
type GateService struct {
	cfg         *config.Config
	items       []models.Item
	collections map[string]models.CollectionConfig
	reporter    analytics.Reporter
	outcomes    OutcomeStore

	// tickInterval shortens the round timer tick in tests.
	tickInterval time.Duration

	mu       sync.RWMutex
	sessions map[string]*game.Engine
}

// NewGateService creates the service. reporter and outcomes may be a
// NopReporter and nil store when analytics is disabled.
func NewGateService(cfg *config.Config, items []models.Item, collections map[string]models.CollectionConfig, reporter analytics.Reporter, outcomes OutcomeStore) *GateService {
	if reporter == nil {
		reporter = analytics.NopReporter{}
	}
	return &GateService{
		cfg:         cfg,
		items:       items,
		collections: collections,
		reporter:    reporter,
		outcomes:    outcomes,
		sessions:    make(map[string]*game.Engine),
	}
}

// Collection returns the config for a collection id.
func (s *GateService) Collection(id string) (models.CollectionConfig, error) {
	col, ok := s.collections[id]
	if !ok {
		return models.CollectionConfig{}, fmt.Errorf("%w: %q", ErrUnknownCollection, id)
	}
	return col, nil
}

// StartSession partitions the pool for the collection, generates the round
// table, and registers a fresh engine. A generation failure still returns the
// snapshot (status failed with the network-error flag) so the UI can show the
// content-shortage message; the error is returned alongside for logging.
func (s *GateService) StartSession(collectionID string, meta SessionMeta) (game.Snapshot, content.Pool, error) {
	col, err := s.Collection(collectionID)
	if err != nil {
		return game.Snapshot{}, content.Pool{}, err
	}

	if s.cfg.ReferenceSetSize > 0 && len(col.ReferenceItems) != s.cfg.ReferenceSetSize {
		return game.Snapshot{}, content.Pool{}, &game.ConfigurationError{Reason: "reference set size mismatch"}
	}

	pool, err := content.Partition(s.items, col, s.cfg.RoundCount, s.cfg.DistractorsPerRound)
	if err != nil {
		var insufficient *game.InsufficientContentError
		if !errors.As(err, &insufficient) {
			return game.Snapshot{}, content.Pool{}, err
		}
		// Short pools fall through: the engine records the shortage and
		// fails closed, which the UI renders as a content problem.
	}

	engine, genErr := game.NewEngine(game.EngineConfig{
		CollectionID: collectionID,
		Correct:      pool.Correct,
		Distractors:  pool.Distractors,
		Options: game.Options{
			Rounds:              s.cfg.RoundCount,
			DistractorsPerRound: s.cfg.DistractorsPerRound,
			Categories:          col.RoundCategories,
		},
		RoundSeconds: int(s.cfg.RoundDuration.Seconds()),
		TickInterval: s.tickInterval,
		Reporter:     s.reporter,
	})

	snapshot := engine.Snapshot()

	s.mu.Lock()
	s.sessions[snapshot.SessionID] = engine
	s.mu.Unlock()

	go s.reporter.TrackSession(s.sessionEvent(snapshot, meta))

	return snapshot, pool, genErr
}

func (s *GateService) sessionEvent(snapshot game.Snapshot, meta SessionMeta) models.SessionEvent {
	browser := analytics.ParseUserAgent(meta.UserAgent)
	return models.SessionEvent{
		SessionID:          snapshot.SessionID,
		CollectionID:       snapshot.CollectionID,
		VisitorID:          meta.VisitorID,
		UserAgent:          meta.UserAgent,
		BrowserType:        browser.BrowserType,
		BrowserVersion:     browser.BrowserVersion,
		OperatingSystem:    browser.OperatingSystem,
		DeviceType:         browser.DeviceType,
		DeviceModel:        browser.DeviceModel,
		Language:           meta.Language,
		ScreenResolution:   meta.ScreenResolution,
		ReferrerURL:        meta.Traffic.ReferrerURL,
		LandingPage:        meta.Traffic.LandingPage,
		UTMSource:          meta.Traffic.UTMSource,
		UTMMedium:          meta.Traffic.UTMMedium,
		UTMCampaign:        meta.Traffic.UTMCampaign,
		IsReturningVisitor: meta.IsReturningVisitor,
		CreatedAt:          time.Now(),
	}
}

// ReferenceItems returns the study material for a collection.
func (s *GateService) ReferenceItems(collectionID string) ([]models.Item, error) {
	col, err := s.Collection(collectionID)
	if err != nil {
		return nil, err
	}
	pool, err := content.Partition(s.items, col, s.cfg.RoundCount, s.cfg.DistractorsPerRound)
	if err != nil {
		var insufficient *game.InsufficientContentError
		if !errors.As(err, &insufficient) {
			return nil, err
		}
	}
	return pool.Reference, nil
}

// engine looks up the live engine for a session id.
func (s *GateService) engine(sessionID string) (*game.Engine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	engine, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSession, sessionID)
	}
	return engine, nil
}

// State returns the current snapshot of a session.
func (s *GateService) State(sessionID string) (game.Snapshot, error) {
	engine, err := s.engine(sessionID)
	if err != nil {
		return game.Snapshot{}, err
	}
	return engine.Snapshot(), nil
}

// StartChallenge moves a session from studying into its first timed round.
func (s *GateService) StartChallenge(sessionID string) (game.Snapshot, error) {
	engine, err := s.engine(sessionID)
	if err != nil {
		return game.Snapshot{}, err
	}
	return engine.StartChallenge()
}

// Select applies a choice to a session's current round.
func (s *GateService) Select(sessionID, itemID string) (game.SelectionResult, error) {
	engine, err := s.engine(sessionID)
	if err != nil {
		return game.SelectionResult{}, err
	}
	return engine.SelectItem(itemID)
}

// Restart rebuilds a session in place. The engine picks a new session id, so
// the registry is re-keyed; the old id stops resolving immediately, which is
// what makes a finished session unreplayable.
func (s *GateService) Restart(sessionID string, meta SessionMeta) (game.Snapshot, error) {
	engine, err := s.engine(sessionID)
	if err != nil {
		return game.Snapshot{}, err
	}

	snapshot, restartErr := engine.Restart()

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.sessions[snapshot.SessionID] = engine
	s.mu.Unlock()

	go s.reporter.TrackSession(s.sessionEvent(snapshot, meta))

	return snapshot, restartErr
}

// RedirectURL verifies a session's completion and resolves the gated
// destination. Verification is server-side only: the persisted outcome row
// must show success, and when gate passes are enabled the token must check
// out too.
func (s *GateService) RedirectURL(sessionID, collectionID, gatePass string) (string, error) {
	col, err := s.Collection(collectionID)
	if err != nil {
		return "", err
	}

	if err := s.verifyGatePass(gatePass, sessionID, collectionID); err != nil {
		return "", err
	}

	if s.outcomes != nil {
		success, completedAt, err := s.outcomes.SessionOutcome(sessionID, collectionID)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrNotCompleted, err)
		}
		if !success || completedAt == nil {
			return "", ErrNotCompleted
		}
	}

	url := s.cfg.RedirectURL(col.RedirectURLKey)
	if url == "" {
		return "", ErrNoRedirectURL
	}
	return url, nil
}

// SweepExpired closes and drops sessions idle longer than the TTL. Returns
// how many were reclaimed.
func (s *GateService) SweepExpired() int {
	cutoff := time.Now().Add(-s.cfg.SessionTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, engine := range s.sessions {
		if engine.LastActive().Before(cutoff) {
			engine.Close()
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("Swept %d expired game sessions", removed)
	}
	return removed
}

// Close stops all session timers. Called on shutdown.
func (s *GateService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, engine := range s.sessions {
		engine.Close()
		delete(s.sessions, id)
	}
}
