package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"knowledgegate/internal/models"
)

// Reporter receives game telemetry. Calls are fire-and-forget: the engine
// never waits on them and implementations must contain their own failures.
type Reporter interface {
	TrackRound(ev models.RoundEvent)
	TrackCompletion(ev models.CompletionEvent)
}

type nopReporter struct{}

func (nopReporter) TrackRound(models.RoundEvent)           {}
func (nopReporter) TrackCompletion(models.CompletionEvent) {}

// EngineConfig wires up a new engine. Correct and Distractors are the
// partitioned pools the round table is drawn from; the engine keeps them for
// regeneration on restart.
type EngineConfig struct {
	CollectionID string
	Correct      []models.Item
	Distractors  []models.Item
	Options      Options

	RoundSeconds int           // countdown per round, defaults to 60
	TickInterval time.Duration // timer tick, defaults to one second

	Reporter     Reporter
	Rand         *rand.Rand       // seedable for deterministic tests
	Now          func() time.Time // injectable clock
	NewSessionID func() string
}

// Engine is the authoritative state machine for one game session. All
// transitions (HTTP-driven selections, restarts, and timer ticks) are
// serialized through its mutex, and the epoch counter invalidates timer
// callbacks that fire into a round that already moved on.
type Engine struct {
	mu sync.Mutex

	collectionID string
	correct      []models.Item
	distractors  []models.Item
	opts         Options
	gen          *Generator
	reporter     Reporter
	now          func() time.Time
	newSessionID func() string
	roundSeconds int
	timer        *RoundTimer

	sessionID      string
	rounds         []models.Round
	status         models.GameStatus
	currentRound   int
	selections     []models.SelectedChoice
	choices        []models.Item
	correctID      string
	roundStartTime time.Time
	challengeStart time.Time
	completedAt    *time.Time
	epoch          uint64
	networkError   bool
	lastError      string
	lastActive     time.Time
}

// Snapshot is a read-only copy of the engine's state, taken under lock.
type Snapshot struct {
	SessionID      string
	CollectionID   string
	Status         models.GameStatus
	CurrentRound   int
	RoundCount     int
	Choices        []models.Item
	CorrectID      string
	Category       string
	Phase          models.RoundPhase
	Selections     []models.SelectedChoice
	RoundStartTime time.Time
	CompletedAt    *time.Time
	TimeRemaining  int
	NetworkError   bool
	LastError      string
}

// SelectionResult is returned from SelectItem.
type SelectionResult struct {
	IsCorrect bool
	Snapshot  Snapshot
}

// NewEngine generates the round table and returns an engine in the studying
// state. If the pool cannot satisfy the round constraints, the engine is
// returned in the failed state with its network-error flag set, alongside the
// generation error, so the UI can distinguish a content shortage from a wrong
// answer.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Reporter == nil {
		cfg.Reporter = nopReporter{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewSessionID == nil {
		cfg.NewSessionID = uuid.NewString
	}
	if cfg.RoundSeconds <= 0 {
		cfg.RoundSeconds = 60
	}

	e := &Engine{
		collectionID: cfg.CollectionID,
		correct:      cfg.Correct,
		distractors:  cfg.Distractors,
		opts:         cfg.Options,
		gen:          NewGenerator(cfg.Rand),
		reporter:     cfg.Reporter,
		now:          cfg.Now,
		newSessionID: cfg.NewSessionID,
		roundSeconds: cfg.RoundSeconds,
		timer:        NewRoundTimer(cfg.TickInterval),
	}
	err := e.resetLocked()
	return e, err
}

// resetLocked re-seeds the whole session: new session id, regenerated rounds,
// cleared selections. Callers hold e.mu (or, for NewEngine, have exclusive
// access).
func (e *Engine) resetLocked() error {
	e.sessionID = e.newSessionID()
	e.currentRound = 1
	e.selections = nil
	e.choices = nil
	e.correctID = ""
	e.completedAt = nil
	e.networkError = false
	e.lastError = ""
	e.lastActive = e.now()
	e.epoch++

	rounds, err := e.gen.Generate(e.correct, e.distractors, e.opts)
	if err != nil {
		e.rounds = nil
		e.status = models.StatusFailed
		e.networkError = true
		e.lastError = err.Error()
		return err
	}
	e.rounds = rounds
	e.status = models.StatusStudying
	return nil
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	s := Snapshot{
		SessionID:      e.sessionID,
		CollectionID:   e.collectionID,
		Status:         e.status,
		CurrentRound:   e.currentRound,
		RoundCount:     len(e.rounds),
		CorrectID:      e.correctID,
		RoundStartTime: e.roundStartTime,
		CompletedAt:    e.completedAt,
		TimeRemaining:  e.timer.Remaining(),
		NetworkError:   e.networkError,
		LastError:      e.lastError,
	}
	s.Choices = append([]models.Item(nil), e.choices...)
	s.Selections = append([]models.SelectedChoice(nil), e.selections...)
	if e.status == models.StatusPlaying && e.currentRound <= len(e.rounds) {
		round := e.rounds[e.currentRound-1]
		s.Category = round.Category
		s.Phase = round.Phase
	}
	return s
}

// StartChallenge moves the session from studying to playing and arms the
// round-one timer. Preconditions unmet leave the state untouched apart from
// the error flag, so the UI can surface a retry.
func (e *Engine) StartChallenge() (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lastActive = e.now()

	if e.status != models.StatusStudying {
		return e.snapshotLocked(), fmt.Errorf("%w: status is %s", ErrNotPlaying, e.status)
	}

	if len(e.rounds) == 0 {
		return e.failInitLocked("no game rounds available")
	}
	first := e.rounds[0]
	if first.CorrectID == "" || len(first.Choices) == 0 {
		return e.failInitLocked("round 1 data is invalid")
	}

	e.status = models.StatusPlaying
	e.currentRound = 1
	e.choices = first.Choices
	e.correctID = first.CorrectID
	now := e.now()
	e.roundStartTime = now
	e.challengeStart = now
	e.lastError = ""
	e.armTimerLocked()

	return e.snapshotLocked(), nil
}

func (e *Engine) failInitLocked(reason string) (Snapshot, error) {
	err := &GameInitializationError{Reason: reason}
	e.lastError = err.Error()
	return e.snapshotLocked(), err
}

// SelectItem applies a choice for the current round. Calls outside the
// playing state are no-ops so rapid repeat submissions cannot double-record a
// round.
func (e *Engine) SelectItem(itemID string) (SelectionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lastActive = e.now()

	if e.status != models.StatusPlaying {
		return SelectionResult{Snapshot: e.snapshotLocked()}, ErrNotPlaying
	}

	if e.correctID == "" || len(e.choices) == 0 {
		e.status = models.StatusFailed
		e.lastError = ErrInconsistentState.Error()
		e.bumpEpochLocked()
		return SelectionResult{Snapshot: e.snapshotLocked()}, ErrInconsistentState
	}

	if itemID == "" || !e.inChoicesLocked(itemID) {
		// Bad input, not a broken invariant: reject and leave the round alone.
		return SelectionResult{Snapshot: e.snapshotLocked()}, fmt.Errorf("%w: %q", ErrInvalidSelection, itemID)
	}

	now := e.now()
	isCorrect := itemID == e.correctID
	sel := models.SelectedChoice{
		RoundNumber:     e.currentRound,
		ItemID:          itemID,
		IsCorrect:       isCorrect,
		SelectionTimeMs: now.Sub(e.roundStartTime).Milliseconds(),
		Timestamp:       now,
	}
	e.selections = append(e.selections, sel)
	e.trackRoundLocked(sel, false)

	if !isCorrect {
		e.status = models.StatusFailed
		e.bumpEpochLocked()
		e.trackCompletionLocked(false, now)
		return SelectionResult{Snapshot: e.snapshotLocked()}, nil
	}

	if e.currentRound == len(e.rounds) {
		e.status = models.StatusSuccess
		e.completedAt = &now
		e.bumpEpochLocked()
		e.trackCompletionLocked(true, now)
		return SelectionResult{IsCorrect: true, Snapshot: e.snapshotLocked()}, nil
	}

	// Advance to the next pre-generated round.
	next := e.currentRound + 1
	if next > len(e.rounds) {
		e.status = models.StatusFailed
		e.lastError = ErrMissingRoundData.Error()
		e.bumpEpochLocked()
		return SelectionResult{Snapshot: e.snapshotLocked()},
			fmt.Errorf("%w for round %d", ErrMissingRoundData, next)
	}
	round := e.rounds[next-1]
	if round.CorrectID == "" || len(round.Choices) == 0 {
		e.status = models.StatusFailed
		e.lastError = ErrMissingRoundData.Error()
		e.bumpEpochLocked()
		return SelectionResult{Snapshot: e.snapshotLocked()},
			fmt.Errorf("%w for round %d", ErrMissingRoundData, next)
	}

	e.currentRound = next
	e.choices = round.Choices
	e.correctID = round.CorrectID
	e.roundStartTime = now
	e.armTimerLocked()

	return SelectionResult{IsCorrect: true, Snapshot: e.snapshotLocked()}, nil
}

// HandleTimeout locks the session when the round timer expires. The epoch
// argument is the one captured when the timer was armed; a stale epoch means
// the round already advanced or ended and the firing is discarded. Returns
// whether the timeout was applied.
func (e *Engine) HandleTimeout(epoch uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if epoch != e.epoch || e.status != models.StatusPlaying {
		return false
	}

	now := e.now()
	e.status = models.StatusLocked
	e.bumpEpochLocked()
	e.trackRoundLocked(models.SelectedChoice{
		RoundNumber:     e.currentRound, // timeout carries no item id
		SelectionTimeMs: now.Sub(e.roundStartTime).Milliseconds(),
		Timestamp:       now,
	}, true)
	e.trackCompletionLocked(false, now)
	return true
}

// Restart tears the session down and rebuilds it: fresh session id,
// regenerated rounds, cleared history. Valid from any state.
func (e *Engine) Restart() (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.timer.Stop()
	err := e.resetLocked()
	return e.snapshotLocked(), err
}

// Close stops the timer. Used on session expiry and server shutdown.
func (e *Engine) Close() {
	e.timer.Stop()
}

// LastActive reports when the session last saw a transition, for expiry
// sweeps.
func (e *Engine) LastActive() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastActive
}

// SessionID returns the current session id, which changes on restart.
func (e *Engine) SessionID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessionID
}

func (e *Engine) inChoicesLocked(itemID string) bool {
	for _, c := range e.choices {
		if c.ID == itemID {
			return true
		}
	}
	return false
}

// bumpEpochLocked invalidates any armed timer and stops it.
func (e *Engine) bumpEpochLocked() {
	e.epoch++
	e.timer.Stop()
}

func (e *Engine) armTimerLocked() {
	e.epoch++
	epoch := e.epoch
	e.timer.Start(e.roundSeconds, epoch, func(ep uint64) {
		e.HandleTimeout(ep)
	})
}

func (e *Engine) trackRoundLocked(sel models.SelectedChoice, wasTimeout bool) {
	shown := make([]string, len(e.choices))
	for i, c := range e.choices {
		shown[i] = c.ID
	}
	category := ""
	if e.currentRound >= 1 && e.currentRound <= len(e.rounds) {
		category = e.rounds[e.currentRound-1].Category
	}
	ev := models.RoundEvent{
		SessionID:       e.sessionID,
		CollectionID:    e.collectionID,
		RoundNumber:     sel.RoundNumber,
		Category:        category,
		ItemsShown:      shown,
		CorrectItemID:   e.correctID,
		SelectedItemID:  sel.ItemID,
		SelectionTimeMs: sel.SelectionTimeMs,
		WasTimeout:      wasTimeout,
		CreatedAt:       sel.Timestamp,
	}
	go e.reporter.TrackRound(ev)
}

func (e *Engine) trackCompletionLocked(success bool, now time.Time) {
	ev := models.CompletionEvent{
		SessionID:       e.sessionID,
		Success:         success,
		TotalDurationMs: now.Sub(e.challengeStart).Milliseconds(),
		CompletedAt:     now,
	}
	go e.reporter.TrackCompletion(ev)
}
