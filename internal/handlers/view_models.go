package handlers

import (
	"time"

	"knowledgegate/internal/game"
	"knowledgegate/internal/models"
)

// itemView is the client-facing shape of an item. Score is deliberately
// omitted: it would reveal which choice is correct.
type itemView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Image    string `json:"image"`
	Category string `json:"category"`
}

func toItemViews(items []models.Item) []itemView {
	views := make([]itemView, len(items))
	for i, it := range items {
		views[i] = itemView{ID: it.ID, Name: it.Name, Image: it.Image, Category: it.Category}
	}
	return views
}

type selectionView struct {
	RoundNumber     int   `json:"roundNumber"`
	IsCorrect       bool  `json:"isCorrect"`
	SelectionTimeMs int64 `json:"selectionTimeMs"`
}

// gameStateView is the snapshot shape every game endpoint returns. CorrectID
// never appears here.
type gameStateView struct {
	SessionID     string          `json:"sessionId"`
	CollectionID  string          `json:"collectionId"`
	Status        string          `json:"status"`
	CurrentRound  int             `json:"currentRound"`
	RoundCount    int             `json:"roundCount"`
	TimeRemaining int             `json:"timeRemaining"`
	Choices       []itemView      `json:"choices"`
	Selections    []selectionView `json:"selections"`
	NetworkError  bool            `json:"networkError"`
	HasError      bool            `json:"hasError"`
	CompletedAt   *time.Time      `json:"completedAt,omitempty"`
}

func toGameStateView(s game.Snapshot) gameStateView {
	selections := make([]selectionView, len(s.Selections))
	for i, sel := range s.Selections {
		selections[i] = selectionView{
			RoundNumber:     sel.RoundNumber,
			IsCorrect:       sel.IsCorrect,
			SelectionTimeMs: sel.SelectionTimeMs,
		}
	}
	return gameStateView{
		SessionID:     s.SessionID,
		CollectionID:  s.CollectionID,
		Status:        string(s.Status),
		CurrentRound:  s.CurrentRound,
		RoundCount:    s.RoundCount,
		TimeRemaining: s.TimeRemaining,
		Choices:       toItemViews(s.Choices),
		Selections:    selections,
		NetworkError:  s.NetworkError,
		HasError:      s.LastError != "",
		CompletedAt:   s.CompletedAt,
	}
}

// sessionStartView is returned when a session is created or restarted: the
// state plus the study material and presentation config.
type sessionStartView struct {
	State          gameStateView `json:"state"`
	CollectionName string        `json:"collectionName"`
	Theme          models.Theme  `json:"theme"`
	ReferenceItems []itemView    `json:"referenceItems"`
	RoundDuration  int           `json:"roundDurationSeconds"`
}

// selectionResultView is returned from the select endpoint. GatePass and
// SuccessMessage are only present when this selection finished the game.
type selectionResultView struct {
	IsCorrect      bool          `json:"isCorrect"`
	State          gameStateView `json:"state"`
	SuccessMessage string        `json:"successMessage,omitempty"`
	GatePass       string        `json:"gatePass,omitempty"`
}
