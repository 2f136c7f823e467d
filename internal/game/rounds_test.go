package game

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"knowledgegate/internal/models"
)

// makeItems builds count items with ids prefix-0..count-1 in the given
// category.
func makeItems(prefix, category string, score, count int) []models.Item {
	items := make([]models.Item, count)
	for i := range items {
		items[i] = models.Item{
			ID:       fmt.Sprintf("%s-%d", prefix, i),
			Name:     fmt.Sprintf("%s %d", prefix, i),
			Image:    fmt.Sprintf("/img/%s-%d.png", prefix, i),
			Score:    score,
			Category: category,
		}
	}
	return items
}

func newTestGenerator(seed int64) *Generator {
	return NewGenerator(rand.New(rand.NewSource(seed)))
}

func TestGenerateRoundInvariants(t *testing.T) {
	correct := makeItems("c", "dragon", models.ScoreCorrect, 5)
	distractors := makeItems("d", "dragon", models.ScoreDistractor, 20)

	rounds, err := newTestGenerator(1).Generate(correct, distractors, Options{
		Rounds:              3,
		DistractorsPerRound: 5,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(rounds) != 3 {
		t.Fatalf("Generate() returned %d rounds, want 3", len(rounds))
	}

	seen := make(map[string]bool)
	for i, round := range rounds {
		if round.RoundNumber != i+1 {
			t.Errorf("round %d: RoundNumber = %d, want %d", i, round.RoundNumber, i+1)
		}
		if len(round.Choices) != 6 {
			t.Errorf("round %d: %d choices, want 6", i, len(round.Choices))
		}

		correctCount := 0
		for _, choice := range round.Choices {
			if seen[choice.ID] {
				t.Errorf("round %d: item %s reused across rounds", i, choice.ID)
			}
			seen[choice.ID] = true
			if choice.ID == round.CorrectID {
				correctCount++
				if !choice.IsCorrect() {
					t.Errorf("round %d: correct id %s has distractor score", i, choice.ID)
				}
			}
		}
		if correctCount != 1 {
			t.Errorf("round %d: correct id appears %d times in choices, want 1", i, correctCount)
		}
	}
}

func TestGenerateCategoryTargeting(t *testing.T) {
	// Two correct and six distractors per category; five distractors per
	// round means category A can fill round 1 strictly.
	var correct, distractors []models.Item
	for _, cat := range []string{"A", "B", "C"} {
		correct = append(correct, makeItems("c"+cat, cat, models.ScoreCorrect, 2)...)
		distractors = append(distractors, makeItems("d"+cat, cat, models.ScoreDistractor, 6)...)
	}

	rounds, err := newTestGenerator(7).Generate(correct, distractors, Options{
		Rounds:              3,
		DistractorsPerRound: 5,
		Categories:          []string{"A", "B", "C"},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	first := rounds[0]
	if first.Phase != models.PhaseStrict {
		t.Errorf("round 1 phase = %s, want %s", first.Phase, models.PhaseStrict)
	}
	for _, choice := range first.Choices {
		if choice.Category != "A" {
			t.Errorf("round 1 strict choice %s has category %s, want A", choice.ID, choice.Category)
		}
	}
	for i, round := range rounds {
		if round.Category != []string{"A", "B", "C"}[i] {
			t.Errorf("round %d category = %s", i+1, round.Category)
		}
	}
}

func TestGenerateRelaxedFallback(t *testing.T) {
	// Category B has no correct items at all, so round 2 must relax and
	// borrow from the whole pool.
	correct := append(makeItems("cA", "A", models.ScoreCorrect, 2), makeItems("cC", "C", models.ScoreCorrect, 2)...)
	var distractors []models.Item
	for _, cat := range []string{"A", "B", "C"} {
		distractors = append(distractors, makeItems("d"+cat, cat, models.ScoreDistractor, 6)...)
	}

	rounds, err := newTestGenerator(3).Generate(correct, distractors, Options{
		Rounds:              3,
		DistractorsPerRound: 5,
		Categories:          []string{"A", "B", "C"},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if rounds[1].Phase != models.PhaseRelaxed {
		t.Errorf("round 2 phase = %s, want %s", rounds[1].Phase, models.PhaseRelaxed)
	}
	if rounds[0].Phase != models.PhaseStrict {
		t.Errorf("round 1 phase = %s, want %s", rounds[0].Phase, models.PhaseStrict)
	}
}

func TestGenerateInsufficientContent(t *testing.T) {
	tests := []struct {
		name         string
		correct      []models.Item
		distractors  []models.Item
		opts         Options
		wantRound    int
		wantKind     string
		wantCategory string
	}{
		{
			name:        "too few correct items overall",
			correct:     makeItems("c", "", models.ScoreCorrect, 2),
			distractors: makeItems("d", "", models.ScoreDistractor, 30),
			opts:        Options{Rounds: 3, DistractorsPerRound: 5},
			wantRound:   3,
			wantKind:    "correct",
		},
		{
			name:        "too few distractors overall",
			correct:     makeItems("c", "", models.ScoreCorrect, 3),
			distractors: makeItems("d", "", models.ScoreDistractor, 9),
			opts:        Options{Rounds: 3, DistractorsPerRound: 5},
			wantRound:   2,
			wantKind:    "distractor",
		},
		{
			name:         "category shortage after relaxation",
			correct:      makeItems("c", "A", models.ScoreCorrect, 1),
			distractors:  makeItems("d", "A", models.ScoreDistractor, 5),
			opts:         Options{Rounds: 2, DistractorsPerRound: 5, Categories: []string{"A", "B"}},
			wantRound:    2,
			wantKind:     "correct",
			wantCategory: "B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestGenerator(1).Generate(tt.correct, tt.distractors, tt.opts)
			var insufficient *InsufficientContentError
			if !errors.As(err, &insufficient) {
				t.Fatalf("Generate() error = %v, want InsufficientContentError", err)
			}
			if insufficient.Round != tt.wantRound {
				t.Errorf("Round = %d, want %d", insufficient.Round, tt.wantRound)
			}
			if insufficient.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", insufficient.Kind, tt.wantKind)
			}
			if insufficient.Category != tt.wantCategory {
				t.Errorf("Category = %s, want %s", insufficient.Category, tt.wantCategory)
			}
		})
	}
}

func TestGenerateConfigurationErrors(t *testing.T) {
	correct := makeItems("c", "", models.ScoreCorrect, 3)
	distractors := makeItems("d", "", models.ScoreDistractor, 15)

	tests := []struct {
		name string
		opts Options
	}{
		{"zero rounds", Options{Rounds: 0, DistractorsPerRound: 5}},
		{"zero distractors", Options{Rounds: 3, DistractorsPerRound: 0}},
		{"category count mismatch", Options{Rounds: 3, DistractorsPerRound: 5, Categories: []string{"A"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestGenerator(1).Generate(correct, distractors, tt.opts)
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Errorf("Generate() error = %v, want ConfigurationError", err)
			}
		})
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	correct := makeItems("c", "", models.ScoreCorrect, 5)
	distractors := makeItems("d", "", models.ScoreDistractor, 20)
	opts := Options{Rounds: 3, DistractorsPerRound: 5}

	first, err := newTestGenerator(42).Generate(correct, distractors, opts)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	second, err := newTestGenerator(42).Generate(correct, distractors, opts)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("same seed produced different round tables")
	}
}
