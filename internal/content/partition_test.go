package content

import (
	"errors"
	"fmt"
	"testing"

	"knowledgegate/internal/game"
	"knowledgegate/internal/models"
)

func testPool() []models.Item {
	var items []models.Item
	for i := 0; i < 5; i++ {
		items = append(items, models.Item{
			ID:       fmt.Sprintf("ref-%d", i),
			Image:    "/img/ref.png",
			Score:    models.ScoreCorrect,
			Category: "dragon",
		})
	}
	for i := 0; i < 4; i++ {
		items = append(items, models.Item{
			ID:       fmt.Sprintf("correct-%d", i),
			Image:    "/img/c.png",
			Score:    models.ScoreCorrect,
			Category: "dragon",
		})
	}
	for i := 0; i < 20; i++ {
		items = append(items, models.Item{
			ID:       fmt.Sprintf("wrong-%d", i),
			Image:    "/img/w.png",
			Score:    models.ScoreDistractor,
			Category: "spellcaster",
		})
	}
	return items
}

func testCollection() models.CollectionConfig {
	return models.CollectionConfig{
		ID:             "test",
		Name:           "Test Collection",
		ReferenceItems: []string{"ref-0", "ref-1", "ref-2", "ref-3", "ref-4"},
	}
}

func TestPartition(t *testing.T) {
	pool, err := Partition(testPool(), testCollection(), 3, 5)
	if err != nil {
		t.Fatalf("Partition() error = %v", err)
	}

	if len(pool.Reference) != 5 {
		t.Errorf("reference count = %d, want 5", len(pool.Reference))
	}
	if len(pool.Correct) != 4 {
		t.Errorf("correct count = %d, want 4", len(pool.Correct))
	}
	if len(pool.Distractors) != 20 {
		t.Errorf("distractor count = %d, want 20", len(pool.Distractors))
	}

	// Study material must never leak into either choice pool.
	for _, it := range append(append([]models.Item{}, pool.Correct...), pool.Distractors...) {
		for _, refID := range testCollection().ReferenceItems {
			if it.ID == refID {
				t.Errorf("reference item %s ended up in a choice pool", refID)
			}
		}
	}
}

func TestPartitionReferenceMismatch(t *testing.T) {
	cfg := testCollection()
	cfg.ReferenceItems = append(cfg.ReferenceItems, "ref-missing")

	_, err := Partition(testPool(), cfg, 3, 5)
	var cfgErr *game.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Partition() error = %v, want ConfigurationError", err)
	}
}

func TestPartitionInsufficientCounts(t *testing.T) {
	tests := []struct {
		name     string
		rounds   int
		perRound int
		wantKind string
	}{
		{"not enough correct items", 5, 2, "correct"},
		{"not enough distractors", 3, 7, "distractor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Partition(testPool(), testCollection(), tt.rounds, tt.perRound)
			var insufficient *game.InsufficientContentError
			if !errors.As(err, &insufficient) {
				t.Fatalf("Partition() error = %v, want InsufficientContentError", err)
			}
			if insufficient.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", insufficient.Kind, tt.wantKind)
			}
		})
	}
}
