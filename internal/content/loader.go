package content

import (
	"encoding/json"
	"fmt"
	"os"

	"knowledgegate/internal/game"
	"knowledgegate/internal/models"
)

// LoadItems reads the static item pool from a JSON array on disk. The whole
// session is unusable without a valid pool, so every problem here is fatal:
// unreadable file, malformed JSON, empty pool, duplicate ids, or items missing
// the fields the game depends on.
func LoadItems(path string) ([]models.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read item pool %s: %w", path, err)
	}

	var items []models.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse item pool %s: %w", path, err)
	}

	if err := ValidateItems(items); err != nil {
		return nil, err
	}

	return items, nil
}

// ValidateItems checks the structural invariants of a loaded pool.
func ValidateItems(items []models.Item) error {
	if len(items) == 0 {
		return &game.ConfigurationError{Reason: "item pool is empty"}
	}

	seen := make(map[string]bool, len(items))
	for i, it := range items {
		switch {
		case it.ID == "":
			return &game.ConfigurationError{Reason: fmt.Sprintf("item %d is missing an id", i)}
		case it.Image == "":
			return &game.ConfigurationError{Reason: fmt.Sprintf("item %q is missing an image", it.ID)}
		case it.Category == "":
			return &game.ConfigurationError{Reason: fmt.Sprintf("item %q is missing a category", it.ID)}
		case it.Score != models.ScoreCorrect && it.Score != models.ScoreDistractor:
			return &game.ConfigurationError{Reason: fmt.Sprintf("item %q has invalid score %d", it.ID, it.Score)}
		case seen[it.ID]:
			return &game.ConfigurationError{Reason: fmt.Sprintf("duplicate item id %q", it.ID)}
		}
		seen[it.ID] = true
	}
	return nil
}
