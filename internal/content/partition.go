package content

import (
	"knowledgegate/internal/game"
	"knowledgegate/internal/models"
)

// Pool is the partitioned content for one game session. Reference items are
// study material only and never appear as round choices; correct and
// distractor items are consumed without replacement as rounds are generated.
type Pool struct {
	Reference   []models.Item
	Correct     []models.Item
	Distractors []models.Item
}

// Partition classifies the flat item pool against a collection config and
// validates minimum counts for the requested game shape. Pure function: no
// side effects, inputs untouched. The partitioned pool is returned even on
// count shortfalls so callers can still show the study material.
func Partition(items []models.Item, cfg models.CollectionConfig, rounds, distractorsPerRound int) (Pool, error) {
	referenceIDs := make(map[string]bool, len(cfg.ReferenceItems))
	for _, id := range cfg.ReferenceItems {
		referenceIDs[id] = true
	}

	var pool Pool
	for _, it := range items {
		if referenceIDs[it.ID] {
			pool.Reference = append(pool.Reference, it)
			continue
		}
		if it.IsCorrect() {
			pool.Correct = append(pool.Correct, it)
		} else {
			pool.Distractors = append(pool.Distractors, it)
		}
	}

	if len(pool.Reference) != len(cfg.ReferenceItems) {
		return pool, &game.ConfigurationError{Reason: "reference set size mismatch"}
	}

	if len(pool.Correct) < rounds {
		return pool, &game.InsufficientContentError{
			Kind: "correct", Need: rounds, Have: len(pool.Correct),
		}
	}
	if len(pool.Distractors) < rounds*distractorsPerRound {
		return pool, &game.InsufficientContentError{
			Kind: "distractor", Need: rounds * distractorsPerRound, Have: len(pool.Distractors),
		}
	}

	return pool, nil
}
