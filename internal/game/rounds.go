package game

import (
	"math/rand"
	"time"

	"knowledgegate/internal/models"
)

// Options controls round generation for one game.
type Options struct {
	Rounds              int
	DistractorsPerRound int
	// Categories optionally targets one category per round. When set, its
	// length must equal Rounds. Empty means rounds are category-agnostic.
	Categories []string
}

// Generator builds round tables from a partitioned pool. It owns its random
// source so tests can seed it for deterministic output.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator backed by the given source. A nil rng gets
// a time-seeded one.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

// Generate builds an ordered round table. Each round takes one unused correct
// item and DistractorsPerRound unused distractors, so no item id repeats
// across rounds within a game.
//
// In category-targeted mode selection is two-phase: strict first (unused items
// of the round's category), then relaxed (any unused items) when the strict
// pool cannot cover the round. The phase that produced each round is recorded
// on the round itself so callers can observe when relaxation happened.
func (g *Generator) Generate(correct, distractors []models.Item, opts Options) ([]models.Round, error) {
	if opts.Rounds <= 0 {
		return nil, &ConfigurationError{Reason: "round count must be positive"}
	}
	if opts.DistractorsPerRound <= 0 {
		return nil, &ConfigurationError{Reason: "distractors per round must be positive"}
	}
	if len(opts.Categories) > 0 && len(opts.Categories) != opts.Rounds {
		return nil, &ConfigurationError{Reason: "round categories must match round count"}
	}

	used := make(map[string]bool)
	rounds := make([]models.Round, 0, opts.Rounds)

	for i := 0; i < opts.Rounds; i++ {
		number := i + 1
		category := ""
		if len(opts.Categories) > 0 {
			category = opts.Categories[i]
		}

		phase := models.PhaseStrict
		availCorrect := filterItems(correct, used, category)
		availDistractors := filterItems(distractors, used, category)

		// Relaxed phase only exists in category-targeted mode, and only
		// kicks in when the exact-category pool cannot cover the round.
		if category != "" && (len(availCorrect) == 0 || len(availDistractors) < opts.DistractorsPerRound) {
			phase = models.PhaseRelaxed
			availCorrect = filterItems(correct, used, "")
			availDistractors = filterItems(distractors, used, "")
		}

		if len(availCorrect) == 0 {
			return nil, &InsufficientContentError{
				Round: number, Category: category, Kind: "correct", Need: 1, Have: 0,
			}
		}
		if len(availDistractors) < opts.DistractorsPerRound {
			return nil, &InsufficientContentError{
				Round: number, Category: category, Kind: "distractor",
				Need: opts.DistractorsPerRound, Have: len(availDistractors),
			}
		}

		answer := availCorrect[g.rng.Intn(len(availCorrect))]
		padding := g.pick(availDistractors, opts.DistractorsPerRound)

		choices := make([]models.Item, 0, 1+opts.DistractorsPerRound)
		choices = append(choices, answer)
		choices = append(choices, padding...)
		g.shuffle(choices)

		rounds = append(rounds, models.Round{
			RoundNumber: number,
			Choices:     choices,
			CorrectID:   answer.ID,
			Category:    category,
			Phase:       phase,
		})

		used[answer.ID] = true
		for _, d := range padding {
			used[d.ID] = true
		}
	}

	return rounds, nil
}

// filterItems returns items not yet used, optionally restricted to a category.
func filterItems(items []models.Item, used map[string]bool, category string) []models.Item {
	out := make([]models.Item, 0, len(items))
	for _, it := range items {
		if used[it.ID] {
			continue
		}
		if category != "" && it.Category != category {
			continue
		}
		out = append(out, it)
	}
	return out
}

// pick selects count items uniformly without replacement via a partial
// Fisher-Yates over a copy.
func (g *Generator) pick(items []models.Item, count int) []models.Item {
	pool := make([]models.Item, len(items))
	copy(pool, items)
	for i := 0; i < count; i++ {
		j := i + g.rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:count]
}

// shuffle is an in-place Fisher-Yates shuffle.
func (g *Generator) shuffle(items []models.Item) {
	for i := len(items) - 1; i > 0; i-- {
		j := g.rng.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
