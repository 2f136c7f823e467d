package models

// ScoreCorrect and ScoreDistractor are the only valid item scores.
// The sign is what the game engine keys off: +1 items are answers,
// -1 items pad out the choice grid.
const (
	ScoreCorrect    = 1
	ScoreDistractor = -1
)

// Item is a single entry in the content pool. Items are loaded once per
// process and treated as immutable afterwards.
type Item struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Image    string   `json:"image"`
	Score    int      `json:"score"`
	Category string   `json:"category"`
	Tags     []string `json:"tags,omitempty"`
}

// IsCorrect reports whether the item is a valid answer rather than a distractor.
func (i Item) IsCorrect() bool {
	return i.Score == ScoreCorrect
}

// Theme holds the presentation colors for a collection. The server never
// interprets these, it only hands them to the frontend.
type Theme struct {
	Primary            string   `json:"primary"`
	Secondary          string   `json:"secondary"`
	Accent             string   `json:"accent"`
	BackgroundGradient []string `json:"backgroundGradient"`
}

// CollectionConfig describes one gated collection: which items are shown as
// study material, how rounds are themed, and which environment variable names
// the redirect target. The URL itself is never stored in config so it can be
// rotated per deployment.
type CollectionConfig struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	ReferenceItems  []string `json:"referenceItems"`
	RoundCategories []string `json:"roundCategories,omitempty"`
	Theme           Theme    `json:"theme"`
	SuccessMessage  string   `json:"successMessage"`
	RedirectURLKey  string   `json:"redirectUrlKey"`
}
