package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"knowledgegate/internal/game"
	"knowledgegate/internal/models"
)

func writeTempItems(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadItems(t *testing.T) {
	path := writeTempItems(t, `[
		{"id": "a", "name": "A", "image": "/img/a.png", "score": 1, "category": "dragon"},
		{"id": "b", "name": "B", "image": "/img/b.png", "score": -1, "category": "spellcaster"}
	]`)

	items, err := LoadItems(path)
	if err != nil {
		t.Fatalf("LoadItems() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("loaded %d items, want 2", len(items))
	}
	if !items[0].IsCorrect() {
		t.Error("item a should be correct")
	}
	if items[1].IsCorrect() {
		t.Error("item b should be a distractor")
	}
}

func TestLoadItemsErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed json", `{"not": "an array"`},
		{"empty pool", `[]`},
		{"missing image", `[{"id": "a", "score": 1, "category": "dragon"}]`},
		{"invalid score", `[{"id": "a", "image": "/a.png", "score": 3, "category": "dragon"}]`},
		{"duplicate id", `[
			{"id": "a", "image": "/a.png", "score": 1, "category": "dragon"},
			{"id": "a", "image": "/a.png", "score": -1, "category": "dragon"}
		]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadItems(writeTempItems(t, tt.content)); err == nil {
				t.Error("LoadItems() succeeded, want error")
			}
		})
	}
}

func TestLoadItemsMissingFile(t *testing.T) {
	if _, err := LoadItems(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("LoadItems() succeeded on a missing file")
	}
}

func TestValidateItems(t *testing.T) {
	valid := []models.Item{
		{ID: "a", Image: "/a.png", Score: models.ScoreCorrect, Category: "dragon"},
	}
	if err := ValidateItems(valid); err != nil {
		t.Errorf("ValidateItems() error = %v", err)
	}

	missingCategory := []models.Item{
		{ID: "a", Image: "/a.png", Score: models.ScoreCorrect},
	}
	err := ValidateItems(missingCategory)
	var cfgErr *game.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("ValidateItems() error = %v, want ConfigurationError", err)
	}
}
