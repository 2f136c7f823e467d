package config

import (
	"encoding/json"
	"fmt"
	"os"

	"knowledgegate/internal/models"
)

// DefaultCollectionID names the built-in collection used when no collections
// file is configured.
const DefaultCollectionID = "default"

// defaultCollection mirrors the shipped content pack: fifteen reference items
// and category-agnostic rounds. Deployments with themed collections override
// this via COLLECTIONS_PATH.
var defaultCollection = models.CollectionConfig{
	ID:   DefaultCollectionID,
	Name: "Image Knowledge Challenge",
	ReferenceItems: []string{
		"fairy-1", "fairy-2", "fairy-3", "fairy-4", "fairy-5",
		"fairy-6", "fairy-7", "fairy-8", "fairy-9", "fairy-10",
		"fairy-11", "fairy-12", "fairy-13", "fairy-14", "fairy-15",
	},
	Theme: models.Theme{
		Primary:            "#ae81ff",
		Secondary:          "#f92672",
		Accent:             "#e6db74",
		BackgroundGradient: []string{"#272822", "#3e3d32"},
	},
	SuccessMessage: "Challenge Master!",
	RedirectURLKey: "DEFAULT_SUCCESS_URL",
}

// LoadCollections reads the per-collection configs. An empty path yields just
// the built-in default collection.
func LoadCollections(path string) (map[string]models.CollectionConfig, error) {
	collections := map[string]models.CollectionConfig{
		DefaultCollectionID: defaultCollection,
	}
	if path == "" {
		return collections, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read collections config %s: %w", path, err)
	}

	var loaded []models.CollectionConfig
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse collections config %s: %w", path, err)
	}

	for _, c := range loaded {
		if c.ID == "" {
			return nil, fmt.Errorf("collections config %s: collection with empty id", path)
		}
		collections[c.ID] = c
	}
	return collections, nil
}
