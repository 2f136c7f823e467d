package handlers

import (
	"log"
	"net/http"

	"knowledgegate/internal/texts"
)

// TextHandler serves the localized UI strings. Missing or partial language
// files silently fall back to the built-in English defaults; copy problems
// must never break the game.
type TextHandler struct {
	textsPath string
}

// NewTextHandler creates a new text handler.
func NewTextHandler(textsPath string) *TextHandler {
	return &TextHandler{textsPath: textsPath}
}

// GetText handles GET /api/text?lang=.
func (h *TextHandler) GetText(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = "en"
	}

	cfg, err := texts.Load(h.textsPath, lang)
	if err != nil {
		log.Printf("Falling back to default texts for lang=%s: %v", lang, err)
	}

	respondJSON(w, http.StatusOK, cfg)
}
