package texts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// TextConfig carries every player-facing string. The game engine never reads
// these; they are resolved at the presentation boundary so a missing or
// partial language file can always fall back to English.
type TextConfig struct {
	Game struct {
		Title    string `json:"title"`
		Subtitle string `json:"subtitle"`
	} `json:"game"`
	UI struct {
		ChooseItem          string `json:"chooseItem"`
		ReferenceCollection string `json:"referenceCollection"`
		LoadingMessage      string `json:"loadingMessage"`
		SuccessHeader       string `json:"successHeader"`
	} `json:"ui"`
	Timer struct {
		RoundOf        string `json:"roundOf"`
		TimeRunningOut string `json:"timeRunningOut"`
	} `json:"timer"`
	Buttons struct {
		TryAgain        string `json:"tryAgain"`
		StudyUp         string `json:"studyUp"`
		EnterSecretArea string `json:"enterSecretArea"`
	} `json:"buttons"`
	Messages struct {
		AccessGranted string `json:"accessGranted"`
		AccessDenied  string `json:"accessDenied"`
		WrongChoice   string `json:"wrongChoice"`
		TimeUp        string `json:"timeUp"`
		LoadingError  string `json:"loadingError"`
	} `json:"messages"`
	StudyPhase struct {
		Title        string `json:"title"`
		Instructions string `json:"instructions"`
		ButtonText   string `json:"buttonText"`
	} `json:"studyPhase"`
}

// Defaults returns the built-in English strings.
func Defaults() TextConfig {
	var t TextConfig
	t.Game.Title = "Knowledge Gate"
	t.Game.Subtitle = "Prove you know the collection"
	t.UI.ChooseItem = "Choose the matching item"
	t.UI.ReferenceCollection = "Reference collection"
	t.UI.LoadingMessage = "Loading challenge..."
	t.UI.SuccessHeader = "Access granted"
	t.Timer.RoundOf = "Round %d of %d"
	t.Timer.TimeRunningOut = "Time is running out!"
	t.Buttons.TryAgain = "Try again"
	t.Buttons.StudyUp = "Study up"
	t.Buttons.EnterSecretArea = "Enter"
	t.Messages.AccessGranted = "Access granted. Redirecting..."
	t.Messages.AccessDenied = "Access denied."
	t.Messages.WrongChoice = "That was not the right item."
	t.Messages.TimeUp = "Time is up. The gate is locked."
	t.Messages.LoadingError = "Something went wrong, try again."
	t.StudyPhase.Title = "Study the collection"
	t.StudyPhase.Instructions = "Memorize the items below, then start the challenge."
	t.StudyPhase.ButtonText = "Start the challenge"
	return t
}

// Load reads <dir>/<lang>.json and fills any missing strings from the
// defaults. Any read or parse failure degrades to the defaults with an error
// for the caller to log; the game must never fail over copy.
func Load(dir, lang string) (TextConfig, error) {
	defaults := Defaults()
	if dir == "" || lang == "" {
		return defaults, nil
	}

	path := filepath.Join(dir, lang+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return defaults, fmt.Errorf("failed to read text config %s: %w", path, err)
	}

	loaded := defaults
	if err := json.Unmarshal(data, &loaded); err != nil {
		return defaults, fmt.Errorf("failed to parse text config %s: %w", path, err)
	}

	fillDefaults(&loaded, defaults)
	return loaded, nil
}

// fillDefaults replaces empty strings with their default counterparts.
func fillDefaults(t *TextConfig, d TextConfig) {
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&t.Game.Title, d.Game.Title)
	fill(&t.Game.Subtitle, d.Game.Subtitle)
	fill(&t.UI.ChooseItem, d.UI.ChooseItem)
	fill(&t.UI.ReferenceCollection, d.UI.ReferenceCollection)
	fill(&t.UI.LoadingMessage, d.UI.LoadingMessage)
	fill(&t.UI.SuccessHeader, d.UI.SuccessHeader)
	fill(&t.Timer.RoundOf, d.Timer.RoundOf)
	fill(&t.Timer.TimeRunningOut, d.Timer.TimeRunningOut)
	fill(&t.Buttons.TryAgain, d.Buttons.TryAgain)
	fill(&t.Buttons.StudyUp, d.Buttons.StudyUp)
	fill(&t.Buttons.EnterSecretArea, d.Buttons.EnterSecretArea)
	fill(&t.Messages.AccessGranted, d.Messages.AccessGranted)
	fill(&t.Messages.AccessDenied, d.Messages.AccessDenied)
	fill(&t.Messages.WrongChoice, d.Messages.WrongChoice)
	fill(&t.Messages.TimeUp, d.Messages.TimeUp)
	fill(&t.Messages.LoadingError, d.Messages.LoadingError)
	fill(&t.StudyPhase.Title, d.StudyPhase.Title)
	fill(&t.StudyPhase.Instructions, d.StudyPhase.Instructions)
	fill(&t.StudyPhase.ButtonText, d.StudyPhase.ButtonText)
}
