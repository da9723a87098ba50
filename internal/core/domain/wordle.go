package domain

// Static word pools used when generation cannot produce a fresh, unplayed
// word after the attempt budget runs out.
var fallbackWords = map[Difficulty][]string{
	DifficultyEasy:   {"play", "game", "word", "code"},
	DifficultyMedium: {"train", "think", "learn", "skill"},
	DifficultyHard:   {"puzzle", "master", "wisdom", "design"},
}

func FallbackWords(d Difficulty) []string {
	words, ok := fallbackWords[d]
	if !ok {
		return fallbackWords[DifficultyMedium]
	}
	return words
}

type WordleWord struct {
	Word string `json:"word"`
	Hint string `json:"hint,omitempty"`
}
