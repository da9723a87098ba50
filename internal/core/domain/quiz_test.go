package domain

import "testing"

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		raw     string
		want    Difficulty
		wantErr bool
	}{
		{"easy", DifficultyEasy, false},
		{"beginner", DifficultyEasy, false},
		{"MEDIUM", DifficultyMedium, false},
		{"intermediate", DifficultyMedium, false},
		{"", DifficultyMedium, false},
		{"hard", DifficultyHard, false},
		{"Expert", DifficultyHard, false},
		{"nightmare", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDifficulty(tt.raw)
		if tt.wantErr {
			if !IsKind(err, ErrInvalidInput) {
				t.Fatalf("ParseDifficulty(%q): expected invalid input, got %v", tt.raw, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseDifficulty(%q) error = %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("ParseDifficulty(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestDifficultyWordLength(t *testing.T) {
	if DifficultyEasy.WordLength() != 4 || DifficultyMedium.WordLength() != 5 || DifficultyHard.WordLength() != 6 {
		t.Fatalf("unexpected word lengths: %d/%d/%d",
			DifficultyEasy.WordLength(), DifficultyMedium.WordLength(), DifficultyHard.WordLength())
	}
}

func TestQuestionValidate(t *testing.T) {
	valid := Question{Text: "Q?", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 3}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid question rejected: %v", err)
	}

	invalid := []Question{
		{Text: "  ", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 0},
		{Text: "Q?", Options: []string{"a", "b", "c"}, CorrectIndex: 0},
		{Text: "Q?", Options: []string{"a", "b", "c", "d", "e"}, CorrectIndex: 0},
		{Text: "Q?", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 4},
		{Text: "Q?", Options: []string{"a", "b", "c", "d"}, CorrectIndex: -1},
	}
	for i, q := range invalid {
		if err := q.Validate(); err == nil {
			t.Fatalf("question %d should be invalid: %+v", i, q)
		}
	}
}

func TestQuestionCorrectAnswer(t *testing.T) {
	q := Question{Text: "Q?", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 2}
	if q.CorrectAnswer() != "c" {
		t.Fatalf("expected c, got %q", q.CorrectAnswer())
	}
	broken := Question{Options: []string{"a"}, CorrectIndex: 5}
	if broken.CorrectAnswer() != "" {
		t.Fatalf("out-of-range index must yield empty answer")
	}
}

func TestGenerationRequestValidate(t *testing.T) {
	ok := GenerationRequest{Topic: "go", Difficulty: DifficultyEasy, NumQuestions: 3}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	if err := (GenerationRequest{Topic: " ", NumQuestions: 3}).Validate(); !IsKind(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank topic, got %v", err)
	}
	if err := (GenerationRequest{Topic: "go", NumQuestions: 0}).Validate(); !IsKind(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for zero count, got %v", err)
	}
}
