package domain

import "time"

// UserProgress is the per-user bookkeeping row behind the profile screen.
// Keyed by a user-chosen display name.
type UserProgress struct {
	Username    string      `json:"username"`
	Wordle      WordleStats `json:"wordle"`
	Quiz        QuizStats   `json:"quiz"`
	Badges      []string    `json:"badges"`
	TotalScore  int         `json:"totalScore"`
	LastUpdated time.Time   `json:"-"`
}

type WordleStats struct {
	Wins           int        `json:"wins"`
	Losses         int        `json:"losses"`
	Streak         int        `json:"streak"`
	Difficulty     Difficulty `json:"difficulty"`
	CompletedWords []string   `json:"completedWords"`
}

type QuizStats struct {
	TotalScore   int        `json:"totalScore"`
	QuizzesTaken int        `json:"quizzesTaken"`
	AvgScore     float64    `json:"avgScore"`
	Difficulty   Difficulty `json:"difficulty"`
}

// WordleUpdate is one finished wordle round.
type WordleUpdate struct {
	Win        bool       `json:"win"`
	Loss       bool       `json:"loss"`
	Word       string     `json:"word"`
	Difficulty Difficulty `json:"difficulty"`
}

// QuizUpdate is one finished quiz round. Score is the fraction of correct
// answers scaled to points by the caller.
type QuizUpdate struct {
	Score int `json:"score"`
}

type LeaderboardEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// ComputeTotalScore applies the cross-game score formula: wordle wins and
// quiz points, scaled by the wordle difficulty, plus a streak bonus.
func (p *UserProgress) ComputeTotalScore() int {
	base := p.Wordle.Wins*10 + p.Quiz.TotalScore
	streakBonus := p.Wordle.Streak * 5

	multiplier := 1.0
	switch p.Wordle.Difficulty {
	case DifficultyHard:
		multiplier = 1.5
	case DifficultyMedium:
		multiplier = 1.2
	}
	return int(float64(base)*multiplier + 0.5) + streakBonus
}

type badgeRule struct {
	ID    string
	Earns func(p *UserProgress) bool
}

var badgeRules = []badgeRule{
	{"learner", func(p *UserProgress) bool { return p.Wordle.Wins+p.Quiz.QuizzesTaken >= 1 }},
	{"dedicated", func(p *UserProgress) bool { return p.Wordle.Wins+p.Quiz.QuizzesTaken >= 15 }},
	{"wordle-novice", func(p *UserProgress) bool { return p.Wordle.Wins >= 5 }},
	{"wordle-master", func(p *UserProgress) bool { return p.Wordle.Wins >= 20 }},
	{"quiz-whiz", func(p *UserProgress) bool { return p.Quiz.AvgScore >= 0.8 && p.Quiz.QuizzesTaken >= 3 }},
	{"quiz-expert", func(p *UserProgress) bool { return p.Quiz.AvgScore >= 0.9 && p.Quiz.QuizzesTaken >= 5 }},
	{"persistent-player", func(p *UserProgress) bool { return p.Wordle.Wins+p.Wordle.Losses >= 10 }},
	{"high-scorer", func(p *UserProgress) bool { return p.TotalScore >= 200 }},
}

// AwardBadges returns the badge set extended with every newly met criterion.
// Earned badges are never revoked.
func (p *UserProgress) AwardBadges() []string {
	earned := make(map[string]bool, len(p.Badges))
	out := make([]string, 0, len(p.Badges))
	for _, id := range p.Badges {
		earned[id] = true
		out = append(out, id)
	}
	for _, rule := range badgeRules {
		if !earned[rule.ID] && rule.Earns(p) {
			out = append(out, rule.ID)
		}
	}
	return out
}
