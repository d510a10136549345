package srs

import "fmt"

// Grade is the learner's self-reported recall outcome for one review.
type Grade int

const (
	GradeAgain Grade = iota + 1 // failed to recall
	GradeHard
	GradeGood
	GradeEasy
)

func (g Grade) IsValid() bool {
	return g >= GradeAgain && g <= GradeEasy
}

// Correct reports whether the grade counts as a successful recall.
func (g Grade) Correct() bool {
	return g >= GradeGood
}

func (g Grade) String() string {
	switch g {
	case GradeAgain:
		return "again"
	case GradeHard:
		return "hard"
	case GradeGood:
		return "good"
	case GradeEasy:
		return "easy"
	}
	return fmt.Sprintf("Grade(%d)", int(g))
}

// ReviewResult describes one answer event. It is created by the caller per
// answer and consumed once.
type ReviewResult struct {
	Grade            Grade `json:"grade"`
	ResponseTimeMs   int64 `json:"response_time_ms"`
	Confidence       int   `json:"confidence"`        // learner self-report, 1-5
	DifficultyRating int   `json:"difficulty_rating"` // learner self-report, 1-5
}

// Validate checks the result. Only the grade is load-bearing for scheduling;
// the self-reports are advisory and get clamped rather than rejected.
func (r ReviewResult) Validate() error {
	if !r.Grade.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidGrade, int(r.Grade))
	}
	return nil
}
