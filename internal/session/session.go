// Package session contains the study-session side of the engine: the
// deterministic card selector, the session runtime state machine, and the
// post-session recommendation estimator.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidConfig    = errors.New("invalid session config")
	ErrSessionNotActive = errors.New("no active session")
	ErrSessionActive    = errors.New("a session is already active")
	ErrNoActiveQuestion = errors.New("no question is currently presented")
)

// Type is the kind of study session being run.
type Type string

const (
	TypeReview Type = "review"
	TypeLearn  Type = "learn"
	TypeCram   Type = "cram"
	TypeTest   Type = "test"
)

// Config is the caller-supplied budget for one session. Pure configuration;
// the runtime never mutates it.
type Config struct {
	MaxNewCards      int  `json:"max_new_cards" validate:"gte=0"`
	MaxReviewCards   int  `json:"max_review_cards" validate:"gte=0"`
	TimeLimitMinutes int  `json:"time_limit_minutes" validate:"gt=0"`
	SessionType      Type `json:"session_type" validate:"oneof=review learn cram test"`

	IncludeNew        bool `json:"include_new"`
	IncludeDifficult  bool `json:"include_difficult"`
	PrioritizeOverdue bool `json:"prioritize_overdue"`
	ShuffleCards      bool `json:"shuffle_cards"`
	ShowHints         bool `json:"show_hints"`
	EnableMemoryAids  bool `json:"enable_memory_aids"`
}

var validate = validator.New()

// Validate rejects non-positive budgets and time limits.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.MaxNewCards+c.MaxReviewCards <= 0 {
		return fmt.Errorf("%w: total card budget must be positive", ErrInvalidConfig)
	}
	return nil
}

// StudySession is the record of one bounded run. The runtime mutates it
// while active; EndSession finalizes it and returns it to the caller to
// persist.
type StudySession struct {
	ID                string      `json:"id"`
	StartTime         time.Time   `json:"start_time"`
	EndTime           *time.Time  `json:"end_time,omitempty"`
	SessionType       Type        `json:"session_type"`
	QuestionsReviewed int         `json:"questions_reviewed"`
	CorrectAnswers    int         `json:"correct_answers"`
	AverageResponseMs float64     `json:"average_response_ms"`
	FocusTimeMinutes  float64     `json:"focus_time_minutes"`
	GradeDistribution map[int]int `json:"grade_distribution"`
	Mood              string      `json:"mood,omitempty"`
	Notes             string      `json:"notes,omitempty"`
}

// estimatedBreakMinutes is a tiered heuristic: long sittings include breaks
// the learner didn't log.
func estimatedBreakMinutes(totalMinutes float64) float64 {
	switch {
	case totalMinutes > 60:
		return totalMinutes * 0.2
	case totalMinutes > 30:
		return totalMinutes * 0.1
	default:
		return 0
	}
}
