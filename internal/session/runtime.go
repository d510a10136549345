package session

import (
	"fmt"
	"time"

	"github.com/domino14/srs_engine/internal/srs"
)

// State is the runtime's lifecycle stage.
type State int

const (
	StateIdle State = iota
	StateActive
	StateCompleted
)

// Runtime drives one study session: it presents one card at a time, applies
// the configured scheduler on each answer, and finalizes the session record.
// A Runtime is caller-owned state; calls on one Runtime must be serialized,
// but independent Runtimes over disjoint pools need no coordination.
type Runtime struct {
	strategy srs.Strategy
	state    State
	config   Config
	queue    []srs.Card
	cursor   int

	session         StudySession
	totalResponseMs float64
	streak          int
	bestStreak      int
	advancedShown   int
	presented       int
}

// NewRuntime returns an idle runtime bound to a scheduling strategy.
func NewRuntime(strategy srs.Strategy) *Runtime {
	return &Runtime{strategy: strategy}
}

// State returns the current lifecycle stage.
func (r *Runtime) State() State { return r.state }

// Queue returns the remaining presentation order, current card first.
func (r *Runtime) Queue() []srs.Card {
	if r.cursor >= len(r.queue) {
		return nil
	}
	return r.queue[r.cursor:]
}

// StartSession validates the config, selects the queue from the pool, and
// activates the session. An empty pool is not an error; the session simply
// has nothing to present.
func (r *Runtime) StartSession(pool []srs.Card, cfg Config, now time.Time) error {
	if r.state == StateActive {
		return ErrSessionActive
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	budget, flags := budgetFromConfig(cfg)
	r.config = cfg
	r.queue = Select(pool, budget, flags, now)
	r.cursor = 0
	r.totalResponseMs = 0
	r.streak = 0
	r.bestStreak = 0
	r.advancedShown = 0
	r.presented = 0
	r.session = StudySession{
		ID:                fmt.Sprintf("sess-%d", now.UnixNano()),
		StartTime:         now,
		SessionType:       cfg.SessionType,
		GradeDistribution: map[int]int{},
	}
	r.state = StateActive
	return nil
}

// CurrentQuestion returns the card at the cursor. ok is false when the
// queue is exhausted (or the session is not active); the caller decides
// whether to end the session then.
func (r *Runtime) CurrentQuestion() (srs.Card, bool) {
	if r.state != StateActive || r.cursor >= len(r.queue) {
		return srs.Card{}, false
	}
	return r.queue[r.cursor], true
}

// SubmitAnswer scores the current card with the configured strategy, folds
// the result into the card's learning metrics and the session record, and
// advances the cursor. The updated card is returned for the caller to
// persist.
func (r *Runtime) SubmitAnswer(result srs.ReviewResult, now time.Time) (srs.Card, error) {
	if r.state != StateActive {
		return srs.Card{}, ErrSessionNotActive
	}
	card, ok := r.CurrentQuestion()
	if !ok {
		return srs.Card{}, ErrNoActiveQuestion
	}
	updated, err := r.strategy.Review(card, result, now)
	if err != nil {
		return srs.Card{}, err
	}
	updated.Metrics = card.Metrics.Update(result)

	r.noteShown(card)
	r.session.QuestionsReviewed++
	r.session.GradeDistribution[int(result.Grade)]++
	if result.Grade.Correct() {
		r.session.CorrectAnswers++
		r.streak++
		r.bestStreak = max(r.bestStreak, r.streak)
	} else {
		r.streak = 0
	}
	r.totalResponseMs += float64(max(result.ResponseTimeMs, 0))
	r.session.AverageResponseMs = r.totalResponseMs / float64(r.session.QuestionsReviewed)

	r.queue[r.cursor] = updated
	r.cursor++
	return updated, nil
}

// SkipQuestion advances past the current card without scheduling it or
// recording a result.
func (r *Runtime) SkipQuestion() error {
	if r.state != StateActive {
		return ErrSessionNotActive
	}
	card, ok := r.CurrentQuestion()
	if !ok {
		return ErrNoActiveQuestion
	}
	r.noteShown(card)
	r.cursor++
	return nil
}

func (r *Runtime) noteShown(card srs.Card) {
	r.presented++
	if card.Difficulty >= advancedDifficulty {
		r.advancedShown++
	}
}

// Progress is a derived, read-only view of a running session.
type Progress struct {
	CardsCompleted    int     `json:"cards_completed"`
	CardsRemaining    int     `json:"cards_remaining"`
	ElapsedMinutes    float64 `json:"elapsed_minutes"`
	AccuracyPct       float64 `json:"accuracy_pct"`
	CorrectStreak     int     `json:"correct_streak"`
	EstRemainingMs    float64 `json:"est_remaining_ms"`
	TimeLimitExceeded bool    `json:"time_limit_exceeded"`
}

// Progress reports the session's live statistics.
func (r *Runtime) Progress(now time.Time) Progress {
	p := Progress{
		CardsCompleted: r.cursor,
		CardsRemaining: max(len(r.queue)-r.cursor, 0),
	}
	if r.state == StateIdle {
		return p
	}
	p.ElapsedMinutes = now.Sub(r.session.StartTime).Minutes()
	if r.session.QuestionsReviewed > 0 {
		p.AccuracyPct = float64(r.session.CorrectAnswers) / float64(r.session.QuestionsReviewed) * 100
	}
	p.CorrectStreak = r.streak
	p.EstRemainingMs = float64(p.CardsRemaining) * r.session.AverageResponseMs
	p.TimeLimitExceeded = p.ElapsedMinutes >= float64(r.config.TimeLimitMinutes)
	return p
}

// EndSession finalizes the session record and completes the runtime. Ending
// early is always valid; that is how a caller cancels a session.
func (r *Runtime) EndSession(mood, notes string, now time.Time) (StudySession, error) {
	if r.state != StateActive {
		return StudySession{}, ErrSessionNotActive
	}
	end := now
	r.session.EndTime = &end
	r.session.Mood = mood
	r.session.Notes = notes
	total := now.Sub(r.session.StartTime).Minutes()
	r.session.FocusTimeMinutes = total - estimatedBreakMinutes(total)
	r.state = StateCompleted
	return r.session, nil
}

// Stats derives the recommender's inputs from the session so far. Valid
// both mid-session and after EndSession.
func (r *Runtime) Stats(now time.Time) Stats {
	s := Stats{
		Reviewed:       r.session.QuestionsReviewed,
		AvgResponseMs:  r.session.AverageResponseMs,
		BestStreak:     r.bestStreak,
		ElapsedMinutes: now.Sub(r.session.StartTime).Minutes(),
	}
	if r.session.EndTime != nil {
		s.ElapsedMinutes = r.session.EndTime.Sub(r.session.StartTime).Minutes()
	}
	if r.session.QuestionsReviewed > 0 {
		s.AccuracyPct = float64(r.session.CorrectAnswers) / float64(r.session.QuestionsReviewed) * 100
	}
	if r.presented > 0 {
		s.AdvancedShare = float64(r.advancedShown) / float64(r.presented)
	}
	return s
}
