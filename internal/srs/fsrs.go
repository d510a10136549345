package srs

import (
	"math"
	"time"
)

// The forgetting curve follows R(t,S) = (1 + t/(9S))^-1: recall probability
// decays to the target retention after S days. Interval derivation inverts
// the same curve for the configured retention.
const forgettingFactor = 9.0

// ForgettingCurveScheduler is the primary scheduler. It is a pure function
// of (card, result, now); safe for concurrent use across cards.
type ForgettingCurveScheduler struct {
	params Params
}

// NewForgettingCurveScheduler validates the calibration set and returns the
// scheduler.
func NewForgettingCurveScheduler(p Params) (*ForgettingCurveScheduler, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &ForgettingCurveScheduler{params: p}, nil
}

func (s *ForgettingCurveScheduler) Name() StrategyName { return StrategyFSRS }

// Retrievability estimates the probability of recall after elapsedDays at
// the given stability.
func Retrievability(elapsedDays, stability float64) float64 {
	if stability <= 0 {
		return 0
	}
	return math.Pow(1+elapsedDays/(forgettingFactor*stability), -1)
}

// Review applies one answer event and returns the rescheduled card.
func (s *ForgettingCurveScheduler) Review(card Card, result ReviewResult, now time.Time) (Card, error) {
	if err := result.Validate(); err != nil {
		return Card{}, err
	}
	grade := result.Grade

	// Repetitions reset to zero on failure, so a lapsed card re-seeds from
	// the table on its next answer just like a brand-new one.
	if card.Repetitions == 0 {
		card = s.initialReview(card, grade)
	} else {
		card = s.subsequentReview(card, grade, now)
	}

	interval := s.interval(card.Stability)
	if grade == GradeAgain {
		card.Repetitions = 0
		card.Lapses++
		if card.Lapses >= s.params.LapseThreshold {
			card.Suspended = true
		}
		// A failed card never moves further out than it already was.
		if card.Interval >= 1 {
			interval = min(interval, card.Interval)
		}
	} else {
		card.Repetitions++
	}

	card.Interval = interval
	card.Difficulty = clampDifficulty(card.Difficulty)
	card.Stability = clampStability(card.Stability)
	card.LastReviewed = &now
	card.NextReviewDate = now.AddDate(0, 0, interval)
	card.Strategy = StrategyFSRS
	return card, nil
}

// initialReview seeds stability and difficulty from the weight table rather
// than updating them incrementally.
func (s *ForgettingCurveScheduler) initialReview(card Card, grade Grade) Card {
	w := s.params.W
	card.Stability = clampStability(w[int(grade)-1])
	card.Difficulty = clampDifficulty(w[4] - float64(int(grade)-3)*w[5])
	card.Retrievability = 1
	return card
}

func (s *ForgettingCurveScheduler) subsequentReview(card Card, grade Grade, now time.Time) Card {
	w := s.params.W
	elapsed := card.elapsedDays(now)
	retr := Retrievability(elapsed, card.Stability)

	if grade == GradeAgain {
		// Stability collapse, not an incremental update.
		card.Stability = w[11] *
			math.Pow(card.Difficulty, -w[12]) *
			(math.Pow(card.Stability+1, w[13]) - 1) *
			math.Exp(w[14]*(1-retr))
	} else {
		hardPenalty := 1.0
		if grade == GradeHard {
			hardPenalty = w[15]
		}
		easyBonus := 1.0
		if grade == GradeEasy {
			easyBonus = w[16]
		}
		// Low retrievability plus a high grade is the strongest signal, so
		// the growth term scales with (1 - R).
		card.Stability *= 1 + math.Exp(w[8])*
			(11-card.Difficulty)*
			math.Pow(card.Stability, -w[9])*
			(math.Exp(w[10]*(1-retr))-1)*
			hardPenalty*easyBonus
	}

	// Mean-revert difficulty toward the grade-3 baseline, nudged by grade.
	nudged := card.Difficulty - w[6]*float64(int(grade)-3)
	card.Difficulty = w[7]*w[4] + (1-w[7])*nudged
	card.Retrievability = clampRetrievability(retr)
	return card
}

// interval inverts the forgetting curve for the target retention.
func (s *ForgettingCurveScheduler) interval(stability float64) int {
	days := stability * forgettingFactor * (1/s.params.TargetRetention - 1)
	ivl := int(math.Round(days))
	return min(max(ivl, 1), s.params.MaximumInterval)
}

func clampStability(s float64) float64 {
	if math.IsNaN(s) || s < 0.01 {
		return 0.01
	}
	return s
}

func clampDifficulty(d float64) float64 {
	if math.IsNaN(d) {
		return 1
	}
	return min(max(d, 1), 10)
}

func clampRetrievability(r float64) float64 {
	if math.IsNaN(r) {
		return 0
	}
	return min(max(r, 0), 1)
}
