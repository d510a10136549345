package srs

import (
	"math"
	"time"
)

const minEaseFactor = 1.3

// EaseFactorScheduler is the legacy SM-2-style compatibility path. Existing
// decks scheduled with it keep their exact behavior; intervals reproduce the
// classic formulas bit for bit.
type EaseFactorScheduler struct {
	params Params
}

func NewEaseFactorScheduler(p Params) (*EaseFactorScheduler, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &EaseFactorScheduler{params: p}, nil
}

func (s *EaseFactorScheduler) Name() StrategyName { return StrategySM2 }

// quality maps the four-grade scale onto SM-2's 0-5 quality score.
func quality(g Grade) int {
	switch g {
	case GradeAgain:
		return 0
	case GradeHard:
		return 3
	case GradeGood:
		return 4
	default:
		return 5
	}
}

// Review applies one answer event using the SM-2 update rules.
func (s *EaseFactorScheduler) Review(card Card, result ReviewResult, now time.Time) (Card, error) {
	if err := result.Validate(); err != nil {
		return Card{}, err
	}
	q := quality(result.Grade)

	ef := card.EaseFactor
	if ef < minEaseFactor {
		ef = initialEaseFactor
	}
	qf := float64(q)
	ef = max(minEaseFactor, ef+(0.1-(5-qf)*(0.08+(5-qf)*0.02)))

	var interval int
	if q >= 3 {
		switch card.Repetitions {
		case 0:
			interval = 1
		case 1:
			interval = 6
		default:
			interval = int(math.Round(float64(card.Interval) * ef))
		}
		card.Repetitions++
	} else {
		card.Repetitions = 0
		interval = 1
		card.Lapses++
		if card.Lapses >= s.params.LapseThreshold {
			card.Suspended = true
		}
	}
	interval = min(max(interval, 1), s.params.SM2MaximumInterval)

	card.EaseFactor = ef
	card.Interval = interval
	card.LastReviewed = &now
	card.NextReviewDate = now.AddDate(0, 0, interval)
	card.Strategy = StrategySM2
	return card, nil
}
