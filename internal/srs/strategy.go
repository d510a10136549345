package srs

import (
	"fmt"
	"time"
)

// StrategyName identifies which algorithm governs a card's schedule.
type StrategyName string

const (
	StrategyFSRS StrategyName = "fsrs"
	StrategySM2  StrategyName = "sm2"
)

// Strategy is the shared scheduler contract. Both algorithms are pure:
// same (card, result, now) in, same card out.
type Strategy interface {
	Name() StrategyName
	Review(card Card, result ReviewResult, now time.Time) (Card, error)
}

// NewStrategy builds the named scheduler from a calibration set.
func NewStrategy(name StrategyName, p Params) (Strategy, error) {
	switch name {
	case StrategyFSRS:
		return NewForgettingCurveScheduler(p)
	case StrategySM2:
		return NewEaseFactorScheduler(p)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// MigrateCard explicitly converts a card's state from its current strategy
// to the target one. The two update paths must never be mixed on one card
// without this step; the conversions below are the same kind of proxy
// estimates used when importing legacy cardbox data.
func MigrateCard(card Card, to StrategyName, p Params, now time.Time) (Card, error) {
	if card.Strategy == to {
		return card, nil
	}
	switch to {
	case StrategyFSRS:
		// At the default retention target the interval approximates
		// stability in days, which is the best proxy we have.
		card.Stability = clampStability(float64(card.Interval))
		card.Difficulty = clampDifficulty(10 - (card.EaseFactor-minEaseFactor)/(initialEaseFactor-minEaseFactor)*9)
		card.Retrievability = Retrievability(card.elapsedDays(now), card.Stability)
	case StrategySM2:
		card.EaseFactor = minEaseFactor +
			(initialEaseFactor-minEaseFactor)*(10-clampDifficulty(card.Difficulty))/9
		if card.Interval > p.SM2MaximumInterval {
			card.Interval = p.SM2MaximumInterval
			card.NextReviewDate = now.AddDate(0, 0, card.Interval)
		}
	default:
		return Card{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, to)
	}
	card.Strategy = to
	return card, nil
}
