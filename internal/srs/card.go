package srs

import "time"

// MatureIntervalDays is the interval at which a card graduates from the
// learning category into long-term review.
const MatureIntervalDays = 21

// Category is the derived learning stage of a card. It is computed from
// repetitions and interval, never stored.
type Category int

const (
	CategoryNew Category = iota
	CategoryLearning
	CategoryReview
)

func (c Category) String() string {
	switch c {
	case CategoryNew:
		return "new"
	case CategoryLearning:
		return "learning"
	case CategoryReview:
		return "review"
	}
	return "unknown"
}

// Card holds the scheduling state for one learnable item. The item's content
// lives with the caller; the engine only sees the opaque ID. Cards are passed
// by value and a review returns a new Card, so callers own persistence.
type Card struct {
	ID       string       `json:"id"`
	Strategy StrategyName `json:"strategy"`

	Stability      float64 `json:"stability"`
	Difficulty     float64 `json:"difficulty"`
	Retrievability float64 `json:"retrievability"`
	Interval       int     `json:"interval"`
	Repetitions    int     `json:"repetitions"`
	Lapses         int     `json:"lapses"`
	EaseFactor     float64 `json:"ease_factor"`

	Suspended   bool      `json:"suspended"`
	BuriedUntil time.Time `json:"buried_until,omitzero"`

	LastReviewed   *time.Time `json:"last_reviewed,omitempty"`
	NextReviewDate time.Time  `json:"next_review_date"`

	Metrics LearningMetrics `json:"metrics"`
}

// NewCard creates a card that has never been reviewed. It is due immediately.
func NewCard(id string, now time.Time) Card {
	return Card{
		ID:             id,
		Strategy:       StrategyFSRS,
		EaseFactor:     initialEaseFactor,
		NextReviewDate: now,
	}
}

// Category derives the card's learning stage.
func (c Card) Category() Category {
	switch {
	case c.Repetitions == 0:
		return CategoryNew
	case c.Interval < MatureIntervalDays:
		return CategoryLearning
	default:
		return CategoryReview
	}
}

// IsDue reports whether the card's next review date has passed.
func (c Card) IsDue(now time.Time) bool {
	return !c.NextReviewDate.After(now)
}

// Buried reports whether the card is still excluded by a burial. Burials
// expire at the start of the calendar day after they were applied.
func (c Card) Buried(now time.Time) bool {
	return now.Before(c.BuriedUntil)
}

// Bury excludes the card from selection until the next calendar day,
// in now's location.
func (c *Card) Bury(now time.Time) {
	y, m, d := now.Date()
	c.BuriedUntil = time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}

// Selectable reports whether the selector may consider this card at all.
func (c Card) Selectable(now time.Time) bool {
	return !c.Suspended && !c.Buried(now)
}

// Reset clears all scheduling state, returning the card to the new category.
// Lifetime learning metrics are kept; they describe history, not schedule.
func (c *Card) Reset(now time.Time) {
	c.Stability = 0
	c.Difficulty = 0
	c.Retrievability = 0
	c.Interval = 0
	c.Repetitions = 0
	c.Lapses = 0
	c.EaseFactor = initialEaseFactor
	c.Suspended = false
	c.BuriedUntil = time.Time{}
	c.LastReviewed = nil
	c.NextReviewDate = now
}

// elapsedDays returns fractional days since the card was last reviewed,
// floored at zero. Cards with no review history elapse zero days.
func (c Card) elapsedDays(now time.Time) float64 {
	if c.LastReviewed == nil {
		return 0
	}
	days := now.Sub(*c.LastReviewed).Hours() / 24.0
	return max(days, 0)
}
