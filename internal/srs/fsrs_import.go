package srs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/open-spaced-repetition/go-fsrs/v3"
)

// Vault migration from tools built on the open-spaced-repetition go-fsrs
// library. The import is lossy in both directions, so we coerce anything
// that would break our invariants instead of rejecting whole vaults.

// ImportFSRSCard converts one go-fsrs card into the engine's card model.
func ImportFSRSCard(id string, src fsrs.Card, now time.Time) Card {
	card := NewCard(id, now)

	stability := src.Stability
	if stability <= 0 {
		// Never-reviewed or corrupt exports carry zero stability. A small
		// value schedules the card soon without breaking the curve math.
		stability = 0.2
	}
	card.Stability = clampStability(stability)
	card.Difficulty = clampDifficulty(src.Difficulty)
	card.Repetitions = int(src.Reps)
	card.Lapses = int(src.Lapses)
	card.Interval = max(int(src.ScheduledDays), 1)

	if src.State == fsrs.New || src.Reps == 0 {
		card.Repetitions = 0
		card.Interval = 0
		card.NextReviewDate = now
		return card
	}

	if !src.LastReview.IsZero() {
		last := src.LastReview
		card.LastReviewed = &last
	}
	card.NextReviewDate = src.Due
	if card.NextReviewDate.IsZero() {
		card.NextReviewDate = now
	}
	card.Retrievability = Retrievability(card.elapsedDays(now), card.Stability)
	return card
}

// ImportFSRSJSON converts a whole-vault export: a JSON object mapping card
// IDs to go-fsrs card states.
func ImportFSRSJSON(data []byte, now time.Time) ([]Card, error) {
	var vault map[string]fsrs.Card
	if err := json.Unmarshal(data, &vault); err != nil {
		return nil, fmt.Errorf("parsing fsrs vault export: %w", err)
	}
	cards := make([]Card, 0, len(vault))
	for id, src := range vault {
		cards = append(cards, ImportFSRSCard(id, src, now))
	}
	return cards, nil
}
