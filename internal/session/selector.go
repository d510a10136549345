package session

import (
	"math/rand/v2"
	"sort"
	"time"

	"github.com/domino14/srs_engine/internal/srs"
)

// advancedDifficulty marks the floor of the "advanced/expert" difficulty
// band used by IncludeDifficult placement and by the burnout estimator.
const advancedDifficulty = 7.0

// Budget bounds how many cards a selection may return.
type Budget struct {
	MaxNew    int
	MaxReview int
	MaxTotal  int
}

// Flags steer the ordering, not the budget.
type Flags struct {
	IncludeNew        bool
	IncludeDifficult  bool
	PrioritizeOverdue bool
	Shuffle           bool
}

// budgetFromConfig derives the selector inputs from a session config.
func budgetFromConfig(cfg Config) (Budget, Flags) {
	b := Budget{
		MaxNew:    cfg.MaxNewCards,
		MaxReview: cfg.MaxReviewCards,
		MaxTotal:  cfg.MaxNewCards + cfg.MaxReviewCards,
	}
	f := Flags{
		IncludeNew:        cfg.IncludeNew || cfg.SessionType == TypeLearn,
		IncludeDifficult:  cfg.IncludeDifficult,
		PrioritizeOverdue: cfg.PrioritizeOverdue,
		Shuffle:           cfg.ShuffleCards,
	}
	return b, f
}

// Select chooses a bounded, ordered batch of cards from the pool. It is pure
// and deterministic given now, except for the caller-requested shuffle which
// runs strictly as a final reordering step. Suspended and buried cards never
// appear; ties keep stable input order.
func Select(pool []srs.Card, budget Budget, flags Flags, now time.Time) []srs.Card {
	var due, fresh []srs.Card
	for _, card := range pool {
		if !card.Selectable(now) {
			continue
		}
		switch card.Category() {
		case srs.CategoryNew:
			fresh = append(fresh, card)
		default:
			if card.IsDue(now) {
				due = append(due, card)
			}
		}
	}

	// Overdue-ness descending (now - next, largest first) orders identically
	// to next-review ascending, so both settings of PrioritizeOverdue share
	// one comparator; the flag is kept for config compatibility.
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].NextReviewDate.Before(due[j].NextReviewDate)
	})
	if flags.IncludeDifficult {
		// Front-load the hard cards without disturbing relative order.
		sort.SliceStable(due, func(i, j int) bool {
			return due[i].Difficulty >= advancedDifficulty && due[j].Difficulty < advancedDifficulty
		})
	}

	queue := make([]srs.Card, 0, budget.MaxTotal)
	for _, card := range due {
		if len(queue) >= budget.MaxReview || len(queue) >= budget.MaxTotal {
			break
		}
		queue = append(queue, card)
	}
	if flags.IncludeNew {
		taken := 0
		for _, card := range fresh {
			if taken >= budget.MaxNew || len(queue) >= budget.MaxTotal {
				break
			}
			queue = append(queue, card)
			taken++
		}
	}

	if flags.Shuffle {
		rand.Shuffle(len(queue), func(i, j int) {
			queue[i], queue[j] = queue[j], queue[i]
		})
	}
	return queue
}
