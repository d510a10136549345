package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/srs_engine/internal/srs"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// dueCard returns a learning-stage card due daysOverdue days ago.
func dueCard(id string, daysOverdue int) srs.Card {
	last := testNow.AddDate(0, 0, -daysOverdue-5)
	return srs.Card{
		ID:             id,
		Strategy:       srs.StrategyFSRS,
		Stability:      5,
		Difficulty:     5,
		Interval:       5,
		Repetitions:    2,
		EaseFactor:     2.5,
		LastReviewed:   &last,
		NextReviewDate: testNow.AddDate(0, 0, -daysOverdue),
	}
}

func defaultBudget() Budget {
	return Budget{MaxNew: 5, MaxReview: 10, MaxTotal: 15}
}

func TestSelectExcludesSuspendedAndBuried(t *testing.T) {
	suspended := dueCard("suspended", 3)
	suspended.Suspended = true
	buried := dueCard("buried", 3)
	buried.Bury(testNow)
	pool := []srs.Card{suspended, buried, dueCard("ok", 3)}

	queue := Select(pool, defaultBudget(), Flags{}, testNow)
	require.Len(t, queue, 1)
	assert.Equal(t, "ok", queue[0].ID)
}

func TestSelectBuryExpires(t *testing.T) {
	buried := dueCard("buried", 3)
	buried.Bury(testNow)
	pool := []srs.Card{buried}

	tomorrow := testNow.AddDate(0, 0, 1)
	queue := Select(pool, defaultBudget(), Flags{}, tomorrow)
	assert.Len(t, queue, 1)
}

func TestSelectOrdersMostOverdueFirst(t *testing.T) {
	pool := []srs.Card{dueCard("a", 1), dueCard("b", 9), dueCard("c", 4)}
	queue := Select(pool, defaultBudget(), Flags{PrioritizeOverdue: true}, testNow)

	require.Len(t, queue, 3)
	assert.Equal(t, "b", queue[0].ID)
	assert.Equal(t, "c", queue[1].ID)
	assert.Equal(t, "a", queue[2].ID)
}

func TestSelectSkipsNotYetDue(t *testing.T) {
	future := dueCard("future", 0)
	future.NextReviewDate = testNow.AddDate(0, 0, 3)
	pool := []srs.Card{future, dueCard("due", 1)}

	queue := Select(pool, defaultBudget(), Flags{}, testNow)
	require.Len(t, queue, 1)
	assert.Equal(t, "due", queue[0].ID)
}

func TestSelectNewCardsOnlyWithFlag(t *testing.T) {
	pool := []srs.Card{srs.NewCard("n1", testNow), dueCard("due", 1)}

	queue := Select(pool, defaultBudget(), Flags{}, testNow)
	require.Len(t, queue, 1)
	assert.Equal(t, "due", queue[0].ID)

	queue = Select(pool, defaultBudget(), Flags{IncludeNew: true}, testNow)
	require.Len(t, queue, 2)
	// Due cards first, then new cards in pool order.
	assert.Equal(t, "due", queue[0].ID)
	assert.Equal(t, "n1", queue[1].ID)
}

func TestSelectHonorsBudgets(t *testing.T) {
	var pool []srs.Card
	for i := range 30 {
		pool = append(pool, dueCard(fmt.Sprintf("due%d", i), i%7))
	}
	for i := range 20 {
		pool = append(pool, srs.NewCard(fmt.Sprintf("new%d", i), testNow))
	}

	budget := Budget{MaxNew: 3, MaxReview: 8, MaxTotal: 10}
	queue := Select(pool, budget, Flags{IncludeNew: true}, testNow)
	require.Len(t, queue, 10)

	newCount := 0
	for _, c := range queue {
		if c.Category() == srs.CategoryNew {
			newCount++
		}
	}
	assert.Equal(t, 2, newCount, "8 review slots filled, 2 total-budget slots left for new")

	// MaxTotal is a hard ceiling regardless of the per-category budgets.
	budget = Budget{MaxNew: 50, MaxReview: 50, MaxTotal: 4}
	queue = Select(pool, budget, Flags{IncludeNew: true}, testNow)
	assert.Len(t, queue, 4)
}

func TestSelectDifficultFirst(t *testing.T) {
	hard := dueCard("hard", 1)
	hard.Difficulty = 8.5
	pool := []srs.Card{dueCard("a", 9), hard, dueCard("b", 4)}

	queue := Select(pool, defaultBudget(), Flags{IncludeDifficult: true}, testNow)
	require.Len(t, queue, 3)
	assert.Equal(t, "hard", queue[0].ID)
	// The rest keep the overdue ordering.
	assert.Equal(t, "a", queue[1].ID)
	assert.Equal(t, "b", queue[2].ID)
}

func TestSelectShuffleKeepsMembership(t *testing.T) {
	var pool []srs.Card
	for i := range 10 {
		pool = append(pool, dueCard(fmt.Sprintf("c%d", i), i))
	}
	queue := Select(pool, defaultBudget(), Flags{Shuffle: true}, testNow)
	require.Len(t, queue, 10)

	seen := map[string]bool{}
	for _, c := range queue {
		seen[c.ID] = true
	}
	assert.Len(t, seen, 10)
}

func TestSelectEmptyPool(t *testing.T) {
	assert.Empty(t, Select(nil, defaultBudget(), Flags{IncludeNew: true}, testNow))
}
