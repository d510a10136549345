package stores

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/domino14/srs_engine/internal/session"
	"github.com/domino14/srs_engine/internal/srs"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "vault.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAddAndLoadCards(t *testing.T) {
	is := is.New(t)
	store := openTestStore(t)

	cards := []StoredCard{
		{Card: srs.NewCard("q1", testNow), Front: "ohm's law", Back: "V = IR"},
		{Card: srs.NewCard("q2", testNow), Front: "ampere", Back: "unit of current"},
	}
	n, err := store.AddCards(cards)
	is.NoErr(err)
	is.Equal(n, 2)

	// Duplicate IDs are skipped, not overwritten.
	n, err = store.AddCards(cards[:1])
	is.NoErr(err)
	is.Equal(n, 0)

	count, err := store.CardCount()
	is.NoErr(err)
	is.Equal(count, 2)

	pool, err := store.LoadPool()
	is.NoErr(err)
	is.Equal(len(pool), 2)
	byID := map[string]StoredCard{}
	for _, sc := range pool {
		byID[sc.Card.ID] = sc
	}
	is.Equal(byID["q1"].Front, "ohm's law")
	is.Equal(byID["q1"].Card.Category(), srs.CategoryNew)
}

func TestUpdateCardRoundTrip(t *testing.T) {
	is := is.New(t)
	store := openTestStore(t)

	card := srs.NewCard("q1", testNow)
	_, err := store.AddCards([]StoredCard{{Card: card, Front: "f", Back: "b"}})
	is.NoErr(err)

	strategy, err := srs.NewStrategy(srs.StrategyFSRS, srs.DefaultParams())
	is.NoErr(err)
	result := srs.ReviewResult{Grade: srs.GradeGood, ResponseTimeMs: 2500}
	updated, err := strategy.Review(card, result, testNow)
	is.NoErr(err)

	err = store.UpdateCard(updated, result, testNow)
	is.NoErr(err)

	pool, err := store.LoadPool()
	is.NoErr(err)
	is.Equal(len(pool), 1)
	is.Equal(pool[0].Card.Repetitions, 1)
	is.Equal(pool[0].Card.Stability, updated.Stability)
	is.True(pool[0].Card.NextReviewDate.After(testNow))
}

func TestUpdateUnknownCard(t *testing.T) {
	is := is.New(t)
	store := openTestStore(t)

	err := store.UpdateCard(srs.NewCard("ghost", testNow), srs.ReviewResult{Grade: srs.GradeGood}, testNow)
	is.True(err != nil)
}

func TestAppendSession(t *testing.T) {
	is := is.New(t)
	store := openTestStore(t)

	end := testNow.Add(20 * time.Minute)
	sess := session.StudySession{
		ID:                "sess-1",
		StartTime:         testNow,
		EndTime:           &end,
		SessionType:       session.TypeReview,
		QuestionsReviewed: 12,
		CorrectAnswers:    9,
	}
	is.NoErr(store.AppendSession(sess))

	// Appending the same session twice violates the primary key.
	is.True(store.AppendSession(sess) != nil)
}
