package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/srs_engine/internal/srs"
)

func testConfig() Config {
	return Config{
		MaxNewCards:      5,
		MaxReviewCards:   20,
		TimeLimitMinutes: 30,
		SessionType:      TypeReview,
		IncludeNew:       true,
	}
}

func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	strategy, err := srs.NewStrategy(srs.StrategyFSRS, srs.DefaultParams())
	require.NoError(t, err)
	return NewRuntime(strategy)
}

func testPool(nDue, nNew int) []srs.Card {
	var pool []srs.Card
	for i := range nDue {
		pool = append(pool, dueCard(fmt.Sprintf("due%d", i), i+1))
	}
	for i := range nNew {
		pool = append(pool, srs.NewCard(fmt.Sprintf("new%d", i), testNow))
	}
	return pool
}

func TestRuntimeLifecycle(t *testing.T) {
	r := newTestRuntime(t)
	assert.Equal(t, StateIdle, r.State())

	require.NoError(t, r.StartSession(testPool(2, 1), testConfig(), testNow))
	assert.Equal(t, StateActive, r.State())

	// Starting again mid-session is a programmer error.
	assert.ErrorIs(t, r.StartSession(testPool(1, 0), testConfig(), testNow), ErrSessionActive)

	_, ok := r.CurrentQuestion()
	assert.True(t, ok)

	sess, err := r.EndSession("", "", testNow.Add(5*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, r.State())
	require.NotNil(t, sess.EndTime)

	// A completed runtime can host a fresh session.
	require.NoError(t, r.StartSession(testPool(1, 0), testConfig(), testNow))
}

func TestRuntimeSubmitAnswer(t *testing.T) {
	r := newTestRuntime(t)
	require.NoError(t, r.StartSession(testPool(2, 0), testConfig(), testNow))

	current, ok := r.CurrentQuestion()
	require.True(t, ok)

	updated, err := r.SubmitAnswer(srs.ReviewResult{Grade: srs.GradeGood, ResponseTimeMs: 3000}, testNow)
	require.NoError(t, err)
	assert.Equal(t, current.ID, updated.ID)
	assert.Equal(t, current.Repetitions+1, updated.Repetitions)
	assert.Equal(t, 1, updated.Metrics.TotalReviews)

	next, ok := r.CurrentQuestion()
	require.True(t, ok)
	assert.NotEqual(t, current.ID, next.ID, "cursor advances after an answer")

	_, err = r.SubmitAnswer(srs.ReviewResult{Grade: srs.GradeAgain, ResponseTimeMs: 9000}, testNow)
	require.NoError(t, err)

	// Queue exhausted: no current question, but the session stays active
	// until the caller ends it.
	_, ok = r.CurrentQuestion()
	assert.False(t, ok)
	_, err = r.SubmitAnswer(srs.ReviewResult{Grade: srs.GradeGood}, testNow)
	assert.ErrorIs(t, err, ErrNoActiveQuestion)

	sess, err := r.EndSession("focused", "short one", testNow.Add(10*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2, sess.QuestionsReviewed)
	assert.Equal(t, 1, sess.CorrectAnswers)
	assert.InDelta(t, 6000, sess.AverageResponseMs, 1e-9)
	assert.Equal(t, map[int]int{1: 1, 3: 1}, sess.GradeDistribution)
	assert.Equal(t, "focused", sess.Mood)
}

func TestRuntimeInvalidGrade(t *testing.T) {
	r := newTestRuntime(t)
	require.NoError(t, r.StartSession(testPool(1, 0), testConfig(), testNow))

	_, err := r.SubmitAnswer(srs.ReviewResult{Grade: 9}, testNow)
	assert.ErrorIs(t, err, srs.ErrInvalidGrade)

	// The failed submit consumed nothing.
	_, ok := r.CurrentQuestion()
	assert.True(t, ok)
}

func TestRuntimeSkip(t *testing.T) {
	r := newTestRuntime(t)
	require.NoError(t, r.StartSession(testPool(2, 0), testConfig(), testNow))

	require.NoError(t, r.SkipQuestion())
	_, err := r.SubmitAnswer(srs.ReviewResult{Grade: srs.GradeGood, ResponseTimeMs: 2000}, testNow)
	require.NoError(t, err)
	assert.ErrorIs(t, r.SkipQuestion(), ErrNoActiveQuestion, "queue exhausted")

	sess, err := r.EndSession("", "", testNow.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, sess.QuestionsReviewed, "skips record no result")
}

func TestRuntimeNotActiveErrors(t *testing.T) {
	r := newTestRuntime(t)
	_, err := r.SubmitAnswer(srs.ReviewResult{Grade: srs.GradeGood}, testNow)
	assert.ErrorIs(t, err, ErrSessionNotActive)
	assert.ErrorIs(t, r.SkipQuestion(), ErrSessionNotActive)
	_, err = r.EndSession("", "", testNow)
	assert.ErrorIs(t, err, ErrSessionNotActive)

	require.NoError(t, r.StartSession(testPool(1, 0), testConfig(), testNow))
	_, err = r.EndSession("", "", testNow)
	require.NoError(t, err)

	_, err = r.SubmitAnswer(srs.ReviewResult{Grade: srs.GradeGood}, testNow)
	assert.ErrorIs(t, err, ErrSessionNotActive)
}

func TestRuntimeInvalidConfig(t *testing.T) {
	r := newTestRuntime(t)

	cfg := testConfig()
	cfg.TimeLimitMinutes = 0
	assert.ErrorIs(t, r.StartSession(testPool(1, 0), cfg, testNow), ErrInvalidConfig)

	cfg = testConfig()
	cfg.MaxNewCards = 0
	cfg.MaxReviewCards = 0
	assert.ErrorIs(t, r.StartSession(testPool(1, 0), cfg, testNow), ErrInvalidConfig)

	cfg = testConfig()
	cfg.SessionType = "marathon"
	assert.ErrorIs(t, r.StartSession(testPool(1, 0), cfg, testNow), ErrInvalidConfig)
}

func TestRuntimeEmptyPool(t *testing.T) {
	r := newTestRuntime(t)
	require.NoError(t, r.StartSession(nil, testConfig(), testNow))

	_, ok := r.CurrentQuestion()
	assert.False(t, ok)

	sess, err := r.EndSession("", "", testNow.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0, sess.QuestionsReviewed)
}

func TestRuntimeProgress(t *testing.T) {
	r := newTestRuntime(t)
	require.NoError(t, r.StartSession(testPool(4, 0), testConfig(), testNow))

	_, err := r.SubmitAnswer(srs.ReviewResult{Grade: srs.GradeGood, ResponseTimeMs: 2000}, testNow)
	require.NoError(t, err)
	_, err = r.SubmitAnswer(srs.ReviewResult{Grade: srs.GradeAgain, ResponseTimeMs: 4000}, testNow)
	require.NoError(t, err)

	p := r.Progress(testNow.Add(10 * time.Minute))
	assert.Equal(t, 2, p.CardsCompleted)
	assert.Equal(t, 2, p.CardsRemaining)
	assert.InDelta(t, 10, p.ElapsedMinutes, 1e-9)
	assert.InDelta(t, 50, p.AccuracyPct, 1e-9)
	assert.Equal(t, 0, p.CorrectStreak)
	assert.InDelta(t, 2*3000, p.EstRemainingMs, 1e-9)
	assert.False(t, p.TimeLimitExceeded)

	p = r.Progress(testNow.Add(31 * time.Minute))
	assert.True(t, p.TimeLimitExceeded)
}

func TestRuntimeFocusTime(t *testing.T) {
	cases := []struct {
		minutes float64
		want    float64
	}{
		{20, 20},
		{40, 36},  // 10% estimated break
		{100, 80}, // 20% estimated break
	}
	for _, tc := range cases {
		r := newTestRuntime(t)
		require.NoError(t, r.StartSession(testPool(1, 0), testConfig(), testNow))
		sess, err := r.EndSession("", "", testNow.Add(time.Duration(tc.minutes)*time.Minute))
		require.NoError(t, err)
		assert.InDelta(t, tc.want, sess.FocusTimeMinutes, 1e-9, "%v minutes", tc.minutes)
	}
}
