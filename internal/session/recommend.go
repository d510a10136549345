package session

// Post-session recommendation heuristics. Pure and deterministic: same
// stats in, same advice out.

// Stats are the recommender's inputs, derived from a finalized or
// in-progress session.
type Stats struct {
	Reviewed       int     `json:"reviewed"`
	AccuracyPct    float64 `json:"accuracy_pct"`
	AvgResponseMs  float64 `json:"avg_response_ms"`
	ElapsedMinutes float64 `json:"elapsed_minutes"`
	BestStreak     int     `json:"best_streak"`
	AdvancedShare  float64 `json:"advanced_share"` // fraction of presented cards with difficulty >= 7
}

// Direction suggests how the next session's material difficulty should move.
type Direction string

const (
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
	DirectionMaintain Direction = "maintain"
)

// Risk buckets the burnout score.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// Recommendation is the post-session suggestion snapshot, rendered by the
// host's dashboard.
type Recommendation struct {
	NextSessionMinutes int       `json:"next_session_minutes"`
	Difficulty         Direction `json:"difficulty"`
	BurnoutScore       int       `json:"burnout_score"`
	BurnoutRisk        Risk      `json:"burnout_risk"`
	Advice             []string  `json:"advice"`
}

// Burnout accumulator thresholds and weights.
const (
	longSessionMinutes = 45
	lowAccuracyPct     = 50
	slowResponseMs     = 45000
	advancedShareLimit = 0.6

	mediumRiskScore = 2
	highRiskScore   = 4
)

var adviceByRisk = map[Risk][]string{
	RiskLow: {
		"You're in a good rhythm. Keep sessions regular.",
	},
	RiskMedium: {
		"Consider a short break before your next session.",
		"Mix in some easier material to rebuild momentum.",
	},
	RiskHigh: {
		"Stop for today; fatigue is hurting retention.",
		"Schedule a shorter session tomorrow.",
		"Review fewer difficult cards per sitting.",
	},
}

// Recommend derives the next-session suggestions from session statistics.
func Recommend(stats Stats) Recommendation {
	rec := Recommendation{NextSessionMinutes: 20, Difficulty: DirectionMaintain}

	// A session with no answers carries no accuracy signal; keep the
	// accuracy-driven rules at their defaults then.
	if stats.Reviewed > 0 {
		switch {
		case stats.AccuracyPct > 80 && stats.BestStreak > 5:
			rec.NextSessionMinutes = 30
		case stats.AccuracyPct < 60:
			rec.NextSessionMinutes = 15
		}

		switch {
		case stats.AccuracyPct > 85 && stats.AvgResponseMs < 15000:
			rec.Difficulty = DirectionIncrease
		case stats.AccuracyPct < 60:
			rec.Difficulty = DirectionDecrease
		}
	}

	score := 0
	if stats.ElapsedMinutes > longSessionMinutes {
		score += 2
	}
	if stats.Reviewed > 0 && stats.AccuracyPct < lowAccuracyPct {
		score += 2
	}
	if stats.AvgResponseMs > slowResponseMs {
		score++
	}
	if stats.AdvancedShare > advancedShareLimit {
		score++
	}
	rec.BurnoutScore = score
	switch {
	case score >= highRiskScore:
		rec.BurnoutRisk = RiskHigh
	case score >= mediumRiskScore:
		rec.BurnoutRisk = RiskMedium
	default:
		rec.BurnoutRisk = RiskLow
	}
	rec.Advice = adviceByRisk[rec.BurnoutRisk]
	return rec
}
