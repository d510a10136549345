package srs

// Exponential smoothing constants for the streaming per-card statistics.
// Everything here is incremental so the card record stays fixed-size; no
// raw history buffer is kept.
const (
	responseTimeAlpha = 0.2
	accuracyAlpha     = 0.3
)

// LearningMetrics holds rolling per-card statistics derived from the review
// history.
type LearningMetrics struct {
	TotalReviews      int     `json:"total_reviews"`
	CorrectStreak     int     `json:"correct_streak"`
	LongestStreak     int     `json:"longest_streak"`
	AverageResponseMs float64 `json:"average_response_ms"`
	RetentionRate     float64 `json:"retention_rate"` // cumulative percent correct
	LastAccuracy      float64 `json:"last_accuracy"`  // recent-window estimate, 0-1
}

// Update folds one review into the metrics and returns the new value.
func (m LearningMetrics) Update(result ReviewResult) LearningMetrics {
	correct := result.Grade.Correct()
	responseMs := float64(max(result.ResponseTimeMs, 0))

	if correct {
		m.CorrectStreak++
		m.LongestStreak = max(m.LongestStreak, m.CorrectStreak)
	} else {
		m.CorrectStreak = 0
	}

	hit := 0.0
	if correct {
		hit = 1.0
	}

	if m.TotalReviews == 0 {
		m.AverageResponseMs = responseMs
		m.RetentionRate = hit * 100
		m.LastAccuracy = hit
	} else {
		m.AverageResponseMs = m.AverageResponseMs*(1-responseTimeAlpha) + responseMs*responseTimeAlpha
		old := float64(m.TotalReviews)
		m.RetentionRate = (m.RetentionRate*old + hit*100) / (old + 1)
		m.LastAccuracy = m.LastAccuracy*(1-accuracyAlpha) + hit*accuracyAlpha
	}
	m.TotalReviews++
	return m
}
