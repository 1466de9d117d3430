// Package risk scores how likely a topic is to escalate, from its
// aggregate sentiment and activity statistics. The model is a pure
// weighted combination of four factors and needs no I/O.
package risk

import (
	"time"

	"github.com/civicpulse/insight/internal/domain"
)

// Factor weights. Sentiment intensity, posting velocity and the share of
// negative reactions carry equal weight; recency is a small tiebreaker.
const (
	weightSentiment     = 0.3
	weightVelocity      = 0.3
	weightNegativeRatio = 0.3
	weightRecency       = 0.1
)

// recencyWindow is the age past which a topic contributes no recency risk.
const recencyWindow = 168 * time.Hour

// Level thresholds, inclusive lower bounds.
const (
	criticalAt = 0.75
	highAt     = 0.5
	mediumAt   = 0.25
)

// Score assesses escalation risk at the given reference time. Factors
// are returned unweighted so callers can explain the score.
func Score(stats domain.TopicStats, now time.Time) domain.RiskAssessment {
	sentiment := clamp01(abs(float64(stats.SentimentScore)) / 10)
	velocity := clamp01(float64(stats.RecentPosts24h) / 24)

	count := stats.SentimentCount
	if count < 1 {
		count = 1
	}
	negativeRatio := float64(stats.NegativeCount) / float64(count)

	age := now.Sub(stats.CreatedAt)
	recency := clamp01(1 - age.Hours()/recencyWindow.Hours())

	score := clamp01(weightSentiment*sentiment +
		weightVelocity*velocity +
		weightNegativeRatio*negativeRatio +
		weightRecency*recency)

	return domain.RiskAssessment{
		Score: score,
		Level: levelFor(score),
		Factors: map[string]float64{
			"sentiment":      sentiment,
			"velocity":       velocity,
			"negative_ratio": negativeRatio,
			"recency":        recency,
		},
	}
}

func levelFor(score float64) domain.RiskLevel {
	switch {
	case score >= criticalAt:
		return domain.RiskCritical
	case score >= highAt:
		return domain.RiskHigh
	case score >= mediumAt:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
