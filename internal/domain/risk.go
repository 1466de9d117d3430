package domain

// RiskLevel is the categorical escalation level derived from the score.
type RiskLevel string

// Risk levels, ordered by severity.
const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RiskAssessment is a pure function of topic statistics. Factors carry
// the raw inputs to the weighted sum for explainability. All factors are
// [0, 1] except negative_ratio, which is unclamped and can exceed 1 when
// a topic has more negative posts than recorded sentiment counts; the
// composite Score clamp contains it.
type RiskAssessment struct {
	Score   float64            `json:"risk_score"` // [0, 1]
	Level   RiskLevel          `json:"risk_level"`
	Factors map[string]float64 `json:"factors"`
}
