package domain

// Sentiment is the polarity label of an analyzed text.
type Sentiment string

// Sentiment labels.
const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Valid reports whether s is one of the known labels.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// Outcome records whether a value came from a parsed model response or
// from the documented fallback default.
type Outcome string

// Analysis outcomes.
const (
	OutcomeParsed   Outcome = "parsed"
	OutcomeFallback Outcome = "fallback"
)

// Analysis is the structured result of analyzing one text.
// Immutable once created; Outcome is diagnostic only and not serialized.
type Analysis struct {
	Sentiment  Sentiment `json:"sentiment"`
	Score      float64   `json:"score"`      // [-1, 1]
	Confidence float64   `json:"confidence"` // [0, 1]
	Emotion    string    `json:"emotion"`
	KeyPoint   string    `json:"key_point,omitempty"`

	Outcome Outcome `json:"-"`
}

// DefaultAnalysis returns the documented fallback tuple. The completion
// provider is an unreliable network dependency; its failures degrade to
// this value instead of surfacing to the caller.
func DefaultAnalysis() Analysis {
	return Analysis{
		Sentiment:  SentimentNeutral,
		Score:      0,
		Confidence: 0,
		Emotion:    "neutral",
		KeyPoint:   "",
		Outcome:    OutcomeFallback,
	}
}
