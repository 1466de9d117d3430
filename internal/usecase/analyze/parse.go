package analyze

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/civicpulse/insight/internal/domain"
)

// stripCodeFences removes Markdown code-fence wrappers the model sometimes
// adds around JSON payloads despite instructions.
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// parseAnalysisJSON parses the JSON sentiment shape with field coercion:
// missing sentiment defaults to neutral, score to 0, confidence to 0.5,
// key_emotion to neutral. Unknown sentiment labels coerce to neutral so
// the output enum invariant holds regardless of model drift.
func parseAnalysisJSON(payload string) (domain.Analysis, error) {
	var raw struct {
		Sentiment  *string  `json:"sentiment"`
		Score      *float64 `json:"score"`
		Confidence *float64 `json:"confidence"`
		KeyEmotion *string  `json:"key_emotion"`
	}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return domain.Analysis{}, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}

	a := domain.Analysis{
		Sentiment:  domain.SentimentNeutral,
		Score:      0,
		Confidence: 0.5,
		Emotion:    "neutral",
		Outcome:    domain.OutcomeParsed,
	}
	if raw.Sentiment != nil {
		if s := domain.Sentiment(strings.ToLower(*raw.Sentiment)); s.Valid() {
			a.Sentiment = s
		}
	}
	if raw.Score != nil {
		a.Score = *raw.Score
	}
	if raw.Confidence != nil {
		a.Confidence = *raw.Confidence
	}
	if raw.KeyEmotion != nil {
		a.Emotion = *raw.KeyEmotion
	}
	return a, nil
}

// parsePostLines parses the line-oriented post analysis format:
//
//	Sentiment: <label>
//	Key Point: <sentence>
//
// Missing or unknown labels degrade to neutral; a fully unmatched payload
// is still a valid (neutral, empty key point) parse, mirroring the
// permissive line scan of the completion contract.
func parsePostLines(payload string) domain.Analysis {
	a := domain.Analysis{
		Sentiment:  domain.SentimentNeutral,
		Confidence: 0.5,
		Emotion:    "neutral",
		Outcome:    domain.OutcomeParsed,
	}

	for _, line := range strings.Split(payload, "\n") {
		switch {
		case strings.HasPrefix(line, "Sentiment:"):
			label := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, "Sentiment:")))
			if s := domain.Sentiment(label); s.Valid() {
				a.Sentiment = s
			}
		case strings.HasPrefix(line, "Key Point:"):
			a.KeyPoint = strings.TrimSpace(strings.TrimPrefix(line, "Key Point:"))
		}
	}
	return a
}

// parseTagArray parses a JSON array of tag strings, lowercasing and
// dropping empties, capped at maxTags.
func parseTagArray(payload string, maxTags int) ([]string, error) {
	var raw []string
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}

	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		tags = append(tags, t)
		if len(tags) == maxTags {
			break
		}
	}
	return tags, nil
}
