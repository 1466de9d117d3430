package analyze

import (
	"fmt"
	"strings"

	"github.com/civicpulse/insight/internal/domain"
)

func sentimentPrompt(text string) string {
	return fmt.Sprintf(`Analyze the sentiment of this text. Respond with ONLY a JSON object:
{
  "sentiment": "positive" | "negative" | "neutral",
  "score": <number from -1 to 1>,
  "confidence": <number from 0 to 1>,
  "key_emotion": "angry" | "sad" | "happy" | "frustrated" | "satisfied" | "neutral"
}

Text: "%s"

Respond with ONLY the JSON, no other text.`, text)
}

func postPrompt(content string) string {
	return fmt.Sprintf(`Analyze this community post and extract:
1. Sentiment (positive/negative/neutral)
2. Key point (one sentence summary)

Post: "%s"

Respond in this exact format:
Sentiment: [positive/negative/neutral]
Key Point: [one sentence]`, content)
}

func tagsPrompt(title, content string) string {
	return fmt.Sprintf(`Based on this topic, suggest 3-5 relevant tags.
Title: %s
Content: %s

Respond with ONLY a JSON array of tags: ["tag1", "tag2", "tag3"]
Tags should be single words or short phrases, lowercase.`, title, content)
}

func summaryPrompt(topicTitle string, posts []domain.PostSnapshot) string {
	texts := make([]string, len(posts))
	for i, p := range posts {
		texts[i] = p.Content
	}
	return fmt.Sprintf(`Summarize this discussion thread in 3-4 concise sentences.
Topic: %s

Posts:
%s

Summary:`, topicTitle, strings.Join(texts, "\n"))
}
