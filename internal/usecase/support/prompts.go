package support

import (
	"fmt"
	"strings"

	"github.com/civicpulse/insight/internal/domain"
)

// maxPlanPosts bounds how many posts feed the action-plan prompt.
const maxPlanPosts = 20

func planPrompt(topic domain.TopicSnapshot, posts []domain.PostSnapshot) string {
	if len(posts) > maxPlanPosts {
		posts = posts[:maxPlanPosts]
	}
	texts := make([]string, len(posts))
	for i, p := range posts {
		texts[i] = "- " + p.Content
	}

	return fmt.Sprintf(`You are a community operations advisor. Produce an action plan for this topic.

Topic: %s
Tags: %s
Sentiment score: %d

Recent posts:
%s

Respond with ONLY a JSON object:
{
  "resources_needed": ["..."],
  "stakeholders": ["..."],
  "action_plan": [
    {"step": "...", "time_estimate": "...", "priority": "high|medium|low", "resources": ["..."], "expected_outcome": "..."}
  ],
  "quick_actions": ["..."],
  "budget_implications": "...",
  "timeline": "..."
}

Respond with ONLY the JSON, no other text.`,
		topic.Title, strings.Join(topic.Tags, ", "), topic.SentimentScore,
		strings.Join(texts, "\n"))
}

func briefPrompt(topic domain.TopicSnapshot) string {
	tagsStr := "None"
	if len(topic.Tags) > 0 {
		tagsStr = strings.Join(topic.Tags, ", ")
	}
	points := topic.DistilledPoints
	if points == "" {
		points = "No discussion yet"
	}

	return fmt.Sprintf(`You are a community moderator AI. Analyze this topic and provide CONCISE, actionable recommendations.

Topic Details:
- Sentiment Score: %d (%s)
- Tags: %s
- Key Points from Discussion:
%s

Provide a brief analysis in this format:

### Summary
[2-3 sentences about the topic's current state]

### Key Concerns
- [List 2-3 main concerns, if any]
- [Or state "No major concerns" if positive]

### Recommended Actions
1. [Specific action item]
2. [Specific action item]
3. [Specific action item]

Keep it concise and actionable. Focus on what moderators need to know and do.`,
		topic.SentimentScore, sentimentCategory(topic.SentimentScore), tagsStr, points)
}

// sentimentCategory buckets an aggregate sentiment score into a label used
// by moderator-facing text.
func sentimentCategory(score int) string {
	switch {
	case score >= 5:
		return "Very Positive"
	case score > 0:
		return "Positive"
	case score == 0:
		return "Neutral"
	case score > -5:
		return "Negative"
	default:
		return "Very Negative"
	}
}

func briefFallback(topic domain.TopicSnapshot) string {
	tagsStr := "None"
	if len(topic.Tags) > 0 {
		tagsStr = strings.Join(topic.Tags, ", ")
	}
	return fmt.Sprintf(`### Summary
Unable to generate AI analysis at this time.

### Current Status
- Sentiment Score: %d
- Category: %s
- Tags: %s

### Recommended Actions
1. Review topic manually
2. Monitor for updates
3. Engage with community if needed`,
		topic.SentimentScore, sentimentCategory(topic.SentimentScore), tagsStr)
}
