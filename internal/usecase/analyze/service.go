// Package analyze turns free-form text into structured analyses by
// prompting a completion provider and defensively parsing the output.
// Every operation is fail-soft: provider or parse failures degrade to
// documented defaults and are never surfaced to the caller.
package analyze

import (
	"context"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/civicpulse/insight/internal/domain"
)

// summaryFallback is returned when the provider cannot produce a summary.
const summaryFallback = "Unable to generate summary at this time."

// maxSummaryPosts bounds how many posts feed one summary prompt.
const maxSummaryPosts = 50

// maxTags bounds tag suggestions.
const maxTags = 5

// Service is the content analyzer.
type Service struct {
	completer Completer
	summaries SummaryCache
	fallbacks *prometheus.CounterVec
	logger    *zap.Logger
}

// New creates an analyzer. fallbacks is a counter vec with label
// "operation", passed explicitly; it may be nil in tests.
func New(
	completer Completer,
	summaries SummaryCache,
	fallbacks *prometheus.CounterVec,
	logger *zap.Logger,
) *Service {
	return &Service{
		completer: completer,
		summaries: summaries,
		fallbacks: fallbacks,
		logger:    logger,
	}
}

// Analyze returns the structured sentiment analysis of a text. Never
// fails outward: upstream or parse failures return the default tuple
// with Outcome set to fallback.
func (s *Service) Analyze(ctx context.Context, text string) domain.Analysis {
	if strings.TrimSpace(text) == "" {
		return domain.DefaultAnalysis()
	}

	out, err := s.completer.Complete(ctx, sentimentPrompt(text))
	if err != nil {
		s.fallback("analyze", err)
		return domain.DefaultAnalysis()
	}

	a, err := parseAnalysisJSON(stripCodeFences(out))
	if err != nil {
		s.fallback("analyze", err)
		return domain.DefaultAnalysis()
	}
	return a
}

// AnalyzePost extracts sentiment and a one-sentence key point from a
// post using the line-oriented prompt variant. Same fail-soft contract
// as Analyze.
func (s *Service) AnalyzePost(ctx context.Context, content string) domain.Analysis {
	if strings.TrimSpace(content) == "" {
		return domain.DefaultAnalysis()
	}

	out, err := s.completer.Complete(ctx, postPrompt(content))
	if err != nil {
		s.fallback("analyze_post", err)
		return domain.DefaultAnalysis()
	}

	return parsePostLines(stripCodeFences(out))
}

// SuggestTags returns up to five lowercase tags for a topic. Empty input
// or any upstream failure yields an empty slice.
func (s *Service) SuggestTags(ctx context.Context, title, content string) []string {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(content) == "" {
		return []string{}
	}

	out, err := s.completer.Complete(ctx, tagsPrompt(title, content))
	if err != nil {
		s.fallback("suggest_tags", err)
		return []string{}
	}

	tags, err := parseTagArray(stripCodeFences(out), maxTags)
	if err != nil {
		s.fallback("suggest_tags", err)
		return []string{}
	}
	return tags
}

// Summarize produces a 3-4 sentence summary of a topic discussion from
// its most recent posts, memoized by title and post count. A provider
// failure returns a fixed apology string and is not cached.
func (s *Service) Summarize(ctx context.Context, topicTitle string, posts []domain.PostSnapshot) string {
	cacheInput := topicTitle + " " + strconv.Itoa(len(posts))
	if s.summaries != nil {
		if cached, ok := s.summaries.Get(ctx, cacheInput); ok {
			return cached
		}
	}

	// Posts arrive oldest-first; the prompt gets the most recent ones.
	if len(posts) > maxSummaryPosts {
		posts = posts[len(posts)-maxSummaryPosts:]
	}

	out, err := s.completer.Complete(ctx, summaryPrompt(topicTitle, posts))
	if err != nil {
		s.fallback("summarize", err)
		return summaryFallback
	}

	summary := strings.TrimSpace(out)
	if s.summaries != nil {
		s.summaries.Put(ctx, cacheInput, summary)
	}
	return summary
}

func (s *Service) fallback(operation string, err error) {
	s.logger.Warn("Falling back to default analysis",
		zap.String("operation", operation), zap.Error(err))
	if s.fallbacks != nil {
		s.fallbacks.WithLabelValues(operation).Inc()
	}
}
