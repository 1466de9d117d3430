// Package support assembles the moderator-facing decision bundle for a
// topic: an action plan from the completion provider, resource and
// contact lookups, a past/present/future decision timeline and the
// stakeholder table. Like the analyzer it is fail-soft: degraded
// sections are filled from fixed defaults, never errors.
package support

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/civicpulse/insight/internal/domain"
)

// pastIssueLimit is how many resolved precedents the timeline surfaces.
const pastIssueLimit = 2

// Ranker orders a corpus of documents by similarity to a target.
type Ranker interface {
	Rank(ctx context.Context, target domain.Document, corpus []domain.Document, k int) ([]domain.Similarity, error)
}

// Service synthesizes decision-support bundles.
type Service struct {
	completer domain.Completer
	ranker    Ranker
	fallbacks *prometheus.CounterVec
	logger    *zap.Logger
	now       func() time.Time
}

func New(
	completer domain.Completer,
	ranker Ranker,
	fallbacks *prometheus.CounterVec,
	logger *zap.Logger,
) *Service {
	return &Service{
		completer: completer,
		ranker:    ranker,
		fallbacks: fallbacks,
		logger:    logger,
		now:       time.Now,
	}
}

// Synthesize builds the full decision bundle for a topic. resolved is
// the corpus of already-resolved topics mined for historical precedent.
func (s *Service) Synthesize(ctx context.Context, topic domain.TopicSnapshot, posts []domain.PostSnapshot, resolved []domain.TopicSnapshot) domain.Bundle {
	return domain.Bundle{
		Recommendations: s.recommend(ctx, topic, posts),
		Resources:       resolveResources(topic),
		Timeline:        s.timeline(ctx, topic, resolved),
		Stakeholders:    stakeholders(),
	}
}

// ModeratorBrief returns a concise markdown moderation summary for a
// topic. Provider failure yields a static sectioned fallback carrying
// the sentiment category.
func (s *Service) ModeratorBrief(ctx context.Context, topic domain.TopicSnapshot) string {
	out, err := s.completer.Complete(ctx, briefPrompt(topic))
	if err != nil {
		s.fallback("moderator_brief", err)
		return briefFallback(topic)
	}
	return strings.TrimSpace(out)
}

func (s *Service) recommend(ctx context.Context, topic domain.TopicSnapshot, posts []domain.PostSnapshot) domain.Recommendations {
	out, err := s.completer.Complete(ctx, planPrompt(topic, posts))
	if err != nil {
		s.fallback("recommendations", err)
		return defaultPlan()
	}

	var rec domain.Recommendations
	if err := json.Unmarshal([]byte(stripFences(out)), &rec); err != nil {
		s.fallback("recommendations", fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err))
		return defaultPlan()
	}
	if len(rec.ActionPlan) == 0 {
		s.fallback("recommendations", fmt.Errorf("%w: empty action plan", domain.ErrMalformedResponse))
		return defaultPlan()
	}
	rec.Outcome = domain.OutcomeParsed
	return rec
}

// resolveResources maps the topic's tags onto the static resource and
// contact tables and picks a budget tier from activity and severity.
func resolveResources(topic domain.TopicSnapshot) domain.ResourceMap {
	seen := map[string]bool{}
	var categories []domain.ResourceCategory
	for _, tag := range topic.Tags {
		key := strings.ToLower(strings.TrimSpace(tag))
		if alias, ok := tagAliases[key]; ok {
			key = alias
		}
		cat, ok := resourceTable[key]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		categories = append(categories, cat)
	}
	if len(categories) == 0 {
		categories = append(categories, generalResources)
		seen["general"] = true
	}

	contacts := make([]domain.Contact, 0, len(categories))
	for _, cat := range categories {
		if c, ok := contactTable[cat.Category]; ok {
			contacts = append(contacts, c)
		}
	}

	return domain.ResourceMap{
		AvailableResources:  categories,
		RecommendedContacts: contacts,
		BudgetStatus:        budgetFor(topic),
	}
}

func budgetFor(topic domain.TopicSnapshot) domain.BudgetStatus {
	activity := topic.PositiveCount + topic.NegativeCount
	severity := float64(topic.SentimentScore) / 10
	if severity < 0 {
		severity = -severity
	}

	switch {
	case activity > budgetHighActivity || severity > budgetHighSeverity:
		return budgetTiers["high"]
	case activity > budgetMediumActivity || severity > budgetMediumSeverity:
		return budgetTiers["medium"]
	default:
		return budgetTiers["low"]
	}
}

func (s *Service) timeline(ctx context.Context, topic domain.TopicSnapshot, resolved []domain.TopicSnapshot) domain.Timeline {
	return domain.Timeline{
		Past: domain.TimelinePast{
			SimilarIssues:  s.pastIssues(ctx, topic, resolved),
			LessonsLearned: lessonsLearned,
		},
		Present: domain.TimelinePresent{
			Options:        strategicOptions,
			Recommendation: strategicRecommendation,
		},
		Future: domain.TimelineFuture{
			Predictions:    futurePredictions,
			SuccessMetrics: successMetrics,
		},
	}
}

// pastIssues ranks the resolved corpus against the topic and surfaces
// the closest precedents. Ranking failure degrades to no precedents.
func (s *Service) pastIssues(ctx context.Context, topic domain.TopicSnapshot, resolved []domain.TopicSnapshot) []domain.PastIssue {
	if s.ranker == nil || len(resolved) == 0 {
		return []domain.PastIssue{}
	}

	byID := make(map[string]domain.TopicSnapshot, len(resolved))
	corpus := make([]domain.Document, 0, len(resolved))
	for _, t := range resolved {
		byID[t.ID] = t
		corpus = append(corpus, domain.Document{Key: t.ID, Text: t.EmbeddingText()})
	}

	target := domain.Document{Key: topic.ID, Text: topic.EmbeddingText()}
	ranked, err := s.ranker.Rank(ctx, target, corpus, pastIssueLimit)
	if err != nil {
		s.fallback("timeline_past", err)
		return []domain.PastIssue{}
	}

	issues := make([]domain.PastIssue, 0, len(ranked))
	for _, r := range ranked {
		t := byID[r.TargetKey]
		issues = append(issues, domain.PastIssue{
			Title:      t.Title,
			When:       relativeAge(t.CreatedAt, s.now()),
			Resolution: "Resolved through community moderation process",
			Outcome:    "Marked resolved, no recurrence reported",
		})
	}
	return issues
}

func stakeholders() map[string]domain.StakeholderGroup {
	out := make(map[string]domain.StakeholderGroup, len(stakeholderGroups))
	for k, v := range stakeholderGroups {
		out[k] = v
	}
	return out
}

// relativeAge renders a coarse human age like "3 months ago".
func relativeAge(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < 48*time.Hour:
		return "recently"
	case d < 14*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	case d < 60*24*time.Hour:
		return fmt.Sprintf("%d weeks ago", int(d.Hours()/(24*7)))
	default:
		return fmt.Sprintf("%d months ago", int(d.Hours()/(24*30)))
	}
}

func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func (s *Service) fallback(operation string, err error) {
	s.logger.Warn("Falling back to default decision support",
		zap.String("operation", operation), zap.Error(err))
	if s.fallbacks != nil {
		s.fallbacks.WithLabelValues(operation).Inc()
	}
}
