package support

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/civicpulse/insight/internal/domain"
	"github.com/civicpulse/insight/internal/embed"
	"github.com/civicpulse/insight/internal/usecase/similarity"
)

type mockCompleter struct {
	response string
	err      error
	calls    int
}

func (m *mockCompleter) Complete(_ context.Context, _ string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

const planJSON = `{
  "resources_needed": ["IT helpdesk"],
  "stakeholders": ["students"],
  "action_plan": [
    {"step": "Restart access points", "time_estimate": "1 day", "priority": "high",
     "resources": ["Network operations"], "expected_outcome": "Connectivity restored"}
  ],
  "quick_actions": ["Post status update"],
  "budget_implications": "Minimal",
  "timeline": "48 hours"
}`

func newTestService(c *mockCompleter) *Service {
	ranker := similarity.New(embed.NewHasher(), zap.NewNop())
	return New(c, ranker, nil, zap.NewNop())
}

func wifiTopic() domain.TopicSnapshot {
	return domain.TopicSnapshot{
		ID:              "topic:1",
		Title:           "Wifi issue in hostel",
		Tags:            []string{"wifi", "hostel"},
		DistilledPoints: "Internet outages every evening in block B",
		Status:          domain.StatusOpen,
		SentimentScore:  -4,
		SentimentCount:  8,
		PositiveCount:   1,
		NegativeCount:   7,
		CreatedAt:       time.Now().Add(-24 * time.Hour),
	}
}

func TestSynthesize_ParsesActionPlan(t *testing.T) {
	c := &mockCompleter{response: planJSON}
	svc := newTestService(c)

	b := svc.Synthesize(context.Background(), wifiTopic(), nil, nil)

	if b.Recommendations.Outcome != domain.OutcomeParsed {
		t.Errorf("outcome = %q, want parsed", b.Recommendations.Outcome)
	}
	if len(b.Recommendations.ActionPlan) != 1 {
		t.Fatalf("got %d steps, want 1", len(b.Recommendations.ActionPlan))
	}
	step := b.Recommendations.ActionPlan[0]
	if step.Step != "Restart access points" || step.Priority != "high" {
		t.Errorf("unexpected step: %+v", step)
	}
}

func TestSynthesize_ProviderError_DefaultPlan(t *testing.T) {
	c := &mockCompleter{err: errors.New("unavailable")}
	svc := newTestService(c)

	b := svc.Synthesize(context.Background(), wifiTopic(), nil, nil)

	if b.Recommendations.Outcome != domain.OutcomeFallback {
		t.Errorf("outcome = %q, want fallback", b.Recommendations.Outcome)
	}
	if len(b.Recommendations.ActionPlan) == 0 {
		t.Error("fallback plan must not be empty")
	}
}

func TestSynthesize_MalformedPlan_DefaultPlan(t *testing.T) {
	c := &mockCompleter{response: "here is my plan: fix the wifi"}
	svc := newTestService(c)

	b := svc.Synthesize(context.Background(), wifiTopic(), nil, nil)

	if b.Recommendations.Outcome != domain.OutcomeFallback {
		t.Errorf("outcome = %q, want fallback", b.Recommendations.Outcome)
	}
}

func TestSynthesize_FencedPlan_Parses(t *testing.T) {
	c := &mockCompleter{response: "```json\n" + planJSON + "\n```"}
	svc := newTestService(c)

	b := svc.Synthesize(context.Background(), wifiTopic(), nil, nil)

	if b.Recommendations.Outcome != domain.OutcomeParsed {
		t.Errorf("outcome = %q, want parsed", b.Recommendations.Outcome)
	}
}

func TestResolveResources_TagAliases(t *testing.T) {
	m := resolveResources(wifiTopic())

	if len(m.AvailableResources) != 2 {
		t.Fatalf("got %d categories, want 2 (it, facilities)", len(m.AvailableResources))
	}
	if m.AvailableResources[0].Category != "it" {
		t.Errorf("first category = %q, want it (wifi alias)", m.AvailableResources[0].Category)
	}
	if m.AvailableResources[1].Category != "facilities" {
		t.Errorf("second category = %q, want facilities (hostel alias)", m.AvailableResources[1].Category)
	}
	if len(m.RecommendedContacts) != 2 {
		t.Errorf("got %d contacts, want 2", len(m.RecommendedContacts))
	}
}

func TestResolveResources_UnmatchedTags_General(t *testing.T) {
	topic := wifiTopic()
	topic.Tags = []string{"philosophy", "misc"}

	m := resolveResources(topic)

	if len(m.AvailableResources) != 1 || m.AvailableResources[0].Category != "general" {
		t.Errorf("unmatched tags must resolve to general, got %+v", m.AvailableResources)
	}
	if len(m.RecommendedContacts) != 1 || m.RecommendedContacts[0].Name != "Community Office" {
		t.Errorf("general category must carry the community office contact, got %+v", m.RecommendedContacts)
	}
}

func TestResolveResources_DuplicateAliases_Deduped(t *testing.T) {
	topic := wifiTopic()
	topic.Tags = []string{"wifi", "internet", "network"}

	m := resolveResources(topic)

	if len(m.AvailableResources) != 1 {
		t.Errorf("aliases of one category must dedupe, got %d", len(m.AvailableResources))
	}
}

func TestBudgetFor_Tiers(t *testing.T) {
	cases := []struct {
		name      string
		positive  int
		negative  int
		sentiment int
		want      string
	}{
		{"high activity", 15, 10, 0, "$5,000 - $20,000"},
		{"high severity", 0, 0, -8, "$5,000 - $20,000"},
		{"medium activity", 6, 6, 0, "$1,000 - $5,000"},
		{"medium severity", 0, 0, -4, "$1,000 - $5,000"},
		{"quiet", 1, 1, -1, "Under $1,000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			topic := domain.TopicSnapshot{
				PositiveCount:  tc.positive,
				NegativeCount:  tc.negative,
				SentimentScore: tc.sentiment,
			}
			if got := budgetFor(topic); got.EstimatedBudget != tc.want {
				t.Errorf("budget = %q, want %q", got.EstimatedBudget, tc.want)
			}
		})
	}
}

func TestTimeline_PastFromResolvedCorpus(t *testing.T) {
	c := &mockCompleter{response: planJSON}
	svc := newTestService(c)
	svc.now = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }

	resolved := []domain.TopicSnapshot{
		{ID: "r1", Title: "Wifi outage in library", Status: domain.StatusResolved,
			CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "r2", Title: "Hostel wifi very slow", Status: domain.StatusResolved,
			CreatedAt: time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)},
		{ID: "r3", Title: "Gym equipment missing", Status: domain.StatusResolved,
			CreatedAt: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
	}

	b := svc.Synthesize(context.Background(), wifiTopic(), nil, resolved)

	issues := b.Timeline.Past.SimilarIssues
	if len(issues) != 2 {
		t.Fatalf("got %d past issues, want top-2", len(issues))
	}
	for _, issue := range issues {
		if issue.Title == "Gym equipment missing" {
			t.Error("least similar topic must not appear in top-2")
		}
		if issue.When == "" {
			t.Error("past issue must carry a relative age")
		}
	}
	if len(b.Timeline.Past.LessonsLearned) == 0 {
		t.Error("lessons learned must be populated")
	}
}

func TestTimeline_NoResolvedTopics_EmptyPast(t *testing.T) {
	c := &mockCompleter{response: planJSON}
	svc := newTestService(c)

	b := svc.Synthesize(context.Background(), wifiTopic(), nil, nil)

	if len(b.Timeline.Past.SimilarIssues) != 0 {
		t.Errorf("got %v, want empty", b.Timeline.Past.SimilarIssues)
	}
	if len(b.Timeline.Present.Options) != 2 {
		t.Errorf("got %d options, want 2 fixed strategic options", len(b.Timeline.Present.Options))
	}
	if len(b.Timeline.Future.Predictions) != 3 {
		t.Errorf("got %d predictions, want 3", len(b.Timeline.Future.Predictions))
	}
}

func TestSynthesize_StakeholderTable(t *testing.T) {
	c := &mockCompleter{response: planJSON}
	svc := newTestService(c)

	b := svc.Synthesize(context.Background(), wifiTopic(), nil, nil)

	for _, group := range []string{"students", "faculty", "staff", "administration"} {
		if _, ok := b.Stakeholders[group]; !ok {
			t.Errorf("missing stakeholder group %q", group)
		}
	}
	if b.Stakeholders["students"].Priority != "high" {
		t.Errorf("students priority = %q, want high", b.Stakeholders["students"].Priority)
	}
}

func TestModeratorBrief_Success(t *testing.T) {
	c := &mockCompleter{response: "### Summary\nThe wifi topic needs attention.\n"}
	svc := newTestService(c)

	got := svc.ModeratorBrief(context.Background(), wifiTopic())

	if got != "### Summary\nThe wifi topic needs attention." {
		t.Errorf("got %q", got)
	}
}

func TestModeratorBrief_Failure_SectionedFallback(t *testing.T) {
	c := &mockCompleter{err: errors.New("down")}
	svc := newTestService(c)
	topic := wifiTopic()
	topic.SentimentScore = -7

	got := svc.ModeratorBrief(context.Background(), topic)

	if !strings.Contains(got, "### Summary") {
		t.Error("fallback must keep the sectioned format")
	}
	if !strings.Contains(got, "Very Negative") {
		t.Errorf("fallback must name the sentiment category, got:\n%s", got)
	}
	if !strings.Contains(got, "wifi, hostel") {
		t.Errorf("fallback must list the tags, got:\n%s", got)
	}
}

func TestSentimentCategory(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{7, "Very Positive"},
		{5, "Very Positive"},
		{2, "Positive"},
		{0, "Neutral"},
		{-3, "Negative"},
		{-5, "Very Negative"},
		{-9, "Very Negative"},
	}
	for _, tc := range cases {
		if got := sentimentCategory(tc.score); got != tc.want {
			t.Errorf("sentimentCategory(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestRelativeAge(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		age  time.Duration
		want string
	}{
		{3 * time.Hour, "recently"},
		{5 * 24 * time.Hour, "5 days ago"},
		{21 * 24 * time.Hour, "3 weeks ago"},
		{90 * 24 * time.Hour, "3 months ago"},
	}
	for _, tc := range cases {
		if got := relativeAge(now.Add(-tc.age), now); got != tc.want {
			t.Errorf("relativeAge(-%v) = %q, want %q", tc.age, got, tc.want)
		}
	}
}
