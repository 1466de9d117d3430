package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/civicpulse/insight/internal/db/memory"
	"github.com/civicpulse/insight/internal/domain"
	"github.com/civicpulse/insight/internal/embed"
	"github.com/civicpulse/insight/internal/repository/topics"
	"github.com/civicpulse/insight/internal/usecase/analyze"
	healthuc "github.com/civicpulse/insight/internal/usecase/health"
	"github.com/civicpulse/insight/internal/usecase/similarity"
	"github.com/civicpulse/insight/internal/usecase/support"
)

type mockCompleter struct {
	response string
	err      error
}

func (m *mockCompleter) Complete(_ context.Context, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type fixture struct {
	server *Server
	repo   *topics.Repository
}

func newFixture(t *testing.T, completer *mockCompleter) *fixture {
	t.Helper()
	logger := zap.NewNop()
	repo := topics.New(memory.NewStore(), logger)
	sim := similarity.New(embed.NewHasher(), logger)
	analyzer := analyze.New(completer, nil, nil, logger)
	supportSvc := support.New(completer, sim, nil, logger)
	health := healthuc.New(&mockPinger{}, nil)
	return &fixture{
		server: NewServer(analyzer, sim, supportSvc, health, repo, logger),
		repo:   repo,
	}
}

func (f *fixture) seed(t *testing.T, topic domain.TopicSnapshot) {
	t.Helper()
	if err := f.repo.Save(context.Background(), topic); err != nil {
		t.Fatalf("seeding topic: %v", err)
	}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	f.server.Routes().ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func wifiTopic(id string) domain.TopicSnapshot {
	return domain.TopicSnapshot{
		ID:             id,
		Title:          "Wifi issue in hostel",
		Tags:           []string{"wifi"},
		Status:         domain.StatusOpen,
		SentimentScore: -4,
		SentimentCount: 8,
		NegativeCount:  7,
		PositiveCount:  1,
		CreatedAt:      time.Now().Add(-2 * time.Hour),
	}
}

// --- analyze-text ---

func TestAnalyzeText_OK(t *testing.T) {
	f := newFixture(t, &mockCompleter{
		response: `{"sentiment":"positive","score":0.8,"confidence":0.9,"key_emotion":"happy"}`,
	})

	rr := f.do("POST", "/ai/analyze-text", `{"text":"great service"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp struct {
		Sentiment string  `json:"sentiment"`
		Score     float64 `json:"score"`
	}
	decodeBody(t, rr, &resp)
	if resp.Sentiment != "positive" || resp.Score != 0.8 {
		t.Errorf("got %+v", resp)
	}
}

func TestAnalyzeText_EmptyText_400(t *testing.T) {
	f := newFixture(t, &mockCompleter{response: "{}"})

	rr := f.do("POST", "/ai/analyze-text", `{"text":"  "}`)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if body.Code != "bad_request" || body.Message != "empty input" {
		t.Errorf("body = %+v, want bad_request / empty input", body)
	}
}

func TestAnalyzeText_ProviderDown_200Degraded(t *testing.T) {
	f := newFixture(t, &mockCompleter{err: errors.New("unavailable")})

	rr := f.do("POST", "/ai/analyze-text", `{"text":"anything"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (fail-soft)", rr.Code)
	}
	var resp struct {
		Sentiment string `json:"sentiment"`
	}
	decodeBody(t, rr, &resp)
	if resp.Sentiment != "neutral" {
		t.Errorf("degraded sentiment = %q, want neutral", resp.Sentiment)
	}
}

func TestAnalyzeText_MalformedBody_400(t *testing.T) {
	f := newFixture(t, &mockCompleter{response: "{}"})

	rr := f.do("POST", "/ai/analyze-text", `{not json`)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

// --- auto-tag ---

func TestAutoTag_OK(t *testing.T) {
	f := newFixture(t, &mockCompleter{response: `["wifi","hostel"]`})

	rr := f.do("POST", "/ai/auto-tag", `{"title":"Wifi issue","content":"no internet"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp struct {
		Tags []string `json:"tags"`
	}
	decodeBody(t, rr, &resp)
	if len(resp.Tags) != 2 || resp.Tags[0] != "wifi" {
		t.Errorf("tags = %v", resp.Tags)
	}
}

func TestAutoTag_EmptyInput_400(t *testing.T) {
	f := newFixture(t, &mockCompleter{response: `[]`})

	rr := f.do("POST", "/ai/auto-tag", `{"title":"","content":" "}`)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

// --- similar / duplicates ---

func TestSimilar_RanksOtherTopics(t *testing.T) {
	f := newFixture(t, &mockCompleter{response: "{}"})
	f.seed(t, wifiTopic("1"))
	other := wifiTopic("2")
	other.Title = "Wifi issue in hostel"
	f.seed(t, other)
	unrelated := wifiTopic("3")
	unrelated.Title = "Gardening club schedule"
	f.seed(t, unrelated)

	rr := f.do("GET", "/ai/similar/1", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp struct {
		TopicID string `json:"topic_id"`
		Similar []struct {
			TopicID    string  `json:"topic_id"`
			Similarity float64 `json:"similarity"`
		} `json:"similar"`
	}
	decodeBody(t, rr, &resp)
	if resp.TopicID != "1" {
		t.Errorf("topic_id = %q", resp.TopicID)
	}
	if len(resp.Similar) != 2 {
		t.Fatalf("got %d results, want 2", len(resp.Similar))
	}
	if resp.Similar[0].TopicID != "2" {
		t.Errorf("top similar = %q, want the identical topic", resp.Similar[0].TopicID)
	}
}

func TestSimilar_UnknownTopic_404(t *testing.T) {
	f := newFixture(t, &mockCompleter{response: "{}"})

	rr := f.do("GET", "/ai/similar/missing", "")

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	var resp ErrorResponse
	decodeBody(t, rr, &resp)
	if resp.Code != codeTopicNotFound {
		t.Errorf("code = %q, want %q", resp.Code, codeTopicNotFound)
	}
}

func TestSimilar_InvalidLimit_400(t *testing.T) {
	f := newFixture(t, &mockCompleter{response: "{}"})
	f.seed(t, wifiTopic("1"))

	rr := f.do("GET", "/ai/similar/1?limit=zero", "")

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestDuplicates_DefaultThreshold(t *testing.T) {
	f := newFixture(t, &mockCompleter{response: "{}"})
	f.seed(t, wifiTopic("1"))
	dup := wifiTopic("2")
	f.seed(t, dup)
	unrelated := wifiTopic("3")
	unrelated.Title = "Completely different subject entirely"
	f.seed(t, unrelated)

	rr := f.do("GET", "/ai/duplicates/1", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp struct {
		Threshold  float64          `json:"threshold"`
		Duplicates []map[string]any `json:"duplicates"`
	}
	decodeBody(t, rr, &resp)
	if resp.Threshold != defaultDupThreshold {
		t.Errorf("threshold = %v, want %v", resp.Threshold, defaultDupThreshold)
	}
	if len(resp.Duplicates) != 1 {
		t.Errorf("got %d duplicates, want 1", len(resp.Duplicates))
	}
}

func TestDuplicates_CustomThreshold_AboveOne_Empty(t *testing.T) {
	f := newFixture(t, &mockCompleter{response: "{}"})
	f.seed(t, wifiTopic("1"))
	f.seed(t, wifiTopic("2"))

	rr := f.do("GET", "/ai/duplicates/1?threshold=1.1", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp struct {
		Duplicates []map[string]any `json:"duplicates"`
	}
	decodeBody(t, rr, &resp)
	if len(resp.Duplicates) != 0 {
		t.Errorf("got %d duplicates, want 0", len(resp.Duplicates))
	}
}

// --- predictions ---

func TestPredictions_ReturnsRiskAssessment(t *testing.T) {
	f := newFixture(t, &mockCompleter{response: "{}"})
	f.seed(t, wifiTopic("1"))

	rr := f.do("GET", "/ai/predictions/1", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp struct {
		RiskScore float64            `json:"risk_score"`
		RiskLevel string             `json:"risk_level"`
		Factors   map[string]float64 `json:"factors"`
	}
	decodeBody(t, rr, &resp)
	if resp.RiskScore <= 0 || resp.RiskScore > 1 {
		t.Errorf("risk_score = %v, want in (0,1]", resp.RiskScore)
	}
	if resp.RiskLevel == "" {
		t.Error("risk_level missing")
	}
	if _, ok := resp.Factors["negative_ratio"]; !ok {
		t.Error("factors must include negative_ratio")
	}
}

func TestPredictions_UnknownTopic_404(t *testing.T) {
	f := newFixture(t, &mockCompleter{response: "{}"})

	rr := f.do("GET", "/ai/predictions/missing", "")

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

// --- summary ---

func TestSummary_OK(t *testing.T) {
	f := newFixture(t, &mockCompleter{response: "Residents report recurring outages."})
	f.seed(t, wifiTopic("1"))

	rr := f.do("GET", "/ai/summary/1", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp struct {
		Summary string `json:"summary"`
	}
	decodeBody(t, rr, &resp)
	if resp.Summary != "Residents report recurring outages." {
		t.Errorf("summary = %q", resp.Summary)
	}
}

func TestSummary_ProviderDown_200Fallback(t *testing.T) {
	f := newFixture(t, &mockCompleter{err: errors.New("down")})
	f.seed(t, wifiTopic("1"))

	rr := f.do("GET", "/ai/summary/1", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (fail-soft)", rr.Code)
	}
	var resp struct {
		Summary string `json:"summary"`
	}
	decodeBody(t, rr, &resp)
	if !strings.Contains(resp.Summary, "Unable to generate summary") {
		t.Errorf("summary = %q, want apology fallback", resp.Summary)
	}
}

// --- decision support / moderation ---

func TestDecisionSupport_FullBundle(t *testing.T) {
	f := newFixture(t, &mockCompleter{err: errors.New("down")})
	f.seed(t, wifiTopic("1"))
	resolved := wifiTopic("2")
	resolved.Status = domain.StatusResolved
	f.seed(t, resolved)

	rr := f.do("GET", "/ai/decision-support/1", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp struct {
		Recommendations struct {
			ActionPlan []map[string]any `json:"action_plan"`
		} `json:"recommendations"`
		Resources struct {
			AvailableResources []map[string]any `json:"available_resources"`
		} `json:"resources"`
		Timeline struct {
			Past struct {
				SimilarIssues []map[string]any `json:"similar_issues"`
			} `json:"past"`
		} `json:"timeline"`
		Stakeholders map[string]any `json:"stakeholders"`
	}
	decodeBody(t, rr, &resp)
	if len(resp.Recommendations.ActionPlan) == 0 {
		t.Error("fallback action plan missing")
	}
	if len(resp.Resources.AvailableResources) == 0 {
		t.Error("resources missing")
	}
	if len(resp.Timeline.Past.SimilarIssues) != 1 {
		t.Errorf("got %d past issues, want the one resolved topic", len(resp.Timeline.Past.SimilarIssues))
	}
	if _, ok := resp.Stakeholders["students"]; !ok {
		t.Error("stakeholders missing students group")
	}
}

func TestModeratorBrief_OK(t *testing.T) {
	f := newFixture(t, &mockCompleter{response: "### Summary\nNeeds attention."})
	f.seed(t, wifiTopic("1"))

	rr := f.do("GET", "/moderation/brief/1", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp struct {
		Brief string `json:"brief"`
	}
	decodeBody(t, rr, &resp)
	if !strings.Contains(resp.Brief, "### Summary") {
		t.Errorf("brief = %q", resp.Brief)
	}
}

// --- health ---

func TestHealth_OK(t *testing.T) {
	f := newFixture(t, &mockCompleter{response: "{}"})

	rr := f.do("GET", "/health", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp struct {
		Status string `json:"status"`
	}
	decodeBody(t, rr, &resp)
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
}

func TestHealth_DBDown_503(t *testing.T) {
	logger := zap.NewNop()
	repo := topics.New(memory.NewStore(), logger)
	sim := similarity.New(embed.NewHasher(), logger)
	completer := &mockCompleter{response: "{}"}
	analyzer := analyze.New(completer, nil, nil, logger)
	supportSvc := support.New(completer, sim, nil, logger)
	health := healthuc.New(&mockPinger{err: errors.New("conn refused")}, nil)
	f := &fixture{server: NewServer(analyzer, sim, supportSvc, health, repo, logger), repo: repo}

	rr := f.do("GET", "/health", "")

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rr.Code)
	}
}
