// Package insight provides a small HTTP client for the insight API, for
// services that consume analyses, similarity rankings and decision
// support without linking the engine directly.
package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/civicpulse/insight/internal/domain"
)

// Re-exported result types so client consumers do not import internal
// packages.
type (
	// Analysis is the structured sentiment result.
	Analysis = domain.Analysis
	// RiskAssessment is the escalation risk result.
	RiskAssessment = domain.RiskAssessment
	// Bundle is the decision-support aggregate.
	Bundle = domain.Bundle
)

// SimilarTopic is one entry of a similarity ranking.
type SimilarTopic struct {
	TopicID    string  `json:"topic_id"`
	Similarity float64 `json:"similarity"`
}

// APIError is a non-2xx response from the insight API.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("insight: %s (%s, http %d)", e.Message, e.Code, e.StatusCode)
}

// Client is the insight API client entry point.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// NewClient creates a Client for the given base URL, e.g.
// "http://localhost:8080".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpc:   http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// AnalyzeText returns the sentiment analysis of a text.
func (c *Client) AnalyzeText(ctx context.Context, text string) (Analysis, error) {
	var out Analysis
	err := c.post(ctx, "/ai/analyze-text", map[string]string{"text": text}, &out)
	return out, err
}

// AutoTag returns suggested tags for a topic draft.
func (c *Client) AutoTag(ctx context.Context, title, content string) ([]string, error) {
	var out struct {
		Tags []string `json:"tags"`
	}
	err := c.post(ctx, "/ai/auto-tag", map[string]string{"title": title, "content": content}, &out)
	return out.Tags, err
}

// Similar returns topics ranked by similarity to the given topic.
// limit <= 0 uses the server default.
func (c *Client) Similar(ctx context.Context, topicID string, limit int) ([]SimilarTopic, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out struct {
		Similar []SimilarTopic `json:"similar"`
	}
	err := c.get(ctx, "/ai/similar/"+url.PathEscape(topicID), q, &out)
	return out.Similar, err
}

// Duplicates returns likely duplicate topics. threshold <= 0 uses the
// server default.
func (c *Client) Duplicates(ctx context.Context, topicID string, threshold float64) ([]SimilarTopic, error) {
	q := url.Values{}
	if threshold > 0 {
		q.Set("threshold", strconv.FormatFloat(threshold, 'f', -1, 64))
	}
	var out struct {
		Duplicates []SimilarTopic `json:"duplicates"`
	}
	err := c.get(ctx, "/ai/duplicates/"+url.PathEscape(topicID), q, &out)
	return out.Duplicates, err
}

// Predictions returns the escalation risk assessment for a topic.
func (c *Client) Predictions(ctx context.Context, topicID string) (RiskAssessment, error) {
	var out RiskAssessment
	err := c.get(ctx, "/ai/predictions/"+url.PathEscape(topicID), nil, &out)
	return out, err
}

// Summary returns the generated discussion summary for a topic.
func (c *Client) Summary(ctx context.Context, topicID string) (string, error) {
	var out struct {
		Summary string `json:"summary"`
	}
	err := c.get(ctx, "/ai/summary/"+url.PathEscape(topicID), nil, &out)
	return out.Summary, err
}

// DecisionSupport returns the full decision bundle for a topic.
func (c *Client) DecisionSupport(ctx context.Context, topicID string) (Bundle, error) {
	var out Bundle
	err := c.get(ctx, "/ai/decision-support/"+url.PathEscape(topicID), nil, &out)
	return out, err
}

// ModeratorBrief returns the markdown moderation brief for a topic.
func (c *Client) ModeratorBrief(ctx context.Context, topicID string) (string, error) {
	var out struct {
		Brief string `json:"brief"`
	}
	err := c.get(ctx, "/moderation/brief/"+url.PathEscape(topicID), nil, &out)
	return out.Brief, err
}

// Health reports the server's aggregated health status.
func (c *Client) Health(ctx context.Context) (string, error) {
	var out struct {
		Status string `json:"status"`
	}
	err := c.get(ctx, "/health", nil, &out)
	return out.Status, err
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return fmt.Errorf("insight: building request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("insight: encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("insight: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("insight: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if body, rerr := io.ReadAll(io.LimitReader(resp.Body, 1<<16)); rerr == nil {
			_ = json.Unmarshal(body, apiErr)
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("insight: decoding response: %w", err)
	}
	return nil
}
