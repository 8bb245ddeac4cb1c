// Package assistant implements the optional AI provider behind the briefing
// narrative and the entity summary service, speaking the OpenAI-compatible
// chat-completions protocol over plain HTTP.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spaarke/workspace-engine/internal/application/assist"
	"github.com/spaarke/workspace-engine/internal/config"
	"github.com/spaarke/workspace-engine/internal/domain/workspace"
	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/logging"
	"github.com/spaarke/workspace-engine/pkg/errors"
)

// Client calls an OpenAI-compatible chat-completions endpoint.  A client
// with no API key reports unavailable and never issues requests.
type Client struct {
	endpoint    string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	logger      logging.Logger
}

// NewClient builds the provider from configuration.  The HTTP timeout bounds
// every call so a stalled model cannot stall a briefing or summary request.
func NewClient(cfg *config.AssistantConfig, logger logging.Logger) *Client {
	return &Client{
		endpoint:    strings.TrimSuffix(cfg.Endpoint, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		logger:      logger.Named("assistant"),
	}
}

// Available reports whether the provider is configured.
func (c *Client) Available() bool {
	return c.apiKey != "" && c.endpoint != ""
}

// Narrative generates the briefing narrative for an aggregate.
func (c *Client) Narrative(ctx context.Context, agg *workspace.PortfolioAggregate) (string, error) {
	text, err := c.chatComplete(ctx, narrativeSystemPrompt, narrativeUserPrompt(agg))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Summarize generates the entity summary.  The model is instructed to reply
// with a JSON document; a reply that does not parse is a provider failure,
// not a degraded result.
func (c *Client) Summarize(ctx context.Context, req assist.SummaryRequest) (*assist.SummaryResult, error) {
	text, err := c.chatComplete(ctx, summarySystemPrompt, summaryUserPrompt(req))
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Analysis         string   `json:"analysis"`
		SuggestedActions []string `json:"suggestedActions"`
		Confidence       float64  `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(extractJSON(text)), &parsed); err != nil {
		return nil, errors.Wrap(err, errors.CodeUpstreamUnavailable, "assistant returned a malformed summary")
	}
	if strings.TrimSpace(parsed.Analysis) == "" {
		return nil, errors.Upstream("assistant returned an empty analysis")
	}

	return &assist.SummaryResult{
		Analysis:         parsed.Analysis,
		SuggestedActions: parsed.SuggestedActions,
		Confidence:       parsed.Confidence,
		GeneratedAt:      time.Now(),
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) chatComplete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !c.Available() {
		return "", errors.Upstream("assistant is not configured")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "failed to encode chat request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "failed to build chat request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeUpstreamUnavailable, "assistant request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeUpstreamUnavailable, "failed to read assistant response")
	}
	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Warn("assistant returned error status",
			logging.Int("status", resp.StatusCode))
		return "", errors.Upstream(fmt.Sprintf("assistant returned status %d", resp.StatusCode))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", errors.Wrap(err, errors.CodeUpstreamUnavailable, "failed to decode assistant response")
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return "", errors.Upstream("assistant error: " + parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", errors.Upstream("assistant returned an empty response")
	}
	return parsed.Choices[0].Message.Content, nil
}

// extractJSON strips markdown code fences models often wrap JSON replies in.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}
