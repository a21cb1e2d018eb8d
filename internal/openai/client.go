// Package openai calls the OpenAI Responses API to generate insight trees
// and to condense dive contexts into new topics. The core never retries
// these calls; failures surface to the caller.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bubbledive/sparkmap/internal/dive"
	"github.com/bubbledive/sparkmap/internal/insight"
)

const (
	// BaseURL is the OpenAI API base URL.
	BaseURL = "https://api.openai.com/v1"

	// DefaultModel generates maps and condenses topics.
	DefaultModel = "gpt-4.1"

	// RateLimit caps request frequency in requests per second.
	RateLimit = 2.0

	// searchContextSize tunes the built-in web search tool.
	searchContextSize = "medium"
)

// MapResult is the raw outcome of a generation call: the model's text (the
// insight tree JSON plus any surrounding prose) and the citations collected
// from web-search annotations.
type MapResult struct {
	Text      string
	Citations []insight.Citation
}

// Client is a rate-limited HTTP client for the Responses API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
	model      string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key for authenticated requests.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing or proxies).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithModel overrides the default model.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// NewClient creates a Responses API client. The API key defaults to the
// OPENAI_API_KEY environment variable.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		// Generation with web search can take a while.
		httpClient: &http.Client{Timeout: 3 * time.Minute},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		model:      DefaultModel,
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.apiKey = key
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GenerateMap asks the model for a SparkMap about the topic, with web search
// enabled so the result carries citations. The extra context string focuses
// generation after a dive and may be empty.
func (c *Client) GenerateMap(ctx context.Context, topic, extra string) (*MapResult, error) {
	req := request{
		Model: c.model,
		Input: SparkMapPrompt(topic, extra),
		Tools: []tool{{Type: "web_search_preview", SearchContextSize: searchContextSize}},
	}

	resp, err := c.createResponse(ctx, req)
	if err != nil {
		return nil, err
	}

	text, citations := collectOutput(resp)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	return &MapResult{Text: text, Citations: citations}, nil
}

// CondenseTopic turns a dive context into the next map's topic phrase. Only
// the first line of model output is used.
func (c *Client) CondenseTopic(ctx context.Context, dctx dive.Context) (string, error) {
	req := request{
		Model: c.model,
		Input: CondensationPrompt(dctx),
	}

	resp, err := c.createResponse(ctx, req)
	if err != nil {
		return "", err
	}

	text, _ := collectOutput(resp)
	topic, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", ErrEmptyResponse
	}
	return topic, nil
}

// createResponse executes one Responses API call.
func (c *Client) createResponse(ctx context.Context, req request) (*response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer httpResp.Body.Close()

	if err := checkHTTPErrors(httpResp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var resp response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if resp.Error != nil {
		return nil, &APIError{StatusCode: httpResp.StatusCode, Code: resp.Error.Code, Message: resp.Error.Message}
	}

	return &resp, nil
}

// collectOutput walks the response output for message text and url-citation
// annotations. The last message item wins, matching the API's ordering of
// tool-call items before the final message.
func collectOutput(resp *response) (string, []insight.Citation) {
	var text string
	var citations []insight.Citation

	for _, item := range resp.Output {
		if item.Type != "message" {
			continue
		}
		for _, content := range item.Content {
			if content.Type != "output_text" {
				continue
			}
			text = content.Text
			citations = citations[:0]
			for _, a := range content.Annotations {
				if a.Type != "url_citation" {
					continue
				}
				citations = append(citations, insight.Citation{
					URL:     a.URL,
					Title:   a.Title,
					Snippet: a.Snippet,
				})
			}
		}
	}

	return text, citations
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response) error {
	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	}
	if resp.StatusCode == 429 {
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       "api_error",
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}
	return nil
}
