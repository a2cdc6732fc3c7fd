package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/climalab/clima-chat/pkg/metrics"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// NoReplyText is returned when the provider answers without a usable
// candidate text part.
const NoReplyText = "No pude obtener una respuesta."

// Part is a single text fragment of a content block.
type Part struct {
	Text string `json:"text"`
}

// Content groups the parts submitted in one generation request.
type Content struct {
	Parts []Part `json:"parts"`
}

// GenerateContentRequest is the payload sent to the Gemini API.
type GenerateContentRequest struct {
	Contents []Content `json:"contents"`
}

// GenerateContentResponse captures the fields we consume from the API.
type GenerateContentResponse struct {
	Candidates []struct {
		Content Content `json:"content"`
	} `json:"candidates"`
	UsageMetadata *usageMetadata `json:"usageMetadata"`
}

type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// Client performs HTTP requests to the Gemini generateContent endpoint.
// It is stateless and safe for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient constructs a Gemini client.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key cannot be empty")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("gemini model cannot be empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Generate submits the ordered turns as parts of a single content block and
// extracts the first candidate's first text part. When the response carries
// no usable candidate it returns NoReplyText instead of failing.
func (c *Client) Generate(ctx context.Context, turns []string) (string, metrics.TokenUsage, error) {
	parts := make([]Part, 0, len(turns))
	for _, turn := range turns {
		parts = append(parts, Part{Text: turn})
	}
	req := GenerateContentRequest{
		Contents: []Content{{Parts: parts}},
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", metrics.TokenUsage{}, fmt.Errorf("encode generate request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(c.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", metrics.TokenUsage{}, fmt.Errorf("build generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", metrics.TokenUsage{}, fmt.Errorf("request generate content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", metrics.TokenUsage{}, fmt.Errorf("gemini request failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", metrics.TokenUsage{}, fmt.Errorf("read generate response: %w", err)
	}

	var out GenerateContentResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", metrics.TokenUsage{}, fmt.Errorf("decode generate response: %w", err)
	}

	usage := metrics.TokenUsage{}
	if out.UsageMetadata != nil {
		usage = metrics.TokenUsage{
			PromptTokens:    out.UsageMetadata.PromptTokenCount,
			CandidateTokens: out.UsageMetadata.CandidatesTokenCount,
			TotalTokens:     out.UsageMetadata.TotalTokenCount,
		}
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return NoReplyText, usage, nil
	}
	return out.Candidates[0].Content.Parts[0].Text, usage, nil
}
