package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"tablekit/domain/analysis"
	"tablekit/internal/config"
)

// InsightClient calls the OpenAI chat-completions API for narrative
// insights. Every failure path degrades to the fixed unavailable payload;
// the client never aborts an analysis session.
type InsightClient struct {
	apiKey      string
	baseURL     string
	model       string
	timeout     time.Duration
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

// NewInsightClient creates an insight client from AI configuration. A client
// with an empty API key is valid and always returns the unavailable payload.
func NewInsightClient(cfg config.AIConfig) *InsightClient {
	log.Printf("[InsightClient] Initializing client with model=%s, timeout=%v, enabled=%v",
		cfg.OpenAIModel, cfg.Timeout, cfg.Enabled())

	return &InsightClient{
		apiKey:      cfg.OpenAIKey,
		baseURL:     "https://api.openai.com/v1",
		model:       cfg.OpenAIModel,
		timeout:     cfg.Timeout,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}
}

// Enabled reports whether an API key is configured
func (c *InsightClient) Enabled() bool {
	return c.apiKey != ""
}

// WithBaseURL overrides the API endpoint, used by tests
func (c *InsightClient) WithBaseURL(url string) *InsightClient {
	c.baseURL = url
	return c
}

// TableInsights generates narrative insights for a tabular analysis report
func (c *InsightClient) TableInsights(ctx context.Context, reportText string) analysis.NarrativeInsights {
	prompt := fmt.Sprintf(`Analyze this dataset analysis report and provide insights in JSON format:

%s

Please provide:
1. A brief summary of the dataset's main characteristics
2. Key themes or notable patterns (list of 3-5 items)
3. Data quality assessment with explanation
4. 3-5 specific recommendations for further analysis

Respond in JSON format with keys: summary, key_themes, content_quality, recommendations`, reportText)

	return c.generate(ctx, prompt, "You are an expert data analyst. Analyze datasets and provide constructive findings in JSON format.")
}

// SlideInsights generates narrative insights for extracted presentation text
func (c *InsightClient) SlideInsights(ctx context.Context, presentationText string) analysis.NarrativeInsights {
	prompt := fmt.Sprintf(`Analyze this presentation content and provide insights in JSON format:

%s

Please provide:
1. A brief summary of the main topic/theme
2. Key themes or topics covered (list of 3-5 items)
3. Content quality assessment (score 1-10 with explanation)
4. 3-5 specific recommendations for improvement

Respond in JSON format with keys: summary, key_themes, content_quality, recommendations`, presentationText)

	return c.generate(ctx, prompt, "You are an expert presentation analyst. Analyze presentations and provide constructive feedback in JSON format.")
}

func (c *InsightClient) generate(ctx context.Context, prompt, systemMessage string) analysis.NarrativeInsights {
	if !c.Enabled() {
		log.Printf("[InsightClient] No API key configured, returning unavailable payload")
		return analysis.UnavailableInsights("API key not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	insights, err := c.requestJSON(ctx, prompt, systemMessage)
	if err != nil {
		log.Printf("[InsightClient] Insight generation failed: %v", err)
		return analysis.UnavailableInsights("generation failed")
	}

	insights.Available = true
	return insights
}

func (c *InsightClient) requestJSON(ctx context.Context, prompt, systemMessage string) (analysis.NarrativeInsights, error) {
	var empty analysis.NarrativeInsights

	type message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type responseFormat struct {
		Type string `json:"type"`
	}
	type requestBody struct {
		Model               string         `json:"model"`
		Messages            []message      `json:"messages"`
		Temperature         float64        `json:"temperature,omitempty"`
		MaxCompletionTokens int            `json:"max_completion_tokens,omitempty"`
		ResponseFormat      responseFormat `json:"response_format,omitempty"`
	}

	reqBody := requestBody{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: systemMessage},
			{Role: "user", Content: prompt},
		},
		Temperature:         c.temperature,
		MaxCompletionTokens: c.maxTokens,
		ResponseFormat:      responseFormat{Type: "json_object"},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return empty, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return empty, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	log.Printf("[InsightClient] Sending request to %s - promptLength=%d", c.model, len(prompt))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return empty, fmt.Errorf("request timeout after %v: %w", c.timeout, err)
		}
		return empty, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return empty, fmt.Errorf("OpenAI API error (status %d): %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return empty, fmt.Errorf("failed to read response: %w", err)
	}

	type openAIResponse struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	var envelope openAIResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return empty, fmt.Errorf("failed to parse OpenAI response: %w", err)
	}
	if len(envelope.Choices) == 0 {
		return empty, fmt.Errorf("no choices in OpenAI response")
	}

	content := cleanJSONContent(envelope.Choices[0].Message.Content)

	var insights analysis.NarrativeInsights
	if err := json.Unmarshal([]byte(content), &insights); err != nil {
		return empty, fmt.Errorf("failed to parse JSON content: %w", err)
	}

	return insights, nil
}

// cleanJSONContent strips markdown code fences around JSON payloads
func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") && strings.HasSuffix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") && strings.HasSuffix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}

	return strings.TrimSpace(content)
}
