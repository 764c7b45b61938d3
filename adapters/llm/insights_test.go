package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tablekit/internal/config"
)

func testConfig() config.AIConfig {
	return config.AIConfig{
		OpenAIKey:   "test-key",
		OpenAIModel: "gpt-4o-mini",
		Timeout:     5 * time.Second,
		MaxTokens:   500,
		Temperature: 0.7,
	}
}

func chatResponse(content string) string {
	payload := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	}
	data, _ := json.Marshal(payload)
	return string(data)
}

const insightJSON = `{
	"summary": "Sales data with seasonal patterns",
	"key_themes": ["seasonality", "growth"],
	"content_quality": "Good overall quality",
	"recommendations": ["Segment by region"]
}`

func TestTableInsights_NoAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.OpenAIKey = ""
	c := NewInsightClient(cfg)

	if c.Enabled() {
		t.Error("client with empty key should not be enabled")
	}

	insights := c.TableInsights(context.Background(), "report")
	if insights.Available {
		t.Error("expected unavailable payload")
	}
	if !strings.Contains(insights.Summary, "API key not configured") {
		t.Errorf("summary = %q", insights.Summary)
	}
}

func TestTableInsights_Success(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatResponse(insightJSON)))
	}))
	defer srv.Close()

	c := NewInsightClient(testConfig()).WithBaseURL(srv.URL)
	insights := c.TableInsights(context.Background(), "report text")

	if !insights.Available {
		t.Fatal("expected available insights")
	}
	if insights.Summary != "Sales data with seasonal patterns" {
		t.Errorf("summary = %q", insights.Summary)
	}
	if len(insights.KeyThemes) != 2 || insights.KeyThemes[0] != "seasonality" {
		t.Errorf("themes = %v", insights.KeyThemes)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotBody["model"] != "gpt-4o-mini" {
		t.Errorf("model = %v", gotBody["model"])
	}
	messages, ok := gotBody["messages"].([]interface{})
	if !ok || len(messages) != 2 {
		t.Fatalf("messages = %v", gotBody["messages"])
	}
	user := messages[1].(map[string]interface{})
	if !strings.Contains(user["content"].(string), "report text") {
		t.Error("prompt does not include the report text")
	}
}

func TestTableInsights_FencedContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatResponse("```json\n" + insightJSON + "\n```")))
	}))
	defer srv.Close()

	insights := NewInsightClient(testConfig()).WithBaseURL(srv.URL).TableInsights(context.Background(), "r")
	if !insights.Available {
		t.Fatal("fenced JSON should still parse")
	}
	if insights.Summary != "Sales data with seasonal patterns" {
		t.Errorf("summary = %q", insights.Summary)
	}
}

func TestTableInsights_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	insights := NewInsightClient(testConfig()).WithBaseURL(srv.URL).TableInsights(context.Background(), "r")
	if insights.Available {
		t.Error("expected unavailable payload on API error")
	}
	if !strings.Contains(insights.Summary, "generation failed") {
		t.Errorf("summary = %q", insights.Summary)
	}
}

func TestTableInsights_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	insights := NewInsightClient(testConfig()).WithBaseURL(srv.URL).TableInsights(context.Background(), "r")
	if insights.Available {
		t.Error("expected unavailable payload for empty choices")
	}
}

func TestTableInsights_MalformedContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatResponse("this is not json")))
	}))
	defer srv.Close()

	insights := NewInsightClient(testConfig()).WithBaseURL(srv.URL).TableInsights(context.Background(), "r")
	if insights.Available {
		t.Error("expected unavailable payload for malformed content")
	}
}

func TestSlideInsights_UsesPresentationPrompt(t *testing.T) {
	var userContent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		for _, m := range body.Messages {
			if m.Role == "user" {
				userContent = m.Content
			}
		}
		w.Write([]byte(chatResponse(insightJSON)))
	}))
	defer srv.Close()

	insights := NewInsightClient(testConfig()).WithBaseURL(srv.URL).SlideInsights(context.Background(), "Slide 1:\nTitle: Intro")
	if !insights.Available {
		t.Fatal("expected available insights")
	}
	if !strings.Contains(userContent, "presentation content") {
		t.Error("slide prompt should describe presentation content")
	}
	if !strings.Contains(userContent, "Slide 1:") {
		t.Error("slide prompt should include the extracted text")
	}
}

func TestCleanJSONContent(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a": 1}`, `{"a": 1}`},
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"  {\"a\": 1}  ", `{"a": 1}`},
	}
	for _, c := range cases {
		if got := cleanJSONContent(c.in); got != c.want {
			t.Errorf("cleanJSONContent(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
