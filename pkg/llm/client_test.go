package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// itemsFromPrompt recovers the items embedded in a translation prompt.
func itemsFromPrompt(t *testing.T, prompt string) []TranslationItem {
	t.Helper()

	start := strings.Index(prompt, "ITEMS:\n")
	end := strings.Index(prompt, "\n\nRules:")
	if start < 0 || end < 0 {
		t.Fatalf("Prompt does not contain an items block: %s", prompt)
	}

	var items []TranslationItem
	err := json.Unmarshal([]byte(prompt[start+len("ITEMS:\n"):end]), &items)
	if err != nil {
		t.Fatalf("Failed to parse items from prompt: %v", err)
	}
	return items
}

// translatingServer answers every item with "pt:" + its English text.
func translatingServer(t *testing.T, calls *int32, wrap func(string) string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)

		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}

		var req ClaudeRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			t.Errorf("Failed to decode request: %v", err)
			return
		}

		if req.System == "" {
			t.Error("Expected a system prompt")
		}

		out := TranslationResponse{Translations: map[string]string{}}
		for _, item := range itemsFromPrompt(t, req.Messages[0].Content) {
			out.Translations[item.Path] = "pt:" + item.English
		}

		text, _ := json.Marshal(out)
		claudeResp := ClaudeResponse{
			Type:    "message",
			Role:    "assistant",
			Content: []Content{{Type: "text", Text: wrap(string(text))}},
			Model:   ClaudeModel,
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(claudeResp)
	}))
}

func TestNewClient(t *testing.T) {
	apiKey := "test-api-key"
	model := "claude-sonnet-4-20250514"
	client := NewClient(apiKey, model)

	if client.apiKey != apiKey {
		t.Errorf("Expected API key '%s', got '%s'", apiKey, client.apiKey)
	}

	if client.model != model {
		t.Errorf("Expected model '%s', got '%s'", model, client.model)
	}

	if client.endpoint != ClaudeAPIEndpoint {
		t.Errorf("Expected endpoint '%s', got '%s'", ClaudeAPIEndpoint, client.endpoint)
	}

	if NewClient(apiKey, "").model != ClaudeModel {
		t.Error("Expected default model when none given")
	}

	if client.httpClient.Timeout != 120*time.Second {
		t.Errorf("Expected timeout 120s, got %v", client.httpClient.Timeout)
	}
}

func TestTranslate(t *testing.T) {
	var calls int32
	server := translatingServer(t, &calls, func(s string) string { return s })
	defer server.Close()

	client := NewClient("test-key", "")
	client.endpoint = server.URL

	response, err := client.Translate(context.Background(), TranslationRequest{
		Items: []TranslationItem{
			{Path: "personalInfo.title", English: "Engineer"},
			{Path: "projects[0].title", English: "Site"},
		},
	})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if response.Translations["personalInfo.title"] != "pt:Engineer" {
		t.Errorf("Unexpected translation %q", response.Translations["personalInfo.title"])
	}

	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("Expected one request, got %d", calls)
	}
}

func TestTranslateBatches(t *testing.T) {
	var calls int32
	server := translatingServer(t, &calls, func(s string) string { return s })
	defer server.Close()

	client := NewClient("test-key", "")
	client.endpoint = server.URL

	items := make([]TranslationItem, BatchSize*2+1)
	for i := range items {
		items[i] = TranslationItem{Path: "p" + strings.Repeat("x", i), English: "text"}
	}

	response, err := client.Translate(context.Background(), TranslationRequest{Items: items})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if len(response.Translations) != len(items) {
		t.Errorf("Expected %d translations, got %d", len(items), len(response.Translations))
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("Expected 3 batches, got %d", calls)
	}
}

func TestTranslateWithCodeFences(t *testing.T) {
	var calls int32
	server := translatingServer(t, &calls, func(s string) string { return "```json\n" + s + "\n```" })
	defer server.Close()

	client := NewClient("test-key", "")
	client.endpoint = server.URL

	response, err := client.Translate(context.Background(), TranslationRequest{
		Items: []TranslationItem{{Path: "a", English: "Hello"}},
	})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if response.Translations["a"] != "pt:Hello" {
		t.Errorf("Expected fenced JSON handled, got %v", response.Translations)
	}
}

func TestTranslateMissingPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claudeResp := ClaudeResponse{
			Content: []Content{{Type: "text", Text: `{"translations": {"a": "olá"}}`}},
		}
		_ = json.NewEncoder(w).Encode(claudeResp)
	}))
	defer server.Close()

	client := NewClient("test-key", "")
	client.endpoint = server.URL

	_, err := client.Translate(context.Background(), TranslationRequest{
		Items: []TranslationItem{{Path: "a", English: "hello"}, {Path: "b", English: "bye"}},
	})
	if err == nil || !strings.Contains(err.Error(), "translation missing for b") {
		t.Errorf("Expected missing translation error, got %v", err)
	}
}

func TestAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "Invalid request"}`))
	}))
	defer server.Close()

	client := NewClient("test-key", "")
	client.endpoint = server.URL

	_, err := client.Translate(context.Background(), TranslationRequest{Items: []TranslationItem{{Path: "a", English: "x"}}})
	if err == nil {
		t.Fatal("Expected error for bad request, got nil")
	}

	if !strings.Contains(err.Error(), "400") {
		t.Errorf("Error should mention status code 400: %v", err)
	}
}

func TestInvalidJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claudeResp := ClaudeResponse{
			Content: []Content{{Type: "text", Text: "not valid json"}},
		}
		_ = json.NewEncoder(w).Encode(claudeResp)
	}))
	defer server.Close()

	client := NewClient("test-key", "")
	client.endpoint = server.URL

	_, err := client.Translate(context.Background(), TranslationRequest{Items: []TranslationItem{{Path: "a", English: "x"}}})
	if err == nil {
		t.Error("Expected error for invalid JSON, got nil")
	}
}

func TestEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ClaudeResponse{Content: []Content{}})
	}))
	defer server.Close()

	client := NewClient("test-key", "")
	client.endpoint = server.URL

	_, err := client.Translate(context.Background(), TranslationRequest{Items: []TranslationItem{{Path: "a", English: "x"}}})
	if err == nil {
		t.Fatal("Expected error for empty content, got nil")
	}

	if !strings.Contains(err.Error(), "no content") {
		t.Errorf("Error should mention 'no content': %v", err)
	}
}

func TestTruncatedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ClaudeResponse{
			Content:    []Content{{Type: "text", Text: `{"translations": {`}},
			StopReason: "max_tokens",
		})
	}))
	defer server.Close()

	client := NewClient("test-key", "")
	client.endpoint = server.URL

	_, err := client.Translate(context.Background(), TranslationRequest{Items: []TranslationItem{{Path: "a", English: "x"}}})
	if err == nil || !strings.Contains(err.Error(), "max_tokens") {
		t.Errorf("Expected truncation error, got %v", err)
	}
}

func TestContextCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	defer close(release)

	client := NewClient("test-key", "")
	client.endpoint = server.URL

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := client.Translate(ctx, TranslationRequest{Items: []TranslationItem{{Path: "a", English: "x"}}})
	if err == nil {
		t.Error("Expected error for cancelled context, got nil")
	}
}

func TestRequestHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Error("Missing Content-Type header")
		}

		if r.Header.Get("X-Api-Key") != "my-api-key" {
			t.Errorf("Expected API key 'my-api-key', got '%s'", r.Header.Get("X-Api-Key"))
		}

		if r.Header.Get("Anthropic-Version") != ClaudeAPIVersion {
			t.Errorf("Expected version '%s', got '%s'", ClaudeAPIVersion, r.Header.Get("Anthropic-Version"))
		}

		_ = json.NewEncoder(w).Encode(ClaudeResponse{Content: []Content{{Type: "text", Text: "{}"}}})
	}))
	defer server.Close()

	client := NewClient("my-api-key", "")
	client.endpoint = server.URL

	_, _ = client.Translate(context.Background(), TranslationRequest{Items: []TranslationItem{{Path: "a", English: "x"}}})
}

func TestStripMarkdownCodeFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "with json code fence",
			input:    "```json\n{\"test\": \"value\"}\n```",
			expected: "{\"test\": \"value\"}",
		},
		{
			name:     "bare fence",
			input:    "```\n{\"test\": \"value\"}\n```",
			expected: "{\"test\": \"value\"}",
		},
		{
			name:     "without code fence",
			input:    "{\"test\": \"value\"}",
			expected: "{\"test\": \"value\"}",
		},
		{
			name:     "with extra whitespace",
			input:    "\n```json\n{\"test\": \"value\"}\n\n```\n",
			expected: "{\"test\": \"value\"}",
		},
		{
			name:     "plain text",
			input:    "This is plain text",
			expected: "This is plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := stripMarkdownCodeFences(tt.input)
			if result != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, result)
			}
		})
	}
}

func TestBuildTranslationPrompt(t *testing.T) {
	prompt := buildTranslationPrompt(TranslationRequest{
		Items:   []TranslationItem{{Path: "articles[0].content", English: "<p>Hello</p>"}},
		Context: "Ana Silva, Engineer",
	})

	for _, want := range []string{"Brazilian Portuguese", "Ana Silva, Engineer", "articles[0].content", "Keep HTML tags", `"translations"`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}

	items := itemsFromPrompt(t, prompt)
	if len(items) != 1 || items[0].English != "<p>Hello</p>" {
		t.Errorf("Expected items embedded as JSON, got %+v", items)
	}
}
