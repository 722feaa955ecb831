package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	// ClaudeAPIEndpoint is the Anthropic API endpoint.
	ClaudeAPIEndpoint = "https://api.anthropic.com/v1/messages"
	// ClaudeModel is the model to use.
	ClaudeModel = "claude-sonnet-4-20250514"
	// ClaudeAPIVersion is the API version.
	ClaudeAPIVersion = "2023-06-01"
	// BatchSize is the number of texts sent per translation request.
	BatchSize = 20
)

// Client represents a Claude API client.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
	endpoint   string
}

// NewClient creates a new Claude API client.
func NewClient(apiKey, model string) (client *Client) {
	if model == "" {
		model = ClaudeModel
	}
	client = &Client{
		apiKey:   apiKey,
		model:    model,
		endpoint: ClaudeAPIEndpoint,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	return client
}

// Translate returns Portuguese versions of the request items, batching large requests.
// Every requested path must come back translated.
func (c *Client) Translate(ctx context.Context, req TranslationRequest) (response TranslationResponse, err error) {
	response.Translations = make(map[string]string, len(req.Items))

	for start := 0; start < len(req.Items); start += BatchSize {
		end := min(start+BatchSize, len(req.Items))
		batch := TranslationRequest{Items: req.Items[start:end], Context: req.Context}

		var part TranslationResponse
		part, err = c.translateBatch(ctx, batch)
		if err != nil {
			err = errors.Wrapf(err, "translation batch %d-%d failed", start, end)
			return response, err
		}

		for _, item := range batch.Items {
			text, ok := part.Translations[item.Path]
			if !ok || strings.TrimSpace(text) == "" {
				err = errors.Errorf("translation missing for %s", item.Path)
				return response, err
			}
			response.Translations[item.Path] = text
		}
	}

	return response, err
}

func (c *Client) translateBatch(ctx context.Context, req TranslationRequest) (response TranslationResponse, err error) {
	prompt := buildTranslationPrompt(req)

	var responseText string
	responseText, err = c.sendRequest(ctx, translationSystem, prompt)
	if err != nil {
		err = errors.Wrap(err, "translation request failed")
		return response, err
	}

	cleanedText := stripMarkdownCodeFences(responseText)

	err = json.Unmarshal([]byte(cleanedText), &response)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse translation response: %s", responseText)
		return response, err
	}

	return response, err
}

// sendRequest sends a request to Claude API.
func (c *Client) sendRequest(ctx context.Context, system, prompt string) (responseText string, err error) {
	claudeReq := ClaudeRequest{
		Model:     c.model,
		MaxTokens: 8192,
		System:    system,
		Messages: []Message{
			{
				Role:    "user",
				Content: prompt,
			},
		},
	}

	var reqBody []byte
	reqBody, err = json.Marshal(claudeReq)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal request")
		return responseText, err
	}

	var httpReq *http.Request
	httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return responseText, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", ClaudeAPIVersion)

	var resp *http.Response
	resp, err = c.httpClient.Do(httpReq)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return responseText, err
	}
	defer resp.Body.Close()

	var respBody []byte
	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return responseText, err
	}

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
		return responseText, err
	}

	var claudeResp ClaudeResponse
	err = json.Unmarshal(respBody, &claudeResp)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse Claude response: %s", string(respBody))
		return responseText, err
	}

	if len(claudeResp.Content) == 0 {
		err = errors.New("no content in Claude response")
		return responseText, err
	}

	if claudeResp.StopReason == "max_tokens" {
		err = errors.New("Claude response truncated at max_tokens")
		return responseText, err
	}

	responseText = claudeResp.Content[0].Text

	return responseText, err
}

// stripMarkdownCodeFences removes a ```json (or bare ```) fence around a JSON reply.
func stripMarkdownCodeFences(text string) (cleaned string) {
	cleaned = strings.TrimSpace(text)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	// Drop the opening fence line, including any language tag
	newline := strings.IndexByte(cleaned, '\n')
	if newline < 0 {
		cleaned = strings.Trim(cleaned, "`")
		return cleaned
	}
	cleaned = cleaned[newline+1:]

	cleaned = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(cleaned), "```"))

	return cleaned
}
