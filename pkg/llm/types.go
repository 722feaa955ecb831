package llm

// TranslationItem is one English text to translate, keyed by its document path.
type TranslationItem struct {
	Path    string `json:"path"`
	English string `json:"en"`
}

// TranslationRequest asks for Portuguese versions of portfolio texts.
type TranslationRequest struct {
	Items []TranslationItem `json:"items"`
	// Context describes the owner so the model keeps tone and terminology.
	Context string `json:"context,omitempty"`
}

// TranslationResponse maps each requested path to its Portuguese text.
type TranslationResponse struct {
	Translations map[string]string `json:"translations"`
}

// ClaudeRequest represents the Claude API request format.
type ClaudeRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
}

// ClaudeResponse represents the Claude API response format.
type ClaudeResponse struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Role       string    `json:"role"`
	Content    []Content `json:"content"`
	Model      string    `json:"model"`
	StopReason string    `json:"stop_reason,omitempty"`
	Usage      Usage     `json:"usage"`
}

// Message represents a message in the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Content represents content in the response.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Usage represents token usage information.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}
