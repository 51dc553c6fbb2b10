package openai

import "fmt"

// OpenAI Chat Completions API request/response types

// chatRequest represents an OpenAI chat completion request.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

// chatMessage represents a message in OpenAI format.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// responseFormat selects the completion output format.
type responseFormat struct {
	Type string `json:"type"`
}

// chatResponse represents an OpenAI chat completion response.
type chatResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
	Usage   usage    `json:"usage"`
}

// choice represents a completion choice in OpenAI format.
type choice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// usage represents token usage in OpenAI format.
type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// extractText returns the text content of the first completion choice.
func extractText(resp *chatResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("response has no choices")
	}
	if resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("response choice has no content")
	}
	return resp.Choices[0].Message.Content, nil
}
