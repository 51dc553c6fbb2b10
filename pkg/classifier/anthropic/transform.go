package anthropic

import "fmt"

// Anthropic Messages API request/response types

// messagesRequest represents an Anthropic messages request.
type messagesRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	System      string    `json:"system,omitempty"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature,omitempty"`
}

// message represents a message in Anthropic format.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// contentBlock represents a content block in an Anthropic response.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// messagesResponse represents an Anthropic messages response.
type messagesResponse struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Content    []contentBlock `json:"content"`
	Model      string         `json:"model"`
	StopReason string         `json:"stop_reason"`
	Usage      usage          `json:"usage"`
}

// usage represents token usage in Anthropic format.
type usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// extractText returns the concatenated text content of the response.
func extractText(resp *messagesResponse) (string, error) {
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("response has no content blocks")
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("response has no text content")
	}
	return text, nil
}
