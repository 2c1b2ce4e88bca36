package assistant

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// Navigation targets the assistant may suggest.
const (
	NavigateDoctors = "doctors"
	NavigateSOS     = "sos"
)

const systemPrompt = `You are Zovi, the friendly health assistant inside the Zovida medication safety app.
Answer questions about medications, drug interactions, side effects, and general health in plain language.
Keep answers short and practical. You are not a doctor; for anything serious, tell the user to consult one.
If the user should book a doctor appointment, append the token [navigate:doctors] to your reply.
If the user describes a medical emergency, tell them to seek help immediately and append [navigate:sos].
Never emit any other bracketed tokens.`

// Message is one turn of the conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Reply is a processed assistant answer: the visible text with navigation
// tokens stripped, plus the targets that were embedded in it.
type Reply struct {
	Text     string   `json:"text"`
	Navigate []string `json:"navigate,omitempty"`
}

var navigatePattern = regexp.MustCompile(`\[navigate:([a-z]+)\]`)

// Chat sends the user message with the prior conversation history and returns
// the processed reply.
func (c *Client) Chat(ctx context.Context, message string, history []Message) (Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{}, errors.New("assistant chat: message required")
	}
	if c.cfg.APIKey == "" {
		return Reply{}, errors.New("assistant chat: api key required")
	}

	messages := make([]chatMessage, 0, len(history)+2)
	messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	for _, turn := range history {
		role := strings.TrimSpace(turn.Role)
		if role != "user" && role != "assistant" {
			continue
		}
		messages = append(messages, chatMessage{Role: role, Content: turn.Content})
	}
	messages = append(messages, chatMessage{Role: "user", Content: message})

	content, err := c.completionWithRetry(ctx, chatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	})
	if err != nil {
		return Reply{}, err
	}
	return ParseReply(content), nil
}

// ParseReply extracts navigation tokens from raw assistant output and strips
// them from the visible text. Unknown targets are dropped.
func ParseReply(content string) Reply {
	var targets []string
	seen := make(map[string]struct{})
	for _, match := range navigatePattern.FindAllStringSubmatch(content, -1) {
		target := match[1]
		if target != NavigateDoctors && target != NavigateSOS {
			continue
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		targets = append(targets, target)
	}

	text := navigatePattern.ReplaceAllStringFunc(content, func(match string) string {
		target := navigatePattern.FindStringSubmatch(match)[1]
		if target == NavigateDoctors || target == NavigateSOS {
			return ""
		}
		return match
	})
	text = strings.ReplaceAll(text, "  ", " ")
	return Reply{Text: strings.TrimSpace(text), Navigate: targets}
}
