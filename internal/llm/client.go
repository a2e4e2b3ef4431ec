// Package llm is the narrow port to external chat-completion providers. The
// negotiation core only ever sees this interface, so policy and guard logic
// stay testable without a live model.
package llm

import "context"

// Roles for provider messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged turn sent to a provider.
type Message struct {
	Role    string
	Content string
}

// Response carries the provider's reply text.
type Response struct {
	Content string
	Model   string
}

// Client is implemented by every provider. A failed call returns an explicit
// error; callers decide on their fallback.
type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}
