// Package intent wraps the LLM intent classifier with the deterministic
// fallback. Classifier trouble is never an error for callers: extraction
// always yields a usable Intent.
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	analysis "github.com/negochallenge/backend/internal/analysis/intent"
	"github.com/negochallenge/backend/internal/llm"
)

const defaultTimeout = 10 * time.Second

// Service extracts structured negotiation intent from raw buyer text.
type Service struct {
	client   llm.Client
	timeout  time.Duration
	fallback func(string) analysis.Intent
}

// NewService builds the extractor. A nil client disables the classifier and
// every extraction runs the deterministic path.
func NewService(client llm.Client, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Service{
		client:   client,
		timeout:  timeout,
		fallback: analysis.Extract,
	}
}

// Enabled reports whether the classifier path is available.
func (s *Service) Enabled() bool {
	return s != nil && s.client != nil
}

// Extract classifies one buyer message. One attempt with a per-call timeout;
// any failure, timeout, or malformed payload falls back silently. When the
// classifier answers without a price or quantity, pattern matching backfills.
func (s *Service) Extract(ctx context.Context, message string) analysis.Intent {
	if !s.Enabled() {
		return s.fallback(message)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.Generate(callCtx, []llm.Message{
		{Role: llm.RoleSystem, Content: classifierSystemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf("Extract from: '%s'", message)},
	})
	if err != nil {
		log.Printf("[intent] classifier invoke failed, use fallback: %v", err)
		return s.fallback(message)
	}

	payload, err := parseClassifierOutput(resp.Content)
	if err != nil {
		log.Printf("[intent] classifier output parse failed, use fallback: %v", err)
		return s.fallback(message)
	}

	out := analysis.Intent{
		OfferedPrice: payload.OfferedPrice,
		Accepted:     payload.AcceptedDeal,
		Quantity:     payload.Quantity,
	}
	if out.OfferedPrice == nil {
		out.OfferedPrice = analysis.Price(message)
	}
	if out.Quantity < 1 {
		out.Quantity = analysis.Quantity(message)
	}
	return out
}

type classifierPayload struct {
	OfferedPrice *float64 `json:"offered_price"`
	AcceptedDeal bool     `json:"accepted_deal"`
	Quantity     int      `json:"quantity"`
}

// parseClassifierOutput pulls the JSON object out of the model reply. A
// reply without a parseable object counts as a classification failure, not
// an error.
func parseClassifierOutput(content string) (*classifierPayload, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object")
	}

	payload := &classifierPayload{}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), payload); err != nil {
		return nil, err
	}
	return payload, nil
}

const classifierSystemPrompt = `Extract information from user's message in a negotiation.
Output JSON with:
- offered_price: number or null (the price they're offering/willing to pay)
- accepted_deal: true/false (did they accept? Look for "okay", "fine", "deal", "is okay", "alright", etc.)
- quantity: number (how many items, default 1)

Examples:
"300 GHS" → {"offered_price": 300, "accepted_deal": false, "quantity": 1}
"okay 400" → {"offered_price": 400, "accepted_deal": true, "quantity": 1}
"395 is okay for me" → {"offered_price": 395, "accepted_deal": true, "quantity": 1}
"fine, 380" → {"offered_price": 380, "accepted_deal": true, "quantity": 1}
"alright 400" → {"offered_price": 400, "accepted_deal": true, "quantity": 1}
"deal" → {"offered_price": null, "accepted_deal": true, "quantity": 1}
"I'll take 2 at 380" → {"offered_price": 380, "accepted_deal": true, "quantity": 2}
"what about 350" → {"offered_price": 350, "accepted_deal": false, "quantity": 1}
"can you do 320" → {"offered_price": 320, "accepted_deal": false, "quantity": 1}`
