// Package ai assembles generation requests for the seller's replies and
// delegates to the configured model provider.
package ai

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/negochallenge/backend/internal/llm"
	"github.com/negochallenge/backend/internal/model/negotiation"
	"github.com/negochallenge/backend/internal/model/product"
	"github.com/negochallenge/backend/internal/pricing"
)

// FallbackReply is substituted whenever generation fails. A generation
// failure never aborts a turn.
const FallbackReply = "Having some technical issues, but this product is high quality. Let's continue - what's your best offer?"

const defaultTimeout = 30 * time.Second

// Composer renders the seller's next reply: persona system prompt, the full
// transcript replayed in order, then one trailing buyer turn carrying the
// message plus the policy's guidance.
type Composer struct {
	client  llm.Client
	product product.Product
	timeout time.Duration
}

// NewComposer builds a composer. A nil client always answers with the
// fallback line.
func NewComposer(client llm.Client, prod product.Product, timeout time.Duration) *Composer {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Composer{client: client, product: prod, timeout: timeout}
}

// Compose generates the reply for one turn.
func (c *Composer) Compose(ctx context.Context, currentPrice float64, messageCount int, transcript []negotiation.Message, userMessage string, d pricing.Decision) string {
	if c.client == nil {
		return FallbackReply
	}

	messages := c.buildMessages(currentPrice, messageCount, transcript, userMessage, d)

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Generate(callCtx, messages)
	if err != nil {
		log.Printf("[composer] generation failed, using fallback: %v", err)
		return FallbackReply
	}
	if strings.TrimSpace(resp.Content) == "" {
		log.Printf("[composer] generation returned empty reply, using fallback")
		return FallbackReply
	}
	return resp.Content
}

func (c *Composer) buildMessages(currentPrice float64, messageCount int, transcript []negotiation.Message, userMessage string, d pricing.Decision) []llm.Message {
	messages := make([]llm.Message, 0, len(transcript)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: c.systemPrompt(currentPrice, messageCount)})

	for _, m := range transcript {
		role := llm.RoleUser
		if m.Role == negotiation.RoleAssistant {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: m.Content})
	}

	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: userContext(userMessage, d, currentPrice)})
	return messages
}

func (c *Composer) systemPrompt(currentPrice float64, messageCount int) string {
	return fmt.Sprintf(`You are "Bra Alex," a clever sales agent with personality and street smarts.

PRODUCT: %s | CURRENT PRICE: %.0f GHS

YOUR PERSONALITY:
- Witty and engaging - be yourself, have fun with it
- Smart negotiator - you know how to read people
- Use humor and emojis naturally (😅, 😄, 💪, 🔥)
- Mix professional and casual language - whatever feels natural
- React genuinely to what they say - if it's ridiculous, call it out!

RESPONSE STYLE:
- Keep it SHORT (2-3 sentences)
- Be conversational and natural
- Use wit, sarcasm, charm - whatever fits the moment
- Don't be robotic - vary your language

STAGE %d APPROACH:
- Early: Confident, playful resistance
- Mid: Show value, add sweeteners
- Late: Get real about budgets, create urgency
- Final: Close or walk away

IMPORTANT: Actually READ what they're saying and respond naturally to it!

WHEN THEY ACCEPT YOUR PRICE:
Get excited! Ask their name, then phone number.`, c.product.Name, currentPrice, messageCount+1)
}

// userContext frames the trailing turn: policy guidance when there is one,
// bulk framing for multi-unit asks, a neutral nudge otherwise.
func userContext(userMessage string, d pricing.Decision, currentPrice float64) string {
	switch {
	case d.BulkUnitPrice > 0:
		return fmt.Sprintf("Customer: %q\n\n%s", userMessage, d.Guidance)
	case d.Guidance != "":
		return fmt.Sprintf("Customer: %q\n\n%s\n\nIMPORTANT: Actually respond to what they said! If it's absurd, call it out. If it's serious, negotiate. Be natural and engaging.", userMessage, d.Guidance)
	default:
		return fmt.Sprintf("Customer: %q\n\nRespond naturally. Current asking price: %.0f GHS. Keep the conversation flowing.", userMessage, currentPrice)
	}
}
