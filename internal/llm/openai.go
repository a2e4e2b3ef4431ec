package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient talks to the OpenAI chat completions API (or any compatible
// endpoint via BaseURL).
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	jsonObject  bool
}

// NewOpenAI builds a provider from the shared config. When cfg.JSONObject is
// set the request constrains the response format, which the intent
// classifier relies on.
func NewOpenAI(cfg Config) *OpenAIClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	var temperature float32
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	var maxTokens int
	if cfg.MaxTokens != nil {
		maxTokens = *cfg.MaxTokens
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: temperature,
		maxTokens:   maxTokens,
		jsonObject:  cfg.JSONObject,
	}
}

// Generate sends one chat completion request. No retries; a single failure
// is the caller's cue to fall back.
func (c *OpenAIClient) Generate(ctx context.Context, messages []Message) (Response, error) {
	oaMsgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		oaMsgs = append(oaMsgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    oaMsgs,
		Temperature: c.temperature,
	}
	if c.maxTokens > 0 {
		req.MaxTokens = c.maxTokens
	}
	if c.jsonObject {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Response{}, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Response{}, fmt.Errorf("chat completion returned no choices")
	}

	return Response{Content: resp.Choices[0].Message.Content, Model: c.model}, nil
}
