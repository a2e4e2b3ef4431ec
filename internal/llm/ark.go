package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ArkClient adapts a Volcengine Ark chat model to the Client port.
type ArkClient struct {
	chatModel model.ChatModel
	model     string
}

// NewArk builds a provider from the shared config. Requires either an API
// key or an AK/SK pair.
func NewArk(ctx context.Context, cfg Config) (*ArkClient, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: provide API key + model, or AK/SK pair")
	}

	chatModel, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:     cfg.BaseURL,
		Region:      cfg.Region,
		APIKey:      cfg.APIKey,
		AccessKey:   cfg.AccessKey,
		SecretKey:   cfg.SecretKey,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ark chat model: %w", err)
	}

	return &ArkClient{chatModel: chatModel, model: cfg.Model}, nil
}

// Generate converts port messages into eino schema messages and invokes the
// model once.
func (c *ArkClient) Generate(ctx context.Context, messages []Message) (Response, error) {
	converted := make([]*schema.Message, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			converted = append(converted, schema.SystemMessage(m.Content))
		case RoleAssistant:
			converted = append(converted, schema.AssistantMessage(m.Content, nil))
		default:
			converted = append(converted, schema.UserMessage(m.Content))
		}
	}

	out, err := c.chatModel.Generate(ctx, converted)
	if err != nil {
		return Response{}, fmt.Errorf("ark generate: %w", err)
	}

	return Response{Content: out.Content, Model: c.model}, nil
}
