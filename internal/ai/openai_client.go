package ai

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

type Config struct {
	APIKey string
	Model  string
	// BaseURL overrides the OpenAI endpoint (compatible servers, tests).
	BaseURL string
}

type OpenAIClient struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func NewOpenAIClient(cfg Config, logger *zap.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ai: OPENAI_API_KEY not set")
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(oc),
		model:  model,
		logger: logger,
	}, nil
}

func (c *OpenAIClient) GetReply(
	ctx context.Context,
	systemPrompt string,
	userText string,
) (string, error) {
	history := []Message{
		{Role: openai.ChatMessageRoleSystem, Text: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Text: userText},
	}

	msgs := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, m := range history {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Text,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: msgs,
	})
	if err != nil {
		c.logger.Warn("openai error", zap.Error(err))
		return "", errors.Wrap(err, "ai: chat completion")
	}

	if len(resp.Choices) == 0 {
		c.logger.Warn("openai returned no choices")
		return "", ErrEmptyReply
	}

	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	if raw == "" {
		return "", ErrEmptyReply
	}

	c.logger.Debug("openai reply",
		zap.String("model", resp.Model),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return raw, nil
}
