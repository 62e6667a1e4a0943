// Package ai wraps the OpenAI-compatible completion and embedding APIs
// behind a single client selected by configuration at process start.
package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/chubflix/character-creator/internal/config"
	"github.com/chubflix/character-creator/internal/types"
)

// Message is one role-tagged entry of a completion prompt.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Service is a stateless client for the configured provider. It is safe
// for concurrent use.
type Service struct {
	client         *openai.Client
	chatModel      string
	embeddingModel string
}

// NewService builds the client from the provider profile in cfg.
func NewService(cfg config.Config) *Service {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)

	return &Service{
		client:         &client,
		chatModel:      cfg.ChatModel,
		embeddingModel: cfg.EmbeddingModel,
	}
}

// GenerateCompletion runs a chat completion over the ordered messages and
// returns the generated text.
func (s *Service) GenerateCompletion(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       s.chatModel,
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(int64(maxTokens)),
	}
	for _, m := range messages {
		switch m.Role {
		case types.RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case types.RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}

	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		slog.Error("failed to call completion API", "model", s.chatModel, "error", err.Error())
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateEmbedding converts input text into its vector representation.
func (s *Service) GenerateEmbedding(ctx context.Context, input string) ([]float32, error) {
	resp, err := s.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: s.embeddingModel,
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(input),
		},
	})
	if err != nil {
		slog.Error("failed to call embedding API", "model", s.embeddingModel, "error", err.Error())
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if resp == nil || len(resp.Data) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}

	values := resp.Data[0].Embedding
	vector := make([]float32, len(values))
	for i, v := range values {
		vector[i] = float32(v)
	}
	return vector, nil
}
