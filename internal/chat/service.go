// Package chat orchestrates a message exchange: it persists the user
// turn, assembles a bounded context window, calls the completion
// provider, and records the reply.
package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chubflix/character-creator/internal/ai"
	"github.com/chubflix/character-creator/internal/prompt"
	"github.com/chubflix/character-creator/internal/types"
)

// CharacterRepo resolves owned characters. The ownership check doubles as
// the authorization check for the chat operation.
type CharacterRepo interface {
	GetOwned(ctx context.Context, id, userID string) (*types.Character, error)
}

// MessageRepo is the persistence surface for sessions and messages.
type MessageRepo interface {
	AddMessage(ctx context.Context, msg types.ChatMessage) (*types.ChatMessage, error)
	RecentMessages(ctx context.Context, sessionID string, limit int) ([]types.ChatMessage, error)
	TouchSession(ctx context.Context, sessionID string) error
	SessionHistory(ctx context.Context, userID, characterID, sessionID string) ([]types.ChatMessage, error)
}

// CompletionProvider generates text from an ordered prompt.
type CompletionProvider interface {
	GenerateCompletion(ctx context.Context, messages []ai.Message, temperature float64, maxTokens int) (string, error)
}

// Service is the chat orchestrator.
type Service struct {
	characters   CharacterRepo
	messages     MessageRepo
	provider     CompletionProvider
	historyLimit int
	temperature  float64
	maxTokens    int
}

// NewService returns a chat Service.
func NewService(characters CharacterRepo, messages MessageRepo, provider CompletionProvider, historyLimit int, temperature float64, maxTokens int) *Service {
	if historyLimit <= 0 {
		historyLimit = 20
	}
	if temperature <= 0 {
		temperature = 0.7
	}
	if maxTokens <= 0 {
		maxTokens = 1000
	}
	return &Service{
		characters:   characters,
		messages:     messages,
		provider:     provider,
		historyLimit: historyLimit,
		temperature:  temperature,
		maxTokens:    maxTokens,
	}
}

// SendMessage appends the user turn, generates a reply, and records it.
// Concurrent calls on one session may interleave; message ordering under
// that race is not a serial contract.
func (s *Service) SendMessage(ctx context.Context, userID, characterID, sessionID, content string) (string, error) {
	character, err := s.characters.GetOwned(ctx, characterID, userID)
	if err != nil {
		return "", err
	}

	history, err := s.messages.RecentMessages(ctx, sessionID, s.historyLimit)
	if err != nil {
		return "", fmt.Errorf("failed to load chat history: %w", err)
	}

	// The user turn is persisted before the provider is called so a
	// failed write never produces an unrecorded completion.
	userMsg := types.ChatMessage{
		SessionID:   sessionID,
		CharacterID: characterID,
		Role:        types.RoleUser,
		Content:     content,
	}
	if _, err := s.messages.AddMessage(ctx, userMsg); err != nil {
		return "", fmt.Errorf("failed to store user message: %w", err)
	}

	system, err := prompt.BuildSystemPrompt(character)
	if err != nil {
		return "", err
	}

	messages := make([]ai.Message, 0, len(history)+2)
	messages = append(messages, ai.Message{Role: types.RoleSystem, Content: system})
	for _, m := range history {
		messages = append(messages, ai.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, ai.Message{Role: types.RoleUser, Content: content})

	reply, err := s.provider.GenerateCompletion(ctx, messages, s.temperature, s.maxTokens)
	if err != nil {
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}

	assistantMsg := types.ChatMessage{
		SessionID:   sessionID,
		CharacterID: characterID,
		Role:        types.RoleAssistant,
		Content:     reply,
	}
	if _, err := s.messages.AddMessage(ctx, assistantMsg); err != nil {
		return "", fmt.Errorf("failed to store assistant message: %w", err)
	}

	// Session recency is best effort once the reply is persisted.
	if err := s.messages.TouchSession(ctx, sessionID); err != nil {
		slog.Error("failed to update session timestamp", "session_id", sessionID, "error", err.Error())
	}

	return reply, nil
}

// History returns a character's messages ascending by time, optionally
// narrowed to one session. The owner scope travels through the session
// join.
func (s *Service) History(ctx context.Context, userID, characterID, sessionID string) ([]types.ChatMessage, error) {
	return s.messages.SessionHistory(ctx, userID, characterID, sessionID)
}
