package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chubflix/character-creator/internal/types"
)

type chatSessionModel struct {
	ID          string `gorm:"primaryKey"`
	CharacterID string `gorm:"index"`
	UserID      string `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (chatSessionModel) TableName() string {
	return "chat_sessions"
}

type chatMessageModel struct {
	ID          string `gorm:"primaryKey"`
	SessionID   string `gorm:"index"`
	CharacterID string `gorm:"index"`
	Role        string
	Content     string
	CreatedAt   time.Time
}

func (chatMessageModel) TableName() string {
	return "chat_messages"
}

// ChatRepo accesses chat sessions and messages.
type ChatRepo struct {
	db *gorm.DB
}

// NewChatRepo returns a ChatRepo.
func NewChatRepo(db *gorm.DB) *ChatRepo {
	return &ChatRepo{db: db}
}

// CreateSession inserts a new session for a character.
func (r *ChatRepo) CreateSession(ctx context.Context, characterID, userID string) (*types.ChatSession, error) {
	session := chatSessionModel{
		ID:          uuid.NewString(),
		CharacterID: characterID,
		UserID:      userID,
	}
	if err := r.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to insert chat session: %w", err)
	}
	return chatSessionFromModel(session), nil
}

// AddMessage appends a message to a session. Messages are never mutated
// or deleted afterwards.
func (r *ChatRepo) AddMessage(ctx context.Context, msg types.ChatMessage) (*types.ChatMessage, error) {
	record := chatMessageModel{
		ID:          uuid.NewString(),
		SessionID:   msg.SessionID,
		CharacterID: msg.CharacterID,
		Role:        msg.Role,
		Content:     msg.Content,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to insert chat message: %w", err)
	}
	return chatMessageFromModel(record), nil
}

// RecentMessages returns the most recent messages of a session, oldest
// first. The limit picks the newest rows before the order is flipped.
func (r *ChatRepo) RecentMessages(ctx context.Context, sessionID string, limit int) ([]types.ChatMessage, error) {
	var records []chatMessageModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query chat history: %w", err)
	}

	results := make([]types.ChatMessage, 0, len(records))
	for _, record := range records {
		results = append(results, *chatMessageFromModel(record))
	}

	// Oldest -> newest
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}

// TouchSession bumps a session's updated_at to now.
func (r *ChatRepo) TouchSession(ctx context.Context, sessionID string) error {
	err := r.db.WithContext(ctx).
		Model(&chatSessionModel{}).
		Where("id = ?", sessionID).
		Update("updated_at", time.Now()).Error
	if err != nil {
		return fmt.Errorf("failed to update session timestamp: %w", err)
	}
	return nil
}

// SessionHistory returns a character's messages ascending by time, scoped
// to the owning user through the session join. An empty sessionID spans
// all of the character's sessions.
func (r *ChatRepo) SessionHistory(ctx context.Context, userID, characterID, sessionID string) ([]types.ChatMessage, error) {
	query := r.db.WithContext(ctx).
		Joins("JOIN chat_sessions ON chat_sessions.id = chat_messages.session_id").
		Where("chat_messages.character_id = ? AND chat_sessions.user_id = ?", characterID, userID).
		Order("chat_messages.created_at ASC")
	if sessionID != "" {
		query = query.Where("chat_messages.session_id = ?", sessionID)
	}

	var records []chatMessageModel
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query session history: %w", err)
	}

	results := make([]types.ChatMessage, 0, len(records))
	for _, record := range records {
		results = append(results, *chatMessageFromModel(record))
	}
	return results, nil
}

func chatSessionFromModel(model chatSessionModel) *types.ChatSession {
	return &types.ChatSession{
		ID:          model.ID,
		CharacterID: model.CharacterID,
		UserID:      model.UserID,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func chatMessageFromModel(model chatMessageModel) *types.ChatMessage {
	return &types.ChatMessage{
		ID:          model.ID,
		SessionID:   model.SessionID,
		CharacterID: model.CharacterID,
		Role:        model.Role,
		Content:     model.Content,
		CreatedAt:   model.CreatedAt,
	}
}
