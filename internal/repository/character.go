package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chubflix/character-creator/internal/apperror"
	"github.com/chubflix/character-creator/internal/types"
)

// characterModel maps to the characters table. Personality and traits are
// stored as JSONB.
type characterModel struct {
	ID          string `gorm:"primaryKey"`
	UserID      string `gorm:"index"`
	Name        string
	Description string
	Personality json.RawMessage `gorm:"type:jsonb"`
	Background  string
	Traits      json.RawMessage `gorm:"type:jsonb"`
	FirstMes    string
	MesExample  string
	Scenario    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (characterModel) TableName() string {
	return "characters"
}

// CharacterRepo accesses characters data.
type CharacterRepo struct {
	db *gorm.DB
}

// NewCharacterRepo returns a CharacterRepo.
func NewCharacterRepo(db *gorm.DB) *CharacterRepo {
	return &CharacterRepo{db: db}
}

// CreateWithSession inserts a character and its initial chat session in a
// single transaction so the character can never exist without a session.
func (r *CharacterRepo) CreateWithSession(ctx context.Context, c *types.Character) (*types.Character, *types.ChatSession, error) {
	model, err := characterToModel(c)
	if err != nil {
		return nil, nil, err
	}
	model.ID = uuid.NewString()

	session := chatSessionModel{
		ID:          uuid.NewString(),
		CharacterID: model.ID,
		UserID:      c.UserID,
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model).Error; err != nil {
			return fmt.Errorf("failed to insert character: %w", err)
		}
		if err := tx.Create(&session).Error; err != nil {
			return fmt.Errorf("failed to insert initial chat session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	created, err := characterFromModel(model)
	if err != nil {
		return nil, nil, err
	}
	return created, chatSessionFromModel(session), nil
}

// ListByUser returns the user's characters, most recently created first.
func (r *CharacterRepo) ListByUser(ctx context.Context, userID string) ([]types.Character, error) {
	var models []characterModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}

	results := make([]types.Character, 0, len(models))
	for _, model := range models {
		c, err := characterFromModel(model)
		if err != nil {
			return nil, err
		}
		results = append(results, *c)
	}
	return results, nil
}

// GetOwned fetches a character by id scoped to its owner. A row owned by
// another user is reported as not found.
func (r *CharacterRepo) GetOwned(ctx context.Context, id, userID string) (*types.Character, error) {
	var model characterModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get character: %w", err)
	}
	return characterFromModel(model)
}

func characterToModel(c *types.Character) (characterModel, error) {
	personality := c.Personality
	if personality == nil {
		personality = []string{}
	}
	traits := c.Traits
	if traits == nil {
		traits = map[string]any{}
	}

	personalityRaw, err := marshalJSON(personality)
	if err != nil {
		return characterModel{}, fmt.Errorf("failed to encode personality: %w", err)
	}
	traitsRaw, err := marshalJSON(traits)
	if err != nil {
		return characterModel{}, fmt.Errorf("failed to encode traits: %w", err)
	}

	return characterModel{
		ID:          c.ID,
		UserID:      c.UserID,
		Name:        c.Name,
		Description: c.Description,
		Personality: personalityRaw,
		Background:  c.Background,
		Traits:      traitsRaw,
		FirstMes:    c.FirstMes,
		MesExample:  c.MesExample,
		Scenario:    c.Scenario,
	}, nil
}

func characterFromModel(model characterModel) (*types.Character, error) {
	personality := []string{}
	if err := unmarshalJSON(model.Personality, &personality); err != nil {
		return nil, fmt.Errorf("failed to decode personality: %w", err)
	}
	traits := map[string]any{}
	if err := unmarshalJSON(model.Traits, &traits); err != nil {
		return nil, fmt.Errorf("failed to decode traits: %w", err)
	}

	return &types.Character{
		ID:          model.ID,
		UserID:      model.UserID,
		Name:        model.Name,
		Description: model.Description,
		Personality: personality,
		Background:  model.Background,
		Traits:      traits,
		FirstMes:    model.FirstMes,
		MesExample:  model.MesExample,
		Scenario:    model.Scenario,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}, nil
}
