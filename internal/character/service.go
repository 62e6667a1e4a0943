// Package character implements the character lifecycle: creation with an
// initial chat session, listing, reads, and export to the card format.
package character

import (
	"context"
	"regexp"
	"strings"

	"github.com/chubflix/character-creator/internal/apperror"
	"github.com/chubflix/character-creator/internal/types"
)

// Repo is the persistence surface the lifecycle needs.
type Repo interface {
	CreateWithSession(ctx context.Context, c *types.Character) (*types.Character, *types.ChatSession, error)
	ListByUser(ctx context.Context, userID string) ([]types.Character, error)
	GetOwned(ctx context.Context, id, userID string) (*types.Character, error)
}

// Service manages character records.
type Service struct {
	characters Repo
}

// NewService returns a Service.
func NewService(characters Repo) *Service {
	return &Service{characters: characters}
}

// CreateInput carries the caller-supplied character fields. first_mes,
// mes_example, and scenario are derived, never caller-set.
type CreateInput struct {
	UserID      string
	Name        string
	Description string
	Personality []string
	Background  string
	Traits      map[string]any
}

// Create inserts a character together with its initial chat session.
func (s *Service) Create(ctx context.Context, in CreateInput) (*types.Character, *types.ChatSession, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, nil, apperror.Validation("name is required")
	}

	personality := in.Personality
	if personality == nil {
		personality = []string{}
	}
	traits := in.Traits
	if traits == nil {
		traits = map[string]any{}
	}

	c := &types.Character{
		UserID:      in.UserID,
		Name:        in.Name,
		Description: in.Description,
		Personality: personality,
		Background:  in.Background,
		Traits:      traits,
		FirstMes:    "",
		MesExample:  "",
		Scenario:    "",
	}
	return s.characters.CreateWithSession(ctx, c)
}

// List returns the user's characters, most recently created first. A user
// with no characters gets an empty list, not an error.
func (s *Service) List(ctx context.Context, userID string) ([]types.Character, error) {
	return s.characters.ListByUser(ctx, userID)
}

// Get fetches one owned character.
func (s *Service) Get(ctx context.Context, userID, characterID string) (*types.Character, error) {
	return s.characters.GetOwned(ctx, characterID, userID)
}

// Export builds the TavernAI/ChubAI card for an owned character.
func (s *Service) Export(ctx context.Context, userID, characterID string) (*types.CharacterCard, error) {
	c, err := s.characters.GetOwned(ctx, characterID, userID)
	if err != nil {
		return nil, err
	}
	return types.NewCharacterCard(c), nil
}

var filenameUnsafe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// ExportFilename returns the sanitized download filename for a card.
func ExportFilename(name string) string {
	return strings.ToLower(filenameUnsafe.ReplaceAllString(name, "_")) + ".json"
}
