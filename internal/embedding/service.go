// Package embedding indexes character content and serves similarity
// search over the stored vectors.
package embedding

import (
	"context"
	"fmt"

	"github.com/chubflix/character-creator/internal/types"
)

// CharacterRepo resolves owned characters for the ownership check.
type CharacterRepo interface {
	GetOwned(ctx context.Context, id, userID string) (*types.Character, error)
}

// Repo is the persistence surface for embeddings.
type Repo interface {
	Add(ctx context.Context, characterID, content string, embedding []float32) (*types.CharacterEmbedding, error)
	SearchSimilar(ctx context.Context, characterID string, embedding []float32, threshold float64, count int) ([]types.SimilarityMatch, error)
}

// Embedder converts text into its vector representation.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, input string) ([]float32, error)
}

// Service is the embedding indexer.
type Service struct {
	characters     CharacterRepo
	embeddings     Repo
	embedder       Embedder
	matchThreshold float64
	matchCount     int
}

// NewService returns an embedding Service.
func NewService(characters CharacterRepo, embeddings Repo, embedder Embedder, matchThreshold float64, matchCount int) *Service {
	if matchThreshold <= 0 {
		matchThreshold = 0.7
	}
	if matchCount <= 0 {
		matchCount = 5
	}
	return &Service{
		characters:     characters,
		embeddings:     embeddings,
		embedder:       embedder,
		matchThreshold: matchThreshold,
		matchCount:     matchCount,
	}
}

// IndexContent embeds a content snippet and stores it for the character.
func (s *Service) IndexContent(ctx context.Context, userID, characterID, content string) (*types.CharacterEmbedding, error) {
	if _, err := s.characters.GetOwned(ctx, characterID, userID); err != nil {
		return nil, err
	}

	vector, err := s.embedder.GenerateEmbedding(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("failed to embed content: %w", err)
	}

	return s.embeddings.Add(ctx, characterID, content, vector)
}

// Search embeds the query and ranks the character's stored content by
// similarity. Threshold and result cap are fixed at construction and
// never vary with input.
func (s *Service) Search(ctx context.Context, userID, characterID, query string) ([]types.SimilarityMatch, error) {
	if _, err := s.characters.GetOwned(ctx, characterID, userID); err != nil {
		return nil, err
	}

	vector, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	return s.embeddings.SearchSimilar(ctx, characterID, vector, s.matchThreshold, s.matchCount)
}
