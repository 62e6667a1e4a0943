package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/chubflix/character-creator/internal/types"
)

type characterEmbeddingModel struct {
	ID          string `gorm:"primaryKey"`
	CharacterID string `gorm:"index"`
	Content     string
	Embedding   *pgvector.Vector `gorm:"type:vector"`
	CreatedAt   time.Time
}

func (characterEmbeddingModel) TableName() string {
	return "character_embeddings"
}

// EmbeddingRepo accesses character embeddings.
type EmbeddingRepo struct {
	db *gorm.DB
}

// NewEmbeddingRepo returns an EmbeddingRepo.
func NewEmbeddingRepo(db *gorm.DB) *EmbeddingRepo {
	return &EmbeddingRepo{db: db}
}

// Add stores a content snippet with its vector for a character.
func (r *EmbeddingRepo) Add(ctx context.Context, characterID, content string, embedding []float32) (*types.CharacterEmbedding, error) {
	var vector *pgvector.Vector
	if len(embedding) > 0 {
		v := pgvector.NewVector(embedding)
		vector = &v
	}
	record := characterEmbeddingModel{
		ID:          uuid.NewString(),
		CharacterID: characterID,
		Content:     content,
		Embedding:   vector,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to insert embedding: %w", err)
	}
	return &types.CharacterEmbedding{
		ID:          record.ID,
		CharacterID: record.CharacterID,
		Content:     record.Content,
		Embedding:   embedding,
		CreatedAt:   record.CreatedAt,
	}, nil
}

// SearchSimilar ranks a character's stored embeddings by cosine
// similarity against the query vector.
func (r *EmbeddingRepo) SearchSimilar(ctx context.Context, characterID string, embedding []float32, threshold float64, count int) ([]types.SimilarityMatch, error) {
	if len(embedding) == 0 {
		return nil, nil
	}

	query := `
		SELECT content, 1 - (embedding <=> $1) AS similarity
		FROM character_embeddings
		WHERE character_id = $2
		  AND embedding IS NOT NULL
		  AND 1 - (embedding <=> $1) > $3
		ORDER BY similarity DESC
		LIMIT $4`

	vector := pgvector.NewVector(embedding)
	var results []types.SimilarityMatch
	if err := r.db.WithContext(ctx).
		Raw(query, vector, characterID, threshold, count).
		Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to search embeddings: %w", err)
	}
	return results, nil
}
