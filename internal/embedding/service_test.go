package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/chubflix/character-creator/internal/apperror"
	"github.com/chubflix/character-creator/internal/types"
)

type mockCharacterRepo struct {
	err   error
	calls int
}

func (m *mockCharacterRepo) GetOwned(_ context.Context, id, userID string) (*types.Character, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &types.Character{ID: id, UserID: userID, Name: "Aria"}, nil
}

type addCall struct {
	characterID string
	content     string
	embedding   []float32
}

type searchCall struct {
	characterID string
	threshold   float64
	count       int
}

type mockEmbeddingRepo struct {
	added        []addCall
	searchCalls  []searchCall
	searchResult []types.SimilarityMatch
}

func (m *mockEmbeddingRepo) Add(_ context.Context, characterID, content string, embedding []float32) (*types.CharacterEmbedding, error) {
	m.added = append(m.added, addCall{characterID: characterID, content: content, embedding: embedding})
	return &types.CharacterEmbedding{ID: "emb-1", CharacterID: characterID, Content: content, Embedding: embedding}, nil
}

func (m *mockEmbeddingRepo) SearchSimilar(_ context.Context, characterID string, _ []float32, threshold float64, count int) ([]types.SimilarityMatch, error) {
	m.searchCalls = append(m.searchCalls, searchCall{characterID: characterID, threshold: threshold, count: count})
	return m.searchResult, nil
}

type mockEmbedder struct {
	vector []float32
	err    error
	inputs []string
}

func (m *mockEmbedder) GenerateEmbedding(_ context.Context, input string) ([]float32, error) {
	m.inputs = append(m.inputs, input)
	if m.err != nil {
		return nil, m.err
	}
	return m.vector, nil
}

func TestIndexContentStoresVector(t *testing.T) {
	repo := &mockEmbeddingRepo{}
	embedder := &mockEmbedder{vector: []float32{0.1, 0.2, 0.3}}
	svc := NewService(&mockCharacterRepo{}, repo, embedder, 0.7, 5)

	stored, err := svc.IndexContent(context.Background(), "user-1", "char-1", "She loves the sea.")
	if err != nil {
		t.Fatalf("IndexContent returned error: %v", err)
	}
	if stored == nil || stored.CharacterID != "char-1" {
		t.Fatalf("unexpected stored embedding: %+v", stored)
	}
	if len(repo.added) != 1 {
		t.Fatalf("expected one insert, got %d", len(repo.added))
	}
	if repo.added[0].content != "She loves the sea." || len(repo.added[0].embedding) != 3 {
		t.Fatalf("unexpected insert: %+v", repo.added[0])
	}
	if len(embedder.inputs) != 1 || embedder.inputs[0] != "She loves the sea." {
		t.Fatalf("embedder must receive the raw content, got %v", embedder.inputs)
	}
}

func TestIndexContentUnownedCharacter(t *testing.T) {
	repo := &mockEmbeddingRepo{}
	embedder := &mockEmbedder{vector: []float32{0.1}}
	svc := NewService(&mockCharacterRepo{err: apperror.ErrNotFound}, repo, embedder, 0.7, 5)

	_, err := svc.IndexContent(context.Background(), "user-b", "char-1", "text")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(embedder.inputs) != 0 || len(repo.added) != 0 {
		t.Fatal("nothing may be embedded or stored for a foreign character")
	}
}

func TestSearchUsesFixedParameters(t *testing.T) {
	repo := &mockEmbeddingRepo{
		searchResult: []types.SimilarityMatch{{Content: "the sea", Similarity: 0.92}},
	}
	embedder := &mockEmbedder{vector: []float32{0.4, 0.6}}
	svc := NewService(&mockCharacterRepo{}, repo, embedder, 0.7, 5)

	for _, query := range []string{"sea", "a much longer query about sailing and storms"} {
		results, err := svc.Search(context.Background(), "user-1", "char-1", query)
		if err != nil {
			t.Fatalf("Search returned error: %v", err)
		}
		if len(results) != 1 || results[0].Content != "the sea" {
			t.Fatalf("unexpected results: %+v", results)
		}
	}

	if len(repo.searchCalls) != 2 {
		t.Fatalf("expected two ranking requests, got %d", len(repo.searchCalls))
	}
	for _, call := range repo.searchCalls {
		if call.threshold != 0.7 || call.count != 5 {
			t.Fatalf("ranking parameters must stay at 0.7/5, got %+v", call)
		}
		if call.characterID != "char-1" {
			t.Fatalf("search must filter on the character, got %q", call.characterID)
		}
	}
}

func TestNewServiceDefaults(t *testing.T) {
	svc := NewService(&mockCharacterRepo{}, &mockEmbeddingRepo{}, &mockEmbedder{}, 0, 0)
	if svc.matchThreshold != 0.7 || svc.matchCount != 5 {
		t.Fatalf("expected defaults 0.7/5, got %v/%v", svc.matchThreshold, svc.matchCount)
	}
}
