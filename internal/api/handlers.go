package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chubflix/character-creator/internal/apperror"
	"github.com/chubflix/character-creator/internal/auth"
	"github.com/chubflix/character-creator/internal/character"
	"github.com/chubflix/character-creator/internal/types"
)

// CharacterService is the lifecycle surface the handlers call.
type CharacterService interface {
	Create(ctx context.Context, in character.CreateInput) (*types.Character, *types.ChatSession, error)
	List(ctx context.Context, userID string) ([]types.Character, error)
	Get(ctx context.Context, userID, characterID string) (*types.Character, error)
	Export(ctx context.Context, userID, characterID string) (*types.CharacterCard, error)
}

// ChatService sends messages and reads history.
type ChatService interface {
	SendMessage(ctx context.Context, userID, characterID, sessionID, content string) (string, error)
	History(ctx context.Context, userID, characterID, sessionID string) ([]types.ChatMessage, error)
}

// EmbeddingService indexes and searches character content.
type EmbeddingService interface {
	IndexContent(ctx context.Context, userID, characterID, content string) (*types.CharacterEmbedding, error)
	Search(ctx context.Context, userID, characterID, query string) ([]types.SimilarityMatch, error)
}

// Handler bundles the route handlers and their dependencies.
type Handler struct {
	verifier   *auth.Verifier
	characters CharacterService
	chats      ChatService
	embeddings EmbeddingService
}

// NewHandler returns a Handler.
func NewHandler(verifier *auth.Verifier, characters CharacterService, chats ChatService, embeddings EmbeddingService) *Handler {
	return &Handler{
		verifier:   verifier,
		characters: characters,
		chats:      chats,
		embeddings: embeddings,
	}
}

type contextKey string

const userIDKey contextKey = "userID"

// AuthMiddleware verifies the bearer token and stores the authenticated
// user id on the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := h.verifier.VerifyHeader(r.Header.Get("Authorization"))
		if err != nil {
			respondError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func authenticatedUser(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}

// ListCharactersHandler returns the user's characters, newest first.
func (h *Handler) ListCharactersHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, apperror.Validation("User ID is required"))
		return
	}
	if err := auth.VerifyAccess(authenticatedUser(r), userID); err != nil {
		respondError(w, err)
		return
	}

	characters, err := h.characters.List(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"characters": characters})
}

type createCharacterRequest struct {
	UserID      string         `json:"userId"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Personality []string       `json:"personality"`
	Background  string         `json:"background"`
	Traits      map[string]any `json:"traits"`
}

// CreateCharacterHandler creates a character and its initial session.
func (h *Handler) CreateCharacterHandler(w http.ResponseWriter, r *http.Request) {
	var req createCharacterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperror.Validation("invalid request body"))
		return
	}
	if req.UserID == "" || req.Name == "" {
		respondError(w, apperror.Validation("User ID and name are required"))
		return
	}
	if err := auth.VerifyAccess(authenticatedUser(r), req.UserID); err != nil {
		respondError(w, err)
		return
	}

	newCharacter, session, err := h.characters.Create(r.Context(), character.CreateInput{
		UserID:      req.UserID,
		Name:        req.Name,
		Description: req.Description,
		Personality: req.Personality,
		Background:  req.Background,
		Traits:      req.Traits,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"character": newCharacter, "session": session})
}

// ExportCharacterHandler returns the TavernAI/ChubAI card with a download
// disposition header.
func (h *Handler) ExportCharacterHandler(w http.ResponseWriter, r *http.Request) {
	characterID := chi.URLParam(r, "id")
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, apperror.Validation("User ID is required"))
		return
	}
	if err := auth.VerifyAccess(authenticatedUser(r), userID); err != nil {
		respondError(w, err)
		return
	}

	card, err := h.characters.Export(r.Context(), userID, characterID)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", character.ExportFilename(card.Name)))
	respondJSON(w, http.StatusOK, card)
}

type sendMessageRequest struct {
	SessionID   string `json:"sessionId"`
	CharacterID string `json:"characterId"`
	Message     string `json:"message"`
	UserID      string `json:"userId"`
}

// SendMessageHandler runs one chat exchange and returns the reply.
func (h *Handler) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperror.Validation("invalid request body"))
		return
	}
	if req.SessionID == "" || req.CharacterID == "" || req.Message == "" || req.UserID == "" {
		respondError(w, apperror.Validation("Missing required fields"))
		return
	}
	if err := auth.VerifyAccess(authenticatedUser(r), req.UserID); err != nil {
		respondError(w, err)
		return
	}

	reply, err := h.chats.SendMessage(r.Context(), req.UserID, req.CharacterID, req.SessionID, req.Message)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"response": reply})
}

type createEmbeddingRequest struct {
	CharacterID string `json:"characterId"`
	Content     string `json:"content"`
	UserID      string `json:"userId"`
}

// CreateEmbeddingHandler embeds and stores a content snippet.
func (h *Handler) CreateEmbeddingHandler(w http.ResponseWriter, r *http.Request) {
	var req createEmbeddingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperror.Validation("invalid request body"))
		return
	}
	if req.CharacterID == "" || req.Content == "" || req.UserID == "" {
		respondError(w, apperror.Validation("Missing required fields"))
		return
	}
	if err := auth.VerifyAccess(authenticatedUser(r), req.UserID); err != nil {
		respondError(w, err)
		return
	}

	stored, err := h.embeddings.IndexContent(r.Context(), req.UserID, req.CharacterID, req.Content)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"embedding": stored})
}

// SearchEmbeddingsHandler ranks stored content against a query string.
func (h *Handler) SearchEmbeddingsHandler(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	characterID := params.Get("characterId")
	query := params.Get("query")
	userID := params.Get("userId")
	if characterID == "" || query == "" || userID == "" {
		respondError(w, apperror.Validation("Missing required parameters"))
		return
	}
	if err := auth.VerifyAccess(authenticatedUser(r), userID); err != nil {
		respondError(w, err)
		return
	}

	results, err := h.embeddings.Search(r.Context(), userID, characterID, query)
	if err != nil {
		respondError(w, err)
		return
	}
	if results == nil {
		results = []types.SimilarityMatch{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"results": results})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err.Error())
	}
}

// respondError maps an error onto the HTTP taxonomy. Downstream failures
// are logged and surfaced as a generic message.
func respondError(w http.ResponseWriter, err error) {
	status := apperror.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err.Error())
		msg = "Internal server error"
	}
	respondJSON(w, status, map[string]string{"error": msg})
}
