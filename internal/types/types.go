package types

import "time"

// Message roles as stored in chat_messages.role.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Character is a user-owned role-play persona record. All child rows
// (sessions, messages, embeddings) hang off of it.
type Character struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Personality []string       `json:"personality"`
	Background  string         `json:"background"`
	Traits      map[string]any `json:"traits"`
	FirstMes    string         `json:"first_mes"`
	MesExample  string         `json:"mes_example"`
	Scenario    string         `json:"scenario"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// CharacterSummary is the trimmed projection returned by characters/list
// over MCP.
type CharacterSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ChatSession is a conversation thread scoped to one character and one owner.
type ChatSession struct {
	ID          string    `json:"id"`
	CharacterID string    `json:"character_id"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ChatMessage is one turn in a session. Messages are append-only and
// ordered by created_at ascending.
type ChatMessage struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	CharacterID string    `json:"character_id"`
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// CharacterEmbedding stores a vectorized snippet of character content,
// independent of any session.
type CharacterEmbedding struct {
	ID          string    `json:"id"`
	CharacterID string    `json:"character_id"`
	Content     string    `json:"content"`
	Embedding   []float32 `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// SimilarityMatch is one ranked result from embedding search.
type SimilarityMatch struct {
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
}
