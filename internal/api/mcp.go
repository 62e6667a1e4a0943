package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chubflix/character-creator/internal/types"
)

// JSON-RPC 2.0 error codes used by the MCP endpoint.
const (
	mcpCodeAuthRequired   = -32001
	mcpCodeInvalidRequest = -32600
	mcpCodeInternal       = -32603
	mcpCodeParseError     = -32700
)

type mcpRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type mcpError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type mcpResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *mcpError `json:"error,omitempty"`
}

type mcpCharacterParams struct {
	CharacterID string `json:"characterId"`
	SessionID   string `json:"sessionId,omitempty"`
}

// MCPHandler serves the JSON-RPC 2.0 MCP endpoint. It carries its own
// auth handling because failures must be JSON-RPC error envelopes rather
// than the plain REST error body.
func (h *Handler) MCPHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := h.verifier.VerifyHeader(r.Header.Get("Authorization"))
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, mcpResponse{
			JSONRPC: "2.0",
			Error:   &mcpError{Code: mcpCodeAuthRequired, Message: "Authentication required"},
		})
		return
	}

	var req mcpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusInternalServerError, mcpResponse{
			JSONRPC: "2.0",
			Error:   &mcpError{Code: mcpCodeParseError, Message: "Parse error"},
		})
		return
	}

	if req.JSONRPC != "2.0" || req.Method == "" {
		respondJSON(w, http.StatusOK, mcpResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &mcpError{Code: mcpCodeInvalidRequest, Message: "Invalid Request"},
		})
		return
	}

	result, err := h.dispatchMCP(r, userID, req)
	if err != nil {
		respondJSON(w, http.StatusOK, mcpResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &mcpError{Code: mcpCodeInternal, Message: err.Error()},
		})
		return
	}
	respondJSON(w, http.StatusOK, mcpResponse{JSONRPC: "2.0", ID: req.ID, Result: result})
}

func (h *Handler) dispatchMCP(r *http.Request, userID string, req mcpRequest) (any, error) {
	ctx := r.Context()

	switch req.Method {
	case "characters/list":
		characters, err := h.characters.List(ctx, userID)
		if err != nil {
			return nil, err
		}
		summaries := make([]types.CharacterSummary, 0, len(characters))
		for _, c := range characters {
			summaries = append(summaries, types.CharacterSummary{
				ID:          c.ID,
				Name:        c.Name,
				Description: c.Description,
				CreatedAt:   c.CreatedAt,
				UpdatedAt:   c.UpdatedAt,
			})
		}
		return map[string]any{"characters": summaries}, nil

	case "characters/get":
		params, err := decodeMCPCharacterParams(req.Params)
		if err != nil {
			return nil, err
		}
		c, err := h.characters.Get(ctx, userID, params.CharacterID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"character": c}, nil

	case "characters/export":
		params, err := decodeMCPCharacterParams(req.Params)
		if err != nil {
			return nil, err
		}
		card, err := h.characters.Export(ctx, userID, params.CharacterID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"export": card}, nil

	case "chat/history":
		params, err := decodeMCPCharacterParams(req.Params)
		if err != nil {
			return nil, err
		}
		messages, err := h.chats.History(ctx, userID, params.CharacterID, params.SessionID)
		if err != nil {
			return nil, err
		}
		if messages == nil {
			messages = []types.ChatMessage{}
		}
		return map[string]any{"messages": messages}, nil

	default:
		return nil, errors.New("Unknown method: " + req.Method)
	}
}

func decodeMCPCharacterParams(raw json.RawMessage) (mcpCharacterParams, error) {
	var params mcpCharacterParams
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &params); err != nil {
			return params, errors.New("invalid params")
		}
	}
	if params.CharacterID == "" {
		return params, errors.New("characterId parameter is required")
	}
	return params, nil
}

// MCPInfoHandler describes the MCP server for discovery.
func (h *Handler) MCPInfoHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"name":        "Chubflix Character Creator MCP Server",
		"version":     "1.0.0",
		"description": "MCP server for accessing character sheets and chat history",
		"methods": []string{
			"characters/list",
			"characters/get",
			"characters/export",
			"chat/history",
		},
		"authentication": "Bearer token",
	})
}
