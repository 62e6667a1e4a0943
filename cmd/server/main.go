package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/chubflix/character-creator/internal/ai"
	"github.com/chubflix/character-creator/internal/api"
	"github.com/chubflix/character-creator/internal/auth"
	"github.com/chubflix/character-creator/internal/character"
	"github.com/chubflix/character-creator/internal/chat"
	"github.com/chubflix/character-creator/internal/config"
	"github.com/chubflix/character-creator/internal/embedding"
	"github.com/chubflix/character-creator/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := repository.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer store.Close()

	aiService := ai.NewService(cfg)
	verifier := auth.NewVerifier(cfg.JWTSecret)

	characterService := character.NewService(store.Characters)
	chatService := chat.NewService(store.Characters, store.Chats, aiService, cfg.HistoryLimit, cfg.Temperature, cfg.MaxTokens)
	embeddingService := embedding.NewService(store.Characters, store.Embeddings, aiService, cfg.MatchThreshold, cfg.MatchCount)

	handler := api.NewHandler(verifier, characterService, chatService, embeddingService)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.NewRouter(handler, cfg.RequestTimeout),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err.Error())
		}
	}()

	slog.Info("server listening", "addr", cfg.ListenAddr, "provider", string(cfg.Provider))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}
