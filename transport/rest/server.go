package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Start runs the outward read/write HTTP interface until the context is
// canceled.
func Start(ctx context.Context, logger *slog.Logger, port string, handlers *Handlers) error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", pingHandler)

	mux.HandleFunc("POST /games", handlers.CreateGame)
	mux.HandleFunc("POST /games/{id}/join", handlers.JoinGame)
	mux.HandleFunc("POST /games/{id}/moves", handlers.MakeMove)

	mux.HandleFunc("GET /games/open", handlers.ListOpenGames)
	mux.HandleFunc("GET /games/{id}", handlers.GetGame)
	mux.HandleFunc("GET /games/{id}/board", handlers.GetBoard)

	mux.HandleFunc("GET /players/{address}/games", handlers.ListPlayerGames)
	mux.HandleFunc("GET /players/{address}/stats", handlers.PlayerStats)
	mux.HandleFunc("GET /players/{address}/trophies", handlers.ListPlayerTrophies)

	mux.HandleFunc("GET /trophies/{id}", handlers.GetTrophy)
	mux.HandleFunc("GET /trophies/{id}/metadata", handlers.TrophyMetadata)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}
