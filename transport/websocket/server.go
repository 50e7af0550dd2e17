// Package websocket pushes ledger events to external observers. The feed is
// strictly one-way: clients subscribe and receive one JSON frame per event,
// and nothing a client sends influences the ledger.
package websocket

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/event"
)

const writeTimeout = 10 * time.Second

type eventSource interface {
	Subscribe() (<-chan event.Event, func())
}

type Server struct {
	logger *slog.Logger
	source eventSource

	upgrader websocket.Upgrader
}

func New(logger *slog.Logger, source eventSource) *Server {
	return &Server{
		logger: logger,
		source: source,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
	}
}

// Start runs the event feed server until the context is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		that.serveFeed(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down event feed server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveFeed(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveFeed")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	events, cancel := that.source.Subscribe()
	defer cancel()

	log.Info("observer connected", "remote", conn.RemoteAddr().String())

	// Drain incoming frames so pings and close frames are processed.
	go func() {
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				cancel()
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}

			if err = conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				log.Error("failed to set write deadline", "error", err)
				return
			}

			if err = conn.WriteJSON(evt); err != nil {
				log.Error("failed to write event", "error", err)
				return
			}
		}
	}
}
