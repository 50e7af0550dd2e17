package rest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/event"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/repository"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/usecase"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	engine := usecase.NewLedgerEngine(
		logger,
		repository.NewMemoryGameRepository(),
		repository.NewMemoryPlayerRepository(),
		repository.NewMemoryTrophyRepository(),
		repository.NewMemoryArchiveRepository(),
		event.NewBus(),
	)

	handlers := NewHandlers(logger, engine)

	mux := http.NewServeMux()
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

	return mux
}

func doRequest(t *testing.T, mux *http.ServeMux, method, target, caller, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if caller != "" {
		req.Header.Set(callerHeader, caller)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	return rec
}

func TestHandlers_CreateGame(t *testing.T) {
	t.Run("Creates a game for the calling address", func(t *testing.T) {
		mux := newTestMux(t)

		rec := doRequest(t, mux, http.MethodPost, "/games", "hive:alice", "")

		require.Equal(t, http.StatusCreated, rec.Code)

		var game entity.Game
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &game))
		assert.Equal(t, uint64(0), game.ID)
		assert.Equal(t, "hive:alice", game.Player1)
		assert.Equal(t, entity.StateWaiting, game.State)
	})

	t.Run("Rejects a request without a caller identity", func(t *testing.T) {
		mux := newTestMux(t)

		rec := doRequest(t, mux, http.MethodPost, "/games", "", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandlers_FullGameFlow(t *testing.T) {
	mux := newTestMux(t)

	// Given: alice creates a game and bob joins it
	rec := doRequest(t, mux, http.MethodPost, "/games", "hive:alice", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, mux, http.MethodPost, "/games/0/join", "hive:bob", "")
	require.Equal(t, http.StatusOK, rec.Code)

	// When: they alternate until alice takes the top row
	moves := []struct {
		caller   string
		position int
	}{
		{"hive:alice", 0},
		{"hive:bob", 3},
		{"hive:alice", 1},
		{"hive:bob", 4},
		{"hive:alice", 2},
	}

	for _, move := range moves {
		body := fmt.Sprintf(`{"position": %d}`, move.position)
		rec = doRequest(t, mux, http.MethodPost, "/games/0/moves", move.caller, body)
		require.Equal(t, http.StatusOK, rec.Code, "move by %s on %d", move.caller, move.position)
	}

	// Then: the game is finished and alice holds trophy zero
	rec = doRequest(t, mux, http.MethodGet, "/games/0", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var game entity.Game
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &game))
	assert.Equal(t, entity.StateFinished, game.State)
	assert.Equal(t, "hive:alice", game.Winner)

	rec = doRequest(t, mux, http.MethodGet, "/players/hive:alice/stats", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats entity.PlayerStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, uint64(1), stats.Wins)

	rec = doRequest(t, mux, http.MethodGet, "/trophies/0", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var minted entity.Trophy
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &minted))
	assert.Equal(t, "hive:alice", minted.Owner)

	rec = doRequest(t, mux, http.MethodGet, "/trophies/0/metadata", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var metadata entity.TrophyMetadata
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metadata))
	assert.Contains(t, metadata.Name, "#0")
	assert.Contains(t, metadata.Image, "data:image/svg+xml;base64,")
}

func TestHandlers_ErrorMapping(t *testing.T) {
	t.Run("Unknown game maps to 404", func(t *testing.T) {
		mux := newTestMux(t)

		rec := doRequest(t, mux, http.MethodPost, "/games/42/join", "hive:bob", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Self join maps to 409", func(t *testing.T) {
		mux := newTestMux(t)

		doRequest(t, mux, http.MethodPost, "/games", "hive:alice", "")
		rec := doRequest(t, mux, http.MethodPost, "/games/0/join", "hive:alice", "")

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Out-of-range position maps to 400", func(t *testing.T) {
		mux := newTestMux(t)

		doRequest(t, mux, http.MethodPost, "/games", "hive:alice", "")
		rec := doRequest(t, mux, http.MethodPost, "/games/0/moves", "hive:alice", `{"position": 9}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Non-participant move maps to 403", func(t *testing.T) {
		mux := newTestMux(t)

		doRequest(t, mux, http.MethodPost, "/games", "hive:alice", "")
		doRequest(t, mux, http.MethodPost, "/games/0/join", "hive:bob", "")
		rec := doRequest(t, mux, http.MethodPost, "/games/0/moves", "hive:mallory", `{"position": 0}`)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Open listing reflects joins", func(t *testing.T) {
		mux := newTestMux(t)

		doRequest(t, mux, http.MethodPost, "/games", "hive:alice", "")

		rec := doRequest(t, mux, http.MethodGet, "/games/open", "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var payload map[string][]uint64
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, []uint64{0}, payload["ids"])

		doRequest(t, mux, http.MethodPost, "/games/0/join", "hive:bob", "")

		rec = doRequest(t, mux, http.MethodGet, "/games/open", "", "")
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Empty(t, payload["ids"])
	})
}
