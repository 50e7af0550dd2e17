package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/entity"
)

// callerHeader carries the environment-authenticated caller identity. A real
// deployment sits behind the sequencing collaborator that established it; the
// header is its stand-in on this surface.
const callerHeader = "X-Player-Address"

type ledgerEngine interface {
	CreateGame(ctx context.Context, caller string) (*entity.Game, error)
	JoinGame(ctx context.Context, caller string, gameID uint64) (*entity.Game, error)
	MakeMove(ctx context.Context, caller string, gameID uint64, position int) (*entity.Game, error)

	GetGame(ctx context.Context, gameID uint64) (*entity.Game, error)
	GetBoard(ctx context.Context, gameID uint64) (entity.Board, error)
	ListOpenGames(ctx context.Context) ([]uint64, error)
	ListPlayerGames(ctx context.Context, player string) ([]uint64, error)
	PlayerStats(ctx context.Context, player string) (*entity.PlayerStats, error)
	GetTrophy(ctx context.Context, tokenID uint64) (*entity.Trophy, error)
	ListPlayerTrophies(ctx context.Context, player string) ([]uint64, error)
	TrophyMetadata(ctx context.Context, tokenID uint64) (*entity.TrophyMetadata, error)
}

type Handlers struct {
	logger *slog.Logger
	engine ledgerEngine
}

func NewHandlers(logger *slog.Logger, engine ledgerEngine) *Handlers {
	return &Handlers{
		logger: logger,
		engine: engine,
	}
}

type moveRequest struct {
	Position int `json:"position"`
}

func (that *Handlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	caller, ok := that.caller(w, r)
	if !ok {
		return
	}

	game, err := that.engine.CreateGame(r.Context(), caller)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, game)
}

func (that *Handlers) JoinGame(w http.ResponseWriter, r *http.Request) {
	caller, ok := that.caller(w, r)
	if !ok {
		return
	}

	gameID, ok := that.pathID(w, r, "id")
	if !ok {
		return
	}

	game, err := that.engine.JoinGame(r.Context(), caller, gameID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *Handlers) MakeMove(w http.ResponseWriter, r *http.Request) {
	caller, ok := that.caller(w, r)
	if !ok {
		return
	}

	gameID, ok := that.pathID(w, r, "id")
	if !ok {
		return
	}

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	game, err := that.engine.MakeMove(r.Context(), caller, gameID, req.Position)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *Handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := that.pathID(w, r, "id")
	if !ok {
		return
	}

	game, err := that.engine.GetGame(r.Context(), gameID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *Handlers) GetBoard(w http.ResponseWriter, r *http.Request) {
	gameID, ok := that.pathID(w, r, "id")
	if !ok {
		return
	}

	gameBoard, err := that.engine.GetBoard(r.Context(), gameID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameBoard)
}

func (that *Handlers) ListOpenGames(w http.ResponseWriter, r *http.Request) {
	ids, err := that.engine.ListOpenGames(r.Context())
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, idsPayload(ids))
}

func (that *Handlers) ListPlayerGames(w http.ResponseWriter, r *http.Request) {
	ids, err := that.engine.ListPlayerGames(r.Context(), r.PathValue("address"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, idsPayload(ids))
}

func (that *Handlers) PlayerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := that.engine.PlayerStats(r.Context(), r.PathValue("address"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, stats)
}

func (that *Handlers) ListPlayerTrophies(w http.ResponseWriter, r *http.Request) {
	ids, err := that.engine.ListPlayerTrophies(r.Context(), r.PathValue("address"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, idsPayload(ids))
}

func (that *Handlers) GetTrophy(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := that.pathID(w, r, "id")
	if !ok {
		return
	}

	minted, err := that.engine.GetTrophy(r.Context(), tokenID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, minted)
}

func (that *Handlers) TrophyMetadata(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := that.pathID(w, r, "id")
	if !ok {
		return
	}

	metadata, err := that.engine.TrophyMetadata(r.Context(), tokenID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, metadata)
}

func (that *Handlers) caller(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller := r.Header.Get(callerHeader)
	if caller == "" {
		http.Error(w, "missing "+callerHeader+" header", http.StatusUnauthorized)
		return "", false
	}

	return caller, true
}

func (that *Handlers) pathID(w http.ResponseWriter, r *http.Request, name string) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}

	return id, true
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps the precondition taxonomy to HTTP statuses. Anything
// outside the taxonomy is an infrastructure failure, not a caller mistake.
func (that *Handlers) writeError(w http.ResponseWriter, err error) {
	var status int

	switch {
	case errors.Is(err, apperror.ErrGameNotFound), errors.Is(err, apperror.ErrTrophyNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrCellOutOfRange):
		status = http.StatusBadRequest
	case errors.Is(err, apperror.ErrGameAlreadyStarted),
		errors.Is(err, apperror.ErrSelfJoin),
		errors.Is(err, apperror.ErrGameNotInProgress),
		errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrCellOccupied):
		status = http.StatusConflict
	case errors.Is(err, apperror.ErrNotAParticipant):
		status = http.StatusForbidden
	default:
		that.logger.Error("internal error", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Error(w, err.Error(), status)
}

func idsPayload(ids []uint64) map[string][]uint64 {
	if ids == nil {
		ids = []uint64{}
	}

	return map[string][]uint64{"ids": ids}
}
