package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/board"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/event"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/trophy"
)

type gameRepo interface {
	NextID(ctx context.Context) (uint64, error)
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id uint64) (*entity.Game, error)
	MarkOpen(ctx context.Context, id uint64) error
	ClearOpen(ctx context.Context, id uint64) error
	ListOpen(ctx context.Context) ([]uint64, error)
	AddToPlayerIndex(ctx context.Context, player string, id uint64) error
	ListByPlayer(ctx context.Context, player string) ([]uint64, error)
}

type playerRepo interface {
	Stats(ctx context.Context, player string) (*entity.PlayerStats, error)
	IncrementTotalGames(ctx context.Context, players ...string) error
	IncrementWins(ctx context.Context, player string) error
}

type trophyRepo interface {
	NextTokenID(ctx context.Context) (uint64, error)
	CreateOrUpdate(ctx context.Context, trophy *entity.Trophy) error
	GetByID(ctx context.Context, tokenID uint64) (*entity.Trophy, error)
	ListByOwner(ctx context.Context, owner string) ([]uint64, error)
}

type archiveRepo interface {
	RecordConcludedGame(ctx context.Context, game *entity.Game) error
	RecordTrophy(ctx context.Context, trophy *entity.Trophy) error
}

type eventBus interface {
	Publish(evt event.Event)
}

// LedgerEngine is the authoritative state machine over game records. Every
// mutating call runs under one lock, mirroring the sequencing environment's
// one-operation-at-a-time total order: preconditions are checked against the
// loaded record first, and nothing is persisted or emitted until they all
// hold. The loser of a racing pair simply observes a stale precondition and
// gets the corresponding error.
type LedgerEngine struct {
	logger *slog.Logger

	gameRepo   gameRepo
	playerRepo playerRepo
	trophyRepo trophyRepo
	archive    archiveRepo
	events     eventBus

	mu  sync.Mutex
	now func() time.Time
}

func NewLedgerEngine(logger *slog.Logger, games gameRepo, players playerRepo, trophies trophyRepo, archive archiveRepo, events eventBus) *LedgerEngine {
	return &LedgerEngine{
		logger: logger,

		gameRepo:   games,
		playerRepo: players,
		trophyRepo: trophies,
		archive:    archive,
		events:     events,

		now: time.Now,
	}
}

// WithClock replaces the call-time clock. Tests use it to pin timestamps.
func (that *LedgerEngine) WithClock(now func() time.Time) *LedgerEngine {
	that.now = now
	return that
}

// CreateGame allocates the next game id and registers a waiting game for the
// caller. It has no failure precondition: any caller may create a game.
func (that *LedgerEngine) CreateGame(ctx context.Context, caller string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "CreateGame")

	id, err := that.gameRepo.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate game id: %w", err)
	}

	game := entity.NewGame(id, caller, that.now().Unix())

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	if err = that.gameRepo.MarkOpen(ctx, game.ID); err != nil {
		return nil, fmt.Errorf("failed to index open game: %w", err)
	}

	if err = that.gameRepo.AddToPlayerIndex(ctx, caller, game.ID); err != nil {
		return nil, fmt.Errorf("failed to index creator game: %w", err)
	}

	that.events.Publish(event.GameCreated(game.ID, caller))

	log.Info("game created", "game_id", game.ID, "creator", caller)

	return game, nil
}

// JoinGame admits the caller as the second participant. Both participants'
// total-games counters tick here, not at creation: a game nobody joins never
// contributes to either counter.
func (that *LedgerEngine) JoinGame(ctx context.Context, caller string, gameID uint64) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "JoinGame")

	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	if !game.IsWaiting() {
		return nil, apperror.ErrGameAlreadyStarted
	}

	if caller == game.Player1 {
		return nil, apperror.ErrSelfJoin
	}

	game.Player2 = caller
	game.State = entity.StateInProgress
	game.LastMoveAt = that.now().Unix()

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	if err = that.gameRepo.ClearOpen(ctx, game.ID); err != nil {
		return nil, fmt.Errorf("failed to remove game from open index: %w", err)
	}

	if err = that.gameRepo.AddToPlayerIndex(ctx, caller, game.ID); err != nil {
		return nil, fmt.Errorf("failed to index joiner game: %w", err)
	}

	if err = that.playerRepo.IncrementTotalGames(ctx, game.Player1, game.Player2); err != nil {
		return nil, fmt.Errorf("failed to increment total games: %w", err)
	}

	that.events.Publish(event.GameJoined(game.ID, caller))

	log.Info("game joined", "game_id", game.ID, "joiner", caller)

	return game, nil
}

// MakeMove validates and applies one move. Exactly one of three outcomes
// follows an accepted move, in this order: the mover completed a line and the
// game finishes with a trophy mint; the board filled without a line and the
// game is drawn; otherwise the turn passes to the other participant.
func (that *LedgerEngine) MakeMove(ctx context.Context, caller string, gameID uint64, position int) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "MakeMove")

	// Position is pure argument validation and fails the same way in every
	// game state, before the record is even looked at.
	if position < 0 || position > 8 {
		return nil, fmt.Errorf("%w: %d", apperror.ErrCellOutOfRange, position)
	}

	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	if !game.IsInProgress() {
		return nil, apperror.ErrGameNotInProgress
	}

	if !game.IsParticipant(caller) {
		return nil, apperror.ErrNotAParticipant
	}

	if caller != game.CurrentTurn {
		return nil, apperror.ErrNotYourTurn
	}

	if game.Board[position] != entity.EmptyCell {
		return nil, apperror.ErrCellOccupied
	}

	mark, err := game.MarkOf(caller)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve caller mark: %w", err)
	}

	game.Board, err = board.ApplyMark(game.Board, position, mark)
	if err != nil {
		return nil, fmt.Errorf("failed to apply mark: %w", err)
	}

	game.LastMoveAt = that.now().Unix()

	switch {
	case board.HasWinner(game.Board, mark):
		game.Winner = caller
		game.State = entity.StateFinished
	case board.IsFull(game.Board):
		game.State = entity.StateDraw
	default:
		game.CurrentTurn = game.Opponent(caller)
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.events.Publish(event.GameMove(game.ID, caller, position))

	switch game.State {
	case entity.StateFinished:
		if err = that.concludeWin(ctx, game); err != nil {
			return nil, err
		}
	case entity.StateDraw:
		if err = that.concludeDraw(ctx, game); err != nil {
			return nil, err
		}
	}

	log.Info("move made", "game_id", game.ID, "player", caller, "position", position, "state", game.State)

	return game, nil
}

// concludeWin credits the winner, mints their trophy and archives the game.
func (that *LedgerEngine) concludeWin(ctx context.Context, game *entity.Game) error {
	if err := that.playerRepo.IncrementWins(ctx, game.Winner); err != nil {
		return fmt.Errorf("failed to increment wins: %w", err)
	}

	tokenID, err := that.trophyRepo.NextTokenID(ctx)
	if err != nil {
		return fmt.Errorf("failed to allocate trophy id: %w", err)
	}

	minted := &entity.Trophy{
		TokenID: tokenID,
		Owner:   game.Winner,
		GameID:  game.ID,
	}

	if err = that.trophyRepo.CreateOrUpdate(ctx, minted); err != nil {
		return fmt.Errorf("failed to mint trophy: %w", err)
	}

	if err = that.archive.RecordConcludedGame(ctx, game); err != nil {
		return fmt.Errorf("failed to archive game: %w", err)
	}

	if err = that.archive.RecordTrophy(ctx, minted); err != nil {
		return fmt.Errorf("failed to archive trophy: %w", err)
	}

	that.events.Publish(event.GameWon(game.ID, game.Winner))
	that.events.Publish(event.TrophyMinted(minted.TokenID, game.ID, minted.Owner))

	return nil
}

func (that *LedgerEngine) concludeDraw(ctx context.Context, game *entity.Game) error {
	if err := that.archive.RecordConcludedGame(ctx, game); err != nil {
		return fmt.Errorf("failed to archive game: %w", err)
	}

	that.events.Publish(event.GameDraw(game.ID))

	return nil
}

func (that *LedgerEngine) GetGame(ctx context.Context, gameID uint64) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

func (that *LedgerEngine) GetBoard(ctx context.Context, gameID uint64) (entity.Board, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return entity.Board{}, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game.Board, nil
}

func (that *LedgerEngine) ListOpenGames(ctx context.Context) ([]uint64, error) {
	ids, err := that.gameRepo.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list open games: %w", err)
	}

	return ids, nil
}

func (that *LedgerEngine) ListPlayerGames(ctx context.Context, player string) ([]uint64, error) {
	ids, err := that.gameRepo.ListByPlayer(ctx, player)
	if err != nil {
		return nil, fmt.Errorf("failed to list games for player: %w", err)
	}

	return ids, nil
}

func (that *LedgerEngine) PlayerStats(ctx context.Context, player string) (*entity.PlayerStats, error) {
	stats, err := that.playerRepo.Stats(ctx, player)
	if err != nil {
		return nil, fmt.Errorf("failed to get player stats: %w", err)
	}

	return stats, nil
}

func (that *LedgerEngine) GetTrophy(ctx context.Context, tokenID uint64) (*entity.Trophy, error) {
	minted, err := that.trophyRepo.GetByID(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to get trophy by id: %w", err)
	}

	return minted, nil
}

func (that *LedgerEngine) ListPlayerTrophies(ctx context.Context, player string) ([]uint64, error) {
	ids, err := that.trophyRepo.ListByOwner(ctx, player)
	if err != nil {
		return nil, fmt.Errorf("failed to list trophies for owner: %w", err)
	}

	return ids, nil
}

// TrophyMetadata regenerates the descriptive document for a minted trophy.
// The document depends only on the token id; the repository lookup just
// rejects ids that were never minted.
func (that *LedgerEngine) TrophyMetadata(ctx context.Context, tokenID uint64) (*entity.TrophyMetadata, error) {
	if _, err := that.trophyRepo.GetByID(ctx, tokenID); err != nil {
		return nil, fmt.Errorf("failed to get trophy by id: %w", err)
	}

	metadata := trophy.Describe(tokenID)

	return &metadata, nil
}
