package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/entity"
)

const (
	gameKeyPrefix  = "game:"
	gameIDCounter  = "games:next_id"
	openGamesKey   = "games:open"
	playerGamesFmt = "player:%s:games"
)

// GameRepository owns the game records, the sequential game id counter, the
// open-game index and the per-player participation lists. Records are never
// deleted; ids are never reused.
type GameRepository interface {
	NextID(ctx context.Context) (uint64, error)
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id uint64) (*entity.Game, error)

	MarkOpen(ctx context.Context, id uint64) error
	ClearOpen(ctx context.Context, id uint64) error
	ListOpen(ctx context.Context) ([]uint64, error)

	AddToPlayerIndex(ctx context.Context, player string, id uint64) error
	ListByPlayer(ctx context.Context, player string) ([]uint64, error)
}

type dbGame struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) GameRepository {
	return &dbGame{
		client: client,
	}
}

// NextID allocates the next sequential game id, starting at zero.
func (that *dbGame) NextID(ctx context.Context) (uint64, error) {
	val, err := that.client.Incr(ctx, gameIDCounter).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate game id: %w", err)
	}

	return uint64(val - 1), nil
}

func (that *dbGame) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	gameKey := gameKeyPrefix + formatID(game.ID)
	if err = that.client.Set(ctx, gameKey, gameJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id uint64) (*entity.Game, error) {
	gameKey := gameKeyPrefix + formatID(id)

	response, err := that.client.Get(ctx, gameKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	var existingGame entity.Game
	if err = json.Unmarshal([]byte(response), &existingGame); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

// MarkOpen adds the game to the open-game index, scored by id so the listing
// is in creation order.
func (that *dbGame) MarkOpen(ctx context.Context, id uint64) error {
	member := redis.Z{Score: float64(id), Member: formatID(id)}

	if err := that.client.ZAdd(ctx, openGamesKey, member).Err(); err != nil {
		return fmt.Errorf("failed to mark game open: %w", err)
	}

	return nil
}

func (that *dbGame) ClearOpen(ctx context.Context, id uint64) error {
	if err := that.client.ZRem(ctx, openGamesKey, formatID(id)).Err(); err != nil {
		return fmt.Errorf("failed to clear open game: %w", err)
	}

	return nil
}

func (that *dbGame) ListOpen(ctx context.Context) ([]uint64, error) {
	members, err := that.client.ZRange(ctx, openGamesKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list open games: %w", err)
	}

	return parseIDs(members)
}

func (that *dbGame) AddToPlayerIndex(ctx context.Context, player string, id uint64) error {
	key := fmt.Sprintf(playerGamesFmt, player)

	if err := that.client.RPush(ctx, key, formatID(id)).Err(); err != nil {
		return fmt.Errorf("failed to add game to player index: %w", err)
	}

	return nil
}

// ListByPlayer returns the player's games in insertion order. The list only
// grows; concluded and abandoned games keep their slots.
func (that *dbGame) ListByPlayer(ctx context.Context, player string) ([]uint64, error) {
	key := fmt.Sprintf(playerGamesFmt, player)

	members, err := that.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list games for player: %w", err)
	}

	return parseIDs(members)
}

func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func parseIDs(members []string) ([]uint64, error) {
	ids := make([]uint64, 0, len(members))

	for _, member := range members {
		id, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse game id %q: %w", member, err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
