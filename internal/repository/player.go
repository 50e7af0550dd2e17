package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/entity"
)

const (
	statsKeyFmt     = "stats:%s"
	statsFieldWins  = "wins"
	statsFieldTotal = "total_games"
)

// PlayerRepository owns the per-address counters. Counters only ever go up.
type PlayerRepository interface {
	Stats(ctx context.Context, player string) (*entity.PlayerStats, error)
	IncrementTotalGames(ctx context.Context, players ...string) error
	IncrementWins(ctx context.Context, player string) error
}

type dbPlayer struct {
	client *redis.Client
}

func NewPlayerRepository(client *redis.Client) PlayerRepository {
	return &dbPlayer{
		client: client,
	}
}

// Stats returns zeroed counters for an address with no history.
func (that *dbPlayer) Stats(ctx context.Context, player string) (*entity.PlayerStats, error) {
	key := fmt.Sprintf(statsKeyFmt, player)

	fields, err := that.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get player stats: %w", err)
	}

	stats := &entity.PlayerStats{}

	if raw, ok := fields[statsFieldWins]; ok {
		if _, err = fmt.Sscanf(raw, "%d", &stats.Wins); err != nil {
			return nil, fmt.Errorf("failed to parse wins counter: %w", err)
		}
	}

	if raw, ok := fields[statsFieldTotal]; ok {
		if _, err = fmt.Sscanf(raw, "%d", &stats.TotalGames); err != nil {
			return nil, fmt.Errorf("failed to parse total games counter: %w", err)
		}
	}

	return stats, nil
}

func (that *dbPlayer) IncrementTotalGames(ctx context.Context, players ...string) error {
	for _, player := range players {
		key := fmt.Sprintf(statsKeyFmt, player)

		if err := that.client.HIncrBy(ctx, key, statsFieldTotal, 1).Err(); err != nil {
			return fmt.Errorf("failed to increment total games for %s: %w", player, err)
		}
	}

	return nil
}

func (that *dbPlayer) IncrementWins(ctx context.Context, player string) error {
	key := fmt.Sprintf(statsKeyFmt, player)

	if err := that.client.HIncrBy(ctx, key, statsFieldWins, 1).Err(); err != nil {
		return fmt.Errorf("failed to increment wins for %s: %w", player, err)
	}

	return nil
}
