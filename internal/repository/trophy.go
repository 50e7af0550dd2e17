package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/entity"
)

const (
	trophyKeyPrefix  = "trophy:"
	trophyIDCounter  = "trophies:next_id"
	ownerTrophiesFmt = "player:%s:trophies"
)

// TrophyRepository owns the trophy id counter and the identity-to-trophy
// association. The counter is separate from the game id counter.
type TrophyRepository interface {
	NextTokenID(ctx context.Context) (uint64, error)
	CreateOrUpdate(ctx context.Context, trophy *entity.Trophy) error
	GetByID(ctx context.Context, tokenID uint64) (*entity.Trophy, error)
	ListByOwner(ctx context.Context, owner string) ([]uint64, error)
}

type dbTrophy struct {
	client *redis.Client
}

func NewTrophyRepository(client *redis.Client) TrophyRepository {
	return &dbTrophy{
		client: client,
	}
}

func (that *dbTrophy) NextTokenID(ctx context.Context) (uint64, error) {
	val, err := that.client.Incr(ctx, trophyIDCounter).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate trophy id: %w", err)
	}

	return uint64(val - 1), nil
}

func (that *dbTrophy) CreateOrUpdate(ctx context.Context, trophy *entity.Trophy) error {
	trophyJSON, err := json.Marshal(trophy)
	if err != nil {
		return fmt.Errorf("could not marshal trophy: %w", err)
	}

	trophyKey := trophyKeyPrefix + formatID(trophy.TokenID)
	if err = that.client.Set(ctx, trophyKey, trophyJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set trophy: %w", err)
	}

	ownerKey := fmt.Sprintf(ownerTrophiesFmt, trophy.Owner)
	if err = that.client.RPush(ctx, ownerKey, formatID(trophy.TokenID)).Err(); err != nil {
		return fmt.Errorf("failed to index trophy owner: %w", err)
	}

	return nil
}

func (that *dbTrophy) GetByID(ctx context.Context, tokenID uint64) (*entity.Trophy, error) {
	trophyKey := trophyKeyPrefix + formatID(tokenID)

	response, err := that.client.Get(ctx, trophyKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrTrophyNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get trophy by id: %w", err)
	}

	var existingTrophy entity.Trophy
	if err = json.Unmarshal([]byte(response), &existingTrophy); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trophy: %w", err)
	}

	return &existingTrophy, nil
}

func (that *dbTrophy) ListByOwner(ctx context.Context, owner string) ([]uint64, error) {
	ownerKey := fmt.Sprintf(ownerTrophiesFmt, owner)

	members, err := that.client.LRange(ctx, ownerKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list trophies for owner: %w", err)
	}

	return parseIDs(members)
}
