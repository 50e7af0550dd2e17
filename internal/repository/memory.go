package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/entity"
)

// In-memory implementations of the repository interfaces, for unit tests and
// storage-free runs. Each guards its maps with its own mutex; the engine
// additionally serializes mutating calls, matching the one-operation-at-a-time
// model of the sequencing environment.

type memoryGame struct {
	mu      sync.RWMutex
	nextID  uint64
	games   map[uint64]entity.Game
	open    map[uint64]struct{}
	byOwner map[string][]uint64
}

func NewMemoryGameRepository() GameRepository {
	return &memoryGame{
		games:   make(map[uint64]entity.Game),
		open:    make(map[uint64]struct{}),
		byOwner: make(map[string][]uint64),
	}
}

func (that *memoryGame) NextID(_ context.Context) (uint64, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	id := that.nextID
	that.nextID++

	return id, nil
}

func (that *memoryGame) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.games[game.ID] = *game

	return nil
}

func (that *memoryGame) GetByID(_ context.Context, id uint64) (*entity.Game, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	game, ok := that.games[id]
	if !ok {
		return nil, apperror.ErrGameNotFound
	}

	return &game, nil
}

func (that *memoryGame) MarkOpen(_ context.Context, id uint64) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.open[id] = struct{}{}

	return nil
}

func (that *memoryGame) ClearOpen(_ context.Context, id uint64) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.open, id)

	return nil
}

func (that *memoryGame) ListOpen(_ context.Context) ([]uint64, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	ids := make([]uint64, 0, len(that.open))
	for id := range that.open {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids, nil
}

func (that *memoryGame) AddToPlayerIndex(_ context.Context, player string, id uint64) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.byOwner[player] = append(that.byOwner[player], id)

	return nil
}

func (that *memoryGame) ListByPlayer(_ context.Context, player string) ([]uint64, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	ids := that.byOwner[player]

	out := make([]uint64, len(ids))
	copy(out, ids)

	return out, nil
}

type memoryPlayer struct {
	mu    sync.RWMutex
	stats map[string]entity.PlayerStats
}

func NewMemoryPlayerRepository() PlayerRepository {
	return &memoryPlayer{
		stats: make(map[string]entity.PlayerStats),
	}
}

func (that *memoryPlayer) Stats(_ context.Context, player string) (*entity.PlayerStats, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	stats := that.stats[player]

	return &stats, nil
}

func (that *memoryPlayer) IncrementTotalGames(_ context.Context, players ...string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, player := range players {
		stats := that.stats[player]
		stats.TotalGames++
		that.stats[player] = stats
	}

	return nil
}

func (that *memoryPlayer) IncrementWins(_ context.Context, player string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	stats := that.stats[player]
	stats.Wins++
	that.stats[player] = stats

	return nil
}

type memoryTrophy struct {
	mu       sync.RWMutex
	nextID   uint64
	trophies map[uint64]entity.Trophy
	byOwner  map[string][]uint64
}

func NewMemoryTrophyRepository() TrophyRepository {
	return &memoryTrophy{
		trophies: make(map[uint64]entity.Trophy),
		byOwner:  make(map[string][]uint64),
	}
}

func (that *memoryTrophy) NextTokenID(_ context.Context) (uint64, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	id := that.nextID
	that.nextID++

	return id, nil
}

func (that *memoryTrophy) CreateOrUpdate(_ context.Context, trophy *entity.Trophy) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.trophies[trophy.TokenID] = *trophy
	that.byOwner[trophy.Owner] = append(that.byOwner[trophy.Owner], trophy.TokenID)

	return nil
}

func (that *memoryTrophy) GetByID(_ context.Context, tokenID uint64) (*entity.Trophy, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	trophy, ok := that.trophies[tokenID]
	if !ok {
		return nil, apperror.ErrTrophyNotFound
	}

	return &trophy, nil
}

func (that *memoryTrophy) ListByOwner(_ context.Context, owner string) ([]uint64, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	ids := that.byOwner[owner]

	out := make([]uint64, len(ids))
	copy(out, ids)

	return out, nil
}

type memoryArchive struct {
	mu       sync.RWMutex
	games    []*entity.Game
	trophies []*entity.Trophy
}

func NewMemoryArchiveRepository() ArchiveRepository {
	return &memoryArchive{}
}

func (that *memoryArchive) Init(_ context.Context) error {
	return nil
}

func (that *memoryArchive) RecordConcludedGame(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	snapshot := *game
	that.games = append(that.games, &snapshot)

	return nil
}

func (that *memoryArchive) RecordTrophy(_ context.Context, trophy *entity.Trophy) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	snapshot := *trophy
	that.trophies = append(that.trophies, &snapshot)

	return nil
}

func (that *memoryArchive) ListConcluded(_ context.Context) ([]*entity.Game, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	out := make([]*entity.Game, len(that.games))
	copy(out, that.games)

	return out, nil
}
