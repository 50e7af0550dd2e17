package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ledger/testing/suite"
)

func TestGameRepository_NextID(t *testing.T) {
	ctx, st := suite.New(t)

	// When: allocating ids on a fresh store
	first, err := st.Games.NextID(ctx)
	require.NoError(t, err)
	second, err := st.Games.NextID(ctx)
	require.NoError(t, err)

	// Then: ids are sequential from zero
	assert.Equal(t, uint64(0), first)
	assert.Equal(t, uint64(1), second)
}

func TestGameRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	// Given: a waiting game
	game := entity.NewGame(0, "hive:alice", 1700000000)

	// When: CreateOrUpdate is called
	err := st.Games.CreateOrUpdate(ctx, game)

	// Then: no error should be returned, and the record round-trips
	require.NoError(t, err)

	retrieved, err := st.Games.GetByID(ctx, game.ID)
	require.NoError(t, err)
	require.Equal(t, game, retrieved)
}

func TestGameRepository_GetByID(t *testing.T) {
	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		// When: GetByID is called with a never-allocated id
		_, err := st.Games.GetByID(ctx, 9999999)

		// Then: the not-found sentinel should be returned
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}

func TestGameRepository_OpenIndex(t *testing.T) {
	ctx, st := suite.New(t)

	// Given: three games marked open out of creation order
	for _, id := range []uint64{2, 0, 1} {
		require.NoError(t, st.Games.MarkOpen(ctx, id))
	}

	// When: listing open games
	open, err := st.Games.ListOpen(ctx)
	require.NoError(t, err)

	// Then: the listing is in ascending id order
	assert.Equal(t, []uint64{0, 1, 2}, open)

	// When: one game is cleared
	require.NoError(t, st.Games.ClearOpen(ctx, 1))

	open, err = st.Games.ListOpen(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 2}, open)
}

func TestGameRepository_PlayerIndex(t *testing.T) {
	ctx, st := suite.New(t)

	// Given: a player who took part in two games, in order
	require.NoError(t, st.Games.AddToPlayerIndex(ctx, "hive:alice", 3))
	require.NoError(t, st.Games.AddToPlayerIndex(ctx, "hive:alice", 1))

	// When: listing the player's games
	ids, err := st.Games.ListByPlayer(ctx, "hive:alice")
	require.NoError(t, err)

	// Then: insertion order is preserved
	assert.Equal(t, []uint64{3, 1}, ids)

	// And: a player with no history gets an empty list
	ids, err = st.Games.ListByPlayer(ctx, "hive:nobody")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
