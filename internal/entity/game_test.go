package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/apperror"
)

func TestNewGame(t *testing.T) {
	// Given: a creator address and a call timestamp
	game := NewGame(0, "alice", 1700000000)

	// Then: the game waits for an opponent with the creator on turn
	assert.Equal(t, uint64(0), game.ID)
	assert.Equal(t, "alice", game.Player1)
	assert.Equal(t, NoPlayer, game.Player2)
	assert.Equal(t, "alice", game.CurrentTurn)
	assert.Equal(t, NoPlayer, game.Winner)
	assert.Equal(t, StateWaiting, game.State)
	assert.Equal(t, int64(1700000000), game.CreatedAt)
	assert.Equal(t, int64(1700000000), game.LastMoveAt)
	assert.Equal(t, Board{}, game.Board)
}

func TestGameStateMethods(t *testing.T) {
	t.Run("IsWaiting returns true only for a waiting game", func(t *testing.T) {
		game := &Game{State: StateWaiting}

		assert.True(t, game.IsWaiting())
		assert.False(t, game.IsInProgress())
		assert.False(t, game.IsTerminal())
	})

	t.Run("IsInProgress returns true only for an in-progress game", func(t *testing.T) {
		game := &Game{State: StateInProgress}

		assert.True(t, game.IsInProgress())
		assert.False(t, game.IsWaiting())
		assert.False(t, game.IsTerminal())
	})

	t.Run("Finished and drawn games are both terminal", func(t *testing.T) {
		assert.True(t, (&Game{State: StateFinished}).IsTerminal())
		assert.True(t, (&Game{State: StateDraw}).IsTerminal())
	})
}

func TestGame_IsParticipant(t *testing.T) {
	game := &Game{Player1: "alice", Player2: "bob"}

	assert.True(t, game.IsParticipant("alice"))
	assert.True(t, game.IsParticipant("bob"))
	assert.False(t, game.IsParticipant("mallory"))

	t.Run("The unset sentinel never counts as a participant", func(t *testing.T) {
		// Given: a waiting game with no second player yet
		waiting := &Game{Player1: "alice", Player2: NoPlayer}

		assert.False(t, waiting.IsParticipant(NoPlayer))
	})
}

func TestGame_MarkOf(t *testing.T) {
	game := &Game{Player1: "alice", Player2: "bob"}

	t.Run("Player one places X and player two places O", func(t *testing.T) {
		mark, err := game.MarkOf("alice")
		require.NoError(t, err)
		assert.Equal(t, MarkX, mark)

		mark, err = game.MarkOf("bob")
		require.NoError(t, err)
		assert.Equal(t, MarkO, mark)
	})

	t.Run("A stranger has no mark", func(t *testing.T) {
		_, err := game.MarkOf("mallory")

		assert.ErrorIs(t, err, apperror.ErrNotAParticipant)
	})
}

func TestGame_Opponent(t *testing.T) {
	game := &Game{Player1: "alice", Player2: "bob"}

	assert.Equal(t, "bob", game.Opponent("alice"))
	assert.Equal(t, "alice", game.Opponent("bob"))
}
