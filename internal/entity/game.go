package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/apperror"
)

const (
	StateWaiting    = "waiting"
	StateInProgress = "in_progress"
	StateFinished   = "finished"
	StateDraw       = "draw"

	MarkX = "X"
	MarkO = "O"

	EmptyCell = ""

	// NoPlayer is the sentinel for an unset identity: a game that nobody
	// has joined yet, or a game without a winner.
	NoPlayer = ""
)

// Board is an ordered sequence of 9 cell marks, row-major:
// indices 0..2 are the top row, 6..8 the bottom row.
type Board [9]string

// Game is a single ledger-resident match record. Records are created once,
// mutated only by join and move calls, and never deleted.
type Game struct {
	ID          uint64 `json:"id"`
	Player1     string `json:"player1"`
	Player2     string `json:"player2"`
	Board       Board  `json:"board"`
	CurrentTurn string `json:"current_turn"`
	Winner      string `json:"winner"`
	State       string `json:"state"`
	CreatedAt   int64  `json:"created_at"`
	LastMoveAt  int64  `json:"last_move_at"`
}

// NewGame initializes a waiting game owned by its creator. The creator always
// plays X and holds the first turn once an opponent joins.
func NewGame(id uint64, creator string, now int64) *Game {
	return &Game{
		ID:          id,
		Player1:     creator,
		Player2:     NoPlayer,
		Board:       Board{},
		CurrentTurn: creator,
		State:       StateWaiting,
		CreatedAt:   now,
		LastMoveAt:  now,
	}
}

func (that *Game) IsWaiting() bool {
	return that.State == StateWaiting
}

func (that *Game) IsInProgress() bool {
	return that.State == StateInProgress
}

// IsTerminal reports whether no further moves are accepted.
func (that *Game) IsTerminal() bool {
	return that.State == StateFinished || that.State == StateDraw
}

func (that *Game) IsParticipant(player string) bool {
	return player != NoPlayer && (player == that.Player1 || player == that.Player2)
}

// MarkOf maps a participant to the mark they place: player1 is X, player2 is O.
func (that *Game) MarkOf(player string) (string, error) {
	switch player {
	case that.Player1:
		return MarkX, nil
	case that.Player2:
		return MarkO, nil
	default:
		return EmptyCell, fmt.Errorf("%w: %s", apperror.ErrNotAParticipant, player)
	}
}

// Opponent returns the other participant.
func (that *Game) Opponent(player string) string {
	if player == that.Player1 {
		return that.Player2
	}
	return that.Player1
}
