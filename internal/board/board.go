// Package board holds the pure 3x3 board functions: mark placement, win
// detection and fill detection. It keeps no state and performs no validation
// beyond its own preconditions; lifecycle checks belong to the ledger engine.
package board

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/entity"
)

var ErrCellNotPlayable = errors.New("cell is not playable")

// WinCombos are the 8 fixed lines, checked in rows, columns, diagonals order.
var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// ApplyMark returns a copy of the board with the given cell set. The cell
// must be inside [0,8] and empty; callers are expected to have validated
// both already, so a violation here is a caller bug.
func ApplyMark(b entity.Board, position int, mark string) (entity.Board, error) {
	if position < 0 || position >= len(b) {
		return b, fmt.Errorf("%w: position %d", ErrCellNotPlayable, position)
	}

	if b[position] != entity.EmptyCell {
		return b, fmt.Errorf("%w: position %d occupied", ErrCellNotPlayable, position)
	}

	b[position] = mark

	return b, nil
}

// HasWinner reports whether any line is fully occupied by the given mark.
func HasWinner(b entity.Board, mark string) bool {
	_, ok := WinningLine(b, mark)
	return ok
}

// WinningLine returns the first completed line for the given mark, for
// highlighting purposes. In a legal single-mark-per-turn game at most one
// line can complete on a move, so first-match order only matters for display.
func WinningLine(b entity.Board, mark string) ([3]int, bool) {
	if mark == entity.EmptyCell {
		return [3]int{}, false
	}

	for _, combo := range WinCombos {
		if b[combo[0]] == mark && b[combo[1]] == mark && b[combo[2]] == mark {
			return combo, true
		}
	}

	return [3]int{}, false
}

// IsFull reports whether no cell is empty.
func IsFull(b entity.Board) bool {
	for _, cell := range b {
		if cell == entity.EmptyCell {
			return false
		}
	}

	return true
}
