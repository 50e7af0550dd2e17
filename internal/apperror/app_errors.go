package apperror

import "errors"

// Every error here is a precondition violation: the call is rejected before
// any mutation becomes visible, and no notification is emitted for it.
var (
	ErrGameNotFound       = errors.New("game not found")
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrSelfJoin           = errors.New("creator cannot join their own game")
	ErrGameNotInProgress  = errors.New("game is not in progress")
	ErrNotAParticipant    = errors.New("caller is not a participant of this game")
	ErrNotYourTurn        = errors.New("it's not your turn")
	ErrCellOutOfRange     = errors.New("cell position is out of range")
	ErrCellOccupied       = errors.New("cell is already occupied")

	ErrTrophyNotFound = errors.New("trophy not found")
)
