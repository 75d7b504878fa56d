package apperror

import "errors"

var (
	ErrGameOver         = errors.New("game is already over")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidCell      = errors.New("invalid cell coordinate")
	ErrIndexOutOfRange  = errors.New("history index out of range")
	ErrGameNotFound     = errors.New("game not found")
	ErrCorruptedSession = errors.New("corrupted session data")
)
