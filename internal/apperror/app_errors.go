package apperror

import "errors"

var (
	ErrNotYourTurn  = errors.New("it's not your turn")
	ErrCellOccupied = errors.New("cell is already occupied")

	ErrInvalidPeerID   = errors.New("invalid peer id")
	ErrSelfConnect     = errors.New("cannot play against yourself")
	ErrPeerUnreachable = errors.New("peer is unreachable")
	ErrNoSession       = errors.New("no active session")

	ErrStateDiverged = errors.New("peer state diverged")
)
