// Package rules decides whether a move is legal and what it leads to.
//
// Engines are pure: Evaluate never mutates the position it is given, so both peers
// evaluating the same move on the same position always reach the same verdict.
package rules

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/entity"
)

type Variant string

const (
	Classic Variant = "classic"
	Gobble  Variant = "gobble"
)

var (
	ErrInvalidCell    = errors.New("invalid cell index")
	ErrInvalidRank    = errors.New("invalid rank")
	ErrRankUsed       = errors.New("rank already placed")
	ErrRankTooLow     = errors.New("rank does not beat the occupant")
	ErrInvalidSide    = errors.New("invalid side")
	ErrUnknownVariant = errors.New("unknown variant")
)

// Position is everything the rules look at besides whose move it is.
type Position struct {
	Board entity.Board
	Stock entity.Stock
}

type Move struct {
	Index int
	// Rank is zero in the classic variant.
	Rank int
}

type Verdict struct {
	Accepted bool
	Reason   error
	Position Position
	Outcome  entity.Outcome
	// Captured is set when the move covered an occupied cell.
	Captured bool
}

type Engine interface {
	Variant() Variant
	NewPosition() Position
	Evaluate(pos Position, side entity.Side, move Move) Verdict
	// CanMove reports whether side has at least one legal placement.
	CanMove(pos Position, side entity.Side) bool
}

func ForVariant(name string) (Engine, error) {
	switch Variant(name) {
	case Classic, "":
		return ClassicEngine{}, nil
	case Gobble:
		return GobbleEngine{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
}

func reject(pos Position, reason error) Verdict {
	return Verdict{Accepted: false, Reason: reason, Position: pos}
}

// validateTarget - checks shared by both variants.
func validateTarget(side entity.Side, index int) error {
	if !side.Valid() {
		return ErrInvalidSide
	}

	if !entity.ValidIndex(index) {
		return fmt.Errorf("%w: %d", ErrInvalidCell, index)
	}

	return nil
}

func winOf(board entity.Board) (entity.Outcome, bool) {
	winner, line, ok := board.Winner()
	if !ok {
		return entity.Outcome{}, false
	}

	return entity.Win(winner, line), true
}
