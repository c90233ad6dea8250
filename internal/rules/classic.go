package rules

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/entity"
)

// ClassicEngine is plain tic-tac-toe: any empty cell, draw on a full board.
type ClassicEngine struct{}

func (ClassicEngine) Variant() Variant {
	return Classic
}

func (ClassicEngine) NewPosition() Position {
	return Position{Stock: entity.NewStock()}
}

func (ClassicEngine) Evaluate(pos Position, side entity.Side, move Move) Verdict {
	if err := validateTarget(side, move.Index); err != nil {
		return reject(pos, err)
	}

	if move.Rank != 0 {
		return reject(pos, fmt.Errorf("%w: classic pieces have no rank", ErrInvalidRank))
	}

	if !pos.Board[move.Index].IsEmpty() {
		return reject(pos, apperror.ErrCellOccupied)
	}

	next := pos
	next.Board[move.Index] = entity.Cell{Side: side}

	verdict := Verdict{Accepted: true, Position: next}

	if outcome, ok := winOf(next.Board); ok {
		verdict.Outcome = outcome
		return verdict
	}

	// the game will continue until all the squares are full
	if next.Board.IsFull() {
		verdict.Outcome = entity.Draw()
	}

	return verdict
}

func (ClassicEngine) CanMove(pos Position, side entity.Side) bool {
	return side.Valid() && !pos.Board.IsFull()
}
