package rules

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/entity"
)

// GobbleEngine is the stacking variant: every side owns ranks 1..7 once each, and a
// strictly higher rank may cover a lower one of either colour.
type GobbleEngine struct{}

func (GobbleEngine) Variant() Variant {
	return Gobble
}

func (GobbleEngine) NewPosition() Position {
	return Position{Stock: entity.NewStock()}
}

func (GobbleEngine) Evaluate(pos Position, side entity.Side, move Move) Verdict {
	if err := validateTarget(side, move.Index); err != nil {
		return reject(pos, err)
	}

	if move.Rank < 1 || move.Rank > entity.MaxRank {
		return reject(pos, fmt.Errorf("%w: %d", ErrInvalidRank, move.Rank))
	}

	inv := pos.Stock.Of(side)
	if !inv.Has(move.Rank) {
		return reject(pos, fmt.Errorf("%w: %d", ErrRankUsed, move.Rank))
	}

	target := pos.Board[move.Index]
	if !target.IsEmpty() && move.Rank <= target.Rank {
		return reject(pos, fmt.Errorf("%w: %d on %d", ErrRankTooLow, move.Rank, target.Rank))
	}

	next := pos
	next.Board[move.Index] = entity.Cell{Side: side, Rank: move.Rank}
	next.Stock = pos.Stock.With(side, inv.Use(move.Rank))

	verdict := Verdict{Accepted: true, Position: next, Captured: !target.IsEmpty()}

	if outcome, ok := winOf(next.Board); ok {
		verdict.Outcome = outcome
	}

	return verdict
}

// CanMove - the highest unplaced rank is the best shot at any cell, so it alone decides.
func (GobbleEngine) CanMove(pos Position, side entity.Side) bool {
	if !side.Valid() {
		return false
	}

	inv := pos.Stock.Of(side)
	if inv.IsEmpty() {
		return false
	}

	highest := inv.Highest()

	for _, cell := range pos.Board {
		if cell.IsEmpty() || cell.Rank < highest {
			return true
		}
	}

	return false
}
