package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/entity"
)

const (
	F = entity.First
	S = entity.Second
)

// play applies moves alternately starting with First and fails the test on any rejection.
func play(t *testing.T, engine Engine, moves ...Move) Verdict {
	t.Helper()

	pos := engine.NewPosition()
	side := F

	var verdict Verdict
	for i, move := range moves {
		verdict = engine.Evaluate(pos, side, move)
		require.Truef(t, verdict.Accepted, "move %d (%+v) rejected: %v", i, move, verdict.Reason)

		pos = verdict.Position
		side = side.Opponent()
	}

	return verdict
}

func cells(indexes ...int) []Move {
	moves := make([]Move, 0, len(indexes))
	for _, idx := range indexes {
		moves = append(moves, Move{Index: idx})
	}

	return moves
}

func TestForVariant(t *testing.T) {
	t.Run("Known variants", func(t *testing.T) {
		classic, err := ForVariant("classic")
		require.NoError(t, err)
		assert.Equal(t, Classic, classic.Variant())

		gobble, err := ForVariant("gobble")
		require.NoError(t, err)
		assert.Equal(t, Gobble, gobble.Variant())

		fallback, err := ForVariant("")
		require.NoError(t, err)
		assert.Equal(t, Classic, fallback.Variant())
	})

	t.Run("Unknown variant", func(t *testing.T) {
		_, err := ForVariant("connect-four")

		assert.ErrorIs(t, err, ErrUnknownVariant)
	})
}

func TestClassicEngine_Evaluate(t *testing.T) {
	engine := ClassicEngine{}

	t.Run("Accepts an empty cell and leaves the input untouched", func(t *testing.T) {
		// Given: a fresh position
		pos := engine.NewPosition()

		// When: First plays the centre
		verdict := engine.Evaluate(pos, F, Move{Index: 4})

		// Then: the new position holds the piece, the old one does not
		require.True(t, verdict.Accepted)
		assert.Equal(t, entity.Cell{Side: F}, verdict.Position.Board[4])
		assert.True(t, pos.Board[4].IsEmpty())
		assert.False(t, verdict.Outcome.IsTerminal())
	})

	t.Run("Is a pure function", func(t *testing.T) {
		pos := play(t, engine, cells(4, 0, 1)...).Position

		first := engine.Evaluate(pos, S, Move{Index: 7})
		second := engine.Evaluate(pos, S, Move{Index: 7})

		assert.Equal(t, first, second)
	})

	t.Run("Rejects an occupied cell", func(t *testing.T) {
		pos := play(t, engine, cells(0)...).Position

		verdict := engine.Evaluate(pos, S, Move{Index: 0})

		assert.False(t, verdict.Accepted)
		assert.ErrorIs(t, verdict.Reason, apperror.ErrCellOccupied)
		assert.Equal(t, pos, verdict.Position)
	})

	t.Run("Rejects out of range cells", func(t *testing.T) {
		for _, idx := range []int{-1, 9, 20} {
			verdict := engine.Evaluate(engine.NewPosition(), F, Move{Index: idx})

			assert.False(t, verdict.Accepted)
			assert.ErrorIs(t, verdict.Reason, ErrInvalidCell)
		}
	})

	t.Run("Rejects a rank", func(t *testing.T) {
		verdict := engine.Evaluate(engine.NewPosition(), F, Move{Index: 0, Rank: 3})

		assert.ErrorIs(t, verdict.Reason, ErrInvalidRank)
	})

	t.Run("Rejects a missing side", func(t *testing.T) {
		verdict := engine.Evaluate(engine.NewPosition(), entity.SideNone, Move{Index: 0})

		assert.ErrorIs(t, verdict.Reason, ErrInvalidSide)
	})

	t.Run("Top row wins for First", func(t *testing.T) {
		// F: 0, 1, 2  S: 3, 4
		verdict := play(t, engine, cells(0, 3, 1, 4, 2)...)

		assert.Equal(t, entity.Win(F, [3]int{0, 1, 2}), verdict.Outcome)
	})

	t.Run("Anti-diagonal wins for Second", func(t *testing.T) {
		// F: 0, 1, 8  S: 2, 4, 6
		verdict := play(t, engine, cells(0, 2, 1, 4, 8, 6)...)

		assert.Equal(t, entity.Win(S, [3]int{2, 4, 6}), verdict.Outcome)
	})

	t.Run("Nine moves without a line is a draw", func(t *testing.T) {
		// F: 4, 1, 6, 5, 8   S: 0, 7, 2, 3
		verdict := play(t, engine, cells(4, 0, 1, 7, 6, 2, 5, 3, 8)...)

		assert.Equal(t, entity.Draw(), verdict.Outcome)
		assert.True(t, verdict.Position.Board.IsFull())
	})

	t.Run("Win on the last cell beats the draw", func(t *testing.T) {
		// F: 0, 2, 3, 7, 6   S: 1, 4, 5, 8
		verdict := play(t, engine, cells(0, 1, 2, 4, 3, 5, 7, 8, 6)...)

		assert.Equal(t, entity.Win(F, [3]int{0, 3, 6}), verdict.Outcome)
	})
}

func TestClassicEngine_CanMove(t *testing.T) {
	engine := ClassicEngine{}

	assert.True(t, engine.CanMove(engine.NewPosition(), F))
	assert.False(t, engine.CanMove(engine.NewPosition(), entity.SideNone))

	full := play(t, engine, cells(4, 0, 1, 7, 6, 2, 5, 3, 8)...).Position
	assert.False(t, engine.CanMove(full, S))
}

func TestGobbleEngine_Evaluate(t *testing.T) {
	engine := GobbleEngine{}

	t.Run("Placing spends the rank", func(t *testing.T) {
		verdict := engine.Evaluate(engine.NewPosition(), F, Move{Index: 0, Rank: 3})

		require.True(t, verdict.Accepted)
		assert.Equal(t, entity.Cell{Side: F, Rank: 3}, verdict.Position.Board[0])
		assert.False(t, verdict.Position.Stock.Of(F).Has(3))
		assert.True(t, verdict.Position.Stock.Of(S).Has(3))
		assert.False(t, verdict.Captured)
	})

	t.Run("Higher rank covers either colour", func(t *testing.T) {
		// Given: First owns cell 0 with rank 3 and cell 1 with rank 1
		pos := play(t, engine, Move{Index: 0, Rank: 3}, Move{Index: 4, Rank: 2}, Move{Index: 1, Rank: 1}).Position

		// When: Second covers First's 3 with a 4
		verdict := engine.Evaluate(pos, S, Move{Index: 0, Rank: 4})

		// Then: the cell changes hands
		require.True(t, verdict.Accepted)
		assert.True(t, verdict.Captured)
		assert.Equal(t, entity.Cell{Side: S, Rank: 4}, verdict.Position.Board[0])

		// And: First can cover its own piece too
		own := engine.Evaluate(verdict.Position, F, Move{Index: 1, Rank: 2})
		require.True(t, own.Accepted)
		assert.Equal(t, entity.Cell{Side: F, Rank: 2}, own.Position.Board[1])
	})

	t.Run("Equal or lower rank cannot cover", func(t *testing.T) {
		pos := play(t, engine, Move{Index: 0, Rank: 5}).Position

		for _, rank := range []int{1, 5} {
			verdict := engine.Evaluate(pos, S, Move{Index: 0, Rank: rank})

			assert.False(t, verdict.Accepted)
			assert.ErrorIs(t, verdict.Reason, ErrRankTooLow)
		}
	})

	t.Run("A rank is never placed twice", func(t *testing.T) {
		pos := play(t, engine, Move{Index: 0, Rank: 2}, Move{Index: 1, Rank: 2}).Position

		verdict := engine.Evaluate(pos, F, Move{Index: 5, Rank: 2})

		assert.False(t, verdict.Accepted)
		assert.ErrorIs(t, verdict.Reason, ErrRankUsed)
	})

	t.Run("Rank out of range", func(t *testing.T) {
		for _, rank := range []int{0, 8} {
			verdict := engine.Evaluate(engine.NewPosition(), F, Move{Index: 0, Rank: rank})

			assert.ErrorIs(t, verdict.Reason, ErrInvalidRank)
		}
	})

	t.Run("Capture completing a line wins", func(t *testing.T) {
		// F: 0/1, 1/2   S: 2/3   F covers 2 with 7
		verdict := play(t, engine,
			Move{Index: 0, Rank: 1},
			Move{Index: 2, Rank: 3},
			Move{Index: 1, Rank: 2},
			Move{Index: 8, Rank: 1},
			Move{Index: 2, Rank: 7},
		)

		assert.True(t, verdict.Captured)
		assert.Equal(t, entity.Win(F, [3]int{0, 1, 2}), verdict.Outcome)
	})

	t.Run("Full board is not a draw", func(t *testing.T) {
		// nine placements, no line, ranks still left on both sides
		verdict := play(t, engine,
			Move{Index: 4, Rank: 1}, Move{Index: 0, Rank: 1},
			Move{Index: 1, Rank: 2}, Move{Index: 7, Rank: 2},
			Move{Index: 6, Rank: 3}, Move{Index: 2, Rank: 3},
			Move{Index: 5, Rank: 4}, Move{Index: 3, Rank: 4},
			Move{Index: 8, Rank: 5},
		)

		assert.True(t, verdict.Position.Board.IsFull())
		assert.False(t, verdict.Outcome.IsTerminal())
	})
}

func TestGobbleEngine_CanMove(t *testing.T) {
	engine := GobbleEngine{}

	t.Run("Empty cell is always enough", func(t *testing.T) {
		assert.True(t, engine.CanMove(engine.NewPosition(), F))
	})

	t.Run("Empty inventory cannot move", func(t *testing.T) {
		pos := engine.NewPosition()
		pos.Stock = pos.Stock.With(F, entity.Inventory{})

		assert.False(t, engine.CanMove(pos, F))
		assert.True(t, engine.CanMove(pos, S))
	})

	t.Run("Full board needs a rank above some occupant", func(t *testing.T) {
		// Given: a full board of rank 5 pieces and First holding only 1..5
		pos := engine.NewPosition()
		for i := range pos.Board {
			pos.Board[i] = entity.Cell{Side: S, Rank: 5}
		}
		pos.Stock = pos.Stock.With(F, entity.NewInventory().Use(6).Use(7))

		// Then: First is blocked
		assert.False(t, engine.CanMove(pos, F))

		// When: one cell holds a 4 instead
		pos.Board[3] = entity.Cell{Side: F, Rank: 4}

		// Then: First's 5 can cover it
		assert.True(t, engine.CanMove(pos, F))
	})
}
