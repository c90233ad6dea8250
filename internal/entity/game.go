package entity

const (
	BoardSize = 9
	MaxRank   = 7
)

var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Cell is empty when Side is SideNone. Rank is zero in the classic variant.
type Cell struct {
	Side Side `json:"side,omitempty"`
	Rank int  `json:"rank,omitempty"`
}

func (that Cell) IsEmpty() bool {
	return that.Side == SideNone
}

type Board [BoardSize]Cell

func ValidIndex(index int) bool {
	return index >= 0 && index < BoardSize
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell.IsEmpty() {
			return false
		}
	}

	return true
}

// Winner scans the fixed lines in order and returns the first side owning a whole line.
func (that Board) Winner() (Side, [3]int, bool) {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]].Side, that[combo[1]].Side, that[combo[2]].Side
		if a != SideNone && a == b && b == c {
			return a, combo, true
		}
	}

	return SideNone, [3]int{}, false
}

// Inventory flags which ranks (index rank-1) are still unplaced.
type Inventory [MaxRank]bool

func NewInventory() Inventory {
	var inv Inventory
	for i := range inv {
		inv[i] = true
	}

	return inv
}

func (that Inventory) Has(rank int) bool {
	if rank < 1 || rank > MaxRank {
		return false
	}

	return that[rank-1]
}

func (that Inventory) Use(rank int) Inventory {
	if rank >= 1 && rank <= MaxRank {
		that[rank-1] = false
	}

	return that
}

func (that Inventory) IsEmpty() bool {
	for _, left := range that {
		if left {
			return false
		}
	}

	return true
}

// Highest returns the largest unplaced rank, or zero when nothing is left.
func (that Inventory) Highest() int {
	for rank := MaxRank; rank >= 1; rank-- {
		if that[rank-1] {
			return rank
		}
	}

	return 0
}

func (that Inventory) Ranks() []int {
	ranks := make([]int, 0, MaxRank)
	for rank := 1; rank <= MaxRank; rank++ {
		if that[rank-1] {
			ranks = append(ranks, rank)
		}
	}

	return ranks
}

// Stock holds one inventory per side.
type Stock [2]Inventory

func NewStock() Stock {
	return Stock{NewInventory(), NewInventory()}
}

func (that Stock) Of(side Side) Inventory {
	if !side.Valid() {
		return Inventory{}
	}

	return that[side-1]
}

func (that Stock) With(side Side, inv Inventory) Stock {
	if side.Valid() {
		that[side-1] = inv
	}

	return that
}

type TurnState struct {
	ActiveSide Side `json:"activeSide"`
	GameActive bool `json:"gameActive"`
}

type OutcomeKind int

const (
	OutcomeNone OutcomeKind = iota
	OutcomeWin
	OutcomeDraw
)

func (that OutcomeKind) String() string {
	switch that {
	case OutcomeWin:
		return "win"
	case OutcomeDraw:
		return "draw"
	default:
		return "none"
	}
}

type Outcome struct {
	Kind   OutcomeKind `json:"kind"`
	Winner Side        `json:"winner,omitempty"`
	Line   [3]int      `json:"line,omitempty"`
}

func (that Outcome) IsTerminal() bool {
	return that.Kind != OutcomeNone
}

func Win(side Side, line [3]int) Outcome {
	return Outcome{Kind: OutcomeWin, Winner: side, Line: line}
}

func Draw() Outcome {
	return Outcome{Kind: OutcomeDraw}
}
