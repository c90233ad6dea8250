package entity

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseNegotiating
	PhaseActive
	PhaseEnded
)

func (that Phase) String() string {
	switch that {
	case PhaseIdle:
		return "idle"
	case PhaseNegotiating:
		return "negotiating"
	case PhaseActive:
		return "active"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Session binds the local player to one connected opponent and the game running between them.
type Session struct {
	Local   PlayerIdentity
	Remote  PlayerIdentity
	Side    Side
	Variant string

	Phase   Phase
	Board   Board
	Stock   Stock
	Turn    TurnState
	Outcome Outcome

	// Seq counts moves applied in the current game.
	Seq int

	LocalReady  bool
	RemoteReady bool
	Initiator   bool

	// Score is the win tally between Local and Remote.
	Score ScoreRecord
}

func (that Session) IsMyTurn() bool {
	return that.Phase == PhaseActive && that.Turn.GameActive && that.Turn.ActiveSide == that.Side
}

// Clone returns a copy that shares no mutable state with the receiver.
func (that *Session) Clone() Session {
	clone := *that
	if that.Score != nil {
		clone.Score = make(ScoreRecord, len(that.Score))
		for id, wins := range that.Score {
			clone.Score[id] = wins
		}
	}

	return clone
}

func (that Session) Connected() bool {
	return that.Phase != PhaseIdle
}

// ResetGame clears the board, inventories and outcome for a fresh game opened by First.
func (that *Session) ResetGame(side Side) {
	that.Side = side
	that.Board = Board{}
	that.Stock = NewStock()
	that.Outcome = Outcome{}
	that.Seq = 0
	that.Turn = TurnState{ActiveSide: First, GameActive: true}
	that.Phase = PhaseActive
	that.LocalReady = false
	that.RemoteReady = false
}
