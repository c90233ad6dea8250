package usecase

import "github.com/rocketscienceinc/tictactoe-p2p/internal/entity"

// Cue is a feedback event for the player, rendered as sound or a flash.
type Cue int

const (
	CueMove Cue = iota + 1
	CueCapture
	CueWin
	CueLose
	CueDraw
	CueIllegal
)

func (that Cue) String() string {
	switch that {
	case CueMove:
		return "move"
	case CueCapture:
		return "capture"
	case CueWin:
		return "win"
	case CueLose:
		return "lose"
	case CueDraw:
		return "draw"
	case CueIllegal:
		return "illegal"
	default:
		return "unknown"
	}
}

// Observer receives everything the player should see. Calls come from the loop goroutine.
type Observer interface {
	Changed(session entity.Session)
	Cue(cue Cue)
	Notice(text string)
}

const (
	NoticeWaiting      = "Waiting for opponent"
	NoticeDisconnected = "Opponent disconnected"
	NoticeWantsRematch = "Opponent wants to play again"
	NoticeDiverged     = "Opponent is out of sync"
)
