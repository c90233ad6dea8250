package usecase

import (
	"github.com/rocketscienceinc/tictactoe-p2p/internal/entity"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/protocol"
)

// Rematch tracks the two ready flags of the play-again handshake.
type Rematch struct {
	local  bool
	remote bool
}

// Local marks the local player ready. It reports false when they already were.
func (that *Rematch) Local() bool {
	if that.local {
		return false
	}

	that.local = true

	return true
}

func (that *Rematch) Remote() {
	that.remote = true
}

func (that *Rematch) Ready() bool {
	return that.local && that.remote
}

func (that *Rematch) Reset() {
	that.local = false
	that.remote = false
}

func (that *Rematch) Flags() (local, remote bool) {
	return that.local, that.remote
}

// RequestRematch marks the local player ready. Only meaningful once the game has ended.
func (that *Match) RequestRematch() bool {
	if that.session.Phase != entity.PhaseEnded {
		return false
	}

	if !that.rematch.Local() {
		return false
	}

	that.send(protocol.RestartRequest{})

	if that.rematch.Ready() {
		that.restart()
		return true
	}

	that.observer.Notice(NoticeWaiting)
	that.publish()

	return true
}

func (that *Match) handleRestartRequest() {
	that.rematch.Remote()

	if that.session.Phase != entity.PhaseEnded {
		that.logger.Debug("restart request recorded before game end", "phase", that.session.Phase)
		return
	}

	if that.rematch.Ready() {
		that.restart()
		return
	}

	that.observer.Notice(NoticeWantsRematch)
	that.publish()
}

// restart begins the next game with sides swapped.
func (that *Match) restart() {
	side := that.session.Side.Opponent()

	that.logger.Info("rematch", "method", "restart", "side", side)

	that.session.ResetGame(side)
	that.rematch.Reset()
	that.publish()
}
