package usecase

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/entity"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/protocol"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/rules"
)

// initiate flips the coin for the initiator's side and tells the responder theirs.
func (that *Match) initiate() {
	side := entity.First
	if that.rand.Intn(2) == 1 {
		side = entity.Second
	}

	that.logger.Info("sides assigned", "method", "initiate", "side", side, "variant", that.variant)

	that.send(protocol.StartGame{
		YourColor: side.Opponent(),
		YourName:  that.session.Local.DisplayName,
		Turn:      entity.First,
		Variant:   that.variant,
	})

	that.session.ResetGame(side)
	that.rematch.Reset()
	that.publish()
}

// handleStartGame adopts the side and variant the initiator chose. Arriving mid-game it restarts.
func (that *Match) handleStartGame(msg protocol.StartGame) error {
	log := that.logger.With("method", "handleStartGame")

	if !msg.YourColor.Valid() {
		log.Warn("start_game without a side")
		return fmt.Errorf("failed to start game: %w", protocol.ErrMalformed)
	}

	engine, err := rules.ForVariant(msg.Variant)
	if err != nil {
		log.Warn("unsupported variant offered", "variant", msg.Variant)
		return fmt.Errorf("failed to start game: %w", err)
	}

	if that.session.Phase != entity.PhaseNegotiating {
		log.Info("restarting on start_game", "phase", that.session.Phase)
	}

	that.engine = engine
	that.session.Variant = string(engine.Variant())
	that.session.Remote.DisplayName = msg.YourName
	that.session.Initiator = false
	that.session.ResetGame(msg.YourColor)
	that.rematch.Reset()

	that.send(protocol.Name{YourName: that.session.Local.DisplayName})
	that.publish()

	return nil
}

func (that *Match) handleName(msg protocol.Name) {
	that.session.Remote.DisplayName = msg.YourName
	that.publish()
}
