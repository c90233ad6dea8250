package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/entity"
)

const (
	EventMatchStart      = "match.start"
	EventMove            = "move"
	EventGameEnd         = "game.end"
	EventMatchDisconnect = "match.disconnect"
)

// Tracker turns successive session snapshots into analytics events.
type Tracker struct {
	logger  *slog.Logger
	emitter Emitter
	now     func() time.Time

	prev    entity.Session
	matchID string
}

func NewTracker(logger *slog.Logger, emitter Emitter) *Tracker {
	return &Tracker{
		logger:  logger.With("component", "analytics"),
		emitter: emitter,
		now:     time.Now,
	}
}

func (that *Tracker) Track(session entity.Session) {
	for _, event := range that.diff(session) {
		if err := that.emitter.Emit(context.Background(), event); err != nil {
			that.logger.Warn("failed to emit event", "event", event.Name, "error", err)
		}
	}

	that.prev = session
}

func (that *Tracker) diff(session entity.Session) []Event {
	prev := that.prev

	switch {
	case session.Phase == entity.PhaseIdle && prev.Phase != entity.PhaseIdle:
		return []Event{that.event(EventMatchDisconnect, prev)}

	case session.Phase == entity.PhaseActive && (prev.Phase != entity.PhaseActive || session.Seq < prev.Seq):
		that.matchID = uuid.NewString()
		return []Event{that.event(EventMatchStart, session)}

	case session.Seq > prev.Seq:
		events := []Event{that.event(EventMove, session)}
		if session.Phase == entity.PhaseEnded {
			events = append(events, that.event(EventGameEnd, session))
		}

		return events
	}

	return nil
}

func (that *Tracker) event(name string, session entity.Session) Event {
	event := Event{
		Name:     name,
		MatchID:  that.matchID,
		Player:   session.Local.ID,
		Opponent: session.Remote.ID,
		Variant:  session.Variant,
		Seq:      session.Seq,
		At:       that.now().UTC(),
	}

	if session.Side.Valid() {
		event.Side = session.Side.String()
	}

	if session.Outcome.IsTerminal() {
		event.Outcome = session.Outcome.Kind.String()
		if session.Outcome.Kind == entity.OutcomeWin {
			event.Winner = session.Outcome.Winner.String()
		}
	}

	return event
}
