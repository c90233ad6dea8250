package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/entity"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/protocol"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/rules"
)

type sender interface {
	Send(msg protocol.Message) error
}

type scoreRepo interface {
	RecordWin(ctx context.Context, winnerID, loserID string) (entity.ScoreRecord, error)
	Get(ctx context.Context, a, b string) (entity.ScoreRecord, error)
}

type tracker interface {
	Track(session entity.Session)
}

type MatchOptions struct {
	Local entity.PlayerIdentity
	// Variant is offered to the opponent when this side initiates.
	Variant string
	Rand    *rand.Rand
	Tracker tracker
}

// Match is the per-peer game state machine. It is not safe for concurrent use;
// the Loop owns it.
type Match struct {
	logger   *slog.Logger
	scores   scoreRepo
	observer Observer
	tracker  tracker
	rand     *rand.Rand

	variant string
	engine  rules.Engine
	session entity.Session
	rematch Rematch
	peer    sender
}

func NewMatch(logger *slog.Logger, scores scoreRepo, observer Observer, opts MatchOptions) (*Match, error) {
	engine, err := rules.ForVariant(opts.Variant)
	if err != nil {
		return nil, err
	}

	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(rand.Int63()))
	}

	return &Match{
		logger:   logger.With("component", "match"),
		scores:   scores,
		observer: observer,
		tracker:  opts.Tracker,
		rand:     rnd,
		variant:  string(engine.Variant()),
		engine:   engine,
		session:  entity.Session{Local: opts.Local, Phase: entity.PhaseIdle},
	}, nil
}

func (that *Match) Snapshot() entity.Session {
	return that.session.Clone()
}

// Open binds the match to a freshly opened channel. The initiator negotiates sides at once.
func (that *Match) Open(ctx context.Context, peer sender, remoteID string, initiator bool) {
	log := that.logger.With("method", "Open", "remote", remoteID, "initiator", initiator)

	that.peer = peer
	that.rematch.Reset()
	that.session = entity.Session{
		Local:     that.session.Local,
		Remote:    entity.PlayerIdentity{ID: remoteID},
		Variant:   that.variant,
		Phase:     entity.PhaseNegotiating,
		Initiator: initiator,
		Score:     that.loadScore(ctx, remoteID),
	}

	log.Info("session opened")

	if initiator {
		that.initiate()
		return
	}

	that.observer.Notice(NoticeWaiting)
	that.publish()
}

// Close drops the session; nothing of the game survives a disconnect.
func (that *Match) Close() {
	if that.session.Phase == entity.PhaseIdle {
		return
	}

	that.logger.Info("session closed", "remote", that.session.Remote.ID, "phase", that.session.Phase)

	that.peer = nil
	that.rematch.Reset()
	that.session = entity.Session{Local: that.session.Local, Phase: entity.PhaseIdle}

	that.publish()
}

// LocalMove plays move for the local side. Illegal or out-of-turn moves are refused with a cue.
func (that *Match) LocalMove(ctx context.Context, move rules.Move) bool {
	log := that.logger.With("method", "LocalMove")

	if !that.session.IsMyTurn() {
		that.observer.Cue(CueIllegal)
		return false
	}

	verdict := that.engine.Evaluate(that.position(), that.session.Side, move)
	if !verdict.Accepted {
		log.Debug("move refused", "index", move.Index, "rank", move.Rank, "reason", verdict.Reason)
		that.observer.Cue(CueIllegal)

		return false
	}

	that.apply(ctx, that.session.Side, verdict)

	that.send(protocol.Move{Index: move.Index, Rank: move.Rank, Seq: that.session.Seq})
	that.publish()

	return true
}

// Handle applies one inbound message. A returned error is informational: state stays consistent.
func (that *Match) Handle(ctx context.Context, msg protocol.Message) error {
	if that.session.Phase == entity.PhaseIdle {
		return apperror.ErrNoSession
	}

	switch msg := msg.(type) {
	case protocol.StartGame:
		return that.handleStartGame(msg)
	case protocol.Name:
		that.handleName(msg)
		return nil
	case protocol.Move:
		return that.handleMove(ctx, msg)
	case protocol.RestartRequest:
		that.handleRestartRequest()
		return nil
	default:
		return fmt.Errorf("unexpected message %T", msg)
	}
}

func (that *Match) handleMove(ctx context.Context, msg protocol.Move) error {
	log := that.logger.With("method", "handleMove", "index", msg.Index, "rank", msg.Rank, "seq", msg.Seq)

	if that.session.Phase != entity.PhaseActive || !that.session.Turn.GameActive {
		log.Debug("ignoring move outside an active game", "phase", that.session.Phase)
		return nil
	}

	// A move arriving on our own turn cannot be the opponent's; it is dropped rather than
	// placed for the local side.
	side := that.session.Turn.ActiveSide
	if side == that.session.Side {
		log.Warn("opponent moved out of turn")
		return fmt.Errorf("%w: %w", apperror.ErrStateDiverged, apperror.ErrNotYourTurn)
	}

	var diverged error
	if expected := that.session.Seq + 1; msg.Seq != 0 && msg.Seq != expected {
		log.Warn("move sequence mismatch", "expected", expected)
		diverged = fmt.Errorf("%w: got move %d, expected %d", apperror.ErrStateDiverged, msg.Seq, expected)
	}

	verdict := that.engine.Evaluate(that.position(), side, rules.Move{Index: msg.Index, Rank: msg.Rank})
	if !verdict.Accepted {
		log.Warn("opponent move rejected", "reason", verdict.Reason)
		return fmt.Errorf("%w: %w", apperror.ErrStateDiverged, verdict.Reason)
	}

	that.apply(ctx, side, verdict)
	that.publish()

	return diverged
}

// apply commits an accepted verdict for side and advances the turn.
func (that *Match) apply(ctx context.Context, side entity.Side, verdict rules.Verdict) {
	that.session.Board = verdict.Position.Board
	that.session.Stock = verdict.Position.Stock
	that.session.Seq++

	if verdict.Outcome.IsTerminal() {
		that.finish(ctx, verdict.Outcome)
		return
	}

	if verdict.Captured {
		that.observer.Cue(CueCapture)
	} else {
		that.observer.Cue(CueMove)
	}

	pos := that.position()
	next := side.Opponent()

	switch {
	case that.engine.CanMove(pos, next):
	case that.engine.CanMove(pos, side):
		next = side
	default:
		that.finish(ctx, entity.Draw())
		return
	}

	that.session.Turn.ActiveSide = next
}

func (that *Match) finish(ctx context.Context, outcome entity.Outcome) {
	log := that.logger.With("method", "finish")

	that.session.Outcome = outcome
	that.session.Phase = entity.PhaseEnded
	that.session.Turn.GameActive = false

	log.Info("game over", "outcome", outcome.Kind, "winner", outcome.Winner, "moves", that.session.Seq)

	if outcome.Kind == entity.OutcomeDraw {
		that.observer.Cue(CueDraw)
		return
	}

	winner, loser := that.session.Local.ID, that.session.Remote.ID
	if outcome.Winner == that.session.Side {
		that.observer.Cue(CueWin)
	} else {
		winner, loser = loser, winner
		that.observer.Cue(CueLose)
	}

	record, err := that.scores.RecordWin(ctx, winner, loser)
	if err != nil {
		log.Error("failed to record win", "error", err)
		return
	}

	that.session.Score = record
}

func (that *Match) position() rules.Position {
	return rules.Position{Board: that.session.Board, Stock: that.session.Stock}
}

func (that *Match) loadScore(ctx context.Context, remoteID string) entity.ScoreRecord {
	record, err := that.scores.Get(ctx, that.session.Local.ID, remoteID)
	if err != nil {
		that.logger.Warn("failed to load score", "remote", remoteID, "error", err)
		return entity.NewScoreRecord(that.session.Local.ID, remoteID)
	}

	return record
}

func (that *Match) send(msg protocol.Message) {
	if that.peer == nil {
		return
	}

	if err := that.peer.Send(msg); err != nil {
		that.logger.Warn("failed to send message", "type", msg.Type(), "error", err)
	}
}

func (that *Match) publish() {
	that.session.LocalReady, that.session.RemoteReady = that.rematch.Flags()

	snapshot := that.session.Clone()
	that.observer.Changed(snapshot)

	if that.tracker != nil {
		that.tracker.Track(snapshot)
	}
}
