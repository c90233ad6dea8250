package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/protocol"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/rules"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/transport/peer"
)

type node interface {
	Connect(ctx context.Context, remoteID string) (*peer.Session, error)
	Accepted() <-chan *peer.Session
}

type dialResult struct {
	remoteID string
	session  *peer.Session
	err      error
}

// Loop is the single goroutine that owns the Match. Inputs from the UI are queued onto it.
type Loop struct {
	logger   *slog.Logger
	match    *Match
	node     node
	observer Observer

	inputs  chan func(ctx context.Context)
	dialed  chan dialResult
	stopped chan struct{}

	current *peer.Session
}

func NewLoop(logger *slog.Logger, match *Match, node node, observer Observer) *Loop {
	return &Loop{
		logger:   logger.With("component", "loop"),
		match:    match,
		node:     node,
		observer: observer,
		inputs:   make(chan func(ctx context.Context)),
		dialed:   make(chan dialResult),
		stopped:  make(chan struct{}),
	}
}

// Run blocks until ctx is done.
func (that *Loop) Run(ctx context.Context) error {
	defer close(that.stopped)
	defer that.drop()

	that.match.publish()

	for {
		var (
			messages <-chan protocol.Message
			done     <-chan struct{}
		)

		if that.current != nil {
			messages = that.current.Messages()
			done = that.current.Done()
		}

		select {
		case <-ctx.Done():
			return nil
		case input := <-that.inputs:
			input(ctx)
		case result := <-that.dialed:
			that.handleDialed(ctx, result)
		case session := <-that.node.Accepted():
			that.adopt(ctx, session, false)
		case msg := <-messages:
			if err := that.match.Handle(ctx, msg); err != nil {
				that.report(err)
			}
		case <-done:
			that.logger.Info("peer channel closed", "remote", that.current.RemoteID())
			that.current = nil
			that.match.Close()
			that.observer.Notice(NoticeDisconnected)
		}
	}
}

// Connect dials remoteID in the background. Failures leave the current session alone.
func (that *Loop) Connect(remoteID string) {
	that.submit(func(ctx context.Context) {
		go func() {
			session, err := that.node.Connect(ctx, remoteID)

			select {
			case that.dialed <- dialResult{remoteID: remoteID, session: session, err: err}:
			case <-ctx.Done():
				if session != nil {
					_ = session.Close()
				}
			}
		}()
	})
}

func (that *Loop) Move(index, rank int) {
	that.submit(func(ctx context.Context) {
		that.match.LocalMove(ctx, rules.Move{Index: index, Rank: rank})
	})
}

func (that *Loop) Rematch() {
	that.submit(func(context.Context) {
		that.match.RequestRematch()
	})
}

// Disconnect closes the current session, if any.
func (that *Loop) Disconnect() {
	that.submit(func(context.Context) {
		that.drop()
	})
}

func (that *Loop) submit(input func(ctx context.Context)) {
	select {
	case that.inputs <- input:
	case <-that.stopped:
	}
}

func (that *Loop) handleDialed(ctx context.Context, result dialResult) {
	if result.err != nil {
		that.logger.Warn("failed to connect", "remote", result.remoteID, "error", result.err)
		that.observer.Notice(connectNotice(result.err))

		return
	}

	that.adopt(ctx, result.session, true)
}

// adopt makes session current. The newest session wins; the previous one is closed.
func (that *Loop) adopt(ctx context.Context, session *peer.Session, initiator bool) {
	if that.current != nil {
		that.logger.Info("replacing session", "old", that.current.RemoteID(), "new", session.RemoteID())
		that.drop()
	}

	that.current = session
	that.match.Open(ctx, session, session.RemoteID(), initiator)
}

func (that *Loop) drop() {
	if that.current == nil {
		return
	}

	_ = that.current.Close()
	that.current = nil
	that.match.Close()
}

func (that *Loop) report(err error) {
	that.logger.Warn("inbound message", "error", err)

	if errors.Is(err, apperror.ErrStateDiverged) {
		that.observer.Notice(NoticeDiverged)
	}
}

func connectNotice(err error) string {
	switch {
	case errors.Is(err, apperror.ErrInvalidPeerID):
		return "Invalid opponent id"
	case errors.Is(err, apperror.ErrSelfConnect):
		return "You cannot play against yourself"
	case errors.Is(err, apperror.ErrPeerUnreachable):
		return "Opponent is not reachable"
	default:
		return "Connection failed"
	}
}
