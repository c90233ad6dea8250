package peer

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/protocol"
)

const writeWait = 10 * time.Second

// Session is one open data channel to a remote peer.
type Session struct {
	logger   *slog.Logger
	remoteID string
	conn     *websocket.Conn

	writeMu sync.Mutex

	messages chan protocol.Message
	closing  chan struct{}
	done     chan struct{}

	closeOnce sync.Once
}

func newSession(logger *slog.Logger, conn *websocket.Conn, remoteID string) *Session {
	session := &Session{
		logger:   logger.With("remote", remoteID),
		remoteID: remoteID,
		conn:     conn,
		messages: make(chan protocol.Message),
		closing:  make(chan struct{}),
		done:     make(chan struct{}),
	}

	go session.readLoop()

	return session
}

func (that *Session) RemoteID() string {
	return that.remoteID
}

// Messages delivers inbound messages in the order the remote sent them.
func (that *Session) Messages() <-chan protocol.Message {
	return that.messages
}

// Done is closed once the channel is gone, after every received message was delivered.
func (that *Session) Done() <-chan struct{} {
	return that.done
}

func (that *Session) Send(msg protocol.Message) error {
	select {
	case <-that.closing:
		return apperror.ErrNoSession
	case <-that.done:
		return apperror.ErrNoSession
	default:
	}

	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err = that.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to send %s: %w", msg.Type(), err)
	}

	return nil
}

// Close is safe to call any number of times.
func (that *Session) Close() error {
	that.closeOnce.Do(func() {
		close(that.closing)

		that.writeMu.Lock()
		_ = that.conn.SetWriteDeadline(time.Now().Add(time.Second))
		_ = that.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		that.writeMu.Unlock()

		_ = that.conn.Close()
	})

	return nil
}

func (that *Session) readLoop() {
	log := that.logger.With("method", "readLoop")

	defer close(that.done)
	defer that.Close()

	for {
		_, data, err := that.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("peer channel closed unexpectedly", "error", err)
			} else {
				log.Debug("peer channel closed", "error", err)
			}

			return
		}

		msg, err := protocol.Decode(data)
		if errors.Is(err, protocol.ErrUnknownType) {
			log.Debug("dropping message", "error", err)
			continue
		}

		if err != nil {
			log.Warn("dropping malformed message", "error", err)
			continue
		}

		select {
		case that.messages <- msg:
		case <-that.closing:
			return
		}
	}
}
