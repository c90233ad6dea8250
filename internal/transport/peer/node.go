package peer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/apperror"
)

const (
	// HeaderPeerID carries the dialing peer's id on the upgrade request.
	HeaderPeerID = "X-Peer-ID"
	Path         = "/peer"

	acceptBacklog = 4
)

var peerIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type directory interface {
	Register(ctx context.Context, id, addr string, ttl time.Duration) error
	Lookup(ctx context.Context, id string) (string, error)
	Unregister(ctx context.Context, id string) error
}

type Options struct {
	AdvertiseAddr string
	DialTimeout   time.Duration
	// TTL of the directory entry; the node refreshes it at half this interval.
	TTL time.Duration
}

// Node is the local end of the peer network, reachable under its id.
type Node struct {
	logger    *slog.Logger
	id        string
	opts      Options
	directory directory

	upgrader websocket.Upgrader
	dialer   *websocket.Dialer
	accepted chan *Session
}

func ValidatePeerID(id string) error {
	if !peerIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidPeerID, id)
	}

	return nil
}

func NewNode(logger *slog.Logger, id string, directory directory, opts Options) (*Node, error) {
	if err := ValidatePeerID(id); err != nil {
		return nil, err
	}

	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 5 * time.Second
	}

	return &Node{
		logger:    logger.With("component", "peer", "id", id),
		id:        id,
		opts:      opts,
		directory: directory,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		dialer: &websocket.Dialer{
			HandshakeTimeout: opts.DialTimeout,
		},
		accepted: make(chan *Session, acceptBacklog),
	}, nil
}

func (that *Node) ID() string {
	return that.id
}

// Accepted delivers sessions opened by remote peers.
func (that *Node) Accepted() <-chan *Session {
	return that.accepted
}

// Run keeps the directory entry alive until ctx is done, then removes it.
func (that *Node) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")

	if err := that.register(ctx); err != nil {
		return err
	}

	log.Info("peer registered", "addr", that.opts.AdvertiseAddr)

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), that.opts.DialTimeout)
		defer cancel()

		if err := that.directory.Unregister(cleanupCtx, that.id); err != nil {
			log.Warn("failed to unregister peer", "error", err)
		}
	}()

	if that.opts.TTL <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(that.opts.TTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := that.register(ctx); err != nil {
				log.Warn("failed to refresh registration", "error", err)
			}
		}
	}
}

func (that *Node) register(ctx context.Context) error {
	if err := that.directory.Register(ctx, that.id, that.opts.AdvertiseAddr, that.opts.TTL); err != nil {
		return fmt.Errorf("failed to register node: %w", err)
	}

	return nil
}

// Connect opens a session to the peer registered under remoteID.
func (that *Node) Connect(ctx context.Context, remoteID string) (*Session, error) {
	log := that.logger.With("method", "Connect", "remote", remoteID)

	if err := ValidatePeerID(remoteID); err != nil {
		return nil, err
	}

	if remoteID == that.id {
		return nil, apperror.ErrSelfConnect
	}

	addr, err := that.directory.Lookup(ctx, remoteID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrPeerUnreachable, err)
	}

	dialCtx, cancel := context.WithTimeout(ctx, that.opts.DialTimeout)
	defer cancel()

	header := http.Header{}
	header.Set(HeaderPeerID, that.id)

	conn, resp, err := that.dialer.DialContext(dialCtx, "ws://"+addr+Path, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrPeerUnreachable, err)
	}

	log.Info("connected to peer", "addr", addr)

	return newSession(that.logger, conn, remoteID), nil
}

func (that *Node) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	remoteID := req.Header.Get(HeaderPeerID)

	err := ValidatePeerID(remoteID)
	if err == nil && remoteID == that.id {
		err = apperror.ErrSelfConnect
	}

	if err != nil {
		log.Warn("rejecting peer", "error", err)
		http.Error(writer, err.Error(), statusFor(err))

		return
	}

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	session := newSession(that.logger, conn, remoteID)

	timer := time.NewTimer(that.opts.DialTimeout)
	defer timer.Stop()

	select {
	case that.accepted <- session:
		log.Info("peer connected", "remote", remoteID)
	case <-timer.C:
		log.Warn("nobody took the session, closing", "remote", remoteID)
		_ = session.Close()
	}
}

func statusFor(err error) int {
	if errors.Is(err, apperror.ErrSelfConnect) {
		return http.StatusConflict
	}

	return http.StatusBadRequest
}
