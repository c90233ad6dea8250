package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const peerKeyPrefix = "peer:"

var ErrPeerNotFound = errors.New("peer not found")

// PeerDirectory maps human-chosen peer ids to dialable addresses.
type PeerDirectory interface {
	Register(ctx context.Context, id, addr string, ttl time.Duration) error
	Lookup(ctx context.Context, id string) (string, error)
	Unregister(ctx context.Context, id string) error
}

type dbDirectory struct {
	client *redis.Client
}

func NewPeerDirectory(client *redis.Client) PeerDirectory {
	return &dbDirectory{
		client: client,
	}
}

// Register - an entry lives for ttl unless refreshed; zero ttl keeps it forever.
func (that *dbDirectory) Register(ctx context.Context, id, addr string, ttl time.Duration) error {
	if err := that.client.Set(ctx, peerKeyPrefix+id, addr, ttl).Err(); err != nil {
		return fmt.Errorf("failed to register peer: %w", err)
	}

	return nil
}

func (that *dbDirectory) Lookup(ctx context.Context, id string) (string, error) {
	addr, err := that.client.Get(ctx, peerKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrPeerNotFound
	}

	if err != nil {
		return "", fmt.Errorf("failed to lookup peer: %w", err)
	}

	return addr, nil
}

func (that *dbDirectory) Unregister(ctx context.Context, id string) error {
	if err := that.client.Del(ctx, peerKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to unregister peer: %w", err)
	}

	return nil
}

// StaticDirectory is an in-process directory seeded from config; ttl is ignored.
type StaticDirectory struct {
	mu    sync.RWMutex
	peers map[string]string
}

func NewStaticDirectory(peers map[string]string) *StaticDirectory {
	copied := make(map[string]string, len(peers))
	for id, addr := range peers {
		copied[id] = addr
	}

	return &StaticDirectory{peers: copied}
}

func (that *StaticDirectory) Register(_ context.Context, id, addr string, _ time.Duration) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.peers[id] = addr

	return nil
}

func (that *StaticDirectory) Lookup(_ context.Context, id string) (string, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	addr, ok := that.peers[id]
	if !ok {
		return "", ErrPeerNotFound
	}

	return addr, nil
}

func (that *StaticDirectory) Unregister(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.peers, id)

	return nil
}
