package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-p2p/testing/suite"
)

func testDirectory(t *testing.T, ctx context.Context, directory PeerDirectory) {
	t.Helper()

	// Given: a registered peer
	require.NoError(t, directory.Register(ctx, "alice123", "10.0.0.1:7070", time.Minute))

	// When: looking it up
	addr, err := directory.Lookup(ctx, "alice123")

	// Then: the address comes back
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1:7070", addr)

	// When: the peer re-registers elsewhere, the newest address wins
	require.NoError(t, directory.Register(ctx, "alice123", "10.0.0.2:7070", time.Minute))
	addr, err = directory.Lookup(ctx, "alice123")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2:7070", addr)

	// When: it leaves
	require.NoError(t, directory.Unregister(ctx, "alice123"))

	// Then: lookups fail
	_, err = directory.Lookup(ctx, "alice123")
	assert.ErrorIs(t, err, ErrPeerNotFound)

	_, err = directory.Lookup(ctx, "nobody000")
	assert.ErrorIs(t, err, ErrPeerNotFound)
}

func TestStaticDirectory(t *testing.T) {
	t.Run("Seeded peers resolve", func(t *testing.T) {
		seed := map[string]string{"bob456": "localhost:7071"}
		directory := NewStaticDirectory(seed)
		seed["bob456"] = "changed"

		addr, err := directory.Lookup(context.Background(), "bob456")

		require.NoError(t, err)
		assert.Equal(t, "localhost:7071", addr)
	})

	t.Run("Register and Unregister", func(t *testing.T) {
		testDirectory(t, context.Background(), NewStaticDirectory(nil))
	})
}

func TestPeerDirectory_Redis(t *testing.T) {
	t.Run("Register and Unregister", func(t *testing.T) {
		ctx, st := suite.New(t)

		testDirectory(t, ctx, NewPeerDirectory(st.Storage))
	})

	t.Run("Entries expire", func(t *testing.T) {
		ctx, st := suite.New(t)
		directory := NewPeerDirectory(st.Storage)

		require.NoError(t, directory.Register(ctx, "alice123", "10.0.0.1:7070", time.Minute))

		ttl, err := st.Storage.TTL(ctx, "peer:alice123").Result()
		require.NoError(t, err)

		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Minute)
	})
}
