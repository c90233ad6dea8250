package usecase

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-p2p/internal/entity"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/repository"
	"github.com/rocketscienceinc/tictactoe-p2p/internal/transport/peer"
)

const (
	eventually = 3 * time.Second
	tick       = 10 * time.Millisecond
)

type loopPeer struct {
	loop     *Loop
	observer *recorder
}

func startLoop(t *testing.T, ctx context.Context, local entity.PlayerIdentity, directory *repository.StaticDirectory) *loopPeer {
	t.Helper()

	node, err := peer.NewNode(testLogger(), local.ID, directory, peer.Options{DialTimeout: eventually})
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.Handle(peer.Path, node)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	require.NoError(t, directory.Register(ctx, local.ID, strings.TrimPrefix(srv.URL, "http://"), 0))

	observer := &recorder{}
	match, err := NewMatch(testLogger(), fileScores(t), observer, MatchOptions{
		Local: local,
		Rand:  rand.New(rand.NewSource(42)),
	})
	require.NoError(t, err)

	loop := NewLoop(testLogger(), match, node, observer)

	runCtx, cancel := context.WithCancel(ctx)
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		_ = loop.Run(runCtx)
	}()

	t.Cleanup(func() {
		cancel()
		<-stopped
	})

	return &loopPeer{loop: loop, observer: observer}
}

func (that *loopPeer) phase() entity.Phase {
	return that.observer.Session().Phase
}

func TestLoop_PlaysAGameOverTheNetwork(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	directory := repository.NewStaticDirectory(nil)
	a := startLoop(t, ctx, alice, directory)
	b := startLoop(t, ctx, bob, directory)

	// When: alice connects to bob by id
	a.loop.Connect(bob.ID)

	// Then: both sides become active
	require.Eventually(t, func() bool {
		return a.phase() == entity.PhaseActive && b.phase() == entity.PhaseActive &&
			a.observer.Session().Remote.DisplayName == "bob"
	}, eventually, tick)

	first, second := a, b
	if a.observer.Session().Side != entity.First {
		first, second = b, a
	}

	// When: First takes the top row
	for i, index := range []int{0, 3, 1, 4, 2} {
		mover := first
		if i%2 == 1 {
			mover = second
		}

		mover.loop.Move(index, 0)

		seq := i + 1
		require.Eventually(t, func() bool {
			return first.observer.Session().Seq == seq && second.observer.Session().Seq == seq
		}, eventually, tick)
	}

	// Then: both see the same win
	require.Eventually(t, func() bool {
		return first.phase() == entity.PhaseEnded && second.phase() == entity.PhaseEnded
	}, eventually, tick)

	assert.Equal(t, entity.Win(entity.First, [3]int{0, 1, 2}), second.observer.Session().Outcome)
	assert.Equal(t, CueWin, first.observer.LastCue())
	assert.Equal(t, CueLose, second.observer.LastCue())

	// When: both ask for another game
	first.loop.Rematch()
	second.loop.Rematch()

	// Then: sides are swapped
	require.Eventually(t, func() bool {
		return first.phase() == entity.PhaseActive && second.phase() == entity.PhaseActive
	}, eventually, tick)
	assert.Equal(t, entity.Second, first.observer.Session().Side)
	assert.Equal(t, entity.First, second.observer.Session().Side)

	// When: one side leaves
	first.loop.Disconnect()

	// Then: the other is told and goes idle
	require.Eventually(t, func() bool {
		return second.phase() == entity.PhaseIdle
	}, eventually, tick)
	assert.Contains(t, second.observer.Notices(), NoticeDisconnected)
}

func TestLoop_ConnectFailuresLeaveStateAlone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	directory := repository.NewStaticDirectory(nil)
	a := startLoop(t, ctx, alice, directory)

	tests := []struct {
		remoteID string
		notice   string
	}{
		{remoteID: alice.ID, notice: "You cannot play against yourself"},
		{remoteID: "not an id", notice: "Invalid opponent id"},
		{remoteID: "nobody000", notice: "Opponent is not reachable"},
	}

	for _, tt := range tests {
		a.loop.Connect(tt.remoteID)

		require.Eventually(t, func() bool {
			notices := a.observer.Notices()
			return len(notices) > 0 && notices[len(notices)-1] == tt.notice
		}, eventually, tick)

		assert.Equal(t, entity.PhaseIdle, a.phase())
	}
}

func TestLoop_NewestSessionWins(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	carol := entity.PlayerIdentity{ID: "carol789", DisplayName: "carol"}

	directory := repository.NewStaticDirectory(nil)
	a := startLoop(t, ctx, alice, directory)
	b := startLoop(t, ctx, bob, directory)
	c := startLoop(t, ctx, carol, directory)

	// Given: alice plays bob
	a.loop.Connect(bob.ID)
	require.Eventually(t, func() bool {
		return b.phase() == entity.PhaseActive
	}, eventually, tick)

	// When: carol connects to alice
	c.loop.Connect(alice.ID)

	// Then: alice now plays carol and bob is dropped
	require.Eventually(t, func() bool {
		return a.observer.Session().Remote.ID == carol.ID && a.phase() == entity.PhaseActive &&
			b.phase() == entity.PhaseIdle
	}, eventually, tick)
	assert.Equal(t, entity.PhaseActive, c.phase())
}
