package fleet

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFeed struct {
	events chan Event
	state  ConnState
}

func newStubFeed() *stubFeed {
	return &stubFeed{events: make(chan Event, 16), state: ConnConnected}
}

func (f *stubFeed) Events() <-chan Event { return f.events }
func (f *stubFeed) State() ConnState     { return f.state }

type stubSource struct {
	mu    sync.Mutex
	nodes []Node
	err   error
	calls int
}

func (s *stubSource) FetchNodes(ctx context.Context) ([]Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]Node, len(s.nodes))
	copy(out, s.nodes)
	return out, nil
}

func (s *stubSource) setNodes(nodes []Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = nodes
}

func startTestEngine(t *testing.T, feed *stubFeed, source *stubSource) *Engine {
	t.Helper()
	e := NewEngine(feed, source, EngineOptions{
		StalenessWindow: time.Minute,
	})
	e.Start(context.Background())
	t.Cleanup(e.Close)
	return e
}

func TestEngine_InitialFetchPopulatesRegistry(t *testing.T) {
	source := &stubSource{nodes: []Node{testNode("a", "alpha"), testNode("b", "beta")}}
	e := startTestEngine(t, newStubFeed(), source)

	require.Eventually(t, func() bool {
		return e.Snapshot().Total == 2
	}, time.Second, 5*time.Millisecond)

	records := e.Records()
	require.Len(t, records, 2)
	assert.Equal(t, StatusOffline, records[0].Status)
	assert.Equal(t, 2, e.Snapshot().Offline)
}

func TestEngine_TelemetryEventGoesOnline(t *testing.T) {
	feed := newStubFeed()
	source := &stubSource{nodes: []Node{testNode("a", "alpha")}}
	e := startTestEngine(t, feed, source)

	require.Eventually(t, func() bool {
		return e.Snapshot().Total == 1
	}, time.Second, 5*time.Millisecond)

	feed.events <- Event{
		Kind:       EventTelemetry,
		UUID:       "a",
		Stats:      NodeStats{CPU: 42, Network: NetworkStats{UpSpeed: 7}},
		ObservedAt: time.Now(),
	}

	require.Eventually(t, func() bool {
		return e.Snapshot().Online == 1
	}, time.Second, 5*time.Millisecond)

	rec, ok := e.Get("a")
	require.True(t, ok)
	assert.Equal(t, 42.0, rec.Stats.CPU)
	assert.Equal(t, uint64(7), e.Snapshot().NetUpSpeed)
}

func TestEngine_DisconnectMarksFleetOffline(t *testing.T) {
	feed := newStubFeed()
	source := &stubSource{nodes: []Node{testNode("a", "alpha"), testNode("b", "beta")}}
	e := startTestEngine(t, feed, source)

	require.Eventually(t, func() bool {
		return e.Snapshot().Total == 2
	}, time.Second, 5*time.Millisecond)

	feed.events <- Event{Kind: EventTelemetry, UUID: "a", Stats: NodeStats{}, ObservedAt: time.Now()}
	feed.events <- Event{Kind: EventTelemetry, UUID: "b", Stats: NodeStats{}, ObservedAt: time.Now()}

	require.Eventually(t, func() bool {
		return e.Snapshot().Online == 2
	}, time.Second, 5*time.Millisecond)

	feed.events <- Event{Kind: EventDisconnected, Reason: "remote closed"}

	require.Eventually(t, func() bool {
		return e.Snapshot().Offline == 2
	}, time.Second, 5*time.Millisecond)
}

func TestEngine_FetchErrorSurfacesWithoutClearingData(t *testing.T) {
	source := &stubSource{nodes: []Node{testNode("a", "alpha")}}
	e := startTestEngine(t, newStubFeed(), source)

	require.Eventually(t, func() bool {
		return e.Snapshot().Total == 1
	}, time.Second, 5*time.Millisecond)

	source.mu.Lock()
	source.err = errors.New("registry endpoint down")
	source.mu.Unlock()
	e.Refresh()

	require.Eventually(t, func() bool {
		return e.LastFetchError() != nil
	}, time.Second, 5*time.Millisecond)

	// Last-known data stays intact behind the error banner.
	assert.Equal(t, 1, e.Snapshot().Total)

	source.mu.Lock()
	source.err = nil
	source.mu.Unlock()
	e.Refresh()

	require.Eventually(t, func() bool {
		return e.LastFetchError() == nil
	}, time.Second, 5*time.Millisecond)
}

func TestEngine_RefreshAppliesValidEntriesDespiteRejects(t *testing.T) {
	source := &stubSource{nodes: []Node{testNode("a", "alpha")}}
	e := startTestEngine(t, newStubFeed(), source)

	require.Eventually(t, func() bool {
		return e.Snapshot().Total == 1
	}, time.Second, 5*time.Millisecond)

	// One malformed entry must not block the refresh for the rest.
	source.setNodes([]Node{
		testNode("a", "alpha"),
		testNode("", "nameless"),
		testNode("b", "beta"),
	})
	e.Refresh()

	require.Eventually(t, func() bool {
		return e.Snapshot().Total == 2
	}, time.Second, 5*time.Millisecond)
	require.Error(t, e.LastFetchError())

	// A clean payload clears the banner.
	source.setNodes([]Node{testNode("a", "alpha"), testNode("b", "beta")})
	e.Refresh()
	require.Eventually(t, func() bool {
		return e.LastFetchError() == nil
	}, time.Second, 5*time.Millisecond)
}

func TestEngine_RefreshAppliesNewNodeSet(t *testing.T) {
	source := &stubSource{nodes: []Node{testNode("a", "alpha")}}
	e := startTestEngine(t, newStubFeed(), source)

	require.Eventually(t, func() bool {
		return e.Snapshot().Total == 1
	}, time.Second, 5*time.Millisecond)

	source.setNodes([]Node{testNode("a", "alpha"), testNode("b", "beta")})
	e.Refresh()

	require.Eventually(t, func() bool {
		return e.Snapshot().Total == 2
	}, time.Second, 5*time.Millisecond)
}

func TestEngine_SweepFlipsSilentNodes(t *testing.T) {
	feed := newStubFeed()
	source := &stubSource{nodes: []Node{testNode("a", "alpha")}}

	e := NewEngine(feed, source, EngineOptions{
		StalenessWindow: 50 * time.Millisecond,
		SweepInterval:   10 * time.Millisecond,
	})
	e.Start(context.Background())
	t.Cleanup(e.Close)

	require.Eventually(t, func() bool {
		return e.Snapshot().Total == 1
	}, time.Second, 5*time.Millisecond)

	feed.events <- Event{Kind: EventTelemetry, UUID: "a", Stats: NodeStats{}, ObservedAt: time.Now()}
	require.Eventually(t, func() bool {
		return e.Snapshot().Online == 1
	}, time.Second, 5*time.Millisecond)

	// No further frames; the sweep must flip the node offline.
	require.Eventually(t, func() bool {
		return e.Snapshot().Offline == 1
	}, time.Second, 5*time.Millisecond)
}

func TestEngine_SubscribeNotifiesOnChange(t *testing.T) {
	feed := newStubFeed()
	source := &stubSource{nodes: []Node{testNode("a", "alpha")}}
	e := startTestEngine(t, feed, source)

	ch, unsub := e.Subscribe()
	defer unsub()

	feed.events <- Event{Kind: EventTelemetry, UUID: "a", Stats: NodeStats{}, ObservedAt: time.Now()}

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a change notification")
	}
}

func TestEngine_CloseWithoutStartReturns(t *testing.T) {
	source := &stubSource{nodes: []Node{testNode("a", "alpha")}}
	e := NewEngine(newStubFeed(), source, EngineOptions{StalenessWindow: time.Minute})

	done := make(chan struct{})
	go func() {
		e.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close blocked on an engine that was never started")
	}
}

func TestEngine_SubscribeAfterCloseReturnsClosedChannel(t *testing.T) {
	source := &stubSource{nodes: []Node{testNode("a", "alpha")}}
	e := NewEngine(newStubFeed(), source, EngineOptions{StalenessWindow: time.Minute})
	e.Start(context.Background())
	e.Close()

	ch, unsub := e.Subscribe()
	defer unsub()

	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel from a closed engine must be closed")
	default:
		t.Fatal("expected a closed channel")
	}
}

func TestEngine_NoNotificationsAfterClose(t *testing.T) {
	feed := newStubFeed()
	source := &stubSource{nodes: []Node{testNode("a", "alpha")}}
	e := NewEngine(feed, source, EngineOptions{StalenessWindow: time.Minute})
	e.Start(context.Background())

	ch, unsub := e.Subscribe()
	defer unsub()

	e.Close()

	// The loop has drained; the subscriber channel is closed, not sent to.
	_, ok := <-ch
	assert.False(t, ok)
}

func TestEngine_SupervisorChannelCloseKeepsServing(t *testing.T) {
	feed := newStubFeed()
	source := &stubSource{nodes: []Node{testNode("a", "alpha")}}
	e := startTestEngine(t, feed, source)

	require.Eventually(t, func() bool {
		return e.Snapshot().Total == 1
	}, time.Second, 5*time.Millisecond)

	close(feed.events)

	// Last-known data is still readable after the feed is gone for good.
	assert.Equal(t, 1, e.Snapshot().Total)
	source.setNodes([]Node{testNode("a", "alpha"), testNode("b", "beta")})
	e.Refresh()
	require.Eventually(t, func() bool {
		return e.Snapshot().Total == 2
	}, time.Second, 5*time.Millisecond)
}
