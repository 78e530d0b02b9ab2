package fleet

import (
	"context"
	"sync"
	"time"

	"github.com/fleetdeck/fleetdeck/internal/logger"
)

// EventKind discriminates live-feed events.
type EventKind int

const (
	// EventConnected signals the feed connection is established.
	EventConnected EventKind = iota
	// EventDisconnected signals the feed connection dropped.
	EventDisconnected
	// EventTelemetry carries one complete telemetry frame for a node.
	EventTelemetry
	// EventOffline is an explicit offline signal for a node.
	EventOffline
)

// Event is one message emitted by the live-feed supervisor.
type Event struct {
	Kind       EventKind
	UUID       string    // telemetry and offline events
	Stats      NodeStats // telemetry events
	ObservedAt time.Time // telemetry events
	Reason     string    // disconnected events
}

// ConnState is the supervisor's current connection state, consumed for
// status display only.
type ConnState int

const (
	ConnDisconnected ConnState = iota
	ConnConnecting
	ConnConnected
)

// String returns a human-readable connection state.
func (s ConnState) String() string {
	switch s {
	case ConnConnected:
		return "connected"
	case ConnConnecting:
		return "connecting"
	default:
		return "disconnected"
	}
}

// Supervisor is the contract the live-feed connection owner must satisfy.
// The engine only consumes events and reads the connection state; it
// never initiates connection management, reconnects, or heartbeats.
type Supervisor interface {
	// Events returns the event stream. The supervisor closes the channel
	// when it shuts down for good.
	Events() <-chan Event
	// State reports the current connection state for display.
	State() ConnState
}

// NodeSource produces the full static node set for registry refreshes.
type NodeSource interface {
	FetchNodes(ctx context.Context) ([]Node, error)
}

// EngineOptions configures an Engine.
type EngineOptions struct {
	// StalenessWindow is forwarded to the merger; zero means default.
	StalenessWindow time.Duration
	// SweepInterval is how often the staleness sweep runs; zero picks
	// half the staleness window.
	SweepInterval time.Duration
	// RefreshInterval is how often the registry is re-fetched; zero
	// disables periodic refresh (the initial fetch still happens).
	RefreshInterval time.Duration
	// Logger defaults to logger.Noop().
	Logger logger.Logger
}

// Engine is the single logical writer over the registry. One goroutine
// processes feed events, staleness sweeps, and registry refreshes as
// atomic, non-interleaved steps, and recomputes the fleet snapshot after
// every change. Readers take point-in-time copies and never observe a
// mid-mutation registry.
type Engine struct {
	registry *Registry
	merger   *Merger
	feed     Supervisor
	source   NodeSource
	log      logger.Logger

	sweepInterval   time.Duration
	refreshInterval time.Duration

	// refreshCh carries fetched node sets into the event loop so the
	// ReplaceAll mutation stays serialized with everything else.
	refreshCh chan []Node

	mu           sync.RWMutex
	snapshot     FleetSnapshot
	lastFetchErr error
	subs         map[int]chan struct{}
	nextSubID    int
	closed       bool

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewEngine wires a registry, merger, feed supervisor, and node source
// into an engine. Call Start to begin processing and Close to tear down.
func NewEngine(feed Supervisor, source NodeSource, opts EngineOptions) *Engine {
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}

	registry := NewRegistry()
	merger := NewMerger(registry, opts.StalenessWindow)

	sweep := opts.SweepInterval
	if sweep <= 0 {
		sweep = merger.Window() / 2
	}

	return &Engine{
		registry:        registry,
		merger:          merger,
		feed:            feed,
		source:          source,
		log:             log,
		sweepInterval:   sweep,
		refreshInterval: opts.RefreshInterval,
		refreshCh:       make(chan []Node, 1),
		subs:            make(map[int]chan struct{}),
		done:            make(chan struct{}),
	}
}

// Start performs the initial registry fetch and launches the event loop.
// The loop stops when ctx is canceled or Close is called.
func (e *Engine) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	e.ctx = ctx
	e.cancel = cancel

	e.requestRefresh(ctx)
	go e.run(ctx)
}

// Refresh asks for an out-of-band registry re-fetch. Safe to call from
// any goroutine after Start; the resulting replace is still applied on
// the event loop.
func (e *Engine) Refresh() {
	if e.ctx != nil {
		e.requestRefresh(e.ctx)
	}
}

// Close stops the event loop and waits for it to drain. After Close
// returns, no subscriber notification fires again. Closing an engine
// that was never started is a no-op.
func (e *Engine) Close() {
	if e.cancel == nil {
		return
	}
	e.cancel()
	<-e.done
}

// run is the serialization point: every registry mutation happens here.
func (e *Engine) run(ctx context.Context) {
	defer close(e.done)
	defer e.closeSubs()

	sweep := time.NewTicker(e.sweepInterval)
	defer sweep.Stop()

	var refresh *time.Ticker
	var refreshC <-chan time.Time
	if e.refreshInterval > 0 {
		refresh = time.NewTicker(e.refreshInterval)
		refreshC = refresh.C
		defer refresh.Stop()
	}

	events := e.feed.Events()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-events:
			if !ok {
				// Supervisor shut down for good; keep serving last-known
				// data until the engine itself is torn down.
				events = nil
				continue
			}
			e.handleEvent(ev)

		case <-sweep.C:
			if e.merger.Sweep(time.Now()) > 0 {
				e.publish()
			}

		case <-refreshC:
			e.requestRefresh(ctx)

		case nodes := <-e.refreshCh:
			// ReplaceAll applies the valid entries even when some are
			// rejected; the validation error surfaces as a banner.
			err := e.registry.ReplaceAll(nodes)
			if err != nil {
				e.log.Warn("registry entries rejected: %v", err)
			}
			e.setFetchErr(err)
			e.publish()
		}
	}
}

// handleEvent applies one feed event as an atomic step.
func (e *Engine) handleEvent(ev Event) {
	switch ev.Kind {
	case EventConnected:
		e.log.Debug("feed connected")

	case EventDisconnected:
		e.log.Info("feed disconnected: %s", ev.Reason)
		e.merger.HandleDisconnect()
		e.publish()

	case EventTelemetry:
		switch e.merger.Apply(ev.UUID, ev.Stats, ev.ObservedAt) {
		case FrameApplied:
			e.publish()
		case FrameUnknownNode:
			e.log.Debug("telemetry for unregistered node %s dropped", ev.UUID)
		case FrameStale:
			e.log.Debug("stale frame for node %s dropped", ev.UUID)
		}

	case EventOffline:
		e.merger.MarkOffline(ev.UUID)
		e.publish()
	}
}

// requestRefresh fetches the node set off the event loop; the result is
// handed back through refreshCh so the mutation stays serialized.
func (e *Engine) requestRefresh(ctx context.Context) {
	go func() {
		nodes, err := e.source.FetchNodes(ctx)
		if err != nil {
			// Non-fatal: stale data stays displayed, the error surfaces
			// as a banner via LastFetchError.
			e.log.Warn("registry fetch failed: %v", err)
			e.setFetchErr(err)
			return
		}
		select {
		case e.refreshCh <- nodes:
		case <-ctx.Done():
		}
	}()
}

// publish recomputes the snapshot and notifies subscribers.
func (e *Engine) publish() {
	records := e.registry.All()
	snap := Aggregate(records)

	e.mu.Lock()
	e.snapshot = snap
	for _, ch := range e.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	e.mu.Unlock()
}

func (e *Engine) setFetchErr(err error) {
	e.mu.Lock()
	e.lastFetchErr = err
	e.mu.Unlock()
}

// Records returns a point-in-time copy of the node view collection.
func (e *Engine) Records() []NodeViewRecord {
	return e.registry.All()
}

// Get returns a copy of a single record.
func (e *Engine) Get(uuid string) (NodeViewRecord, bool) {
	return e.registry.Get(uuid)
}

// Snapshot returns the last computed fleet snapshot.
func (e *Engine) Snapshot() FleetSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot
}

// ConnState reports the supervisor's connection state for display.
func (e *Engine) ConnState() ConnState {
	return e.feed.State()
}

// LastFetchError returns the most recent registry fetch failure, or nil.
// Presentation renders this as a non-blocking banner over stale data.
func (e *Engine) LastFetchError() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastFetchErr
}

// Subscribe registers for change notification. The returned channel
// receives a token after every published change; the cancel func
// unregisters and guarantees no further sends.
func (e *Engine) Subscribe() (<-chan struct{}, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		ch := make(chan struct{})
		close(ch)
		return ch, func() {}
	}

	id := e.nextSubID
	e.nextSubID++
	ch := make(chan struct{}, 1)
	e.subs[id] = ch

	return ch, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs, id)
	}
}

// closeSubs closes all subscriber channels once the loop has stopped.
func (e *Engine) closeSubs() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	for id, ch := range e.subs {
		close(ch)
		delete(e.subs, id)
	}
}
