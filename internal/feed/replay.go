// Package feed provides live-feed supervisor implementations that
// satisfy the fleet.Supervisor contract. The real transport (handshake,
// reconnect backoff, heartbeat) lives outside this codebase; everything
// here is for driving the engine in tests and demos.
package feed

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/fleetdeck/fleetdeck/internal/fleet"
)

// Replay is a scripted supervisor: callers push events and the engine
// consumes them. It implements fleet.Supervisor.
type Replay struct {
	mu     sync.Mutex
	events chan fleet.Event
	state  fleet.ConnState
	closed bool
}

// NewReplay creates a replay supervisor with a buffered event stream.
func NewReplay() *Replay {
	return &Replay{
		events: make(chan fleet.Event, 64),
		state:  fleet.ConnDisconnected,
	}
}

// Events returns the event stream consumed by the engine.
func (r *Replay) Events() <-chan fleet.Event {
	return r.events
}

// State reports the scripted connection state.
func (r *Replay) State() fleet.ConnState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Connect emits a connected event and flips the state.
func (r *Replay) Connect() {
	r.mu.Lock()
	r.state = fleet.ConnConnected
	r.mu.Unlock()
	r.push(fleet.Event{Kind: fleet.EventConnected})
}

// Disconnect emits a disconnected event with the given reason.
func (r *Replay) Disconnect(reason string) {
	r.mu.Lock()
	r.state = fleet.ConnDisconnected
	r.mu.Unlock()
	r.push(fleet.Event{Kind: fleet.EventDisconnected, Reason: reason})
}

// Telemetry emits one telemetry frame.
func (r *Replay) Telemetry(uuid string, stats fleet.NodeStats, observedAt time.Time) {
	r.push(fleet.Event{
		Kind:       fleet.EventTelemetry,
		UUID:       uuid,
		Stats:      stats,
		ObservedAt: observedAt,
	})
}

// Offline emits an explicit offline signal for a node.
func (r *Replay) Offline(uuid string) {
	r.push(fleet.Event{Kind: fleet.EventOffline, UUID: uuid})
}

// Close ends the stream. Further pushes are dropped.
func (r *Replay) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed {
		r.closed = true
		r.state = fleet.ConnDisconnected
		close(r.events)
	}
}

func (r *Replay) push(ev fleet.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.events <- ev
}

// Simulator drives a Replay with randomized telemetry for a node set.
// It backs the demo dashboard so the TUI can be exercised without a
// live backend.
type Simulator struct {
	replay   *Replay
	nodes    []fleet.Node
	interval time.Duration
}

// NewSimulator creates a simulator emitting one frame per node every
// interval.
func NewSimulator(nodes []fleet.Node, interval time.Duration) *Simulator {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Simulator{
		replay:   NewReplay(),
		nodes:    nodes,
		interval: interval,
	}
}

// Supervisor returns the underlying supervisor for engine wiring.
func (s *Simulator) Supervisor() fleet.Supervisor {
	return s.replay
}

// Run emits frames until ctx is canceled. It connects first and closes
// the stream on the way out.
func (s *Simulator) Run(ctx context.Context) {
	defer s.replay.Close()

	s.replay.Connect()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	transfers := make([]fleet.NetworkStats, len(s.nodes))
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for i, n := range s.nodes {
				// A slice of the fleet stays silent each tick so the
				// staleness sweep has something to do.
				if rng.Float64() < 0.05 {
					continue
				}
				up := uint64(rng.Intn(4 << 20))
				down := uint64(rng.Intn(16 << 20))
				transfers[i].UpTransfer += up
				transfers[i].DownTransfer += down

				s.replay.Telemetry(n.UUID, fleet.NodeStats{
					CPU:      rng.Float64() * 100,
					MemUsed:  uint64(rng.Int63n(int64(n.Hardware.MemTotal + 1))),
					DiskUsed: uint64(rng.Int63n(int64(n.Hardware.DiskTotal + 1))),
					Network: fleet.NetworkStats{
						UpSpeed:      up,
						DownSpeed:    down,
						UpTransfer:   transfers[i].UpTransfer,
						DownTransfer: transfers[i].DownTransfer,
					},
					Load1:     rng.Float64() * float64(n.Hardware.CPUCores),
					Load5:     rng.Float64() * float64(n.Hardware.CPUCores),
					Load15:    rng.Float64() * float64(n.Hardware.CPUCores),
					Uptime:    uint64(now.Unix() % (90 * 86400)),
					Processes: 80 + rng.Intn(200),
					TCPConns:  rng.Intn(400),
					UDPConns:  rng.Intn(60),
				}, now)
			}
		}
	}
}
