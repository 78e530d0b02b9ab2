package fleet

import (
	"time"
)

// ApplyResult describes what the merger did with a telemetry frame.
// Discards are expected operating conditions, not errors.
type ApplyResult int

const (
	// FrameApplied means the frame became the node's authoritative stats.
	FrameApplied ApplyResult = iota
	// FrameUnknownNode means the uuid is not registered yet; the frame was
	// dropped silently. Normal during the race between the registry fetch
	// and the live feed.
	FrameUnknownNode
	// FrameStale means the frame's observedAt is older than the applied
	// watermark for that node; replays and out-of-order frames land here.
	FrameStale
)

// DefaultStalenessWindow is how long a node may stay silent before the
// sweep presumes it offline.
const DefaultStalenessWindow = 15 * time.Second

// On feed disconnect every node is optimistically marked offline rather
// than frozen at last-known status. A stale "online" badge is worse than a
// briefly pessimistic "offline" one; reconnection repairs status within
// one telemetry frame. This is the single place the policy lives.
const markOfflineOnDisconnect = true

// Merger folds live telemetry frames into a Registry and owns the
// online/offline liveness transitions.
type Merger struct {
	registry *Registry
	window   time.Duration
}

// NewMerger creates a merger over registry with the given staleness
// window. A non-positive window falls back to DefaultStalenessWindow.
func NewMerger(registry *Registry, window time.Duration) *Merger {
	if window <= 0 {
		window = DefaultStalenessWindow
	}
	return &Merger{registry: registry, window: window}
}

// Window returns the configured staleness window.
func (m *Merger) Window() time.Duration {
	return m.window
}

// Apply merges one telemetry frame. The frame replaces the node's stats
// wholesale, marks the node online, and advances its last-seen timestamp.
// Frames with an observedAt at or before the applied watermark are
// dropped, which makes replays idempotent.
func (m *Merger) Apply(uuid string, stats NodeStats, observedAt time.Time) ApplyResult {
	m.registry.mu.Lock()
	defer m.registry.mu.Unlock()

	rec, ok := m.registry.records[uuid]
	if !ok {
		return FrameUnknownNode
	}

	// Equal watermarks are replays of the already-applied frame.
	watermark := observedAt.UnixNano()
	if rec.Stats != nil && watermark <= rec.lastObserved {
		return FrameStale
	}

	s := stats
	rec.Stats = &s
	rec.Status = StatusOnline
	rec.LastSeen = time.Now()
	rec.lastObserved = watermark
	return FrameApplied
}

// MarkOffline handles an explicit offline signal from the live feed.
// Unknown uuids are ignored. The node's last stats stay visible.
func (m *Merger) MarkOffline(uuid string) {
	m.registry.mu.Lock()
	defer m.registry.mu.Unlock()

	if rec, ok := m.registry.records[uuid]; ok {
		rec.Status = StatusOffline
	}
}

// Sweep flips nodes offline when no telemetry has been observed within
// the staleness window. It runs from a periodic timer, never from Apply.
// Returns the number of nodes flipped.
func (m *Merger) Sweep(now time.Time) int {
	m.registry.mu.Lock()
	defer m.registry.mu.Unlock()

	flipped := 0
	for _, rec := range m.registry.records {
		if rec.Status != StatusOnline {
			continue
		}
		if now.Sub(rec.LastSeen) > m.window {
			rec.Status = StatusOffline
			flipped++
		}
	}
	return flipped
}

// HandleDisconnect applies the disconnect policy to the whole fleet.
func (m *Merger) HandleDisconnect() {
	if !markOfflineOnDisconnect {
		return
	}

	m.registry.mu.Lock()
	defer m.registry.mu.Unlock()

	for _, rec := range m.registry.records {
		rec.Status = StatusOffline
	}
}
