package fleet

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fleetdeck/fleetdeck/internal/errors"
)

// Registry holds the authoritative uuid -> NodeViewRecord mapping.
// Records keep the insertion order of first registration; presentation
// may re-sort its own copy.
//
// Registry methods are safe for concurrent use, but the intended model is
// a single writer (the Engine event loop) with any number of readers
// taking point-in-time copies via All.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*NodeViewRecord
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		records: make(map[string]*NodeViewRecord),
	}
}

// ReplaceAll atomically replaces the static attribute set with nodes.
// UUIDs absent from nodes are removed along with their telemetry. New
// UUIDs start offline with no stats. UUIDs present before and after keep
// their stats, status, and ordering watermark.
//
// An entry without a uuid is rejected individually: the rest of the
// payload still applies, and the skipped entries are reported in a
// VALIDATION error. Malformed optional fields are passed through
// untouched.
func (r *Registry) ReplaceAll(nodes []Node) error {
	valid := make([]Node, 0, len(nodes))
	var skipped []string
	for i, n := range nodes {
		if n.UUID == "" {
			skipped = append(skipped, fmt.Sprintf("%d (%q)", i, n.Name))
			continue
		}
		valid = append(valid, n)
	}
	nodes = valid

	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(map[string]*NodeViewRecord, len(nodes))
	order := make([]string, 0, len(nodes))

	// Preserve first-seen ordering for nodes that survive the replace.
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		seen[n.UUID] = true
	}
	for _, uuid := range r.order {
		if seen[uuid] {
			order = append(order, uuid)
		}
	}

	for _, n := range nodes {
		if _, ok := next[n.UUID]; ok {
			// Duplicate uuid in the payload: last entry wins, order unchanged.
			next[n.UUID].Node = n
			continue
		}
		if prev, ok := r.records[n.UUID]; ok {
			rec := *prev
			rec.Node = n
			next[n.UUID] = &rec
		} else {
			next[n.UUID] = &NodeViewRecord{Node: n, Status: StatusOffline}
			order = append(order, n.UUID)
		}
	}

	r.records = next
	r.order = order

	if len(skipped) > 0 {
		return errors.New(errors.ErrValidation,
			"Registry entries without a uuid were skipped: "+strings.Join(skipped, ", "),
			"Every node in the registry payload must carry a uuid field")
	}
	return nil
}

// Get returns a copy of the record for uuid, or false if unknown.
func (r *Registry) Get(uuid string) (NodeViewRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[uuid]
	if !ok {
		return NodeViewRecord{}, false
	}
	return copyRecord(rec), true
}

// All returns the records in stable first-seen order. The result is a
// deep copy; mutating it never touches registry state.
func (r *Registry) All() []NodeViewRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]NodeViewRecord, 0, len(r.order))
	for _, uuid := range r.order {
		if rec, ok := r.records[uuid]; ok {
			out = append(out, copyRecord(rec))
		}
	}
	return out
}

// Len returns the number of registered nodes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// copyRecord deep-copies a record so callers cannot reach internal storage.
func copyRecord(rec *NodeViewRecord) NodeViewRecord {
	out := *rec
	if rec.Stats != nil {
		stats := *rec.Stats
		out.Stats = &stats
	}
	return out
}
