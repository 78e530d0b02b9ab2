// Package fleet owns the authoritative in-memory view of the monitored
// fleet: the node registry, the telemetry merger that folds live frames
// into it, and the aggregator that derives fleet-wide counters.
package fleet

import (
	"strings"
	"time"
)

// Status represents the liveness of a node as shown to the operator.
type Status int

const (
	// StatusOffline means the node has no fresh telemetry.
	StatusOffline Status = iota
	// StatusOnline means telemetry has been observed within the staleness window.
	StatusOnline
)

// String returns a human-readable status string.
func (s Status) String() string {
	if s == StatusOnline {
		return "online"
	}
	return "offline"
}

// FreePriceAmount is the sentinel price amount that marks a node as free.
const FreePriceAmount = 0

// Price describes what a node costs per billing cycle.
// An Amount of FreePriceAmount means the node is free.
type Price struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	CycleDays int     `json:"cycle_days"`
}

// Free reports whether the price carries the free sentinel.
func (p Price) Free() bool {
	return p.Amount == FreePriceAmount
}

// Hardware describes the static hardware attributes of a node.
type Hardware struct {
	CPUModel       string `json:"cpu_model"`
	CPUCores       int    `json:"cpu_cores"`
	Arch           string `json:"arch"`
	GPU            string `json:"gpu,omitempty"`
	MemTotal       uint64 `json:"mem_total"`
	SwapTotal      uint64 `json:"swap_total"`
	DiskTotal      uint64 `json:"disk_total"`
	OS             string `json:"os"`
	Virtualization string `json:"virtualization,omitempty"`
}

// Node holds the static attributes of a monitored host. Static attributes
// only change on a full registry refresh, never via the live feed.
type Node struct {
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	Hardware  Hardware  `json:"hardware"`
	Region    string    `json:"region"`
	Price     Price     `json:"price"`
	Group     string    `json:"group"`
	Tags      string    `json:"tags"`
	Weight    int       `json:"weight"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagList splits the free-text tag field on commas and semicolons,
// dropping empty entries.
func (n Node) TagList() []string {
	raw := strings.FieldsFunc(n.Tags, func(r rune) bool {
		return r == ',' || r == ';'
	})
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// NetworkStats holds instantaneous and cumulative network counters.
type NetworkStats struct {
	UpSpeed      uint64 `json:"up_speed"`
	DownSpeed    uint64 `json:"down_speed"`
	UpTransfer   uint64 `json:"up_transfer"`
	DownTransfer uint64 `json:"down_transfer"`
}

// NodeStats is one complete live telemetry frame for a node. A frame is
// always a full snapshot; there is no partial patching.
type NodeStats struct {
	CPU       float64      `json:"cpu"`
	MemUsed   uint64       `json:"mem_used"`
	SwapUsed  uint64       `json:"swap_used"`
	DiskUsed  uint64       `json:"disk_used"`
	Network   NetworkStats `json:"network"`
	Load1     float64      `json:"load1"`
	Load5     float64      `json:"load5"`
	Load15    float64      `json:"load15"`
	Uptime    uint64       `json:"uptime"`
	Processes int          `json:"processes"`
	TCPConns  int          `json:"tcp_conns"`
	UDPConns  int          `json:"udp_conns"`
}

// NodeViewRecord is the entity presentation consumes: static attributes
// plus the last applied telemetry frame, if any, and the derived status.
type NodeViewRecord struct {
	Node     Node       `json:"node"`
	Stats    *NodeStats `json:"stats,omitempty"`
	Status   Status     `json:"status"`
	LastSeen time.Time  `json:"last_seen"`

	// lastObserved is the observedAt watermark of the applied frame,
	// used to drop out-of-order replays.
	lastObserved int64
}

// Online reports whether the record is currently marked online.
func (r NodeViewRecord) Online() bool {
	return r.Status == StatusOnline
}

// FleetSnapshot holds the derived fleet-wide counters. It is recomputed
// from scratch on every registry or telemetry change, never patched.
type FleetSnapshot struct {
	Total   int      `json:"total"`
	Online  int      `json:"online"`
	Offline int      `json:"offline"`
	Groups  []string `json:"groups"`

	// Network sums cover online nodes only.
	NetUpSpeed      uint64 `json:"net_up_speed"`
	NetDownSpeed    uint64 `json:"net_down_speed"`
	NetUpTransfer   uint64 `json:"net_up_transfer"`
	NetDownTransfer uint64 `json:"net_down_transfer"`
}
