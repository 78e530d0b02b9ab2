package fleet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_Empty(t *testing.T) {
	snap := Aggregate(nil)

	assert.Equal(t, 0, snap.Total)
	assert.Equal(t, 0, snap.Online)
	assert.Equal(t, 0, snap.Offline)
	assert.Equal(t, []string{}, snap.Groups)
	assert.Equal(t, uint64(0), snap.NetUpSpeed)
	assert.Equal(t, uint64(0), snap.NetDownSpeed)
	assert.Equal(t, uint64(0), snap.NetUpTransfer)
	assert.Equal(t, uint64(0), snap.NetDownTransfer)
}

func TestAggregate_OnlineOnlyNetworkSums(t *testing.T) {
	records := []NodeViewRecord{
		{
			Node:   Node{UUID: "a", Group: "prod"},
			Status: StatusOnline,
			Stats: &NodeStats{Network: NetworkStats{
				UpSpeed: 100, DownSpeed: 200, UpTransfer: 1000, DownTransfer: 2000,
			}},
		},
		{
			Node:   Node{UUID: "b", Group: "prod"},
			Status: StatusOnline,
			Stats: &NodeStats{Network: NetworkStats{
				UpSpeed: 10, DownSpeed: 20, UpTransfer: 100, DownTransfer: 200,
			}},
		},
		{
			// Offline node with stale stats must not contribute.
			Node:   Node{UUID: "c", Group: "staging"},
			Status: StatusOffline,
			Stats: &NodeStats{Network: NetworkStats{
				UpSpeed: 9999, DownSpeed: 9999, UpTransfer: 9999, DownTransfer: 9999,
			}},
		},
	}

	snap := Aggregate(records)

	assert.Equal(t, 3, snap.Total)
	assert.Equal(t, 2, snap.Online)
	assert.Equal(t, 1, snap.Offline)
	assert.Equal(t, uint64(110), snap.NetUpSpeed)
	assert.Equal(t, uint64(220), snap.NetDownSpeed)
	assert.Equal(t, uint64(1100), snap.NetUpTransfer)
	assert.Equal(t, uint64(2200), snap.NetDownTransfer)
}

func TestAggregate_OnlineWithoutStatsContributesZero(t *testing.T) {
	records := []NodeViewRecord{
		{Node: Node{UUID: "a"}, Status: StatusOnline},
	}

	snap := Aggregate(records)

	assert.Equal(t, 1, snap.Online)
	assert.Equal(t, uint64(0), snap.NetUpSpeed)
	assert.Equal(t, uint64(0), snap.NetDownSpeed)
}

func TestAggregate_SilentNodeStaysOffline(t *testing.T) {
	r := NewRegistry()
	m := NewMerger(r, DefaultStalenessWindow)
	require.NoError(t, r.ReplaceAll([]Node{
		{UUID: "a", Name: "a"}, {UUID: "b", Name: "b"}, {UUID: "c", Name: "c"},
	}))

	now := time.Now()
	require.Equal(t, FrameApplied, m.Apply("a", NodeStats{
		Network: NetworkStats{UpSpeed: 100, DownSpeed: 50},
	}, now))
	require.Equal(t, FrameApplied, m.Apply("b", NodeStats{
		Network: NetworkStats{UpSpeed: 30, DownSpeed: 20},
	}, now))
	// c never reports.

	snap := Aggregate(r.All())
	assert.Equal(t, 3, snap.Total)
	assert.Equal(t, 2, snap.Online)
	assert.Equal(t, 1, snap.Offline)
	assert.Equal(t, uint64(130), snap.NetUpSpeed)
	assert.Equal(t, uint64(70), snap.NetDownSpeed)
}

func TestAggregate_Groups(t *testing.T) {
	records := []NodeViewRecord{
		{Node: Node{UUID: "a", Group: "prod"}},
		{Node: Node{UUID: "b", Group: "staging"}},
		{Node: Node{UUID: "c", Group: "prod"}},
		{Node: Node{UUID: "d", Group: ""}},
		{Node: Node{UUID: "e", Group: "  "}},
		{Node: Node{UUID: "f", Group: "Prod"}},
	}

	snap := Aggregate(records)

	// Deduped case-sensitively, first-seen order, blanks excluded.
	assert.Equal(t, []string{"prod", "staging", "Prod"}, snap.Groups)
	// Blank-group nodes still count toward totals.
	assert.Equal(t, 6, snap.Total)
}
