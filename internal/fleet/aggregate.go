package fleet

import "strings"

// Aggregate derives the fleet-wide counters from a point-in-time record
// slice. Pure function, O(n), no side effects.
//
// Network sums cover online nodes only; an online node whose telemetry
// has not arrived yet still counts toward Online but contributes zero.
// Groups are deduplicated case-sensitively in first-seen order; blank
// group labels are excluded from Groups but their nodes still count.
func Aggregate(records []NodeViewRecord) FleetSnapshot {
	snap := FleetSnapshot{
		Total:  len(records),
		Groups: []string{},
	}

	seenGroups := make(map[string]bool)
	for _, rec := range records {
		if rec.Online() {
			snap.Online++
			if rec.Stats != nil {
				snap.NetUpSpeed += rec.Stats.Network.UpSpeed
				snap.NetDownSpeed += rec.Stats.Network.DownSpeed
				snap.NetUpTransfer += rec.Stats.Network.UpTransfer
				snap.NetDownTransfer += rec.Stats.Network.DownTransfer
			}
		} else {
			snap.Offline++
		}

		group := rec.Node.Group
		if strings.TrimSpace(group) == "" {
			continue
		}
		if !seenGroups[group] {
			seenGroups[group] = true
			snap.Groups = append(snap.Groups, group)
		}
	}

	return snap
}
