// Package metrics holds the pure display helpers for telemetry values:
// unit formatting, severity classification, and region-label display
// normalization. Nothing in here carries state or mutates input.
package metrics

import (
	"fmt"
	"math"
	"strconv"
)

const unitStep = 1024

var (
	byteUnits  = []string{"B", "KB", "MB", "GB", "TB"}
	speedUnits = []string{"B/s", "KB/s", "MB/s", "GB/s"}
)

// FormatBytes renders a byte count with base-1024 scaling, rounded to
// two decimal places with trailing zeros trimmed. Zero returns "0 B"
// without touching the logarithm.
func FormatBytes(bytes uint64) string {
	return scale(float64(bytes), byteUnits, 2)
}

// FormatSpeed renders a bytes-per-second rate with base-1024 scaling,
// rounded to one decimal place. Zero returns "0 B/s".
func FormatSpeed(bytesPerSec uint64) string {
	return scale(float64(bytesPerSec), speedUnits, 1)
}

// scale picks the largest unit the value reaches, capping at the last
// unit so oversized values still format instead of running off the list.
func scale(v float64, units []string, decimals int) string {
	if v <= 0 {
		return "0 " + units[0]
	}

	idx := int(math.Floor(math.Log(v) / math.Log(unitStep)))
	if idx < 0 {
		idx = 0
	}
	if idx > len(units)-1 {
		idx = len(units) - 1
	}

	scaled := v / math.Pow(unitStep, float64(idx))
	factor := math.Pow(10, float64(decimals))
	rounded := math.Round(scaled*factor) / factor

	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + units[idx]
}

// FormatUptime renders total seconds as whole days plus whole remaining
// hours. The days term is omitted when zero; the hours term is omitted
// when zero while days is not (exactly 2 days renders days-only).
func FormatUptime(seconds uint64) string {
	days := seconds / 86400
	hours := (seconds % 86400) / 3600

	switch {
	case days > 0 && hours > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case days > 0:
		return fmt.Sprintf("%dd", days)
	default:
		return fmt.Sprintf("%dh", hours)
	}
}

// UsagePercent converts a (used, total) capacity pair into a percentage.
// A zero total yields 0 rather than dividing; ratios above 100 from
// malformed input are passed through unclamped.
func UsagePercent(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total) * 100
}

// FormatPercent renders a percentage with one decimal place.
func FormatPercent(pct float64) string {
	return strconv.FormatFloat(math.Round(pct*10)/10, 'f', 1, 64) + "%"
}
