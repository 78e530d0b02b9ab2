package dash

import (
	"strings"

	"github.com/fleetdeck/fleetdeck/internal/metrics"
)

// Sparkline block characters, eight vertical levels low to high.
var sparklineBlocks = []rune("▁▂▃▄▅▆▇█")

// renderSparkline draws the most recent width samples as a sparkline,
// colored by the severity of the latest value. Values are percentages,
// mapped against a fixed 0-100 scale so a calm trace stays flat.
func (s Styles) renderSparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	levels := len(sparklineBlocks)
	var b strings.Builder
	b.Grow(len(data) * 3)
	for _, v := range data {
		level := int(v / 100 * float64(levels-1))
		if level < 0 {
			level = 0
		}
		if level >= levels {
			level = levels - 1
		}
		b.WriteRune(sparklineBlocks[level])
	}

	sev := metrics.Classify(metrics.ResourceCPU, data[len(data)-1])
	return s.severityStyle(sev).Render(b.String())
}
