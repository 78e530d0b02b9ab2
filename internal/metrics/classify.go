package metrics

// Severity is the three-level health classification for a resource.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityWarning
	SeverityCritical
)

// String returns a human-readable severity string.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityWarning:
		return "warning"
	default:
		return "normal"
	}
}

// Resource identifies which utilization ratio is being classified.
type Resource string

const (
	ResourceCPU  Resource = "cpu"
	ResourceRAM  Resource = "ram"
	ResourceDisk Resource = "disk"
)

// thresholds holds the warning and critical cutoffs for one resource.
type thresholds struct {
	warning  float64
	critical float64
}

// Fixed per-resource cutoffs. A ratio at the cutoff classifies upward.
var resourceThresholds = map[Resource]thresholds{
	ResourceCPU:  {warning: 60, critical: 80},
	ResourceRAM:  {warning: 70, critical: 85},
	ResourceDisk: {warning: 75, critical: 90},
}

// Classify maps a utilization ratio to a severity for the given
// resource. Ratios are not clamped: malformed input above 100 still
// classifies as critical through the ordinary comparison. Unknown
// resources classify as normal.
func Classify(resource Resource, ratio float64) Severity {
	t, ok := resourceThresholds[resource]
	if !ok {
		return SeverityNormal
	}
	switch {
	case ratio >= t.critical:
		return SeverityCritical
	case ratio >= t.warning:
		return SeverityWarning
	default:
		return SeverityNormal
	}
}
