package dash

// defaultHistorySize is how many CPU samples are retained per node,
// enough to fill the detail sparkline at one sample per publish.
const defaultHistorySize = 60

// cpuHistory keeps a short per-node CPU trace for the detail sparkline.
// It lives entirely inside the dashboard model; registry state never
// carries history.
type cpuHistory struct {
	size  int
	nodes map[string]*ringBuffer
}

func newCPUHistory(size int) *cpuHistory {
	if size <= 0 {
		size = defaultHistorySize
	}
	return &cpuHistory{
		size:  size,
		nodes: make(map[string]*ringBuffer),
	}
}

// Push records one CPU sample for uuid.
func (h *cpuHistory) Push(uuid string, cpu float64) {
	buf, ok := h.nodes[uuid]
	if !ok {
		buf = newRingBuffer(h.size)
		h.nodes[uuid] = buf
	}
	buf.Push(cpu)
}

// Values returns the samples for uuid in chronological order.
func (h *cpuHistory) Values(uuid string) []float64 {
	if buf, ok := h.nodes[uuid]; ok {
		return buf.Values()
	}
	return nil
}

// Prune drops history for uuids no longer present in the registry.
func (h *cpuHistory) Prune(alive map[string]bool) {
	for uuid := range h.nodes {
		if !alive[uuid] {
			delete(h.nodes, uuid)
		}
	}
}

// ringBuffer is a fixed-size circular buffer for float64 samples.
type ringBuffer struct {
	data  []float64
	head  int
	count int
	size  int
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]float64, size),
		size: size,
	}
}

// Push adds a value, evicting the oldest once full.
func (r *ringBuffer) Push(v float64) {
	r.data[r.head] = v
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// Values returns the buffered values oldest-first.
func (r *ringBuffer) Values() []float64 {
	out := make([]float64, 0, r.count)
	start := r.head - r.count
	if start < 0 {
		start += r.size
	}
	for i := 0; i < r.count; i++ {
		out = append(out, r.data[(start+i)%r.size])
	}
	return out
}
