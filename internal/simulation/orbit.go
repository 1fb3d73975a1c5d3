package simulation

import "gonum.org/v1/gonum/spatial/r2"

// OrbitHistory stores the past positions of a body in simulation time order.
//
// A zero capacity keeps every retained point forever. A positive capacity
// turns the history into a ring buffer that drops the oldest points first.
// Stride controls downsampling: only every stride-th appended position is
// retained.
type OrbitHistory struct {
	points   []r2.Vec
	head     int // index of the oldest point once the buffer is full
	capacity int
	stride   int
	recorded int // total number of Append calls
}

// NewOrbitHistory creates an orbit history. Negative arguments are treated
// as zero capacity and a stride of one.
func NewOrbitHistory(capacity, stride int) *OrbitHistory {
	if capacity < 0 {
		capacity = 0
	}
	if stride < 1 {
		stride = 1
	}
	h := &OrbitHistory{capacity: capacity, stride: stride}
	if capacity > 0 {
		h.points = make([]r2.Vec, 0, capacity)
	}
	return h
}

// Append records a new position.
func (h *OrbitHistory) Append(p r2.Vec) {
	h.recorded++
	if (h.recorded-1)%h.stride != 0 {
		return
	}
	if h.capacity == 0 || len(h.points) < h.capacity {
		h.points = append(h.points, p)
		return
	}
	h.points[h.head] = p
	h.head = (h.head + 1) % h.capacity
}

// Len returns the number of retained points.
func (h *OrbitHistory) Len() int {
	return len(h.points)
}

// Recorded returns how many positions were ever appended, retained or not.
func (h *OrbitHistory) Recorded() int {
	return h.recorded
}

// Capacity returns the ring size, zero meaning unbounded.
func (h *OrbitHistory) Capacity() int {
	return h.capacity
}

// Stride returns the downsampling factor.
func (h *OrbitHistory) Stride() int {
	return h.stride
}

// Last returns the most recently retained point.
func (h *OrbitHistory) Last() (r2.Vec, bool) {
	n := len(h.points)
	if n == 0 {
		return r2.Vec{}, false
	}
	if h.capacity > 0 && n == h.capacity {
		return h.points[(h.head+n-1)%n], true
	}
	return h.points[n-1], true
}

// Each calls fn for every retained point from oldest to newest.
func (h *OrbitHistory) Each(fn func(i int, p r2.Vec)) {
	n := len(h.points)
	for i := 0; i < n; i++ {
		fn(i, h.points[(h.head+i)%n])
	}
}

// Points returns a copy of the retained points, oldest first.
func (h *OrbitHistory) Points() []r2.Vec {
	out := make([]r2.Vec, 0, len(h.points))
	h.Each(func(_ int, p r2.Vec) {
		out = append(out, p)
	})
	return out
}
