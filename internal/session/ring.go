package session

// ring is a fixed-size circular buffer. Pushing past capacity overwrites the
// oldest element.
type ring[T any] struct {
	data  []T
	head  int
	count int
	size  int
}

// newRing creates a ring buffer holding at most size elements.
func newRing[T any](size int) *ring[T] {
	if size < 1 {
		size = 1
	}
	return &ring[T]{
		data: make([]T, size),
		size: size,
	}
}

// push appends v, evicting the oldest element when full.
func (r *ring[T]) push(v T) {
	r.data[r.head] = v
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// last returns up to n most recent elements, oldest first.
func (r *ring[T]) last(n int) []T {
	if n <= 0 || r.count == 0 {
		return nil
	}
	if n > r.count {
		n = r.count
	}

	out := make([]T, n)
	// head is the next write slot, so the newest element sits at head-1.
	start := (r.head - n + r.size) % r.size
	for i := 0; i < n; i++ {
		out[i] = r.data[(start+i)%r.size]
	}
	return out
}

// all returns every stored element, oldest first.
func (r *ring[T]) all() []T {
	return r.last(r.count)
}

// newest returns the most recently pushed element.
func (r *ring[T]) newest() (T, bool) {
	var zero T
	if r.count == 0 {
		return zero, false
	}
	return r.data[(r.head-1+r.size)%r.size], true
}

func (r *ring[T]) len() int { return r.count }

func (r *ring[T]) capacity() int { return r.size }

// reset drops every element.
func (r *ring[T]) reset() {
	var zero T
	for i := range r.data {
		r.data[i] = zero
	}
	r.head = 0
	r.count = 0
}
