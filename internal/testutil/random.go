package testutil

import "sync"

// SequenceRandom replays a fixed list of draws. It satisfies the
// func(n uint64) uint64 shape used for injectable random sources: each
// call returns the next value reduced modulo n, cycling when the list is
// exhausted.
//
// Thread-safety: Draw is safe for concurrent use.
type SequenceRandom struct {
	mu     sync.Mutex
	values []uint64
	next   int
	limits []uint64
}

// NewSequenceRandom creates a source replaying values. With no values every
// draw is 0.
func NewSequenceRandom(values ...uint64) *SequenceRandom {
	return &SequenceRandom{values: values}
}

// Draw returns the next value modulo n.
func (r *SequenceRandom) Draw(n uint64) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limits = append(r.limits, n)
	if len(r.values) == 0 || n == 0 {
		return 0
	}
	v := r.values[r.next%len(r.values)]
	r.next++
	return v % n
}

// Limits returns the n of every draw so far, in call order.
func (r *SequenceRandom) Limits() []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uint64(nil), r.limits...)
}
