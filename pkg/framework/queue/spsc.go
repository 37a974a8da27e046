// Package queue provides the fixed-capacity, lock-free single-producer /
// single-consumer ring used to move values off the audio thread.
package queue

import (
	"fmt"
	"sync/atomic"
)

// cacheLinePad keeps the producer and consumer cursors on separate cache lines.
type cacheLinePad [64]byte

// Queue is a bounded SPSC ring buffer of values.
//
// Exactly one goroutine may call Push and exactly one (other) goroutine may
// call Pop, Drain and ElementsAvailable. Items are copied into and out of the
// slots, so no memory is shared between the two sides after a transfer.
//
// When the ring is full Push drops the newest item and counts it; it never
// blocks, grows or allocates.
type Queue[T any] struct {
	_    cacheLinePad
	head atomic.Uint64 // read cursor, written by the consumer only
	_    cacheLinePad
	tail atomic.Uint64 // write cursor, written by the producer only
	_    cacheLinePad

	dropped atomic.Uint64

	capacity uint64
	mask     uint64
	slots    []T
}

// New creates a queue holding at most capacity items.
// The backing storage is rounded up to a power of two so slot lookup is a mask.
func New[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		panic(fmt.Sprintf("queue: capacity must be positive, got %d", capacity))
	}

	size := nextPowerOf2(uint64(capacity))
	return &Queue[T]{
		capacity: uint64(capacity),
		mask:     size - 1,
		slots:    make([]T, size),
	}
}

// Push copies item into the queue. It returns false, and counts a drop,
// when the queue already holds Capacity items.
func (q *Queue[T]) Push(item T) bool {
	t := q.tail.Load()
	h := q.head.Load() // acquire: slots before h are free again

	if t-h >= q.capacity {
		q.dropped.Add(1)
		return false
	}

	q.slots[t&q.mask] = item
	q.tail.Store(t + 1) // release: publishes the slot write
	return true
}

// Pop removes the oldest item. The second result is false when the queue is empty.
func (q *Queue[T]) Pop() (T, bool) {
	var zero T

	h := q.head.Load()
	t := q.tail.Load() // acquire: pairs with the release in Push
	if h == t {
		return zero, false
	}

	idx := h & q.mask
	item := q.slots[idx]
	q.slots[idx] = zero
	q.head.Store(h + 1) // release: hands the slot back to the producer
	return item, true
}

// Drain pops every item that is available right now and hands each one to fn
// in FIFO order. Items pushed while draining may or may not be included.
// It returns the number of items delivered.
func (q *Queue[T]) Drain(fn func(T)) int {
	n := 0
	for q.ElementsAvailable() > 0 {
		item, ok := q.Pop()
		if !ok {
			break
		}
		fn(item)
		n++
	}
	return n
}

// ElementsAvailable returns the number of items waiting to be popped.
// It is exact when called by the consumer and a lower bound otherwise.
func (q *Queue[T]) ElementsAvailable() int {
	h := q.head.Load()
	t := q.tail.Load()
	return int(t - h)
}

// Capacity returns the maximum number of items the queue holds.
func (q *Queue[T]) Capacity() int {
	return int(q.capacity)
}

// Dropped returns how many pushes were rejected because the queue was full.
func (q *Queue[T]) Dropped() uint64 {
	return q.dropped.Load()
}

func nextPowerOf2(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
