// Package queue provides the minimum-priority queue the hint assigner builds its tree with.
//
// Elements are ordered by weight and then by insertion sequence, so two elements
// with equal weight always come out in the order they went in. The queue never
// looks at the payload.
package queue

import "container/heap"

// Item is one queued element.
type Item[T any] struct {
	Weight int
	Seq    uint64
	Value  T
}

// Queue is a min-priority queue over (weight, insertion sequence, payload).
// The zero value is ready to use.
type Queue[T any] struct {
	items items[T]
	next  uint64
}

// New returns an empty queue with room for n elements.
func New[T any](n int) *Queue[T] {
	return &Queue[T]{items: make(items[T], 0, n)}
}

// Push inserts value with the given weight and returns the sequence number it was stamped with.
func (q *Queue[T]) Push(weight int, value T) uint64 {
	seq := q.next
	q.next++
	heap.Push(&q.items, Item[T]{Weight: weight, Seq: seq, Value: value})
	return seq
}

// Pop removes the element with the smallest weight, first inserted on ties.
func (q *Queue[T]) Pop() (Item[T], bool) {
	if len(q.items) == 0 {
		var zero Item[T]
		return zero, false
	}
	return heap.Pop(&q.items).(Item[T]), true
}

// Peek returns the element Pop would return without removing it.
func (q *Queue[T]) Peek() (Item[T], bool) {
	if len(q.items) == 0 {
		var zero Item[T]
		return zero, false
	}
	return q.items[0], true
}

// Len reports the number of queued elements.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

type items[T any] []Item[T]

func (h items[T]) Len() int { return len(h) }

func (h items[T]) Less(i, j int) bool {
	if h[i].Weight != h[j].Weight {
		return h[i].Weight < h[j].Weight
	}
	return h[i].Seq < h[j].Seq
}

func (h items[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *items[T]) Push(x any) { *h = append(*h, x.(Item[T])) }

func (h *items[T]) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	var zero Item[T]
	old[n-1] = zero
	*h = old[:n-1]
	return x
}
