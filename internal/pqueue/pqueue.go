// Package pqueue implements a generic binary min-heap.
package pqueue

type Queue[T any] struct {
	items []T
	less  func(a, b T) bool
	zero  T
}

func New[T any](less func(a, b T) bool, items ...T) *Queue[T] {
	result := &Queue[T]{less: less}
	for _, item := range items {
		result.Push(item)
	}
	return result
}

func (q *Queue[T]) Len() int {
	return len(q.items)
}

func (q *Queue[T]) IsEmpty() bool {
	return len(q.items) == 0
}

func (q *Queue[T]) Push(item T) *Queue[T] {
	q.items = append(q.items, item)
	q.up(len(q.items) - 1)
	return q
}

// Pop removes and returns the least item, or false if the queue is empty.
func (q *Queue[T]) Pop() (T, bool) {
	if len(q.items) == 0 {
		return q.zero, false
	}

	result := q.items[0]
	last := len(q.items) - 1
	q.items[0] = q.items[last]
	q.items[last] = q.zero
	q.items = q.items[:last]
	if last > 0 {
		q.down(0)
	}
	return result, true
}

func (q *Queue[T]) up(i int) {
	for i > 0 {
		parent := (i - 1) >> 1
		if !q.less(q.items[i], q.items[parent]) {
			break
		}

		q.items[i], q.items[parent] = q.items[parent], q.items[i]
		i = parent
	}
}

func (q *Queue[T]) down(i int) {
	last := len(q.items) - 1
	for {
		least := i
		for c := (i << 1) + 1; c <= last && c <= (i<<1)+2; c++ {
			if q.less(q.items[c], q.items[least]) {
				least = c
			}
		}
		if least == i {
			return
		}

		q.items[i], q.items[least] = q.items[least], q.items[i]
		i = least
	}
}
