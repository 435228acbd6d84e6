package mapgen

import "sync"

type pendingResult[T any] struct {
	callback func(T)
	value    T
}

// resultQueue hands finished work from workers to the consumer goroutine.
// The lock only guards the slice; callbacks run outside it.
type resultQueue[T any] struct {
	mu    sync.Mutex
	items []pendingResult[T]
}

func (q *resultQueue[T]) push(callback func(T), value T) {
	q.mu.Lock()
	q.items = append(q.items, pendingResult[T]{callback: callback, value: value})
	q.mu.Unlock()
}

func (q *resultQueue[T]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// drain takes every result queued right now and runs their callbacks in
// enqueue order. Results pushed while it runs wait for the next call.
func (q *resultQueue[T]) drain() int {
	q.mu.Lock()
	batch := q.items
	q.items = nil
	q.mu.Unlock()

	for _, r := range batch {
		r.callback(r.value)
	}
	return len(batch)
}
