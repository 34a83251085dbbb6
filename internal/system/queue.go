package system

import "sync"

// Queue holds work for the next scheduler turn.
type Queue struct {
	mu      sync.Mutex
	pending []func()
}

// Defer schedules fn for the next Run.
func (q *Queue) Defer(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Run executes everything queued before the call. Work deferred while
// running waits for the following Run.
func (q *Queue) Run() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Len reports queued work.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
