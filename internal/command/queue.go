package command

import "sync"

// Queue is an unbounded multi-producer, single-consumer command queue.
// Push never blocks on the consumer.
type Queue struct {
	mu      sync.Mutex
	pending []Command
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends a command.
func (q *Queue) Push(cmd Command) {
	q.mu.Lock()
	q.pending = append(q.pending, cmd)
	q.mu.Unlock()
}

// Drain removes and returns every queued command in arrival order.
func (q *Queue) Drain() []Command {
	q.mu.Lock()
	defer q.mu.Unlock()

	cmds := q.pending
	q.pending = nil
	return cmds
}

// Len returns the number of queued commands.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
