package internal

import "time"

// DefaultQueueCapacity bounds the reliable queue when the configuration
// does not say otherwise.
const DefaultQueueCapacity = 10

// Queue is the bounded FIFO for reliable commands (mode switches,
// calibration, configuration): never reordered, never silently dropped.
// When the queue is full the caller is told so explicitly.
//
// Built on a buffered channel: FIFO order and internal synchronization come
// from the channel itself, and the blocking enqueue gets its timeout from a
// plain select.
type Queue struct {
	ch  chan Frame
	met *Metrics
}

// NewQueue creates a queue with the given capacity (DefaultQueueCapacity
// when capacity <= 0), reporting rejections to met.
func NewQueue(capacity int, met *Metrics) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &Queue{
		ch:  make(chan Frame, capacity),
		met: met,
	}
}

// TryEnqueue appends f, or returns ErrQueueFull immediately when no slot is
// free. A rejected enqueue leaves the queue untouched.
func (q *Queue) TryEnqueue(f Frame) error {
	select {
	case q.ch <- f:
		return nil
	default:
		q.met.queueFull.Inc()
		return ErrQueueFull
	}
}

// EnqueueTimeout appends f, blocking until a slot frees or timeout elapses.
// It fails with ErrQueueFull only after at least the full timeout passed
// with no space.
func (q *Queue) EnqueueTimeout(f Frame, timeout time.Duration) error {
	select {
	case q.ch <- f:
		return nil
	default:
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case q.ch <- f:
		return nil
	case <-timer.C:
		q.met.queueFull.Inc()
		return ErrQueueFull
	}
}

// TryDequeue pops the oldest command, or reports empty. Never blocks.
func (q *Queue) TryDequeue() (Frame, bool) {
	select {
	case f := <-q.ch:
		return f, true
	default:
		return Frame{}, false
	}
}

// Len returns the number of queued commands.
func (q *Queue) Len() int { return len(q.ch) }

// Cap returns the queue capacity.
func (q *Queue) Cap() int { return cap(q.ch) }
