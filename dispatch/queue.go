// Package dispatch hands completed audio segments to the external service,
// one request at a time. The queue is tiny and drops its oldest entries
// under backlog: a stale segment is worth less than a fresh one, and
// bounded staleness matters more than completeness here.
package dispatch

import (
	"sync"
	"time"

	"github.com/auralis/voicebridge/internal/metrics"
	"github.com/auralis/voicebridge/segmenter"
)

// DefaultQueueCap bounds how many segments may wait behind the in-flight
// request.
const DefaultQueueCap = 2

// Item pairs a segment with its context snapshot.
type Item struct {
	Segment  segmenter.Segment
	Snapshot []byte
	QueuedAt time.Time
}

// Queue is a bounded FIFO that drops oldest entries beyond its cap.
// Safe for concurrent use.
type Queue struct {
	mu      sync.Mutex
	items   []Item
	cap     int
	ready   chan struct{}
	metrics *metrics.Metrics
}

// NewQueue creates a queue with the given cap; zero means DefaultQueueCap.
// m may be nil.
func NewQueue(capacity int, m *metrics.Metrics) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueCap
	}
	return &Queue{
		cap:     capacity,
		ready:   make(chan struct{}, 1),
		metrics: m,
	}
}

// Push enqueues an item, evicting oldest entries once the cap is exceeded.
// Never blocks.
func (q *Queue) Push(item Item) {
	q.mu.Lock()
	q.items = append(q.items, item)
	for len(q.items) > q.cap {
		q.items = q.items[1:]
		if q.metrics != nil {
			q.metrics.ItemsDropped.Inc()
		}
	}
	depth := len(q.items)
	q.mu.Unlock()

	if q.metrics != nil {
		q.metrics.QueueDepth.Set(float64(depth))
	}
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Pop removes the oldest item, reporting false when the queue is empty.
func (q *Queue) Pop() (Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return Item{}, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	if q.metrics != nil {
		q.metrics.QueueDepth.Set(float64(len(q.items)))
	}
	return item, true
}

// Len returns the current queue depth.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Ready exposes the wakeup channel for the worker loop.
func (q *Queue) Ready() <-chan struct{} { return q.ready }
