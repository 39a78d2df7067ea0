package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/auralis/voicebridge/internal/metrics"
)

// SendFunc issues one outbound request for an item. Implementations block
// until the response arrives or ctx is done.
type SendFunc func(ctx context.Context, item Item) error

// Worker drains the queue strictly in order, one request in flight at a
// time. A slow response backpressures capture naturally: later segments
// wait in the queue or get dropped at the cap.
type Worker struct {
	queue   *Queue
	send    SendFunc
	log     *slog.Logger
	metrics *metrics.Metrics
}

func NewWorker(queue *Queue, send SendFunc, log *slog.Logger, m *metrics.Metrics) *Worker {
	if log == nil {
		log = slog.Default()
	}
	return &Worker{queue: queue, send: send, log: log, metrics: m}
}

// Run drains until ctx is canceled. It is the only goroutine that issues
// outbound requests.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.queue.Ready():
		}
		for {
			item, ok := w.queue.Pop()
			if !ok {
				break
			}
			w.dispatch(ctx, item)
			if ctx.Err() != nil {
				return
			}
		}
	}
}

func (w *Worker) dispatch(ctx context.Context, item Item) {
	start := time.Now()
	err := w.send(ctx, item)
	if w.metrics != nil {
		w.metrics.DispatchTime.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if w.metrics != nil {
			w.metrics.DispatchErrors.Inc()
		}
		w.log.Error("segment dispatch failed",
			"seq", item.Segment.Seq,
			"duration", item.Segment.Duration(),
			"error", err)
		return
	}
	w.log.Debug("segment dispatched",
		"seq", item.Segment.Seq,
		"duration", item.Segment.Duration(),
		"took", time.Since(start))
}
