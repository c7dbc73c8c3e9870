package ingest

import (
	"context"
	"errors"
	"sync"

	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
)

// ErrWorkerClosed is reported for messages submitted after Close.
var ErrWorkerClosed = errors.New("ingest worker closed")

// DefaultQueueSize is used when NewWorker is given a non-positive size.
const DefaultQueueSize = 64

type job struct {
	ctx   context.Context
	msg   models.RawMessage
	reply chan Result
}

// Worker runs every Ingest call on a single goroutine, so backlog scans and
// live messages never interleave inside the pipeline.
type Worker struct {
	pipeline *Pipeline
	jobs     chan job
	quit     chan struct{}
	stopped  chan struct{}
	once     sync.Once
	logger   logging.Logger
}

// NewWorker starts a worker in front of pipeline.
func NewWorker(pipeline *Pipeline, queueSize int, logger logging.Logger) *Worker {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	w := &Worker{
		pipeline: pipeline,
		jobs:     make(chan job, queueSize),
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
		logger:   logging.OrDefault(logger).WithField(logging.FieldComponent, "ingest-worker"),
	}
	go w.run()
	return w
}

// Subscribe registers an observer on the underlying pipeline.
func (w *Worker) Subscribe(o Observer) func() {
	return w.pipeline.Subscribe(o)
}

// Ingest queues msg and blocks until it has been processed, the context is
// done or the worker is closed.
func (w *Worker) Ingest(ctx context.Context, msg models.RawMessage) Result {
	j := job{ctx: ctx, msg: msg, reply: make(chan Result, 1)}

	select {
	case <-w.quit:
		return Result{MessageID: msg.ID, Outcome: OutcomeFailed, Err: ErrWorkerClosed}
	case <-ctx.Done():
		return Result{MessageID: msg.ID, Outcome: OutcomeFailed, Err: ctx.Err()}
	case w.jobs <- j:
	}

	select {
	case r := <-j.reply:
		return r
	case <-w.stopped:
		// The loop may have answered just before stopping.
		select {
		case r := <-j.reply:
			return r
		default:
			return Result{MessageID: msg.ID, Outcome: OutcomeFailed, Err: ErrWorkerClosed}
		}
	case <-ctx.Done():
		return Result{MessageID: msg.ID, Outcome: OutcomeFailed, Err: ctx.Err()}
	}
}

// Close stops the worker after the job in progress. Queued jobs are
// answered with ErrWorkerClosed. Safe to call more than once.
func (w *Worker) Close() error {
	w.once.Do(func() {
		close(w.quit)
		<-w.stopped
	})
	return nil
}

func (w *Worker) run() {
	defer close(w.stopped)
	for {
		select {
		case <-w.quit:
			w.drain()
			return
		case j := <-w.jobs:
			if err := j.ctx.Err(); err != nil {
				j.reply <- Result{MessageID: j.msg.ID, Outcome: OutcomeFailed, Err: err}
				continue
			}
			j.reply <- w.pipeline.Ingest(j.ctx, j.msg)
		}
	}
}

func (w *Worker) drain() {
	for {
		select {
		case j := <-w.jobs:
			j.reply <- Result{MessageID: j.msg.ID, Outcome: OutcomeFailed, Err: ErrWorkerClosed}
		default:
			return
		}
	}
}
