package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"conferencecentral/internal/domain"
)

var (
	ErrQueueFull   = errors.New("task queue is full")
	ErrQueueClosed = errors.New("task queue is closed")
)

// HandlerFunc runs one task. It may be invoked again for the same task after a failure.
type HandlerFunc func(ctx context.Context, params map[string]string) error

// Config controls worker count, buffering and retries.
type Config struct {
	Workers     int
	Buffer      int
	MaxAttempts uint
	RetryDelay  time.Duration
}

func (c Config) normalized() Config {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Buffer <= 0 {
		c.Buffer = 1
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 1
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 100 * time.Millisecond
	}
	return c
}

// Queue is an in-process domain.TaskQueue backed by a buffered channel and a
// fixed pool of workers.
type Queue struct {
	cfg    Config
	logger *slog.Logger
	tracer trace.Tracer

	mu       sync.RWMutex
	handlers map[string]HandlerFunc

	jobs      chan domain.Task
	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

var _ domain.TaskQueue = (*Queue)(nil)

// NewQueue builds a queue. Register handlers with Handle, then call Start.
func NewQueue(cfg Config, logger *slog.Logger) *Queue {
	cfg = cfg.normalized()
	return &Queue{
		cfg:      cfg,
		logger:   logger,
		tracer:   otel.Tracer("conferencecentral/internal/tasks"),
		handlers: make(map[string]HandlerFunc),
		jobs:     make(chan domain.Task, cfg.Buffer),
		closed:   make(chan struct{}),
	}
}

// Handle registers fn for tasks of kind, replacing any previous handler.
func (q *Queue) Handle(kind string, fn HandlerFunc) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[kind] = fn
}

// Enqueue buffers task without waiting for a worker.
func (q *Queue) Enqueue(_ context.Context, task domain.Task) error {
	select {
	case <-q.closed:
		return ErrQueueClosed
	default:
	}
	select {
	case q.jobs <- task:
		return nil
	default:
		return fmt.Errorf("%w: dropping %s", ErrQueueFull, task.Kind)
	}
}

// Start launches the workers. They stop when ctx is done or Shutdown is called.
func (q *Queue) Start(ctx context.Context) {
	for i := 0; i < q.cfg.Workers; i++ {
		q.wg.Add(1)
		go q.work(ctx)
	}
	q.logger.InfoContext(ctx, "task queue started", "workers", q.cfg.Workers, "buffer", q.cfg.Buffer)
}

// Shutdown stops accepting tasks, lets workers finish what is buffered and
// waits for them until ctx expires.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.closeOnce.Do(func() { close(q.closed) })

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("task queue shutdown: %w", ctx.Err())
	}
}

func (q *Queue) work(ctx context.Context) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-q.closed:
			q.drain(ctx)
			return
		case task := <-q.jobs:
			q.process(ctx, task)
		}
	}
}

func (q *Queue) drain(ctx context.Context) {
	for {
		select {
		case task := <-q.jobs:
			q.process(ctx, task)
		default:
			return
		}
	}
}

func (q *Queue) handler(kind string) (HandlerFunc, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	fn, ok := q.handlers[kind]
	return fn, ok
}

func (q *Queue) process(ctx context.Context, task domain.Task) {
	fn, ok := q.handler(task.Kind)
	if !ok {
		q.logger.ErrorContext(ctx, "no handler for task", "kind", task.Kind)
		return
	}

	ctx, span := q.tracer.Start(ctx, "task "+task.Kind,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(attribute.String("task.kind", task.Kind)),
	)
	defer span.End()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = q.cfg.RetryDelay

	var attempts int
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempts++
		err := fn(ctx, task.Params)
		if err != nil && isPermanent(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(q.cfg.MaxAttempts))

	span.SetAttributes(attribute.Int("task.attempts", attempts))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		q.logger.ErrorContext(ctx, "task failed",
			"kind", task.Kind, "attempts", attempts, "params", task.Params, "err", err)
		return
	}
	q.logger.DebugContext(ctx, "task done", "kind", task.Kind, "attempts", attempts)
}

// isPermanent reports errors that retrying cannot fix.
func isPermanent(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrInvalidFilter)
}
