// Package mutation runs writes against the health API and keeps the query
// cache consistent with them. Writes of one kind run one at a time in
// submission order; a successful write invalidates the user's cached
// collection of that kind before its caller is answered, and a failed write
// leaves the cache untouched.
package mutation

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"github.com/wecare/healthtracker/pkg/querycache"
)

// ErrClosed is returned for mutations submitted after Close
var ErrClosed = errors.New("mutation: coordinator closed")

const queueSize = 64

// Invalidator marks cached collections stale
type Invalidator interface {
	Invalidate(kind querycache.Kind, userID int64)
}

// Mutation is one write
type Mutation interface {
	Kind() querycache.Kind
	UserID() int64
	Execute(ctx context.Context) (any, error)
}

type result struct {
	value any
	err   error
}

type job struct {
	ctx      context.Context
	mutation Mutation
	reply    chan result
}

// Coordinator serializes mutations per kind
type Coordinator struct {
	invalidator Invalidator
	logger      zerolog.Logger

	mu      sync.Mutex
	queues  map[querycache.Kind]chan job
	closed  bool
	ctx     context.Context
	cancel  context.CancelFunc
	workers sync.WaitGroup
}

// NewCoordinator creates a coordinator that invalidates through invalidator
func NewCoordinator(invalidator Invalidator, logger zerolog.Logger) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		invalidator: invalidator,
		logger:      logger,
		queues:      make(map[querycache.Kind]chan job),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Mutate queues m behind earlier mutations of the same kind and waits for it.
// The error from Execute is returned unchanged.
func (c *Coordinator) Mutate(ctx context.Context, m Mutation) (any, error) {
	j := job{ctx: ctx, mutation: m, reply: make(chan result, 1)}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	queue := c.queueLocked(m.Kind())
	c.mu.Unlock()

	select {
	case queue <- j:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.ctx.Done():
		return nil, ErrClosed
	}

	select {
	case res := <-j.reply:
		return res.value, res.err
	case <-c.ctx.Done():
		return nil, ErrClosed
	}
}

// queueLocked returns the kind's queue, starting its worker on first use
func (c *Coordinator) queueLocked(kind querycache.Kind) chan job {
	if queue, ok := c.queues[kind]; ok {
		return queue
	}
	queue := make(chan job, queueSize)
	c.queues[kind] = queue
	c.workers.Add(1)
	go c.run(kind, queue)
	return queue
}

func (c *Coordinator) run(kind querycache.Kind, queue <-chan job) {
	defer c.workers.Done()
	for {
		select {
		case <-c.ctx.Done():
			return
		case j := <-queue:
			j.reply <- c.execute(kind, j)
		}
	}
}

func (c *Coordinator) execute(kind querycache.Kind, j job) result {
	if err := j.ctx.Err(); err != nil {
		return result{err: err}
	}

	value, err := j.mutation.Execute(j.ctx)
	if err != nil {
		c.logger.Debug().Err(err).Str("kind", string(kind)).Int64("user_id", j.mutation.UserID()).Msg("mutation failed")
		return result{err: err}
	}

	c.invalidator.Invalidate(kind, j.mutation.UserID())
	c.logger.Debug().Str("kind", string(kind)).Int64("user_id", j.mutation.UserID()).Msg("mutation applied, cache invalidated")
	return result{value: value}
}

// Close stops the workers. Mutations still queued are answered with ErrClosed.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.cancel()
	c.mu.Unlock()

	c.workers.Wait()
}
