// Package scheduler runs fire-and-forget callbacks after a delay on a single
// background executor.
package scheduler

import (
	"container/heap"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/parentchild/account-service/internal/observability"
)

// Action is the work a scheduled job performs.
type Action func(ctx context.Context) error

// Scheduler holds pending jobs in memory. Jobs are lost when the process exits.
type Scheduler struct {
	logger     *zap.Logger
	metrics    *observability.Metrics
	jobTimeout time.Duration

	mu    sync.Mutex
	queue jobQueue
	seq   uint64

	wake  chan struct{}
	start sync.Once
}

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithMetrics records job outcomes.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// WithJobTimeout bounds the context handed to each action.
func WithJobTimeout(d time.Duration) Option {
	return func(s *Scheduler) { s.jobTimeout = d }
}

// New creates a scheduler. The executor starts on the first Schedule call.
func New(logger *zap.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		logger: logger.Named("scheduler"),
		wake:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule registers action to run no earlier than delay from now and returns the job id.
func (s *Scheduler) Schedule(delay time.Duration, name string, action Action) string {
	if delay < 0 {
		delay = 0
	}
	j := &job{
		id:     uuid.NewString(),
		name:   name,
		due:    time.Now().Add(delay),
		action: action,
	}

	s.mu.Lock()
	s.seq++
	j.seq = s.seq
	heap.Push(&s.queue, j)
	s.mu.Unlock()

	s.start.Do(func() { go s.run() })

	select {
	case s.wake <- struct{}{}:
	default:
	}

	s.logger.Debug("job scheduled",
		zap.String("job_id", j.id),
		zap.String("job", name),
		zap.Duration("delay", delay))
	return j.id
}

// Pending returns the number of jobs not yet started.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

func (s *Scheduler) run() {
	for {
		due, wait, idle := s.next()
		for _, j := range due {
			s.execute(j)
		}
		if len(due) > 0 {
			continue
		}
		if idle {
			<-s.wake
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-s.wake:
		}
		timer.Stop()
	}
}

// next pops every job that is due and reports how long to wait for the rest.
func (s *Scheduler) next() (due []*job, wait time.Duration, idle bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for s.queue.Len() > 0 && !s.queue[0].due.After(now) {
		due = append(due, heap.Pop(&s.queue).(*job))
	}
	if s.queue.Len() == 0 {
		return due, 0, true
	}
	return due, s.queue[0].due.Sub(now), false
}

func (s *Scheduler) execute(j *job) {
	log := s.logger.With(zap.String("job_id", j.id), zap.String("job", j.name))
	started := time.Now()

	err := s.invoke(j)
	if s.metrics != nil {
		s.metrics.RecordJob(j.name, err == nil, time.Since(started))
	}
	if err != nil {
		log.Error("scheduled job failed", zap.Error(err))
		return
	}
	log.Debug("scheduled job completed", zap.Duration("took", time.Since(started)))
}

func (s *Scheduler) invoke(j *job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	ctx := context.Background()
	if s.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.jobTimeout)
		defer cancel()
	}
	return j.action(ctx)
}
