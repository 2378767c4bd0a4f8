package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jgolob/awsbw/internal/batch"
	"github.com/jgolob/awsbw/internal/logging"
	"github.com/jgolob/awsbw/internal/state"
)

const (
	// DefaultPollInterval is used when no interval is configured.
	DefaultPollInterval = 60 * time.Second

	// MinPollInterval is the shortest interval the poller will run at.
	MinPollInterval = time.Second
)

// ErrPollerDied reports that the poll loop exited without being stopped.
var ErrPollerDied = errors.New("poller stopped")

// PollerOptions configure StartPoller.
type PollerOptions struct {
	Service  batch.JobService
	Store    *state.Store
	Queues   []string
	Interval time.Duration

	// RateLimit caps ListJobs calls per second across all queues and
	// statuses. Zero or negative disables limiting.
	RateLimit float64

	Logger *zap.Logger
}

// Poller refreshes the store in a background goroutine until stopped.
type Poller struct {
	svc      batch.JobService
	store    *state.Store
	queues   []string
	interval time.Duration
	limiter  *rate.Limiter
	log      *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	err    error
	loaded bool
}

// StartPoller launches the poll loop and returns immediately. The first
// cycle starts right away; later cycles start interval after the previous
// one started.
func StartPoller(ctx context.Context, opts PollerOptions) *Poller {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if interval < MinPollInterval {
		interval = MinPollInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &Poller{
		svc:      opts.Service,
		store:    opts.Store,
		queues:   append([]string(nil), opts.Queues...),
		interval: interval,
		limiter:  newLimiter(opts.RateLimit),
		log:      logging.OrNop(opts.Logger).Named("poller"),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go p.run(ctx)
	return p
}

// Done is closed when the poll loop exits for any reason.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

// Err returns nil after a clean stop and an ErrPollerDied wrap otherwise.
// Only meaningful once Done is closed.
func (p *Poller) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Stop cancels the loop and waits for it to exit.
func (p *Poller) Stop() {
	p.cancel()
	<-p.done
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)
	defer func() {
		if r := recover(); r != nil {
			p.fail(fmt.Errorf("%w: panic: %v", ErrPollerDied, r))
			return
		}
		if ctx.Err() == nil {
			p.fail(fmt.Errorf("%w: loop exited unexpectedly", ErrPollerDied))
		}
	}()

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		started := time.Now()
		p.refresh(ctx)
		if ctx.Err() != nil {
			return
		}
		timer.Reset(nextDelay(p.interval, time.Since(started)))
	}
}

func (p *Poller) fail(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
	p.log.Error("poller died", zap.Error(err))
}

// refresh runs one poll cycle and publishes its snapshot.
func (p *Poller) refresh(ctx context.Context) {
	cycle := uuid.NewString()
	started := time.Now()

	var (
		jobs      []batch.Job
		failures  int
		succeeded int
	)
	for _, queue := range p.queues {
		var queueJobs []batch.Job
		for _, status := range batch.Statuses {
			res := batch.ListAllJobs(ctx, p.svc, queue, status, p.limiter.Wait)
			if ctx.Err() != nil {
				return
			}
			if res.Failed() {
				// A failed pair contributes nothing and is retried next cycle.
				failures++
				p.log.Warn("list jobs failed",
					zap.String("cycle", cycle),
					zap.String("queue", queue),
					zap.String("status", status.String()),
					zap.Int("pages", res.Pages),
					zap.Error(res.Err),
				)
				continue
			}
			succeeded++
			queueJobs = append(queueJobs, res.Jobs...)
		}
		batch.SortNewestFirst(queueJobs)
		jobs = append(jobs, queueJobs...)
	}

	p.loaded = p.loaded || succeeded > 0
	p.store.Publish(state.Snapshot{
		Jobs:       jobs,
		CapturedAt: time.Now(),
		Loaded:     p.loaded,
		Cycle:      cycle,
		Failures:   failures,
	})

	p.log.Debug("poll cycle complete",
		zap.String("cycle", cycle),
		zap.Int("jobs", len(jobs)),
		zap.Int("failures", failures),
		zap.Duration("elapsed", time.Since(started)),
	)
}

// nextDelay compensates for fetch time so cycles start on a fixed cadence.
func nextDelay(interval, elapsed time.Duration) time.Duration {
	if elapsed >= interval {
		return 0
	}
	if elapsed < 0 {
		return interval
	}
	return interval - elapsed
}

func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := int(math.Ceil(perSecond))
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}
