package poller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"feed-sync/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

var (
	// ErrPassRunning is returned by Trigger when a pass already holds the guard.
	ErrPassRunning = errors.New("a sync pass is already running")
	// ErrAlreadyStarted is returned by Start when the poller is already scheduling.
	ErrAlreadyStarted = errors.New("poller already started")
)

// Runner performs one reconciliation pass.
type Runner interface {
	Run(ctx context.Context) (*reconcile.SyncReport, error)
}

// Trigger sources of a pass.
const (
	TriggerTick   = "tick"
	TriggerManual = "manual"
	TriggerStart  = "start"
)

// Result is handed to the completion hook after every pass.
type Result struct {
	Trigger string
	Report  *reconcile.SyncReport
	Err     error
}

// Status is a point-in-time view of the poller.
type Status struct {
	Scheduling     bool                  `json:"scheduling"`
	Running        bool                  `json:"running"`
	Interval       string                `json:"interval"`
	LastStartedAt  time.Time             `json:"last_started_at"`
	LastFinishedAt time.Time             `json:"last_finished_at"`
	LastError      string                `json:"last_error,omitempty"`
	LastReport     *reconcile.SyncReport `json:"last_report,omitempty"`
	Passes         int64                 `json:"passes"`
	Failures       int64                 `json:"failures"`
	DroppedTicks   int64                 `json:"dropped_ticks"`
}

// Option configures a Poller.
type Option func(*Poller)

// WithOnComplete registers a hook called after every pass, successful or not.
func WithOnComplete(fn func(Result)) Option {
	return func(p *Poller) { p.onComplete = fn }
}

// WithRunOnStart fires one pass as soon as Start is called.
func WithRunOnStart() Option {
	return func(p *Poller) { p.runOnStart = true }
}

// Poller runs a Runner on a fixed interval and never lets two passes overlap.
//
// Every tick is dispatched on its own goroutine and competes for a single-slot guard.
// A tick that finds the guard held is dropped: there is no queueing and no coalescing.
type Poller struct {
	interval   time.Duration
	runner     Runner
	logger     *zap.Logger
	guard      *semaphore.Weighted
	onComplete func(Result)
	runOnStart bool

	running atomic.Bool
	passes  sync.WaitGroup

	mu     sync.Mutex
	stopCh chan struct{}
	done   chan struct{}
	status Status
}

// New creates a poller. It does nothing until Start is called.
func New(interval time.Duration, runner Runner, logger *zap.Logger, opts ...Option) *Poller {
	p := &Poller{
		interval: interval,
		runner:   runner,
		logger:   logger,
		guard:    semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start begins scheduling ticks.
func (p *Poller) Start() error {
	if p.interval <= 0 {
		return fmt.Errorf("invalid poll interval %s", p.interval)
	}

	p.mu.Lock()
	if p.stopCh != nil {
		p.mu.Unlock()
		return ErrAlreadyStarted
	}
	p.stopCh = make(chan struct{})
	p.done = make(chan struct{})
	p.status.Scheduling = true
	go p.loop(time.NewTicker(p.interval), p.stopCh, p.done)
	p.mu.Unlock()

	p.logger.Info("Poller timer started", zap.Duration("interval", p.interval))

	if p.runOnStart {
		p.dispatch(TriggerStart)
	}
	return nil
}

// Stop halts scheduling of new ticks. A pass already in progress is not interrupted;
// use Wait to block until it returns.
func (p *Poller) Stop() {
	p.mu.Lock()
	stopCh, done := p.stopCh, p.done
	p.stopCh, p.done = nil, nil
	p.status.Scheduling = false
	p.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-done

	p.logger.Info("Poller timer stopped")
}

// Wait blocks until every pass started so far has returned, or ctx is done.
func (p *Poller) Wait(ctx context.Context) error {
	finished := make(chan struct{})
	go func() {
		p.passes.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Trigger starts a pass immediately in the background under the same guard as ticks.
// It returns ErrPassRunning when a pass is already in progress.
func (p *Poller) Trigger() error {
	if !p.dispatch(TriggerManual) {
		return ErrPassRunning
	}
	return nil
}

// Status returns a snapshot of the poller state.
func (p *Poller) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.status
	s.Running = p.running.Load()
	s.Interval = p.interval.String()
	return s
}

func (p *Poller) loop(ticker *time.Ticker, stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.dispatch(TriggerTick)
		case <-stopCh:
			return
		}
	}
}

// dispatch acquires the guard and runs a pass on a new goroutine.
// It reports false, and drops the request, when the guard is held.
func (p *Poller) dispatch(trigger string) bool {
	if !p.guard.TryAcquire(1) {
		p.mu.Lock()
		p.status.DroppedTicks++
		p.mu.Unlock()
		p.logger.Debug("Sync pass still running, dropping tick", zap.String("trigger", trigger))
		return false
	}

	p.passes.Add(1)
	go func() {
		defer p.passes.Done()
		defer p.guard.Release(1)
		p.execute(trigger)
	}()
	return true
}

// execute runs the pass with the guard held. Errors and panics stop here.
func (p *Poller) execute(trigger string) {
	p.running.Store(true)
	defer p.running.Store(false)

	started := time.Now()
	p.mu.Lock()
	p.status.LastStartedAt = started
	p.mu.Unlock()

	l := p.logger.With(zap.String("trigger", trigger))
	l.Info("Poller entering critical section")

	report, err := p.safeRun(l)

	p.mu.Lock()
	p.status.Passes++
	p.status.LastFinishedAt = time.Now()
	p.status.LastReport = report
	p.status.LastError = ""
	if err != nil {
		p.status.Failures++
		p.status.LastError = err.Error()
	}
	p.mu.Unlock()

	if err != nil {
		fields := []zap.Field{zap.Error(err), zap.Duration("elapsed", time.Since(started))}
		var syncErr *reconcile.SyncError
		if errors.As(err, &syncErr) {
			fields = append(fields,
				zap.String("kind", string(syncErr.Kind)),
				zap.String("package", syncErr.PackageID),
				zap.String("version", syncErr.Version))
		}
		if report != nil {
			fields = append(fields, zap.String("pass_id", report.PassID))
		}
		l.Error("Sync pass failed, retrying on next tick", fields...)
	}

	l.Info("Poller exiting critical section", zap.Duration("elapsed", time.Since(started)))

	if p.onComplete != nil {
		p.notify(l, Result{Trigger: trigger, Report: report, Err: err})
	}
}

// safeRun converts a panic inside the runner into an error.
func (p *Poller) safeRun(l *zap.Logger) (report *reconcile.SyncReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			l.Error("Unhandled panic in sync pass", zap.Any("panic", r), zap.Stack("stack"))
			err = fmt.Errorf("sync pass panicked: %v", r)
		}
	}()
	return p.runner.Run(context.Background())
}

func (p *Poller) notify(l *zap.Logger, res Result) {
	defer func() {
		if r := recover(); r != nil {
			l.Error("Unhandled panic in completion hook", zap.Any("panic", r))
		}
	}()
	p.onComplete(res)
}
