package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	sferrors "github.com/vnykmshr/seqflow/pkg/common/errors"
	"github.com/vnykmshr/seqflow/pkg/concurrency"
	"github.com/vnykmshr/seqflow/pkg/metrics"
)

// Task is a unit of deferred work.
type Task interface {
	Execute(ctx context.Context) error
}

// TaskFunc adapts a function to the Task interface.
type TaskFunc func(ctx context.Context) error

// Execute implements Task.
func (f TaskFunc) Execute(ctx context.Context) error {
	return f(ctx)
}

// Entry describes a scheduled task as returned by List.
type Entry struct {
	ID       string
	RunAt    time.Time
	Interval time.Duration // Zero for one-time and cron tasks
	Created  time.Time
}

// Scheduler runs tasks at future times with bounded concurrency.
type Scheduler interface {
	// Basic scheduling
	Schedule(id string, task Task, runAt time.Time) error
	ScheduleAfter(id string, task Task, delay time.Duration) error
	ScheduleRepeating(id string, task Task, interval time.Duration) error

	// Cron scheduling
	ScheduleCron(id string, cronExpr string, task Task) error

	// Task management
	Cancel(id string) bool
	CancelAll()
	List() []Entry

	// Lifecycle
	Start() error
	Stop() <-chan struct{}
}

// BackoffTask wraps a task with exponential-backoff retries.
type BackoffTask struct {
	Task         Task
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// Execute implements Task, retrying on failure with doubling delays.
func (bt BackoffTask) Execute(ctx context.Context) error {
	var lastErr error
	delay := bt.InitialDelay

	for attempt := 0; attempt <= bt.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = bt.Task.Execute(ctx)
		if lastErr == nil {
			return nil
		}

		delay *= 2
		if delay > bt.MaxDelay {
			delay = bt.MaxDelay
		}
	}

	return lastErr
}

// Config holds scheduler configuration.
type Config struct {
	MaxConcurrency int            // Simultaneous task executions (default: 4)
	Location       *time.Location // For cron scheduling (default: time.Local)
	TickInterval   time.Duration  // How often to check for ready tasks (default: 50ms)
	MaxTasks       int            // Maximum number of scheduled tasks (default: 10000)
}

type scheduledTask struct {
	id           string
	task         Task
	runAt        time.Time
	interval     time.Duration
	cronSchedule cron.Schedule
	created      time.Time
}

type scheduler struct {
	ledger       concurrency.Limiter
	location     *time.Location
	tickInterval time.Duration
	maxTasks     int
	cronParser   cron.Parser
	name         string
	registry     *metrics.Registry

	mu      sync.RWMutex
	wg      sync.WaitGroup
	tasks   map[string]*scheduledTask
	ticker  *time.Ticker
	done    chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	running bool
}

// New creates a scheduler with default configuration.
func New() (Scheduler, error) {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a scheduler with custom configuration.
func NewWithConfig(cfg Config) (Scheduler, error) {
	return newScheduler(cfg)
}

func newScheduler(cfg Config) (*scheduler, error) {
	maxConcurrency := cfg.MaxConcurrency
	if maxConcurrency == 0 {
		maxConcurrency = 4
	}

	ledger, err := concurrency.New(maxConcurrency)
	if err != nil {
		return nil, err
	}

	location := cfg.Location
	if location == nil {
		location = time.Local
	}

	tickInterval := cfg.TickInterval
	if tickInterval <= 0 {
		tickInterval = 50 * time.Millisecond
	}

	maxTasks := cfg.MaxTasks
	if maxTasks <= 0 {
		maxTasks = 10000
	}

	return &scheduler{
		ledger:       ledger,
		location:     location,
		tickInterval: tickInterval,
		maxTasks:     maxTasks,
		cronParser:   cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		tasks:        make(map[string]*scheduledTask),
	}, nil
}

func validateTask(id string, task Task) error {
	if id == "" {
		return sferrors.NewValidationError("scheduler", "id", id, "cannot be empty")
	}
	if len(id) > 255 {
		return sferrors.NewValidationError("scheduler", "id", id, "too long (max 255 characters)")
	}
	if task == nil {
		return sferrors.NewValidationError("scheduler", "task", nil, "cannot be nil")
	}
	return nil
}

// add inserts a task under the lock, enforcing uniqueness and capacity.
func (s *scheduler) add(t *scheduledTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[t.id]; exists {
		return fmt.Errorf("task with ID %q already exists, cancel it first", t.id)
	}
	if len(s.tasks) >= s.maxTasks {
		return fmt.Errorf("cannot schedule task %q: %w (limit %d)", t.id, sferrors.ErrCapacityExceeded, s.maxTasks)
	}

	s.tasks[t.id] = t
	s.recordScheduled()
	return nil
}

func (s *scheduler) Schedule(id string, task Task, runAt time.Time) error {
	if err := validateTask(id, task); err != nil {
		return err
	}
	if runAt.IsZero() {
		return sferrors.NewValidationError("scheduler", "runAt", runAt, "cannot be zero")
	}

	return s.add(&scheduledTask{
		id:      id,
		task:    task,
		runAt:   runAt,
		created: time.Now(),
	})
}

func (s *scheduler) ScheduleAfter(id string, task Task, delay time.Duration) error {
	return s.Schedule(id, task, time.Now().Add(delay))
}

func (s *scheduler) ScheduleRepeating(id string, task Task, interval time.Duration) error {
	if err := validateTask(id, task); err != nil {
		return err
	}
	if interval <= 0 {
		return sferrors.NewValidationError("scheduler", "interval", interval, "must be positive")
	}

	now := time.Now()
	return s.add(&scheduledTask{
		id:       id,
		task:     task,
		runAt:    now,
		interval: interval,
		created:  now,
	})
}

func (s *scheduler) ScheduleCron(id string, cronExpr string, task Task) error {
	if err := validateTask(id, task); err != nil {
		return err
	}
	if cronExpr == "" {
		return sferrors.NewValidationError("scheduler", "cronExpr", cronExpr, "cannot be empty")
	}

	schedule, err := s.cronParser.Parse(cronExpr)
	if err != nil {
		return sferrors.NewValidationError("scheduler", "cronExpr", cronExpr, "invalid cron expression").
			WithHint(err.Error())
	}

	now := time.Now()
	return s.add(&scheduledTask{
		id:           id,
		task:         task,
		runAt:        schedule.Next(now.In(s.location)),
		cronSchedule: schedule,
		created:      now,
	})
}

func (s *scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[id]; exists {
		delete(s.tasks, id)
		return true
	}
	return false
}

func (s *scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make(map[string]*scheduledTask)
}

func (s *scheduler) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.tasks))
	for _, t := range s.tasks {
		entries = append(entries, Entry{
			ID:       t.id,
			RunAt:    t.runAt,
			Interval: t.interval,
			Created:  t.created,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RunAt.Before(entries[j].RunAt)
	})

	return entries
}

func (s *scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running, call Stop() first")
	}

	s.running = true
	s.ticker = time.NewTicker(s.tickInterval)
	s.done = make(chan struct{})
	s.ctx, s.cancel = context.WithCancel(context.Background())

	go s.run(s.ticker, s.done)
	return nil
}

func (s *scheduler) Stop() <-chan struct{} {
	s.mu.Lock()
	if s.running {
		s.running = false
		close(s.done)
		s.ticker.Stop()
		s.cancel()
	}
	s.mu.Unlock()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		s.wg.Wait()
	}()

	return stopped
}

func (s *scheduler) run(ticker *time.Ticker, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.processReadyTasks()
		}
	}
}

func (s *scheduler) processReadyTasks() {
	now := time.Now()

	s.mu.Lock()
	if !s.running || len(s.tasks) == 0 {
		s.mu.Unlock()
		return
	}

	var ready []*scheduledTask
	for id, t := range s.tasks {
		if now.Before(t.runAt) {
			continue
		}
		ready = append(ready, t)

		switch {
		case t.interval > 0:
			t.runAt = now.Add(t.interval)
		case t.cronSchedule != nil:
			t.runAt = t.cronSchedule.Next(now.In(s.location))
		default:
			delete(s.tasks, id)
		}
	}

	// Registered under the lock so Stop cannot begin waiting between
	// the running check above and the Add.
	s.wg.Add(len(ready))
	ctx := s.ctx
	s.mu.Unlock()

	for _, t := range ready {
		go s.execute(ctx, t)
	}
}

func (s *scheduler) execute(ctx context.Context, t *scheduledTask) {
	defer s.wg.Done()

	// Bound simultaneous executions; a stopped scheduler releases waiters
	// through context cancellation.
	if err := s.ledger.Wait(ctx); err != nil {
		return
	}
	defer s.ledger.Release()

	defer func() {
		if r := recover(); r != nil {
			s.recordFailed()
		}
	}()

	s.recordExecuted()
	if err := t.task.Execute(ctx); err != nil {
		s.recordFailed()
	}
}
