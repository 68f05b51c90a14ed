// Package scheduler runs background jobs at fixed times of day.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ScheduleTime is a time of day in the server's local zone.
type ScheduleTime struct {
	Hour   int
	Minute int
}

func (st ScheduleTime) String() string {
	return fmt.Sprintf("%02d:%02d", st.Hour, st.Minute)
}

// ParseScheduleTime parses HH:MM.
func ParseScheduleTime(s string) (ScheduleTime, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return ScheduleTime{}, fmt.Errorf("invalid time format (expected HH:MM): %w", err)
	}
	if hour < 0 || hour > 23 {
		return ScheduleTime{}, fmt.Errorf("invalid hour: %d (must be 0-23)", hour)
	}
	if minute < 0 || minute > 59 {
		return ScheduleTime{}, fmt.Errorf("invalid minute: %d (must be 0-59)", minute)
	}
	return ScheduleTime{Hour: hour, Minute: minute}, nil
}

// Config configures a Scheduler.
type Config struct {
	ScheduleTimes []string
	WorkerCount   int
	QueueSize     int
	JobTimeout    time.Duration
	RunOnStartup  bool
	JobProvider   func(context.Context) ([]Job, error)
	Logger        *slog.Logger
}

// Scheduler asks its job provider for work at each schedule time and hands
// the jobs to a worker pool.
type Scheduler struct {
	workerPool    *WorkerPool
	scheduleTimes []ScheduleTime
	runOnStartup  bool
	jobProvider   func(context.Context) ([]Job, error)
	logger        *slog.Logger
	tick          time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	lastRun string
}

// NewScheduler validates cfg and builds a stopped scheduler.
func NewScheduler(cfg Config) (*Scheduler, error) {
	times := make([]ScheduleTime, 0, len(cfg.ScheduleTimes))
	for _, raw := range cfg.ScheduleTimes {
		st, err := ParseScheduleTime(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse schedule time %q: %w", raw, err)
		}
		times = append(times, st)
	}
	if len(times) == 0 {
		return nil, fmt.Errorf("at least one schedule time is required")
	}
	if cfg.JobProvider == nil {
		return nil, fmt.Errorf("a job provider is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "scheduler"))

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		workerPool:    NewWorkerPool(cfg.WorkerCount, cfg.JobTimeout, cfg.QueueSize, logger),
		scheduleTimes: times,
		runOnStartup:  cfg.RunOnStartup,
		jobProvider:   cfg.JobProvider,
		logger:        logger,
		tick:          time.Minute,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// Start launches the worker pool and the schedule loop.
func (s *Scheduler) Start() {
	s.workerPool.Start()
	if s.runOnStartup {
		s.TriggerNow()
	}
	s.wg.Add(1)
	go s.loop()
	s.logger.Info("Scheduler started",
		slog.Any("times", s.scheduleTimes),
		slog.Time("next_run", s.NextRun(time.Now())))
}

func (s *Scheduler) loop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case now := <-ticker.C:
			if s.shouldRun(now) {
				queued := s.runJobs()
				s.logger.Info("Scheduled run finished queueing",
					slog.Int("queued", queued),
					slog.Time("next_run", s.NextRun(now)))
			}
		}
	}
}

// shouldRun reports whether now falls on a schedule time not yet handled.
func (s *Scheduler) shouldRun(now time.Time) bool {
	key := now.Format("2006-01-02T15:04")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastRun == key {
		return false
	}
	for _, st := range s.scheduleTimes {
		if now.Hour() == st.Hour && now.Minute() == st.Minute {
			s.lastRun = key
			return true
		}
	}
	return false
}

// runJobs fetches the current jobs and queues them. It returns how many
// were queued.
func (s *Scheduler) runJobs() int {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	jobs, err := s.jobProvider(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch jobs", slog.String("error", err.Error()))
		return 0
	}
	if len(jobs) == 0 {
		s.logger.Debug("No jobs to process")
		return 0
	}
	return s.workerPool.SubmitBatch(jobs)
}

// TriggerNow runs the job provider immediately in the background.
func (s *Scheduler) TriggerNow() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runJobs()
	}()
}

// NextRun returns the first schedule time after now.
func (s *Scheduler) NextRun(now time.Time) time.Time {
	var next time.Time
	for _, st := range s.scheduleTimes {
		candidate := time.Date(now.Year(), now.Month(), now.Day(), st.Hour, st.Minute, 0, 0, now.Location())
		if !candidate.After(now) {
			candidate = candidate.AddDate(0, 0, 1)
		}
		if next.IsZero() || candidate.Before(next) {
			next = candidate
		}
	}
	return next
}

// Shutdown stops the loop, then drains the worker pool within timeout.
func (s *Scheduler) Shutdown(timeout time.Duration) {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		s.logger.Warn("Timed out waiting for the schedule loop")
	}

	s.workerPool.ShutdownWithTimeout(timeout)
	s.logger.Info("Scheduler stopped")
}
