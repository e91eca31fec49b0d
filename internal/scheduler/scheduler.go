// Package scheduler runs the periodic monitor jobs on fixed intervals.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultFirstRunDelay is how long after Start every job first runs.
const DefaultFirstRunDelay = time.Second

// Job is a named periodic task.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler runs registered jobs on their intervals. A job never overlaps
// itself: a tick that fires while the previous run is still going is skipped.
type Scheduler struct {
	cron          *cron.Cron
	logger        cron.Logger
	firstRunDelay time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	jobs    []cron.Job
	names   []string
	timers  []*time.Timer
	pending sync.WaitGroup
}

// New creates a Scheduler logging through logger.
func New(logger cron.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:          cron.New(cron.WithLogger(logger)),
		logger:        logger,
		firstRunDelay: DefaultFirstRunDelay,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Register adds job. Jobs with a non-positive interval are disabled and
// Register reports false.
func (s *Scheduler) Register(job Job) (bool, error) {
	if job.Interval <= 0 {
		slog.Info("job disabled", "job", job.Name)
		return false, nil
	}

	wrapped := cron.NewChain(
		cron.Recover(s.logger),
		cron.SkipIfStillRunning(s.logger),
	).Then(s.logged(job))

	schedule := fmt.Sprintf("@every %s", job.Interval)
	if _, err := s.cron.AddJob(schedule, wrapped); err != nil {
		return false, fmt.Errorf("failed to schedule job %s: %w", job.Name, err)
	}

	s.mu.Lock()
	s.jobs = append(s.jobs, wrapped)
	s.names = append(s.names, job.Name)
	s.mu.Unlock()

	slog.Info("job scheduled", "job", job.Name, "interval", job.Interval.String())
	return true, nil
}

// Start begins the interval schedule and queues the first run of every job
// shortly after.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, job := range s.jobs {
		s.pending.Add(1)
		name := s.names[i]
		s.timers = append(s.timers, time.AfterFunc(s.firstRunDelay, func() {
			defer s.pending.Done()
			slog.Debug("first run", "job", name)
			job.Run()
		}))
	}
	s.cron.Start()
	slog.Info("scheduler started", "jobs", len(s.jobs))
}

// Stop halts scheduling and waits for running jobs to return. ctx bounds
// the wait.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	for _, t := range s.timers {
		if t.Stop() {
			s.pending.Done()
		}
	}
	s.timers = nil
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		<-s.cron.Stop().Done()
		s.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		slog.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		s.cancel()
		return fmt.Errorf("failed to stop scheduler: %w", ctx.Err())
	}
}

func (s *Scheduler) logged(job Job) cron.Job {
	return cron.FuncJob(func() {
		start := time.Now()
		if err := job.Run(s.ctx); err != nil {
			slog.Error("job failed", "job", job.Name, "duration", time.Since(start), "error", err)
			return
		}
		slog.Debug("job finished", "job", job.Name, "duration", time.Since(start))
	})
}
