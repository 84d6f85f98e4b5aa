// AngelaMos | 2026
// scheduler.go

package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mentorcamp/backend/internal/core"
)

// Job is a unit of scheduled background work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type entry struct {
	job  Job
	spec string
	id   cron.EntryID
}

// Scheduler runs registered jobs on cron schedules. Overlapping runs of the
// same job are skipped.
type Scheduler struct {
	cron    *cron.Cron
	entries []entry
	timeout time.Duration
}

func NewScheduler(timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLogger{}),
			cron.SkipIfStillRunning(cronLogger{}),
		)),
		timeout: timeout,
	}
}

// Register schedules job on spec. An empty spec disables the job.
func (s *Scheduler) Register(spec string, job Job) error {
	if spec == "" {
		slog.Info("job disabled", "job", job.Name())
		return nil
	}

	id, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		_ = s.execute(ctx, job)
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", job.Name(), err)
	}

	s.entries = append(s.entries, entry{job: job, spec: spec, id: id})
	slog.Info("job scheduled", "job", job.Name(), "spec", spec)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("scheduler started", "jobs", len(s.entries))
}

// Stop prevents new runs and waits for running ones until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		slog.Info("scheduler stopped")
	case <-ctx.Done():
		slog.Warn("scheduler stop timed out with jobs still running")
	}
}

// RunNow executes the named job immediately, outside its schedule.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	for _, e := range s.entries {
		if e.job.Name() == name {
			return s.execute(ctx, e.job)
		}
	}
	return fmt.Errorf("job %q: %w", name, core.ErrNotFound)
}

// Next reports when each scheduled job fires next.
func (s *Scheduler) Next() map[string]time.Time {
	out := make(map[string]time.Time, len(s.entries))
	for _, e := range s.entries {
		out[e.job.Name()] = s.cron.Entry(e.id).Next
	}
	return out
}

func (s *Scheduler) execute(ctx context.Context, job Job) error {
	start := time.Now()
	err := job.Run(ctx)

	result := "success"
	if err != nil {
		result = "failure"
		slog.ErrorContext(ctx, "job failed",
			"job", job.Name(),
			"duration", time.Since(start),
			"error", err,
		)
	} else {
		slog.InfoContext(ctx, "job completed",
			"job", job.Name(),
			"duration", time.Since(start),
		)
	}
	core.JobRunsTotal.WithLabelValues(job.Name(), result).Inc()
	return err
}

// cronLogger routes cron's internal logging to slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
