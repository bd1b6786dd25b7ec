// package scheduler drives recurring playlist updates and rollovers from cron expressions.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spincycle/internal/shared"
	"github.com/desertthunder/spincycle/internal/tasks"
	"github.com/robfig/cron/v3"
)

// JobKind distinguishes the two recurring operations.
type JobKind string

const (
	JobUpdate   JobKind = "update"
	JobRollover JobKind = "rollover"
)

// Job describes one registered cron entry.
type Job struct {
	PlaylistType string
	Kind         JobKind
	Spec         string
	entryID      cron.EntryID
}

// NextRun reports when the job fires next. Zero before Start.
func (j Job) NextRun(c *cron.Cron) time.Time {
	return c.Entry(j.entryID).Next
}

// Scheduler registers one cron entry per active playlist schedule and runs
// them until its context is cancelled. Entries are wrapped with
// SkipIfStillRunning so two invocations for the same playlist type never
// overlap; different types may fire concurrently.
type Scheduler struct {
	cron   *cron.Cron
	engine tasks.CurationEngine
	config *shared.Config
	logger *log.Logger
	jobs   []Job
}

// New creates a Scheduler wired to the curation engine. Jobs are not
// registered until [Scheduler.Schedule] runs.
func New(engine tasks.CurationEngine, cfg *shared.Config, logger *log.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.Local)),
		engine: engine,
		config: cfg,
		logger: logger,
	}
}

// Schedule registers an update job for every active playlist with a
// schedule and a rollover job for every non-empty rollover schedule.
// A malformed cron expression fails the whole registration.
func (s *Scheduler) Schedule() error {
	for _, playlistType := range s.config.PlaylistTypes() {
		cfg, ok := s.config.Playlist(playlistType)
		if !ok || !cfg.Active {
			continue
		}

		if cfg.Schedule != "" {
			if err := s.add(playlistType, JobUpdate, cfg.Schedule); err != nil {
				return err
			}
		}
		if cfg.Rollover.Schedule != "" {
			if err := s.add(playlistType, JobRollover, cfg.Rollover.Schedule); err != nil {
				return err
			}
		}
	}

	s.logger.Info("scheduler configured", "jobs", len(s.jobs))
	return nil
}

func (s *Scheduler) add(playlistType string, kind JobKind, spec string) error {
	job := cron.NewChain(cron.SkipIfStillRunning(s.cronLogger(playlistType, kind))).Then(s.job(playlistType, kind))

	entryID, err := s.cron.AddJob(spec, job)
	if err != nil {
		return fmt.Errorf("%w: %s %s schedule %q: %v", shared.ErrInvalidConfig, playlistType, kind, spec, err)
	}

	s.jobs = append(s.jobs, Job{PlaylistType: playlistType, Kind: kind, Spec: spec, entryID: entryID})
	s.logger.Info("scheduled job", "type", playlistType, "kind", kind, "spec", spec)
	return nil
}

// job builds the cron callback for one playlist. Errors are logged, never
// retried here: the next scheduled firing is the retry.
func (s *Scheduler) job(playlistType string, kind JobKind) cron.Job {
	return cron.FuncJob(func() {
		ctx := context.Background()
		started := time.Now()
		s.logger.Info("scheduled job firing", "type", playlistType, "kind", kind)

		var err error
		switch kind {
		case JobRollover:
			_, err = s.engine.Rollover(ctx, playlistType, nil)
		default:
			_, err = s.engine.Update(ctx, playlistType, nil)
		}

		if err != nil {
			s.logger.Error("scheduled job failed", "type", playlistType, "kind", kind, "error", err)
			return
		}
		s.logger.Info("scheduled job finished", "type", playlistType, "kind", kind, "elapsed", time.Since(started))
	})
}

// Start runs the cron loop until ctx is done, then stops and waits for any
// running job to finish.
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.jobs))

	<-ctx.Done()

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("scheduler stopped")
}

// Jobs returns the registered entries for display.
func (s *Scheduler) Jobs() []Job {
	return append([]Job(nil), s.jobs...)
}

// Next reports the upcoming firing time for a registered job.
func (s *Scheduler) Next(job Job) time.Time {
	return job.NextRun(s.cron)
}

// cronLogger adapts the shared logger to cron's Logger interface so skip
// events surface in the application log.
func (s *Scheduler) cronLogger(playlistType string, kind JobKind) cron.Logger {
	return cronLogAdapter{logger: s.logger.With("type", playlistType, "kind", kind)}
}

type cronLogAdapter struct {
	logger *log.Logger
}

func (c cronLogAdapter) Info(msg string, keysAndValues ...any) {
	c.logger.Info(msg, keysAndValues...)
}

func (c cronLogAdapter) Error(err error, msg string, keysAndValues ...any) {
	c.logger.Error(msg, append([]any{"error", err}, keysAndValues...)...)
}
