package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/spincycle/internal/shared"
	"github.com/desertthunder/spincycle/internal/tasks"
)

// stubEngine records which operations the scheduler dispatched.
type stubEngine struct {
	mu        sync.Mutex
	updates   []string
	rollovers []string
	failWith  error
}

func (s *stubEngine) Update(ctx context.Context, playlistType string, progress chan<- tasks.ProgressUpdate) (*tasks.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, playlistType)
	if s.failWith != nil {
		return nil, s.failWith
	}
	return &tasks.UpdateResult{PlaylistType: playlistType}, nil
}

func (s *stubEngine) Rollover(ctx context.Context, playlistType string, progress chan<- tasks.ProgressUpdate) (*tasks.RolloverResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollovers = append(s.rollovers, playlistType)
	if s.failWith != nil {
		return nil, s.failWith
	}
	return &tasks.RolloverResult{PlaylistType: playlistType}, nil
}

func (s *stubEngine) EnsurePlaylists(ctx context.Context) (*tasks.EnsureResult, error) {
	return &tasks.EnsureResult{}, nil
}

func TestScheduler(t *testing.T) {
	logger := shared.NewLogger(nil)

	t.Run("Schedule", func(t *testing.T) {
		t.Run("registers update and rollover jobs from config", func(t *testing.T) {
			config := shared.DefaultConfig()
			sched := New(&stubEngine{}, config, logger)

			if err := sched.Schedule(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			// default config: 4 active playlists with schedules,
			// monthly and yearly carry rollover schedules
			jobs := sched.Jobs()
			if len(jobs) != 6 {
				t.Fatalf("expected 6 jobs, got %d", len(jobs))
			}

			counts := map[JobKind]int{}
			for _, job := range jobs {
				counts[job.Kind]++
			}
			if counts[JobUpdate] != 4 {
				t.Errorf("expected 4 update jobs, got %d", counts[JobUpdate])
			}
			if counts[JobRollover] != 2 {
				t.Errorf("expected 2 rollover jobs, got %d", counts[JobRollover])
			}
		})

		t.Run("skips inactive playlists", func(t *testing.T) {
			config := shared.DefaultConfig()
			daily := config.Playlists["daily"]
			daily.Active = false
			config.Playlists["daily"] = daily

			sched := New(&stubEngine{}, config, logger)
			if err := sched.Schedule(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			for _, job := range sched.Jobs() {
				if job.PlaylistType == "daily" {
					t.Errorf("expected no job for inactive daily playlist, got %s", job.Kind)
				}
			}
		})

		t.Run("skips playlists without a schedule", func(t *testing.T) {
			config := shared.DefaultConfig()
			weekly := config.Playlists["weekly"]
			weekly.Schedule = ""
			config.Playlists["weekly"] = weekly

			sched := New(&stubEngine{}, config, logger)
			if err := sched.Schedule(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			for _, job := range sched.Jobs() {
				if job.PlaylistType == "weekly" {
					t.Errorf("expected no job for unscheduled weekly playlist")
				}
			}
		})

		t.Run("rejects malformed cron expressions", func(t *testing.T) {
			config := shared.DefaultConfig()
			daily := config.Playlists["daily"]
			daily.Schedule = "not a cron spec"
			config.Playlists["daily"] = daily

			sched := New(&stubEngine{}, config, logger)
			err := sched.Schedule()
			if err == nil {
				t.Fatal("expected error for malformed schedule")
			}
			if !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	})

	t.Run("job dispatch", func(t *testing.T) {
		t.Run("update jobs call Update", func(t *testing.T) {
			engine := &stubEngine{}
			sched := New(engine, shared.DefaultConfig(), logger)

			sched.job("daily", JobUpdate).Run()

			if len(engine.updates) != 1 || engine.updates[0] != "daily" {
				t.Errorf("expected one daily update, got %v", engine.updates)
			}
			if len(engine.rollovers) != 0 {
				t.Errorf("expected no rollovers, got %v", engine.rollovers)
			}
		})

		t.Run("rollover jobs call Rollover", func(t *testing.T) {
			engine := &stubEngine{}
			sched := New(engine, shared.DefaultConfig(), logger)

			sched.job("monthly", JobRollover).Run()

			if len(engine.rollovers) != 1 || engine.rollovers[0] != "monthly" {
				t.Errorf("expected one monthly rollover, got %v", engine.rollovers)
			}
		})

		t.Run("engine failures are absorbed", func(t *testing.T) {
			engine := &stubEngine{failWith: errors.New("service unavailable")}
			sched := New(engine, shared.DefaultConfig(), logger)

			// must not panic; the next firing is the retry
			sched.job("daily", JobUpdate).Run()

			if len(engine.updates) != 1 {
				t.Errorf("expected the update to have been attempted, got %v", engine.updates)
			}
		})
	})

	t.Run("Start stops when the context is cancelled", func(t *testing.T) {
		sched := New(&stubEngine{}, shared.DefaultConfig(), logger)
		if err := sched.Schedule(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			sched.Start(ctx)
			close(done)
		}()

		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("scheduler did not stop after cancellation")
		}
	})
}
