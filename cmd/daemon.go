package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/desertthunder/spincycle/internal/scheduler"
	"github.com/urfave/cli/v3"
)

// Run connects to Spotify, ensures every active playlist exists, then hands
// control to the cron scheduler until SIGINT or SIGTERM.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	engine, db, err := r.openEngine(config)
	if err != nil {
		return err
	}
	defer db.Close()

	user, err := r.spotify.CurrentUser(ctx)
	if err != nil {
		return err
	}
	r.logger.Info("connected to Spotify", "user", user.DisplayName)

	ensured, err := engine.EnsurePlaylists(ctx)
	if err != nil {
		return err
	}
	r.logger.Info("playlists ready", "created", len(ensured.Created), "existing", len(ensured.Existing))

	sched := scheduler.New(engine, config, r.logger)
	if err := sched.Schedule(); err != nil {
		return err
	}

	r.writePlainHeader("Scheduled Jobs")
	for _, job := range sched.Jobs() {
		r.writePlain("%s %s %s\n", r.styles.Title(job.PlaylistType), job.Kind, r.styles.Help(job.Spec))
	}
	r.writePlain("%s scheduler running, press Ctrl-C to stop\n", r.styles.OK("✓"))

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched.Start(runCtx)
	r.writePlain("%s scheduler stopped\n", r.styles.OK("✓"))
	return nil
}
