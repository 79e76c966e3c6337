package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/Veraticus/the-spice-must-advise/internal/cli"
	"github.com/Veraticus/the-spice-must-advise/internal/common"
	"github.com/Veraticus/the-spice-must-advise/internal/digest"
	"github.com/Veraticus/the-spice-must-advise/internal/model"
	"github.com/Veraticus/the-spice-must-advise/internal/recommend"
)

func scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate recommendations on a cron schedule",
		Long: `Run the full recommendation set on the schedule.cron expression
(standard five-field cron, default "0 8 * * *"). The advice cache is kept
between runs, so unchanged records are answered from the cache.

Each run can write a JSON digest to schedule.output_dir, mail a plain-text
digest when email.* is configured, and refresh a Prometheus textfile at
schedule.metrics_file.`,
		Args: cobra.NoArgs,
		RunE: runSchedule,
	}

	cmd.Flags().String("cron", "", "cron expression (overrides schedule.cron)")
	cmd.Flags().Bool("once", false, "run a single digest immediately and exit")

	return cmd
}

// digestRunner performs one scheduled run.
type digestRunner struct {
	app    *app
	mailer *digest.Mailer
	logger *slog.Logger
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	spec, _ := cmd.Flags().GetString("cron")
	once, _ := cmd.Flags().GetBool("once")

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr()).WithTask("Scheduler", "")
	ctx := interrupts.HandleInterrupts(cmd.Context(), false)
	defer interrupts.Stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	r := &digestRunner{app: a, logger: slog.Default().With("component", "schedule")}
	if a.cfg.Email.Enabled() {
		r.mailer = digest.NewMailer(digest.MailConfig{
			Host:     a.cfg.Email.SMTPHost,
			Port:     a.cfg.Email.SMTPPort,
			Username: a.cfg.Email.Username,
			Password: a.cfg.Email.Password,
			From:     a.cfg.Email.From,
			To:       a.cfg.Email.To,
		})
	}

	if once {
		return r.run(ctx)
	}

	if spec == "" {
		spec = a.cfg.Schedule.Cron
	}
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("Invalid cron expression %q", spec), err)
	}

	logger := cronLogger{r.logger}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(spec, func() {
		if err := r.run(ctx); err != nil {
			r.logger.Error("Scheduled run failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule digest: %w", err)
	}

	c.Start()
	r.logger.Info("Scheduler started", "cron", spec, "next_run", sched.Next(time.Now()).Format(time.RFC3339))

	<-ctx.Done()
	stopped := c.Stop()
	<-stopped.Done()
	r.logger.Info("Scheduler stopped")
	return nil
}

// run generates every recommendation type and delivers the digest.
// Delivery failures are logged; only a run with no successes is an error.
func (r *digestRunner) run(ctx context.Context) error {
	scope := scopeFromConfig(r.app.cfg)
	start := time.Now()

	resp := r.app.svc.All(ctx, scope)

	stats := r.app.svc.CacheStats()
	r.logger.Info("Digest generated",
		"scope", scope.String(),
		"succeeded", resp.Succeeded,
		"failed", resp.Failed,
		"duration", time.Since(start),
		"cache_entries", stats.TotalEntries,
		"cache_hits", stats.Hits,
		"cache_misses", stats.Misses)

	r.deliver(scope, resp)

	if path := r.app.cfg.Schedule.MetricsFile; path != "" {
		if err := r.app.metrics.WriteTextfile(path); err != nil {
			r.logger.Warn("Failed to write metrics textfile", "path", path, "error", err)
		}
	}

	if resp.Succeeded == 0 {
		return fmt.Errorf("no recommendation type succeeded")
	}
	return nil
}

func (r *digestRunner) deliver(scope model.Scope, resp recommend.AllResponse) {
	if dir := r.app.cfg.Schedule.OutputDir; dir != "" {
		path, err := digest.WriteFile(dir, scope, resp)
		if err != nil {
			r.logger.Warn("Failed to write digest", "dir", dir, "error", err)
		} else {
			r.logger.Info("Digest written", "path", path)
		}
	}

	if r.mailer != nil {
		if err := r.mailer.Send(scope, resp); err != nil {
			r.logger.Warn("Failed to mail digest", "error", err)
		} else {
			r.logger.Info("Digest mailed", "to", r.app.cfg.Email.To)
		}
	}
}

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
