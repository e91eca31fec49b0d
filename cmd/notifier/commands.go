package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/rocjay1/piggy-notifier/internal/handler"
	"github.com/rocjay1/piggy-notifier/internal/logging"
	"github.com/rocjay1/piggy-notifier/internal/scheduler"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "notifier",
		Short:         "Lightning wallet balance and payment notifications for Telegram",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), envFile)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file (default ./.env when present)")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler and HTTP server until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), envFile)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:       "run <job>",
		Short:     "Run one job once: payments, balance or report",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: jobNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd.Context(), envFile, args[0])
		},
	})

	return root
}

func serve(ctx context.Context, envFile string) error {
	a, err := newApp(ctx, envFile)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(logging.CronLogger(a.logger))
	for _, job := range a.jobs() {
		if _, err := sched.Register(job); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr: a.cfg.ListenAddr(),
		Handler: handler.NewRouter(&handler.Dependencies{
			Monitor:      a.monitor,
			Commands:     a.commands,
			InstanceName: a.cfg.InstanceName,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		sched.Start()
		<-gctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shut down http server: %w", err))
		}
		if err := sched.Stop(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		a.commands.Wait()
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		slog.Error("notifier stopped with error", "error", err)
		return err
	}
	slog.Info("notifier stopped")
	return nil
}

func runOnce(ctx context.Context, envFile, name string) error {
	a, err := newApp(ctx, envFile)
	if err != nil {
		return err
	}
	defer a.Close()

	i := slices.IndexFunc(a.jobs(), func(j scheduler.Job) bool { return j.Name == name })
	if i < 0 {
		return fmt.Errorf("unknown job %q", name)
	}
	job := a.jobs()[i]

	slog.Info("running job", "job", job.Name)
	if err := job.Run(ctx); err != nil {
		slog.Error("job failed", "job", job.Name, "error", err)
		return err
	}
	return nil
}
