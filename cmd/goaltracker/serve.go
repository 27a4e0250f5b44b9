package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goaltracker/internal/handler"
	"github.com/goaltracker/internal/inbox"
	"github.com/goaltracker/internal/reminder"
	"github.com/goaltracker/internal/router"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func serveCmd(state *cliState) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run startup tasks, then serve the HTTP API, inbox importer and reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				state.cfg.ListenAddr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, state)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides LISTEN_ADDR)")
	return cmd
}

func runServe(ctx context.Context, state *cliState) error {
	a, err := state.openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	// 结转与归档必须在任何界面或后台任务开始前完成
	report := a.Startup()
	state.log.Info("startup completed",
		"rolled_over", len(report.Rollover.Copied),
		"archived", report.Archived,
		"week", a.Weeks.FormatWeekRange(a.Weeks.CurrentWeekStart()))

	gin.SetMode(state.cfg.GinMode)
	server := &http.Server{
		Addr:              state.cfg.ListenAddr,
		Handler:           router.SetupRouter(handler.NewAPI(a), state.log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		state.log.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if state.cfg.InboxEnabled {
		importer := inbox.NewImporter(a.Goals, inbox.Options{
			Dir:          state.cfg.InboxDir,
			PollInterval: state.cfg.InboxPollInterval,
			Logger:       state.log,
		})
		g.Go(func() error {
			return ignoreCanceled(importer.Run(ctx))
		})
	}

	if state.cfg.RemindersEnabled {
		scheduler := reminder.NewScheduler(a.Briefing, a.Events, nil, a.Weeks, a.Feed, state.log.With("component", "reminder"))
		g.Go(func() error {
			return ignoreCanceled(scheduler.Run(ctx))
		})
	}

	err = g.Wait()
	state.log.Info("server stopped")
	return err
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
