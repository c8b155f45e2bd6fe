package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/chat-digest/internal/chatlog"
	"github.com/nguyentantai21042004/chat-digest/internal/scheduler"
)

func scheduleCmd(flags *globalFlags) *cobra.Command {
	var (
		at  string
		now bool
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Digest the configured talkers on a schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, flags)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			if at == "" {
				at = a.cfg.Schedule.Time
			}

			job := func(ctx context.Context) error {
				r, err := chatlog.RangeFor(time.Now(), "", "", a.cfg.Days)
				if err != nil {
					return err
				}
				return a.batch(ctx, a.cfg.Talkers, r)
			}

			s, err := scheduler.New(at, job, a.log, scheduler.WithRunNow(now))
			if err != nil {
				return err
			}

			a.log.Info(ctx, "Scheduler started (%s) for %d talkers", at, len(a.cfg.Talkers))
			if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "run time HH:MM or cron expression (default: schedule.time from config)")
	cmd.Flags().BoolVar(&now, "now", false, "also run once immediately")

	return cmd
}
