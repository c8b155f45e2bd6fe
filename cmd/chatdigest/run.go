package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/chat-digest/internal/chatlog"
)

func runCmd(flags *globalFlags) *cobra.Command {
	var (
		talkers   []string
		startDate string
		endDate   string
		days      int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Digest the configured talkers once",
		Long: `Fetch each talker's chat log for the date range, digest it and save the reports.
The range is --start-date/--end-date when given, otherwise the last "days" days.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, flags)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			if !cmd.Flags().Changed("days") {
				days = a.cfg.Days
			}
			r, err := chatlog.RangeFor(time.Now(), startDate, endDate, days)
			if err != nil {
				return err
			}
			if len(talkers) == 0 {
				talkers = a.cfg.Talkers
			}

			return a.batch(ctx, talkers, r)
		},
	}

	cmd.Flags().StringSliceVarP(&talkers, "talker", "t", nil, "talker to digest (repeatable, default: talkers from config)")
	cmd.Flags().StringVar(&startDate, "start-date", "", "range start, YYYY-MM-DD")
	cmd.Flags().StringVar(&endDate, "end-date", "", "range end, YYYY-MM-DD")
	cmd.Flags().IntVar(&days, "days", 1, "digest the last N days when no dates are given (0 = today)")

	return cmd
}
