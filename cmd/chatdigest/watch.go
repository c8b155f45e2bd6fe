package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/chat-digest/internal/watcher"
)

func watchCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Digest transcript files dropped into the inbox",
		Long:  `Watch paths.inbox and digest every .txt transcript created there. The file name (without extension) is used as the talker.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, flags)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			if a.cfg.Paths.Inbox == "" {
				return fmt.Errorf("paths.inbox is required for watch")
			}

			w, err := watcher.New(a.cfg.Paths.Inbox, a.proc.ProcessFile, a.log, a.cfg.Performance.MaxConcurrent)
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer w.Stop()

			a.log.Info(ctx, "========================================")
			a.log.Info(ctx, "Chat Digest is watching!")
			a.log.Info(ctx, "Inbox: %s", a.cfg.Paths.Inbox)
			a.log.Info(ctx, "Output: %s", a.cfg.Paths.Output)
			a.log.Info(ctx, "Press Ctrl+C to stop")
			a.log.Info(ctx, "========================================")

			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			a.log.Info(ctx, "Chat Digest stopped")
			return nil
		},
	}
}
