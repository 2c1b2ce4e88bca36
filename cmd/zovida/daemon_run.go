package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"zovida/internal/daemon"
	"zovida/internal/scheduler"
)

func newDaemonRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the reminder daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app) error {
				interval := time.Duration(a.cfg.Scheduler.CheckInterval) * time.Second
				sched := scheduler.New(a.reminders, a.notifier, a.logger, interval)

				d, err := daemon.New(a.cfg, sched, a.logger)
				if err != nil {
					return err
				}

				runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				fmt.Fprintf(cmd.OutOrStdout(), "Reminder daemon running (lock: %s)\n", d.LockPath())
				return d.Run(runCtx)
			})
		},
	}
}
