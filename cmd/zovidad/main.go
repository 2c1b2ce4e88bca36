// Command zovidad runs the Zovida reminder daemon: it watches the local
// reminder store and sends a push notification whenever a medication is due.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"zovida/internal/api"
	"zovida/internal/config"
	"zovida/internal/daemon"
	"zovida/internal/localdb"
	"zovida/internal/logging"
	"zovida/internal/notifications"
	"zovida/internal/reminders"
	"zovida/internal/scheduler"
	"zovida/internal/session"
)

func main() {
	configPath := flag.String("config", "", "Configuration file path")
	flag.Parse()

	if err := run(*configPath); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	logPath := filepath.Join(cfg.Paths.LogDir, "zovidad.log")
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr", logPath},
	})
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}

	db, err := localdb.Open(cfg)
	if err != nil {
		return fmt.Errorf("open local database: %w", err)
	}
	defer db.Close()

	sess := session.NewStore(cfg.SessionPath(), logger)
	client := api.NewClient(cfg.Backend.BaseURL, time.Duration(cfg.Backend.RequestTimeout)*time.Second)
	store, err := reminders.NewStore(db, client, sess, logger)
	if err != nil {
		return err
	}

	interval := time.Duration(cfg.Scheduler.CheckInterval) * time.Second
	sched := scheduler.New(store, notifications.NewService(cfg), logger, interval)

	d, err := daemon.New(cfg, sched, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return d.Run(ctx)
}
