// Package daemon runs the background reminder service. It enforces
// single-instance execution with a file lock and drives the reminder
// scheduler until signalled to stop.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"zovida/internal/config"
	"zovida/internal/logging"
	"zovida/internal/scheduler"
)

// Daemon coordinates the reminder scheduler and enforces single-instance
// execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	sched  *scheduler.Scheduler

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, sched *scheduler.Scheduler, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || sched == nil || logger == nil {
		return nil, errors.New("daemon requires config, scheduler, and logger")
	}

	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		sched:    sched,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// LockPath returns the path of the single-instance lock file.
func (d *Daemon) LockPath() string {
	return d.lockPath
}

// Running reports whether the daemon loop is active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// Run acquires the daemon lock and drives the scheduler until the context is
// cancelled. It returns immediately when another instance holds the lock.
func (d *Daemon) Run(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if err := os.MkdirAll(filepath.Dir(d.lockPath), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another zovida daemon instance is already running")
	}
	defer func() {
		if err := d.lock.Unlock(); err != nil {
			d.logger.Warn("failed to release daemon lock",
				logging.String(logging.FieldEventType, "lock_release_failed"),
				logging.Error(err))
		}
		d.running.Store(false)
	}()

	d.running.Store(true)
	d.logger.Info("daemon started",
		logging.String(logging.FieldEventType, "daemon_started"),
		logging.String("lock_path", d.lockPath))

	err = d.sched.Run(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	d.logger.Info("daemon stopped",
		logging.String(logging.FieldEventType, "daemon_stopped"))
	return err
}
