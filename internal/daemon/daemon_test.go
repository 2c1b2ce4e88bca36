package daemon_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"zovida/internal/api"
	"zovida/internal/config"
	"zovida/internal/daemon"
	"zovida/internal/logging"
	"zovida/internal/notifications"
	"zovida/internal/reminders"
	"zovida/internal/scheduler"
	"zovida/internal/session"
	"zovida/internal/testsupport"
)

func newScheduler(t *testing.T, cfg *config.Config) *scheduler.Scheduler {
	t.Helper()
	db := testsupport.MustOpenDB(t, cfg)
	sess := session.NewStore(filepath.Join(t.TempDir(), "session.json"), logging.NewNop())
	client := api.NewClient(cfg.Backend.BaseURL, time.Second)
	store, err := reminders.NewStore(db, client, sess, logging.NewNop())
	if err != nil {
		t.Fatalf("reminder store: %v", err)
	}
	return scheduler.New(store, notifications.NewService(cfg), logging.NewNop(), time.Minute)
}

func newDaemon(t *testing.T) *daemon.Daemon {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	d, err := daemon.New(cfg, newScheduler(t, cfg), logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func TestRunStopsOnContextCancel(t *testing.T) {
	d := newDaemon(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for !d.Running() {
		select {
		case <-deadline:
			t.Fatal("daemon did not start in time")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v, want nil on cancel", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("daemon did not stop in time")
	}
	if d.Running() {
		t.Error("daemon still reports running after stop")
	}
}

func TestSecondInstanceRefusesLock(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := daemon.New(cfg, newScheduler(t, cfg), logging.NewNop())
	if err != nil {
		t.Fatalf("New first: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- first.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for !first.Running() {
		select {
		case <-deadline:
			t.Fatal("first daemon did not start in time")
		case <-time.After(10 * time.Millisecond):
		}
	}

	second, err := daemon.New(cfg, newScheduler(t, cfg), logging.NewNop())
	if err != nil {
		t.Fatalf("New second: %v", err)
	}
	err = second.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "already running") {
		t.Fatalf("expected lock contention error, got %v", err)
	}

	cancel()
	<-done
}
