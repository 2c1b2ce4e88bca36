// Package scheduler fires medication reminders. It polls the reminder store
// once per interval and pushes a notification for every active reminder whose
// time and weekday match the current minute. A per-reminder ledger of the
// last fired minute guarantees at most one notification per scheduled minute
// even when ticks land twice inside it.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"zovida/internal/logging"
	"zovida/internal/notifications"
	"zovida/internal/reminders"
)

const minuteLayout = "2006-01-02 15:04"

// Scheduler runs the reminder check loop.
type Scheduler struct {
	store    *reminders.Store
	notifier notifications.Service
	logger   *slog.Logger
	interval time.Duration

	mu        sync.Mutex
	lastFired map[string]string
}

// New builds a scheduler over the reminder store.
func New(store *reminders.Store, notifier notifications.Service, logger *slog.Logger, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		store:     store,
		notifier:  notifier,
		logger:    logging.NewComponentLogger(logger, "scheduler"),
		interval:  interval,
		lastFired: make(map[string]string),
	}
}

// Run checks immediately, then on every tick until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("reminder scheduler started",
		logging.String(logging.FieldEventType, "scheduler_started"),
		logging.Duration("interval", s.interval))

	s.RunOnce(ctx, time.Now())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder scheduler stopped",
				logging.String(logging.FieldEventType, "scheduler_stopped"))
			return ctx.Err()
		case now := <-ticker.C:
			s.RunOnce(ctx, now)
		}
	}
}

// RunOnce fires every due reminder for the given instant and returns how many
// notifications went out.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) int {
	active, err := s.store.Active()
	if err != nil {
		s.logger.Error("failed to load reminders",
			logging.String(logging.FieldEventType, "scheduler_load_failed"),
			logging.Error(err))
		return 0
	}

	fired := 0
	for _, reminder := range active {
		if !due(reminder, now) {
			continue
		}
		if !s.markFired(reminder.ID, now) {
			continue
		}
		fired++
		if err := s.notifier.NotifyReminderDue(ctx, reminder.MedicineName, reminder.Dosage, reminder.Time); err != nil {
			s.logger.Warn("failed to deliver reminder notification",
				logging.String(logging.FieldEventType, "reminder_notify_failed"),
				logging.String("reminder_id", reminder.ID),
				logging.Error(err))
			continue
		}
		s.logger.Info("reminder fired",
			logging.String(logging.FieldEventType, "reminder_fired"),
			logging.String("reminder_id", reminder.ID),
			logging.String("medicine", reminder.MedicineName))
	}
	return fired
}

// due reports whether the reminder matches the instant's minute and weekday.
func due(reminder reminders.Reminder, now time.Time) bool {
	if reminder.Time != now.Format("15:04") {
		return false
	}
	weekday := now.Weekday().String()[:3]
	for _, day := range reminder.Days {
		if day == weekday {
			return true
		}
	}
	return false
}

// markFired records the fired minute and reports whether this reminder had
// already fired within it.
func (s *Scheduler) markFired(id string, now time.Time) bool {
	minute := now.Format(minuteLayout)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastFired[id] == minute {
		return false
	}
	s.lastFired[id] = minute
	return true
}
