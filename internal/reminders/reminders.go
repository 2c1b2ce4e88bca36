// Package reminders manages medication reminders. The local database is the
// source of truth; for logged-in users every mutation is also pushed to the
// backend on a best-effort basis, so a dead backend never blocks the user
// from managing reminders.
package reminders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"zovida/internal/api"
	"zovida/internal/logging"
	"zovida/internal/medsafety"
	"zovida/internal/session"
)

// Reminder is one scheduled medication alert. Time uses the 24h "15:04"
// layout; Days holds three-letter weekday names ("Mon".."Sun"). Backend-owned
// reminders carry their numeric server id; reminders created while anonymous
// or during backend outages carry a locally generated UUID.
type Reminder struct {
	ID           string   `json:"id"`
	MedicineName string   `json:"medicineName"`
	Dosage       string   `json:"dosage"`
	Time         string   `json:"time"`
	Days         []string `json:"days"`
	IsActive     bool     `json:"isActive"`
}

// Patch carries the fields of a reminder update; nil fields stay unchanged.
type Patch struct {
	MedicineName *string
	Dosage       *string
	Time         *string
	Days         *[]string
	IsActive     *bool
}

// SyncResult reports how a mutation fared against the backend.
type SyncResult string

const (
	// SyncOK means the backend accepted the mutation.
	SyncOK SyncResult = "ok"
	// SyncLocalOnly means no backend sync was attempted (anonymous session
	// or a reminder the backend has never seen).
	SyncLocalOnly SyncResult = "local_only"
	// SyncBackendFailed means the backend rejected or never received the
	// mutation; the local change stands and can be re-pushed later.
	SyncBackendFailed SyncResult = "backend_failed"
)

// ErrNotFound is returned when a reminder id is unknown.
var ErrNotFound = errors.New("reminder not found")

var validDays = map[string]struct{}{
	"Mon": {}, "Tue": {}, "Wed": {}, "Thu": {}, "Fri": {}, "Sat": {}, "Sun": {},
}

const schema = `
CREATE TABLE IF NOT EXISTS reminders (
    id TEXT PRIMARY KEY,
    medicine_name TEXT NOT NULL,
    dosage TEXT NOT NULL DEFAULT '',
    time TEXT NOT NULL,
    days TEXT NOT NULL,
    is_active INTEGER NOT NULL DEFAULT 1,
    created_at INTEGER NOT NULL
);
`

// Store persists reminders locally and mirrors mutations to the backend.
type Store struct {
	db      *sql.DB
	client  *api.Client
	session *session.Store
	logger  *slog.Logger
	mu      sync.Mutex
	nowUnix func() int64
}

// NewStore prepares the reminders table on the shared database handle.
func NewStore(db *sql.DB, client *api.Client, sess *session.Store, logger *slog.Logger) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create reminders schema: %w", err)
	}
	return &Store{
		db:      db,
		client:  client,
		session: sess,
		logger:  logging.NewComponentLogger(logger, "reminders"),
		nowUnix: func() int64 { return time.Now().UnixNano() },
	}, nil
}

// Validate checks a reminder's fields before it is stored.
func Validate(reminder Reminder) error {
	if strings.TrimSpace(reminder.MedicineName) == "" {
		return errors.New("medicine name is required")
	}
	if _, err := time.Parse("15:04", reminder.Time); err != nil {
		return fmt.Errorf("time must use 24h HH:MM format: %w", err)
	}
	if len(reminder.Days) == 0 {
		return errors.New("at least one day is required")
	}
	for _, day := range reminder.Days {
		if _, ok := validDays[day]; !ok {
			return fmt.Errorf("unknown day %q", day)
		}
	}
	return nil
}

// Add stores a reminder. Logged-in users get a backend id when the create
// succeeds; otherwise the reminder is stored under a local UUID.
func (s *Store) Add(ctx context.Context, reminder Reminder) (Reminder, SyncResult, error) {
	reminder.MedicineName = medsafety.CanonicalName(reminder.MedicineName)
	if err := Validate(reminder); err != nil {
		return Reminder{}, SyncLocalOnly, err
	}

	syncState := SyncLocalOnly
	if userID, ok := s.session.UserID(); ok {
		backendID, err := s.client.CreateReminder(ctx, userID, api.ReminderRecord{
			MedicineName: reminder.MedicineName,
			Dosage:       reminder.Dosage,
			Time:         reminder.Time,
			Days:         reminder.Days,
			IsActive:     reminder.IsActive,
		})
		if err != nil {
			syncState = SyncBackendFailed
			s.logSyncFailure("reminder_create_sync_failed", err)
		} else {
			syncState = SyncOK
			reminder.ID = strconv.Itoa(backendID)
		}
	}
	if reminder.ID == "" {
		reminder.ID = uuid.NewString()
	}

	if err := s.insert(reminder); err != nil {
		return Reminder{}, syncState, err
	}
	return reminder, syncState, nil
}

// Update applies a partial update. The local row changes regardless of the
// backend outcome; sync is attempted only for backend-owned reminders.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (Reminder, SyncResult, error) {
	s.mu.Lock()
	current, err := s.get(id)
	if err != nil {
		s.mu.Unlock()
		return Reminder{}, SyncLocalOnly, err
	}

	if patch.MedicineName != nil {
		current.MedicineName = medsafety.CanonicalName(*patch.MedicineName)
	}
	if patch.Dosage != nil {
		current.Dosage = *patch.Dosage
	}
	if patch.Time != nil {
		current.Time = *patch.Time
	}
	if patch.Days != nil {
		current.Days = *patch.Days
	}
	if patch.IsActive != nil {
		current.IsActive = *patch.IsActive
	}
	if err := Validate(current); err != nil {
		s.mu.Unlock()
		return Reminder{}, SyncLocalOnly, err
	}
	if err := s.replace(current); err != nil {
		s.mu.Unlock()
		return Reminder{}, SyncLocalOnly, err
	}
	s.mu.Unlock()

	syncState := SyncLocalOnly
	if backendID, ok := s.backendID(id); ok {
		wire := api.ReminderPatch{
			MedicineName: patch.MedicineName,
			Dosage:       patch.Dosage,
			Time:         patch.Time,
			Days:         patch.Days,
			IsActive:     patch.IsActive,
		}
		if err := s.client.UpdateReminder(ctx, backendID, wire); err != nil {
			syncState = SyncBackendFailed
			s.logSyncFailure("reminder_update_sync_failed", err)
		} else {
			syncState = SyncOK
		}
	}
	return current, syncState, nil
}

// Toggle flips a reminder's active flag.
func (s *Store) Toggle(ctx context.Context, id string) (Reminder, SyncResult, error) {
	current, err := s.Get(id)
	if err != nil {
		return Reminder{}, SyncLocalOnly, err
	}
	active := !current.IsActive
	return s.Update(ctx, id, Patch{IsActive: &active})
}

// Remove deletes a reminder locally and, for backend-owned reminders, from
// the backend.
func (s *Store) Remove(ctx context.Context, id string) (SyncResult, error) {
	s.mu.Lock()
	res, err := s.db.Exec(`DELETE FROM reminders WHERE id = ?`, id)
	s.mu.Unlock()
	if err != nil {
		return SyncLocalOnly, fmt.Errorf("delete reminder: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return SyncLocalOnly, ErrNotFound
	}

	syncState := SyncLocalOnly
	if backendID, ok := s.backendID(id); ok {
		if err := s.client.DeleteReminder(ctx, backendID); err != nil {
			syncState = SyncBackendFailed
			s.logSyncFailure("reminder_delete_sync_failed", err)
		} else {
			syncState = SyncOK
		}
	}
	return syncState, nil
}

// List returns all reminders in creation order.
func (s *Store) List() ([]Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT id, medicine_name, dosage, time, days, is_active FROM reminders ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query reminders: %w", err)
	}
	defer rows.Close()

	var reminders []Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows.Scan)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}
	return reminders, rows.Err()
}

// Active returns only the reminders currently enabled.
func (s *Store) Active() ([]Reminder, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	active := all[:0]
	for _, reminder := range all {
		if reminder.IsActive {
			active = append(active, reminder)
		}
	}
	return active, nil
}

// Get returns one reminder by id.
func (s *Store) Get(id string) (Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

// Init replaces the local reminder set with the backend's copy for logged-in
// users. Anonymous sessions keep their local reminders untouched.
func (s *Store) Init(ctx context.Context) error {
	userID, ok := s.session.UserID()
	if !ok {
		return nil
	}
	records, err := s.client.ListReminders(ctx, userID)
	if err != nil {
		return fmt.Errorf("fetch backend reminders: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin reminder sync: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM reminders`); err != nil {
		return fmt.Errorf("clear reminders: %w", err)
	}
	for i, record := range records {
		days, err := json.Marshal(record.Days)
		if err != nil {
			return fmt.Errorf("encode reminder days: %w", err)
		}
		if _, err := tx.Exec(
			`INSERT INTO reminders (id, medicine_name, dosage, time, days, is_active, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			strconv.Itoa(record.ID), record.MedicineName, record.Dosage, record.Time, string(days), record.IsActive, s.nowUnix()+int64(i),
		); err != nil {
			return fmt.Errorf("insert backend reminder: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reminder sync: %w", err)
	}

	s.logger.Info("reminders synced from backend",
		logging.String(logging.FieldEventType, "reminders_synced"),
		logging.Int("count", len(records)))
	return nil
}

// FromResult creates an active reminder for each medicine in an analysis
// result, using the medicine's own frequency text as the dosage note.
func (s *Store) FromResult(ctx context.Context, result medsafety.AnalysisResult, at string, days []string) ([]Reminder, error) {
	created := make([]Reminder, 0, len(result.Medicines))
	for _, medicine := range result.Medicines {
		dosage := medicine.Dosage
		if medicine.Frequency != "" {
			dosage = strings.TrimSpace(dosage + " " + medicine.Frequency)
		}
		reminder, _, err := s.Add(ctx, Reminder{
			MedicineName: medicine.Name,
			Dosage:       dosage,
			Time:         at,
			Days:         days,
			IsActive:     true,
		})
		if err != nil {
			return created, fmt.Errorf("create reminder for %s: %w", medicine.Name, err)
		}
		created = append(created, reminder)
	}
	return created, nil
}

func (s *Store) get(id string) (Reminder, error) {
	row := s.db.QueryRow(`SELECT id, medicine_name, dosage, time, days, is_active FROM reminders WHERE id = ?`, id)
	reminder, err := scanReminder(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Reminder{}, ErrNotFound
	}
	return reminder, err
}

func (s *Store) insert(reminder Reminder) error {
	days, err := json.Marshal(reminder.Days)
	if err != nil {
		return fmt.Errorf("encode reminder days: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(
		`INSERT INTO reminders (id, medicine_name, dosage, time, days, is_active, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		reminder.ID, reminder.MedicineName, reminder.Dosage, reminder.Time, string(days), reminder.IsActive, s.nowUnix(),
	); err != nil {
		return fmt.Errorf("insert reminder: %w", err)
	}
	return nil
}

func (s *Store) replace(reminder Reminder) error {
	days, err := json.Marshal(reminder.Days)
	if err != nil {
		return fmt.Errorf("encode reminder days: %w", err)
	}
	if _, err := s.db.Exec(
		`UPDATE reminders SET medicine_name = ?, dosage = ?, time = ?, days = ?, is_active = ? WHERE id = ?`,
		reminder.MedicineName, reminder.Dosage, reminder.Time, string(days), reminder.IsActive, reminder.ID,
	); err != nil {
		return fmt.Errorf("update reminder: %w", err)
	}
	return nil
}

// backendID reports whether the reminder belongs to the backend: the session
// must be logged in and the id must be the backend's numeric form.
func (s *Store) backendID(id string) (int, bool) {
	if _, ok := s.session.UserID(); !ok {
		return 0, false
	}
	numeric, err := strconv.Atoi(id)
	if err != nil {
		return 0, false
	}
	return numeric, true
}

func (s *Store) logSyncFailure(event string, err error) {
	s.logger.Warn("backend sync failed",
		logging.String(logging.FieldEventType, event),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "local change kept; backend will diverge until next sync"))
}

func scanReminder(scan func(dest ...any) error) (Reminder, error) {
	var reminder Reminder
	var days string
	if err := scan(&reminder.ID, &reminder.MedicineName, &reminder.Dosage, &reminder.Time, &days, &reminder.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Reminder{}, err
		}
		return Reminder{}, fmt.Errorf("scan reminder row: %w", err)
	}
	if err := json.Unmarshal([]byte(days), &reminder.Days); err != nil {
		return Reminder{}, fmt.Errorf("decode reminder days: %w", err)
	}
	return reminder, nil
}
