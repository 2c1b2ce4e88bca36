// Package appointments manages doctor appointments in the local database.
// Appointments are device-local; cancelling keeps the row with a flipped
// status so the visit history stays intact.
package appointments

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"zovida/internal/logging"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Appointment is one booked doctor visit. Date uses "2006-01-02" and Time the
// 24h "15:04" layout.
type Appointment struct {
	ID         string `json:"id"`
	DoctorID   string `json:"doctorId,omitempty"`
	DoctorName string `json:"doctorName"`
	Specialty  string `json:"specialty"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Location   string `json:"location"`
	Notes      string `json:"notes,omitempty"`
	Status     Status `json:"status"`
}

// When parses the appointment's combined date and time for ordering.
func (a Appointment) When() (time.Time, error) {
	return time.Parse("2006-01-02 15:04", a.Date+" "+a.Time)
}

// ErrNotFound is returned when an appointment id is unknown.
var ErrNotFound = errors.New("appointment not found")

const schema = `
CREATE TABLE IF NOT EXISTS appointments (
    id TEXT PRIMARY KEY,
    doctor_id TEXT NOT NULL DEFAULT '',
    doctor_name TEXT NOT NULL,
    specialty TEXT NOT NULL DEFAULT '',
    date TEXT NOT NULL,
    time TEXT NOT NULL,
    location TEXT NOT NULL DEFAULT '',
    notes TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL
);
`

// Store persists appointments in the shared local database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	mu     sync.Mutex
}

// NewStore prepares the appointments table on the shared database handle.
func NewStore(db *sql.DB, logger *slog.Logger) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create appointments schema: %w", err)
	}
	return &Store{
		db:     db,
		logger: logging.NewComponentLogger(logger, "appointments"),
	}, nil
}

// Add books an appointment. The id and upcoming status are assigned here.
func (s *Store) Add(appointment Appointment) (Appointment, error) {
	if strings.TrimSpace(appointment.DoctorName) == "" {
		return Appointment{}, errors.New("doctor name is required")
	}
	if _, err := time.Parse("2006-01-02", appointment.Date); err != nil {
		return Appointment{}, fmt.Errorf("date must use YYYY-MM-DD format: %w", err)
	}
	if _, err := time.Parse("15:04", appointment.Time); err != nil {
		return Appointment{}, fmt.Errorf("time must use 24h HH:MM format: %w", err)
	}

	appointment.ID = uuid.NewString()
	appointment.Status = StatusUpcoming

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(
		`INSERT INTO appointments (id, doctor_id, doctor_name, specialty, date, time, location, notes, status) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		appointment.ID, appointment.DoctorID, appointment.DoctorName, appointment.Specialty, appointment.Date,
		appointment.Time, appointment.Location, appointment.Notes, string(appointment.Status),
	); err != nil {
		return Appointment{}, fmt.Errorf("insert appointment: %w", err)
	}

	s.logger.Info("appointment booked",
		logging.String(logging.FieldEventType, "appointment_booked"),
		logging.String("appointment_id", appointment.ID),
		logging.String("date", appointment.Date))
	return appointment, nil
}

// List returns all appointments ordered by date and time ascending.
func (s *Store) List() ([]Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT id, doctor_id, doctor_name, specialty, date, time, location, notes, status FROM appointments`)
	if err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	defer rows.Close()

	var appointments []Appointment
	for rows.Next() {
		var a Appointment
		var status string
		if err := rows.Scan(&a.ID, &a.DoctorID, &a.DoctorName, &a.Specialty, &a.Date, &a.Time, &a.Location, &a.Notes, &status); err != nil {
			return nil, fmt.Errorf("scan appointment row: %w", err)
		}
		a.Status = Status(status)
		appointments = append(appointments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(appointments, func(i, j int) bool {
		left, errLeft := appointments[i].When()
		right, errRight := appointments[j].When()
		if errLeft != nil || errRight != nil {
			return appointments[i].Date+appointments[i].Time < appointments[j].Date+appointments[j].Time
		}
		return left.Before(right)
	})
	return appointments, nil
}

// Upcoming returns only appointments still in the upcoming state.
func (s *Store) Upcoming() ([]Appointment, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	upcoming := all[:0]
	for _, appointment := range all {
		if appointment.Status == StatusUpcoming {
			upcoming = append(upcoming, appointment)
		}
	}
	return upcoming, nil
}

// Get returns one appointment by id.
func (s *Store) Get(id string) (Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var a Appointment
	var status string
	err := s.db.QueryRow(
		`SELECT id, doctor_id, doctor_name, specialty, date, time, location, notes, status FROM appointments WHERE id = ?`, id,
	).Scan(&a.ID, &a.DoctorID, &a.DoctorName, &a.Specialty, &a.Date, &a.Time, &a.Location, &a.Notes, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return Appointment{}, ErrNotFound
	}
	if err != nil {
		return Appointment{}, fmt.Errorf("query appointment: %w", err)
	}
	a.Status = Status(status)
	return a, nil
}

// Cancel marks an appointment cancelled without deleting it.
func (s *Store) Cancel(id string) error {
	return s.setStatus(id, StatusCancelled)
}

// Complete marks an appointment as attended.
func (s *Store) Complete(id string) error {
	return s.setStatus(id, StatusCompleted)
}

func (s *Store) setStatus(id string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE appointments SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}
