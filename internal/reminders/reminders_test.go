package reminders_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"zovida/internal/api"
	"zovida/internal/logging"
	"zovida/internal/reminders"
	"zovida/internal/session"
	"zovida/internal/testsupport"
)

type fixture struct {
	store   *reminders.Store
	session *session.Store
}

func newFixture(t *testing.T, backendURL string) fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpenDB(t, cfg)
	sess := session.NewStore(filepath.Join(t.TempDir(), "session.json"), logging.NewNop())
	client := api.NewClient(backendURL, time.Second)
	store, err := reminders.NewStore(db, client, sess, logging.NewNop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return fixture{store: store, session: sess}
}

func sample() reminders.Reminder {
	return reminders.Reminder{
		MedicineName: "aspirin",
		Dosage:       "100mg",
		Time:         "08:00",
		Days:         []string{"Mon", "Wed", "Fri"},
		IsActive:     true,
	}
}

func TestAddAnonymousIsLocalOnly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("anonymous add must not call the backend")
	}))
	defer server.Close()

	fx := newFixture(t, server.URL)
	created, syncState, err := fx.store.Add(context.Background(), sample())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if syncState != reminders.SyncLocalOnly {
		t.Errorf("sync = %q, want local_only", syncState)
	}
	if created.ID == "" {
		t.Error("expected a locally generated id")
	}
	if _, err := strconv.Atoi(created.ID); err == nil {
		t.Errorf("local id must not look backend-assigned, got %q", created.ID)
	}
	if created.MedicineName != "Aspirin" {
		t.Errorf("expected canonical name, got %q", created.MedicineName)
	}
}

func TestAddLoggedInUsesBackendID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload["user_id"] != "9" {
			t.Errorf("user_id = %v", payload["user_id"])
		}
		json.NewEncoder(w).Encode(map[string]int{"id": 31})
	}))
	defer server.Close()

	fx := newFixture(t, server.URL)
	if err := fx.session.SetUserID("9"); err != nil {
		t.Fatalf("SetUserID: %v", err)
	}

	created, syncState, err := fx.store.Add(context.Background(), sample())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if syncState != reminders.SyncOK {
		t.Errorf("sync = %q, want ok", syncState)
	}
	if created.ID != "31" {
		t.Errorf("id = %q, want backend id 31", created.ID)
	}
}

func TestAddKeepsLocalCopyWhenBackendFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	fx := newFixture(t, server.URL)
	if err := fx.session.SetUserID("9"); err != nil {
		t.Fatalf("SetUserID: %v", err)
	}

	created, syncState, err := fx.store.Add(context.Background(), sample())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if syncState != reminders.SyncBackendFailed {
		t.Errorf("sync = %q, want backend_failed", syncState)
	}

	all, err := fx.store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 || all[0].ID != created.ID {
		t.Fatalf("expected optimistic local copy, got %+v", all)
	}
}

func TestUpdateLocalReminderSkipsBackend(t *testing.T) {
	backendCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			backendCalls++
		}
		json.NewEncoder(w).Encode(map[string]int{"id": 77})
	}))
	defer server.Close()

	fx := newFixture(t, server.URL)
	created, _, err := fx.store.Add(context.Background(), sample())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	// Logging in later does not make a UUID reminder backend-owned.
	if err := fx.session.SetUserID("9"); err != nil {
		t.Fatalf("SetUserID: %v", err)
	}

	updated, syncState, err := fx.store.Toggle(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if syncState != reminders.SyncLocalOnly {
		t.Errorf("sync = %q, want local_only", syncState)
	}
	if updated.IsActive {
		t.Error("expected toggle to deactivate")
	}
	if backendCalls != 0 {
		t.Errorf("expected no backend mutation calls, got %d", backendCalls)
	}
}

func TestUpdateBackendReminderPatchesBackend(t *testing.T) {
	var patched map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			json.NewEncoder(w).Encode(map[string]int{"id": 44})
		case http.MethodPatch:
			if r.URL.Path != "/reminders/44" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			if err := json.NewDecoder(r.Body).Decode(&patched); err != nil {
				t.Fatalf("decode patch: %v", err)
			}
		}
	}))
	defer server.Close()

	fx := newFixture(t, server.URL)
	if err := fx.session.SetUserID("9"); err != nil {
		t.Fatalf("SetUserID: %v", err)
	}
	created, _, err := fx.store.Add(context.Background(), sample())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	newTime := "21:30"
	updated, syncState, err := fx.store.Update(context.Background(), created.ID, reminders.Patch{Time: &newTime})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if syncState != reminders.SyncOK {
		t.Errorf("sync = %q, want ok", syncState)
	}
	if updated.Time != "21:30" {
		t.Errorf("time = %q", updated.Time)
	}
	if len(patched) != 1 || patched["time"] != "21:30" {
		t.Errorf("unexpected patch payload %v", patched)
	}
}

func TestToggleKeepsLocalFlipWhenBackendFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			json.NewEncoder(w).Encode(map[string]int{"id": 44})
		case http.MethodPatch:
			http.Error(w, "down", http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	fx := newFixture(t, server.URL)
	if err := fx.session.SetUserID("9"); err != nil {
		t.Fatalf("SetUserID: %v", err)
	}
	created, _, err := fx.store.Add(context.Background(), sample())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	updated, syncState, err := fx.store.Toggle(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if syncState != reminders.SyncBackendFailed {
		t.Errorf("sync = %q, want backend_failed", syncState)
	}
	if updated.IsActive {
		t.Error("expected toggle to deactivate despite backend failure")
	}

	// The optimistic local change must survive the failed sync.
	stored, err := fx.store.Get(created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.IsActive {
		t.Error("expected stored row to stay flipped")
	}
}

func TestRemove(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	fx := newFixture(t, server.URL)
	created, _, err := fx.store.Add(context.Background(), sample())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := fx.store.Remove(context.Background(), created.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := fx.store.Get(created.ID); !errors.Is(err, reminders.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := fx.store.Remove(context.Background(), created.ID); !errors.Is(err, reminders.ErrNotFound) {
		t.Fatalf("expected second remove to report ErrNotFound, got %v", err)
	}
}

func TestInitReplacesLocalWithBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/reminders/9" {
			json.NewEncoder(w).Encode([]map[string]any{
				{"id": 1, "medicineName": "Metformin", "dosage": "500mg", "time": "09:00", "days": []string{"Mon"}, "isActive": true},
				{"id": 2, "medicineName": "Lisinopril", "dosage": "10mg", "time": "20:00", "days": []string{"Tue"}, "isActive": false},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]int{"id": 99})
	}))
	defer server.Close()

	fx := newFixture(t, server.URL)
	if _, _, err := fx.store.Add(context.Background(), sample()); err != nil {
		t.Fatalf("seed local reminder: %v", err)
	}
	if err := fx.session.SetUserID("9"); err != nil {
		t.Fatalf("SetUserID: %v", err)
	}

	if err := fx.store.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	all, err := fx.store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected backend set to replace local, got %+v", all)
	}
	if all[0].ID != "1" || all[1].ID != "2" {
		t.Errorf("unexpected order: %s, %s", all[0].ID, all[1].ID)
	}

	active, err := fx.store.Active()
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if len(active) != 1 || active[0].MedicineName != "Metformin" {
		t.Errorf("unexpected active set %+v", active)
	}
}

func TestInitAnonymousKeepsLocal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			t.Error("anonymous init must not fetch backend reminders")
		}
	}))
	defer server.Close()

	fx := newFixture(t, server.URL)
	if _, _, err := fx.store.Add(context.Background(), sample()); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := fx.store.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	all, err := fx.store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected local reminder kept, got %d", len(all))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*reminders.Reminder)
		wantErr bool
	}{
		{name: "valid", mutate: func(r *reminders.Reminder) {}},
		{name: "empty name", mutate: func(r *reminders.Reminder) { r.MedicineName = " " }, wantErr: true},
		{name: "bad time", mutate: func(r *reminders.Reminder) { r.Time = "8am" }, wantErr: true},
		{name: "no days", mutate: func(r *reminders.Reminder) { r.Days = nil }, wantErr: true},
		{name: "bad day", mutate: func(r *reminders.Reminder) { r.Days = []string{"Monday"} }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reminder := sample()
			tt.mutate(&reminder)
			err := reminders.Validate(reminder)
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
