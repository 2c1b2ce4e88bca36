// Package scan drives the prescription check workflow: capture an image (or
// take a manual drug list), submit it for analysis, and publish the outcome.
// The workflow is a small state machine so callers always know whether a
// check is in flight and what the last outcome was.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"zovida/internal/api"
	"zovida/internal/history"
	"zovida/internal/logging"
	"zovida/internal/medsafety"
	"zovida/internal/session"
)

// Phase is the workflow state.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseScanning  Phase = "scanning"
	PhaseCaptured  Phase = "captured"
	PhaseAnalyzing Phase = "analyzing"
	PhaseResult    Phase = "result"
	PhaseError     Phase = "error"
)

// User-facing failure messages. The capture message is fixed; analysis
// failures fall back to the generic retry message unless the backend reported
// an OCR failure, which is shown verbatim.
const (
	MessageNoImage       = "No image captured"
	MessageAnalyzeFailed = "Failed to analyze prescription. Please try again."
)

// Store runs prescription checks and tracks workflow state.
type Store struct {
	client      *api.Client
	session     *session.Store
	history     *history.Store
	anonymousID string
	logger      *slog.Logger

	mu        sync.Mutex
	phase     Phase
	imagePath string
	result    *medsafety.AnalysisResult
	message   string
}

// NewStore wires the workflow to the backend client, the session, and the
// local history cache.
func NewStore(client *api.Client, sess *session.Store, hist *history.Store, anonymousID string, logger *slog.Logger) *Store {
	return &Store{
		client:      client,
		session:     sess,
		history:     hist,
		anonymousID: anonymousID,
		logger:      logging.NewComponentLogger(logger, "scan"),
		phase:       PhaseIdle,
	}
}

// Phase returns the current workflow state.
func (s *Store) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Result returns the last successful analysis, if the workflow is in the
// result state.
func (s *Store) Result() (medsafety.AnalysisResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return medsafety.AnalysisResult{}, false
	}
	return *s.result, true
}

// Message returns the user-facing failure message for the error state.
func (s *Store) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// StartScanning enters camera mode, discarding any previous capture.
func (s *Store) StartScanning() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseScanning
	s.imagePath = ""
	s.result = nil
	s.message = ""
}

// StopScanning leaves camera mode without a capture.
func (s *Store) StopScanning() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseScanning {
		s.phase = PhaseIdle
	}
}

// CaptureImage records the captured prescription image path.
func (s *Store) CaptureImage(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("capture image: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.imagePath = path
	s.phase = PhaseCaptured
	return nil
}

// Analyze submits the captured image for analysis. Without a capture it fails
// fast before touching the network.
func (s *Store) Analyze(ctx context.Context) (medsafety.AnalysisResult, error) {
	s.mu.Lock()
	path := s.imagePath
	if path == "" {
		s.phase = PhaseError
		s.message = MessageNoImage
		s.mu.Unlock()
		return medsafety.AnalysisResult{}, errors.New(MessageNoImage)
	}
	s.phase = PhaseAnalyzing
	s.mu.Unlock()

	image, err := os.Open(path)
	if err != nil {
		return s.fail(fmt.Errorf("open captured image: %w", err))
	}
	defer image.Close()

	raw, err := s.client.AnalyzePrescription(ctx, s.userID(), filepath.Base(path), image)
	if err != nil {
		return s.fail(err)
	}
	return s.finish(raw)
}

// CheckDrugs analyzes a manually entered drug list, bypassing image capture.
func (s *Store) CheckDrugs(ctx context.Context, drugs []string) (medsafety.AnalysisResult, error) {
	s.mu.Lock()
	s.phase = PhaseAnalyzing
	s.imagePath = ""
	s.mu.Unlock()

	raw, err := s.client.AnalyzeDrugs(ctx, s.userID(), drugs)
	if err != nil {
		return s.fail(err)
	}
	return s.finish(raw)
}

// SetResult restores a previously computed analysis as the current outcome,
// caching it in history exactly like a fresh analysis would.
func (s *Store) SetResult(result medsafety.AnalysisResult) {
	if err := s.history.Save(result); err != nil {
		s.logger.Warn("failed to cache analysis result",
			logging.String(logging.FieldEventType, "history_save_failed"),
			logging.Error(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseResult
	s.result = &result
	s.message = ""
}

// ClearResult discards the last outcome and returns to idle.
func (s *Store) ClearResult() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseIdle
	s.imagePath = ""
	s.result = nil
	s.message = ""
}

func (s *Store) userID() string {
	if id, ok := s.session.UserID(); ok {
		return id
	}
	return s.anonymousID
}

func (s *Store) finish(raw *api.ScanResult) (medsafety.AnalysisResult, error) {
	result := BuildResult(raw, uuid.NewString(), time.Now())

	if err := s.history.Save(result); err != nil {
		s.logger.Warn("failed to cache analysis result",
			logging.String(logging.FieldEventType, "history_save_failed"),
			logging.Error(err))
	}

	s.mu.Lock()
	s.phase = PhaseResult
	s.result = &result
	s.message = ""
	s.mu.Unlock()

	s.logger.Info("analysis complete",
		logging.String(logging.FieldEventType, "analysis_complete"),
		logging.String("result_id", result.ID),
		logging.String("overall_risk", string(result.OverallRisk)),
		logging.Int("interactions", len(result.Interactions)))
	return result, nil
}

func (s *Store) fail(err error) (medsafety.AnalysisResult, error) {
	message := MessageAnalyzeFailed
	var extractionErr *api.ExtractionError
	if errors.As(err, &extractionErr) {
		message = extractionErr.Message
	}

	s.mu.Lock()
	s.phase = PhaseError
	s.message = message
	s.mu.Unlock()

	s.logger.Error("analysis failed",
		logging.String(logging.FieldEventType, "analysis_failed"),
		logging.Error(err))
	return medsafety.AnalysisResult{}, fmt.Errorf("%s: %w", message, err)
}
