package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// extractionErrorPrefix marks OCR failures that the backend reports in-band
// through the extracted_text field instead of an HTTP error status.
const extractionErrorPrefix = "ERROR: "

// ScanInteraction is one checked drug pair. Level carries the backend's raw
// severity label; Drug2 is empty for single-drug prescriptions, which the
// backend reports as one "Safe" entry.
type ScanInteraction struct {
	Drug1      string  `json:"drug1"`
	Drug2      string  `json:"drug2"`
	Level      string  `json:"level"`
	Confidence float64 `json:"confidence"`
}

// ScanTimeline carries the backend's urgency guidance for a scan.
type ScanTimeline struct {
	Urgency string `json:"urgency"`
	Message string `json:"message"`
}

// ScanRating aggregates clinician review counts for a combination.
type ScanRating struct {
	TotalReviews   int     `json:"totalReviews"`
	AverageScore   float64 `json:"averageScore"`
	SafeRatings    int     `json:"safeRatings"`
	CautionRatings int     `json:"cautionRatings"`
	DangerRatings  int     `json:"dangerRatings"`
}

// ScanAnalysis is the analysis document nested in the scan and manual
// responses. The pairwise interactions carry the full drug list; there is no
// separate medicines array. SafetyTimeline and DoctorRating are optional
// enrichment keys the backend may add.
type ScanAnalysis struct {
	Interactions   []ScanInteraction `json:"interactions"`
	Lifestyle      []string          `json:"lifestyle"`
	SafetyTimeline *ScanTimeline     `json:"safetyTimeline"`
	DoctorRating   *ScanRating       `json:"doctorRating"`
}

// ScanResult is the raw payload returned by the prescription endpoints before
// any client-side normalization. ExtractedText is set by the scan endpoint;
// Drugs echoes the manual endpoint's input list.
type ScanResult struct {
	ExtractedText string       `json:"extracted_text"`
	Drugs         []string     `json:"drugs"`
	Analysis      ScanAnalysis `json:"analysis"`
}

// AnalyzePrescription uploads a prescription image for OCR and interaction
// analysis. In-band OCR failures surface as *ExtractionError with the
// backend's message verbatim.
func (c *Client) AnalyzePrescription(ctx context.Context, userID, filename string, image io.Reader) (*ScanResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("user_id", userID); err != nil {
		return nil, fmt.Errorf("encode user id: %w", err)
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("encode image part: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("copy image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("prescriptions", "scan"), &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, newStatusError(resp)
	}

	var result ScanResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		return nil, err
	}
	if msg, failed := extractionFailure(result.ExtractedText); failed {
		return nil, &ExtractionError{Message: msg}
	}
	return &result, nil
}

// AnalyzeDrugs submits a manually entered drug list for interaction analysis.
func (c *Client) AnalyzeDrugs(ctx context.Context, userID string, drugs []string) (*ScanResult, error) {
	payload := struct {
		UserID string   `json:"user_id"`
		Drugs  []string `json:"drugs"`
	}{UserID: userID, Drugs: drugs}

	var result ScanResult
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint("prescriptions", "manual"), payload, &result); err != nil {
		return nil, err
	}
	if msg, failed := extractionFailure(result.ExtractedText); failed {
		return nil, &ExtractionError{Message: msg}
	}
	return &result, nil
}

func extractionFailure(extractedText string) (string, bool) {
	if !strings.HasPrefix(extractedText, extractionErrorPrefix) {
		return "", false
	}
	return strings.TrimPrefix(extractedText, extractionErrorPrefix), true
}
