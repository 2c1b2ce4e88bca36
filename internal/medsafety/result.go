package medsafety

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Medicine describes one detected or manually entered medication.
type Medicine struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Dosage     string   `json:"dosage"`
	Frequency  string   `json:"frequency"`
	Components []string `json:"components,omitempty"`
}

// Interaction is a flagged pairwise (or single-drug) concern. Drug2 is empty
// for single-drug advisories.
type Interaction struct {
	Drug1          string    `json:"drug1"`
	Drug2          string    `json:"drug2,omitempty"`
	Severity       RiskLevel `json:"severity"`
	Description    string    `json:"description"`
	Recommendation string    `json:"recommendation"`
}

// SafetyTimeline carries the backend's urgency guidance; opaque pass-through.
type SafetyTimeline struct {
	Urgency string `json:"urgency,omitempty"`
	Message string `json:"message,omitempty"`
}

// DoctorRating aggregates clinician review counts for a combination; opaque
// pass-through from the backend.
type DoctorRating struct {
	TotalReviews   int     `json:"totalReviews,omitempty"`
	AverageScore   float64 `json:"averageScore,omitempty"`
	SafeRatings    int     `json:"safeRatings,omitempty"`
	CautionRatings int     `json:"cautionRatings,omitempty"`
	DangerRatings  int     `json:"dangerRatings,omitempty"`
}

// AnalysisResult is the outcome of one scan or manual check. OverallRisk is
// derived from Interactions and must never be set independently; use
// OverallRisk() when building results.
type AnalysisResult struct {
	ID           string        `json:"id"`
	Timestamp    time.Time     `json:"timestamp"`
	Medicines    []Medicine    `json:"medicines"`
	OverallRisk  RiskLevel     `json:"overallRisk"`
	Interactions []Interaction `json:"interactions"`

	// Enrichment fields are backend/LLM content the client passes through
	// without validation.
	AIExplanation     string          `json:"aiExplanation,omitempty"`
	SimpleExplanation string          `json:"simpleExplanation,omitempty"`
	LifestyleWarnings []string        `json:"lifestyleWarnings,omitempty"`
	SideEffects       []string        `json:"sideEffects,omitempty"`
	EmergencySigns    []string        `json:"emergencySigns,omitempty"`
	SafetyTimeline    *SafetyTimeline `json:"safetyTimeline,omitempty"`
	DoctorRating      *DoctorRating   `json:"doctorRating,omitempty"`
	ClinicalStance    string          `json:"clinicalStance,omitempty"`
}

// BackendIDPrefix disambiguates server-assigned history entry ids from
// client-generated scan ids.
const BackendIDPrefix = "be-"

// FromBackend reports whether the result id marks a backend history entry.
func (r AnalysisResult) FromBackend() bool {
	return strings.HasPrefix(r.ID, BackendIDPrefix)
}

// MedicineNames returns the result's medicine names in list order.
func (r AnalysisResult) MedicineNames() []string {
	names := make([]string, 0, len(r.Medicines))
	for _, medicine := range r.Medicines {
		names = append(names, medicine.Name)
	}
	return names
}

// HistoryKey builds the composite reconciliation key used when merging local
// and backend history: sorted medicine names plus the result timestamp.
func (r AnalysisResult) HistoryKey() string {
	names := make([]string, 0, len(r.Medicines))
	for _, medicine := range r.Medicines {
		names = append(names, strings.ToLower(strings.TrimSpace(medicine.Name)))
	}
	sort.Strings(names)
	return strings.Join(names, "|") + "-" + strconv.FormatInt(r.Timestamp.UTC().Unix(), 10)
}

var nameCaser = cases.Title(language.English)

// CanonicalName normalizes a drug name for display: trimmed, title-cased.
func CanonicalName(name string) string {
	return nameCaser.String(strings.ToLower(strings.TrimSpace(name)))
}
