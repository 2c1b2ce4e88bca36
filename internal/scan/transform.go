package scan

import (
	"fmt"
	"math"
	"strings"
	"time"

	"zovida/internal/api"
	"zovida/internal/medsafety"
)

// The backend only reports drug pairs; dosage details never survive OCR.
const asPrescribed = "As prescribed"

// BuildResult reshapes a raw backend analysis into the client result type.
// The medicine list is the deduplicated union of drug names across the
// interaction pairs, canonicalized and in first-seen order. Severity labels
// are normalized onto the three-level taxonomy, the overall risk is derived
// from them, and the explanation and recommendation text is composed here
// since the backend sends only pairs, levels, and confidences.
func BuildResult(raw *api.ScanResult, id string, ts time.Time) medsafety.AnalysisResult {
	interactions := buildInteractions(raw.Analysis.Interactions)
	medicines := buildMedicines(raw.Analysis.Interactions, id)
	risk := medsafety.OverallRisk(interactions)

	result := medsafety.AnalysisResult{
		ID:                id,
		Timestamp:         ts,
		Medicines:         medicines,
		OverallRisk:       risk,
		Interactions:      interactions,
		AIExplanation:     aiExplanation(len(medicines), len(interactions), risk),
		SimpleExplanation: simpleExplanation(len(interactions), risk),
		LifestyleWarnings: raw.Analysis.Lifestyle,
		SafetyTimeline:    safetyTimeline(raw.Analysis.SafetyTimeline, risk),
	}
	if raw.Analysis.DoctorRating != nil {
		result.DoctorRating = &medsafety.DoctorRating{
			TotalReviews:   raw.Analysis.DoctorRating.TotalReviews,
			AverageScore:   raw.Analysis.DoctorRating.AverageScore,
			SafeRatings:    raw.Analysis.DoctorRating.SafeRatings,
			CautionRatings: raw.Analysis.DoctorRating.CautionRatings,
			DangerRatings:  raw.Analysis.DoctorRating.DangerRatings,
		}
	}
	return result
}

func buildMedicines(raw []api.ScanInteraction, resultID string) []medsafety.Medicine {
	seen := make(map[string]struct{}, len(raw)*2)
	var medicines []medsafety.Medicine
	for _, interaction := range raw {
		for _, name := range []string{interaction.Drug1, interaction.Drug2} {
			canonical := medsafety.CanonicalName(name)
			if canonical == "" {
				continue
			}
			key := strings.ToLower(canonical)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			medicines = append(medicines, medsafety.Medicine{
				ID:        resultID + "-" + key,
				Name:      canonical,
				Dosage:    asPrescribed,
				Frequency: asPrescribed,
			})
		}
	}
	return medicines
}

func buildInteractions(raw []api.ScanInteraction) []medsafety.Interaction {
	interactions := make([]medsafety.Interaction, 0, len(raw))
	for _, interaction := range raw {
		drug1 := medsafety.CanonicalName(interaction.Drug1)
		drug2 := medsafety.CanonicalName(interaction.Drug2)
		confidence := int(math.Round(interaction.Confidence * 100))

		description := fmt.Sprintf("No major interactions detected for %s.", drug1)
		recommendation := "This medication appears safe to use as prescribed."
		if drug2 != "" {
			description = fmt.Sprintf("Potential interaction detected between %s and %s. Confidence: %d%%", drug1, drug2, confidence)
			recommendation = "Please consult your healthcare provider before taking these medications together."
		}

		interactions = append(interactions, medsafety.Interaction{
			Drug1:          drug1,
			Drug2:          drug2,
			Severity:       medsafety.NormalizeSeverity(interaction.Level),
			Description:    description,
			Recommendation: recommendation,
		})
	}
	return interactions
}

func aiExplanation(medicines, interactions int, risk medsafety.RiskLevel) string {
	base := fmt.Sprintf("Our analysis identified %d medications and %d potential interactions. ", medicines, interactions)
	switch risk {
	case medsafety.RiskDanger:
		return base + "Significant safety concerns were detected."
	case medsafety.RiskCaution:
		return base + "Some precautions are recommended."
	default:
		return base + "No major immediate risks were found."
	}
}

func simpleExplanation(interactions int, risk medsafety.RiskLevel) string {
	base := fmt.Sprintf("We found %d interaction(s). ", interactions)
	switch risk {
	case medsafety.RiskDanger:
		return base + "Please talk to your doctor immediately."
	case medsafety.RiskCaution:
		return base + "Be careful and monitor for side effects."
	default:
		return base + "Everything looks mostly safe."
	}
}

func safetyTimeline(backend *api.ScanTimeline, risk medsafety.RiskLevel) *medsafety.SafetyTimeline {
	if backend != nil {
		return &medsafety.SafetyTimeline{Urgency: backend.Urgency, Message: backend.Message}
	}
	switch risk {
	case medsafety.RiskDanger:
		return &medsafety.SafetyTimeline{Urgency: "Immediate", Message: "Consult a doctor before your next dose."}
	case medsafety.RiskCaution:
		return &medsafety.SafetyTimeline{Urgency: "Soon", Message: "Discuss with your pharmacist within 24 hours."}
	default:
		return &medsafety.SafetyTimeline{Urgency: "Routine", Message: "Mention these medications at your next routine checkup."}
	}
}
