package medsafety

import "strings"

// RiskLevel is the three-level classification applied to interactions and to
// an analysis as a whole.
type RiskLevel string

const (
	RiskSafe    RiskLevel = "safe"
	RiskCaution RiskLevel = "caution"
	RiskDanger  RiskLevel = "danger"
)

var riskRank = map[RiskLevel]int{
	RiskSafe:    0,
	RiskCaution: 1,
	RiskDanger:  2,
}

// Rank returns the severity ordering of a risk level (danger > caution > safe).
// Unknown values rank as safe.
func (r RiskLevel) Rank() int {
	return riskRank[r]
}

// Valid reports whether the value is one of the three known levels.
func (r RiskLevel) Valid() bool {
	_, ok := riskRank[r]
	return ok
}

// ParseRiskLevel converts a string into a known RiskLevel.
func ParseRiskLevel(value string) (RiskLevel, bool) {
	normalized := RiskLevel(strings.ToLower(strings.TrimSpace(value)))
	if !normalized.Valid() {
		return "", false
	}
	return normalized, true
}

// NormalizeSeverity maps a backend interaction label onto the client taxonomy.
// The backend emits "major"/"moderate" for dictionary matches and may echo the
// client levels back for stored history rows; anything unrecognized is safe.
func NormalizeSeverity(label string) RiskLevel {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "major", "danger":
		return RiskDanger
	case "moderate", "caution":
		return RiskCaution
	default:
		return RiskSafe
	}
}

// OverallRisk computes the derived overall classification for a set of
// interactions: the most severe level present, or safe when the set is empty.
func OverallRisk(interactions []Interaction) RiskLevel {
	overall := RiskSafe
	for _, interaction := range interactions {
		if interaction.Severity.Rank() > overall.Rank() {
			overall = interaction.Severity
		}
	}
	return overall
}
