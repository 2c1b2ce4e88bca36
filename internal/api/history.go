package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"zovida/internal/medsafety"
)

// historyRow is one stored interaction check as the backend returns it. Each
// row is a single drug pair; the backend does not retain full scan payloads.
type historyRow struct {
	ID         int     `json:"id"`
	Drug1      string  `json:"drug1"`
	Drug2      string  `json:"drug2"`
	Level      string  `json:"level"`
	Confidence float64 `json:"confidence"`
	Timestamp  string  `json:"timestamp"`
}

// History fetches the user's server-side check history, reshaped into
// analysis results. Backend rows get the "be-" id prefix so they remain
// distinguishable from locally cached scans.
func (c *Client) History(ctx context.Context, userID string) ([]medsafety.AnalysisResult, error) {
	var rows []historyRow
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint("history", userID), nil, &rows); err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	results := make([]medsafety.AnalysisResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, row.toResult())
	}
	return results, nil
}

func (row historyRow) toResult() medsafety.AnalysisResult {
	severity := medsafety.NormalizeSeverity(row.Level)

	medicines := make([]medsafety.Medicine, 0, 2)
	for i, name := range []string{row.Drug1, row.Drug2} {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		medicines = append(medicines, medsafety.Medicine{
			ID:   fmt.Sprintf("%s%d-%d", medsafety.BackendIDPrefix, row.ID, i+1),
			Name: medsafety.CanonicalName(name),
		})
	}

	var interactions []medsafety.Interaction
	if severity != medsafety.RiskSafe {
		interactions = []medsafety.Interaction{{
			Drug1:       medsafety.CanonicalName(row.Drug1),
			Drug2:       medsafety.CanonicalName(row.Drug2),
			Severity:    severity,
			Description: fmt.Sprintf("Interaction flagged with %d%% confidence.", int(row.Confidence*100)),
		}}
	}

	return medsafety.AnalysisResult{
		ID:           medsafety.BackendIDPrefix + strconv.Itoa(row.ID),
		Timestamp:    parseHistoryTimestamp(row.Timestamp),
		Medicines:    medicines,
		OverallRisk:  medsafety.OverallRisk(interactions),
		Interactions: interactions,
	}
}

func parseHistoryTimestamp(value string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}
