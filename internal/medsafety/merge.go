package medsafety

import "sort"

// MergeHistory reconciles the local history cache with the backend-fetched
// list. Entries are keyed by (sorted medicine names, timestamp); on a key
// collision the remote entry wins because backend history is authoritative
// when a session exists. The merged list is returned newest-first, stable on
// id for equal timestamps so the output is deterministic.
func MergeHistory(local, remote []AnalysisResult) []AnalysisResult {
	merged := make(map[string]AnalysisResult, len(local)+len(remote))
	for _, entry := range local {
		merged[entry.HistoryKey()] = entry
	}
	for _, entry := range remote {
		merged[entry.HistoryKey()] = entry
	}

	out := make([]AnalysisResult, 0, len(merged))
	for _, entry := range merged {
		out = append(out, entry)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
