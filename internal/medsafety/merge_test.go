package medsafety_test

import (
	"testing"
	"time"

	"zovida/internal/medsafety"
)

func result(id string, ts time.Time, names ...string) medsafety.AnalysisResult {
	medicines := make([]medsafety.Medicine, 0, len(names))
	for _, name := range names {
		medicines = append(medicines, medsafety.Medicine{Name: name})
	}
	return medsafety.AnalysisResult{ID: id, Timestamp: ts, Medicines: medicines}
}

func TestMergeHistoryRemoteWins(t *testing.T) {
	ts := time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)
	local := []medsafety.AnalysisResult{result("local-1", ts, "Aspirin", "Warfarin")}
	remote := []medsafety.AnalysisResult{result("be-7", ts, "Warfarin", "Aspirin")}

	merged := medsafety.MergeHistory(local, remote)
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged entry, got %d", len(merged))
	}
	if merged[0].ID != "be-7" {
		t.Fatalf("expected remote entry to win, got %s", merged[0].ID)
	}
}

func TestMergeHistoryKeepsDistinctEntries(t *testing.T) {
	base := time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)
	local := []medsafety.AnalysisResult{
		result("local-1", base, "Aspirin"),
		result("local-2", base.Add(time.Hour), "Ibuprofen"),
	}
	remote := []medsafety.AnalysisResult{
		result("be-1", base.Add(2*time.Hour), "Metformin"),
	}

	merged := medsafety.MergeHistory(local, remote)
	if len(merged) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(merged))
	}
	for i := 1; i < len(merged); i++ {
		if merged[i].Timestamp.After(merged[i-1].Timestamp) {
			t.Fatalf("expected newest-first ordering, got %v before %v", merged[i-1].Timestamp, merged[i].Timestamp)
		}
	}
	if merged[0].ID != "be-1" {
		t.Fatalf("expected newest entry first, got %s", merged[0].ID)
	}
}

func TestMergeHistoryDeterministic(t *testing.T) {
	ts := time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)
	local := []medsafety.AnalysisResult{
		result("b", ts, "Aspirin"),
		result("a", ts, "Ibuprofen"),
	}
	first := medsafety.MergeHistory(local, nil)
	second := medsafety.MergeHistory(local, nil)
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("merge not deterministic: %s vs %s at %d", first[i].ID, second[i].ID, i)
		}
	}
}

func TestHistoryKeyIgnoresMedicineOrder(t *testing.T) {
	ts := time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)
	a := result("x", ts, "Aspirin", "Warfarin")
	b := result("y", ts, "warfarin", "aspirin")
	if a.HistoryKey() != b.HistoryKey() {
		t.Fatalf("expected identical keys, got %q and %q", a.HistoryKey(), b.HistoryKey())
	}
}
