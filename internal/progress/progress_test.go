// ABOUTME: Tests for progress aggregations over lift history.
// ABOUTME: Covers PR flagging, volume windows, consistency calendar, and charts.
package progress

import (
	"testing"
	"time"

	"github.com/harperreed/repquest/internal/models"
)

func rec(date string, weights ...float64) models.LiftHistoryRecord {
	r := models.LiftHistoryRecord{Date: date}
	for _, w := range weights {
		r.Sets = append(r.Sets, models.Set{Weight: w, Reps: 5, Completed: true})
	}
	return r
}

var fixedToday = time.Date(2024, 6, 15, 18, 30, 0, 0, time.Local)

func TestPRFlagsRunningMax(t *testing.T) {
	records := []models.LiftHistoryRecord{
		rec("2024-06-01", 100),
		rec("2024-06-02", 100),
		rec("2024-06-03", 120),
		rec("2024-06-04", 90),
		rec("2024-06-05", 130),
	}

	got := PRFlags(records)
	want := []bool{true, false, true, false, true}

	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].IsPR != want[i] {
			t.Errorf("record %d IsPR = %v, want %v", i, got[i].IsPR, want[i])
		}
	}
}

func TestPRFlagsSkipsEmptyAndSortsByDate(t *testing.T) {
	records := []models.LiftHistoryRecord{
		rec("2024-06-03", 120),
		rec("2024-06-01"),
		rec("2024-06-02", 110),
	}

	got := PRFlags(records)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Date != "2024-06-02" || !got[0].IsPR {
		t.Errorf("first = %+v, want 2024-06-02 PR", got[0])
	}
	if got[1].MaxWeight != 120 || !got[1].IsPR {
		t.Errorf("second = %+v, want 120 PR", got[1])
	}
}

func TestPRFlagsUsesTopSet(t *testing.T) {
	got := PRFlags([]models.LiftHistoryRecord{rec("2024-06-01", 95, 135, 115)})
	if got[0].MaxWeight != 135 {
		t.Errorf("MaxWeight = %v, want 135", got[0].MaxWeight)
	}
}

func TestPersonalRecord(t *testing.T) {
	if _, ok := PersonalRecord(nil); ok {
		t.Error("expected no PR for empty history")
	}

	pr, ok := PersonalRecord([]models.LiftHistoryRecord{
		rec("2024-06-01", 100),
		rec("2024-06-02", 150),
		rec("2024-06-03", 150),
	})
	if !ok {
		t.Fatal("expected a PR")
	}
	if pr.MaxWeight != 150 || pr.Date != "2024-06-02" {
		t.Errorf("PR = %+v, want 150 on 2024-06-02", pr)
	}
}

func TestVolumeWindow(t *testing.T) {
	records := []models.LiftHistoryRecord{
		rec("2024-05-15", 100), // exactly 31 days back, outside
		rec("2024-05-16", 100), // 30 days back, inside
		rec("2024-06-15", 100, 100),
	}

	got := Volume(records, 30, fixedToday)
	want := 100.0*5 + 2*100.0*5
	if got != want {
		t.Errorf("Volume = %v, want %v", got, want)
	}
}

func TestVolumeEmpty(t *testing.T) {
	if got := Volume(nil, 30, fixedToday); got != 0 {
		t.Errorf("Volume(nil) = %v, want 0", got)
	}
}

func TestConsistency(t *testing.T) {
	days := Consistency([]string{"2024-06-15", "2024-06-10", "2024-05-01"}, 14, fixedToday)

	if len(days) != 14 {
		t.Fatalf("len = %d, want 14", len(days))
	}
	if days[0].Date != "2024-06-02" {
		t.Errorf("first day = %s, want 2024-06-02", days[0].Date)
	}
	if days[13].Date != "2024-06-15" || !days[13].Trained {
		t.Errorf("last day = %+v, want trained 2024-06-15", days[13])
	}
	trained := 0
	for _, d := range days {
		if d.Trained {
			trained++
		}
	}
	if trained != 2 {
		t.Errorf("trained days = %d, want 2", trained)
	}
}

func TestConsistencyZeroDays(t *testing.T) {
	if got := Consistency([]string{"2024-06-15"}, 0, fixedToday); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestChartSeriesKeepsGlobalPRFlags(t *testing.T) {
	records := []models.LiftHistoryRecord{
		rec("2024-06-01", 200),
		rec("2024-06-02", 100),
		rec("2024-06-03", 150),
		rec("2024-06-04", 210),
	}

	got := ChartSeries(records, 2)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].IsPR {
		t.Error("150 should not be a PR after 200")
	}
	if !got[1].IsPR {
		t.Error("210 should be a PR")
	}
}

func TestChartSeriesEmpty(t *testing.T) {
	got := ChartSeries(nil, ChartPoints)
	if got == nil || len(got) != 0 {
		t.Errorf("ChartSeries(nil) = %v, want empty slice", got)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize("squat", []models.LiftHistoryRecord{
		rec("2024-06-01", 185),
		rec("2024-06-10"),
		rec("2024-06-14", 195),
	}, fixedToday)

	if s.Sessions != 2 {
		t.Errorf("Sessions = %d, want 2", s.Sessions)
	}
	if s.LastSession != "2024-06-14" {
		t.Errorf("LastSession = %s, want 2024-06-14", s.LastSession)
	}
	if s.PersonalRecord == nil || s.PersonalRecord.MaxWeight != 195 {
		t.Errorf("PersonalRecord = %+v, want 195", s.PersonalRecord)
	}
	if s.Volume30d != 185*5+195*5 {
		t.Errorf("Volume30d = %v", s.Volume30d)
	}
}
