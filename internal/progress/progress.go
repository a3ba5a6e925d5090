// ABOUTME: Read-only aggregations over lift history for progress views.
// ABOUTME: Personal records, trailing volume, consistency calendar, and chart series.
package progress

import (
	"sort"
	"time"

	"github.com/harperreed/repquest/internal/models"
)

const (
	// VolumeWindowDays is the trailing window used by Summarize.
	VolumeWindowDays = 30
	// CalendarDays is the default consistency calendar length.
	CalendarDays = 14
	// ChartPoints is the default number of chart entries.
	ChartPoints = 6
)

// Record is a history record reduced to its top set.
type Record struct {
	Date      string  `json:"date"`
	MaxWeight float64 `json:"maxWeight"`
	Reps      int     `json:"reps"`
	IsPR      bool    `json:"isPR"`
}

// CalendarDay is one cell of the consistency calendar.
type CalendarDay struct {
	Date    string `json:"date"`
	Trained bool   `json:"trained"`
}

// Summary collects the headline numbers for one lift.
type Summary struct {
	LiftID         string   `json:"liftId"`
	PersonalRecord *Record  `json:"personalRecord,omitempty"`
	Volume30d      float64  `json:"volume30d"`
	Sessions       int      `json:"sessions"`
	LastSession    string   `json:"lastSession,omitempty"`
	Chart          []Record `json:"chart"`
}

// sorted returns records in chronological order. Same-day records keep their order.
func sorted(records []models.LiftHistoryRecord) []models.LiftHistoryRecord {
	out := make([]models.LiftHistoryRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func topSet(r models.LiftHistoryRecord) (float64, int, bool) {
	if len(r.Sets) == 0 {
		return 0, 0, false
	}
	best := r.Sets[0]
	for _, s := range r.Sets[1:] {
		if s.Weight > best.Weight {
			best = s
		}
	}
	return best.Weight, best.Reps, true
}

// PRFlags reduces each non-empty record to its top set and flags it as a PR
// when it strictly beats every earlier record. The first one is always a PR.
// Records with no sets are skipped and do not affect the running maximum.
func PRFlags(records []models.LiftHistoryRecord) []Record {
	var (
		out    []Record
		best   float64
		seeded bool
	)
	for _, r := range sorted(records) {
		weight, reps, ok := topSet(r)
		if !ok {
			continue
		}
		isPR := !seeded || weight > best
		if isPR {
			best = weight
			seeded = true
		}
		out = append(out, Record{Date: r.Date, MaxWeight: weight, Reps: reps, IsPR: isPR})
	}
	return out
}

// PersonalRecord returns the heaviest top set, earliest on ties.
func PersonalRecord(records []models.LiftHistoryRecord) (Record, bool) {
	var (
		pr    Record
		found bool
	)
	for _, r := range PRFlags(records) {
		if r.IsPR {
			pr = r
			found = true
		}
	}
	return pr, found
}

// Volume sums weight × reps over records dated within the last days days,
// inclusive of today.
func Volume(records []models.LiftHistoryRecord, days int, today time.Time) float64 {
	cutoff := dayOffset(today, -days)
	end := models.LocalDate(today)
	var total float64
	for _, r := range records {
		if r.Date < cutoff || r.Date > end {
			continue
		}
		for _, s := range r.Sets {
			total += s.Weight * float64(s.Reps)
		}
	}
	return total
}

// Consistency marks which of the last days calendar days (ending today) had a
// workout, oldest first.
func Consistency(workoutDays []string, days int, today time.Time) []CalendarDay {
	if days <= 0 {
		return nil
	}
	trained := make(map[string]bool, len(workoutDays))
	for _, d := range workoutDays {
		trained[d] = true
	}
	out := make([]CalendarDay, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := dayOffset(today, -i)
		out = append(out, CalendarDay{Date: date, Trained: trained[date]})
	}
	return out
}

// ChartSeries returns the last k non-empty records with PR flags computed
// across the whole history.
func ChartSeries(records []models.LiftHistoryRecord, k int) []Record {
	flagged := PRFlags(records)
	if k <= 0 || len(flagged) == 0 {
		return []Record{}
	}
	if len(flagged) > k {
		flagged = flagged[len(flagged)-k:]
	}
	return flagged
}

// Summarize computes the headline numbers shown for a lift.
func Summarize(liftID string, records []models.LiftHistoryRecord, today time.Time) Summary {
	s := Summary{
		LiftID:    liftID,
		Volume30d: Volume(records, VolumeWindowDays, today),
		Chart:     ChartSeries(records, ChartPoints),
	}
	if pr, ok := PersonalRecord(records); ok {
		s.PersonalRecord = &pr
	}
	for _, r := range records {
		if len(r.Sets) == 0 {
			continue
		}
		s.Sessions++
		if r.Date > s.LastSession {
			s.LastSession = r.Date
		}
	}
	return s
}

// dayOffset shifts today's local calendar date by n days.
func dayOffset(today time.Time, n int) string {
	t := today.Local()
	return time.Date(t.Year(), t.Month(), t.Day()+n, 12, 0, 0, 0, t.Location()).Format(models.DateLayout)
}
