// ABOUTME: Export and import functionality for repquest data.
// ABOUTME: Supports JSON (round-trippable), YAML, and Markdown history exports.
package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/repquest/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for repquest data.
type ExportData struct {
	Version    string           `json:"version"`
	ExportedAt time.Time        `json:"exported_at"`
	Tool       string           `json:"tool"`
	Data       *models.UserData `json:"data"`
	Pending    int              `json:"pending"`
}

// GetAllData gathers the current snapshot for export. A missing snapshot exports defaults.
func (s *Store) GetAllData() (*ExportData, error) {
	data := s.Load()
	if data == nil {
		data = models.NewUserData()
	}
	pending, err := s.repo.ListPending()
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	return &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "repquest",
		Data:       data,
		Pending:    len(pending),
	}, nil
}

// ExportJSON exports all data as JSON.
func (s *Store) ExportJSON() ([]byte, error) {
	data, err := s.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML with history grouped by lift name.
func (s *Store) ExportYAML() ([]byte, error) {
	data, err := s.GetAllData()
	if err != nil {
		return nil, err
	}
	ud := data.Data

	out := struct {
		Version    string                   `yaml:"version"`
		ExportedAt string                   `yaml:"exported_at"`
		Tool       string                   `yaml:"tool"`
		Split      string                   `yaml:"current_split"`
		Day        int                      `yaml:"current_day"`
		Lifts      []yamlLift               `yaml:"lifts"`
		Splits     []yamlSplit              `yaml:"splits"`
		History    map[string][]yamlSession `yaml:"history"`
		Days       []string                 `yaml:"workout_days"`
		Pending    int                      `yaml:"pending_sync"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Split:      ud.WorkoutState.CurrentSplitID,
		Day:        ud.WorkoutState.CurrentDayIndex,
		History:    make(map[string][]yamlSession),
		Days:       ud.WorkoutState.WorkoutDays,
		Pending:    data.Pending,
	}

	for _, l := range ud.Lifts {
		out.Lifts = append(out.Lifts, yamlLift{
			ID:        l.ID,
			Name:      l.Name,
			Weight:    l.DefaultWeight,
			Increment: l.WeightIncrement,
			Reps:      l.Reps(),
		})
	}
	for _, sp := range ud.Splits {
		ys := yamlSplit{ID: sp.ID, Name: sp.Name}
		for _, d := range sp.Days {
			ys.Days = append(ys.Days, yamlDay{Name: d.Name, Lifts: d.Lifts})
		}
		out.Splits = append(out.Splits, ys)
	}
	for liftID, records := range ud.LiftHistory {
		if len(records) == 0 {
			continue
		}
		name := liftID
		if l, ok := models.FindLift(ud.Lifts, liftID); ok {
			name = l.Name
		}
		for _, r := range records {
			session := yamlSession{Date: r.Date}
			for _, set := range r.Sets {
				session.Sets = append(session.Sets, fmt.Sprintf("%gx%d", set.Weight, set.Reps))
			}
			out.History[name] = append(out.History[name], session)
		}
	}

	return yaml.Marshal(out)
}

type yamlLift struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	Weight    float64 `yaml:"default_weight"`
	Increment float64 `yaml:"weight_increment"`
	Reps      int     `yaml:"default_reps"`
}

type yamlSplit struct {
	ID   string    `yaml:"id"`
	Name string    `yaml:"name"`
	Days []yamlDay `yaml:"days"`
}

type yamlDay struct {
	Name  string   `yaml:"name"`
	Lifts []string `yaml:"lifts"`
}

type yamlSession struct {
	Date string   `yaml:"date"`
	Sets []string `yaml:"sets"`
}

// MarkdownFilter narrows a Markdown export. Zero values include everything.
type MarkdownFilter struct {
	Since  string // YYYY-MM-DD, inclusive
	LiftID string
}

// ExportMarkdown renders lift history as Markdown tables.
func (s *Store) ExportMarkdown(f MarkdownFilter) (string, error) {
	data, err := s.GetAllData()
	if err != nil {
		return "", err
	}
	ud := data.Data

	var sb strings.Builder
	now := time.Now()
	sb.WriteString(fmt.Sprintf("# RepQuest Export - %s\n\n", now.Format(models.DateLayout)))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	var names []string
	byName := make(map[string][]models.LiftHistoryRecord)
	for liftID, records := range ud.LiftHistory {
		if f.LiftID != "" && liftID != f.LiftID {
			continue
		}
		var kept []models.LiftHistoryRecord
		for _, r := range records {
			// Dates are YYYY-MM-DD so string comparison orders them.
			if f.Since == "" || r.Date >= f.Since {
				kept = append(kept, r)
			}
		}
		if len(kept) == 0 {
			continue
		}
		name := liftID
		if l, ok := models.FindLift(ud.Lifts, liftID); ok {
			name = l.Name
		}
		names = append(names, name)
		byName[name] = kept
	}
	sort.Strings(names)

	if len(names) == 0 {
		sb.WriteString("No lift history.\n")
		return sb.String(), nil
	}

	for _, name := range names {
		sb.WriteString(fmt.Sprintf("## %s\n\n", name))
		sb.WriteString("| Date | Sets | Top Weight |\n")
		sb.WriteString("|------|------|------------|\n")
		for _, r := range byName[name] {
			var sets []string
			top := 0.0
			for _, set := range r.Sets {
				sets = append(sets, fmt.Sprintf("%gx%d", set.Weight, set.Reps))
				if set.Weight > top {
					top = set.Weight
				}
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %g |\n", r.Date, strings.Join(sets, ", "), top))
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// ImportSummary counts what an import wrote.
type ImportSummary struct {
	Lifts    int
	Splits   int
	Sessions int
}

// ImportJSON replaces the snapshot with the data in a JSON export.
func (s *Store) ImportJSON(raw []byte) (*ImportSummary, error) {
	var exportData ExportData
	if err := json.Unmarshal(raw, &exportData); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	if exportData.Data == nil {
		return nil, fmt.Errorf("import: export contains no data")
	}
	ud := exportData.Data
	ud.Normalize()
	if err := s.Save(ud); err != nil {
		return nil, err
	}

	summary := &ImportSummary{Lifts: len(ud.Lifts), Splits: len(ud.Splits)}
	for _, records := range ud.LiftHistory {
		summary.Sessions += len(records)
	}
	return summary, nil
}
