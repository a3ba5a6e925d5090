// ABOUTME: MCP resource implementations for the workout tracker.
// ABOUTME: Provides repquest://today and repquest://progress resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/harperreed/repquest/internal/progress"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	todayURI    = "repquest://today"
	progressURI = "repquest://progress"
)

func (s *Server) registerResources() {
	// repquest://today - current split day with slot status and sets
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today's Workout",
		Description: "Current split day, each workout's status, and logged sets",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// repquest://progress - per-lift summaries plus the consistency calendar
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         progressURI,
		Name:        "Training Progress",
		Description: "Personal records and 30-day volume for every trained lift, plus the last 14 days of training",
		MIMEType:    "application/json",
	}, s.handleProgressResource)
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(todayURI, s.tracker.Today())
}

type liftProgress struct {
	Name    string           `json:"name"`
	Summary progress.Summary `json:"summary"`
}

func (s *Server) handleProgressResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	lifts := []liftProgress{}
	for _, l := range s.tracker.Lifts() {
		summary := s.tracker.Progress(l.ID)
		if summary.Sessions == 0 {
			continue
		}
		lifts = append(lifts, liftProgress{Name: l.Name, Summary: summary})
	}
	sort.SliceStable(lifts, func(i, j int) bool {
		return lifts[i].Summary.LastSession > lifts[j].Summary.LastSession
	})

	result := map[string]interface{}{
		"lifts":       lifts,
		"calendar":    s.tracker.Consistency(progress.CalendarDays),
		"workoutDays": len(s.tracker.WorkoutDays()),
	}
	return jsonResource(progressURI, result)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
