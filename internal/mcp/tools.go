// ABOUTME: MCP tool implementations for the workout tracker.
// ABOUTME: Drives the session engine: start, log, complete, undo, and day navigation.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/repquest/internal/models"
	"github.com/harperreed/repquest/internal/progress"
	"github.com/harperreed/repquest/internal/tracker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_today",
		Description: "Show the current split day with each workout's status and logged sets",
	}, s.handleGetToday)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "start_workout",
		Description: "Mark a workout of the current day as in progress",
	}, s.handleStartWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_set",
		Description: "Log a completed set (weight and reps) for a workout",
	}, s.handleLogSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "remove_set",
		Description: "Remove a logged set from a workout by its 1-based number",
	}, s.handleRemoveSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_set",
		Description: "Raise a workout's target set count by one for this session",
	}, s.handleAddSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "complete_workout",
		Description: "Complete a workout: saves its sets to lift history and updates the last weight",
	}, s.handleCompleteWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "undo_complete_workout",
		Description: "Reopen a completed workout so more sets can be logged",
	}, s.handleUndoCompleteWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "finish_day",
		Description: "Finish the current day and advance to the next day of the split",
	}, s.handleFinishDay)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "move_to_day",
		Description: "Jump to a day of the current split by its 1-based number",
	}, s.handleMoveToDay)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_progress",
		Description: "Personal record, 30-day volume, and recent sessions for a lift",
	}, s.handleGetProgress)
}

// Tool input/output types

type workoutInput struct {
	Workout string `json:"workout" jsonschema:"Workout id, lift id, lift name, or 1-based position in today's list"`
}

type logSetInput struct {
	Workout string  `json:"workout" jsonschema:"Workout id, lift id, lift name, or 1-based position in today's list"`
	Weight  float64 `json:"weight" jsonschema:"Weight lifted"`
	Reps    int     `json:"reps" jsonschema:"Repetitions completed"`
}

type removeSetInput struct {
	Workout string `json:"workout" jsonschema:"Workout id, lift id, lift name, or 1-based position in today's list"`
	Set     int    `json:"set" jsonschema:"1-based set number"`
}

type moveToDayInput struct {
	Day int `json:"day" jsonschema:"1-based day number within the current split"`
}

type progressInput struct {
	Lift string `json:"lift" jsonschema:"Lift id or name"`
}

type emptyInput struct{}

type workoutOutput struct {
	Workout string       `json:"workout"`
	Lift    string       `json:"lift"`
	Status  string       `json:"status"`
	Sets    []models.Set `json:"sets"`
	Message string       `json:"message"`
}

type dayOutput struct {
	Day     int    `json:"day"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

type progressOutput struct {
	Name    string           `json:"name"`
	Summary progress.Summary `json:"summary"`
}

// Tool handlers

func (s *Server) handleGetToday(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, tracker.TodayView, error) {
	return nil, s.tracker.Today(), nil
}

func (s *Server) resolve(ref string) (models.Workout, error) {
	w, ok := s.tracker.ResolveWorkout(ref)
	if !ok {
		return models.Workout{}, fmt.Errorf("workout not found in today's list: %s", ref)
	}
	return w, nil
}

func (s *Server) workoutResult(w models.Workout, msg string) workoutOutput {
	sets := s.tracker.SetsForWorkout(w.ID)
	if sets == nil {
		sets = []models.Set{}
	}
	return workoutOutput{
		Workout: w.ID,
		Lift:    w.Name,
		Status:  string(s.tracker.WorkoutStatus(w.ID)),
		Sets:    sets,
		Message: msg,
	}
}

func (s *Server) handleStartWorkout(ctx context.Context, req *mcp.CallToolRequest, input workoutInput) (*mcp.CallToolResult, workoutOutput, error) {
	w, err := s.resolve(input.Workout)
	if err != nil {
		return nil, workoutOutput{}, err
	}
	if s.tracker.WorkoutStatus(w.ID) == tracker.StatusCompleted {
		return nil, workoutOutput{}, fmt.Errorf("%s is already completed; undo it first", w.Name)
	}
	if err := s.tracker.StartWorkout(w.ID); err != nil {
		return nil, workoutOutput{}, fmt.Errorf("failed to start workout: %w", err)
	}
	return nil, s.workoutResult(w, fmt.Sprintf("Started %s", w.Name)), nil
}

func (s *Server) handleLogSet(ctx context.Context, req *mcp.CallToolRequest, input logSetInput) (*mcp.CallToolResult, workoutOutput, error) {
	if input.Weight < 0 || input.Reps < 0 {
		return nil, workoutOutput{}, fmt.Errorf("weight and reps must not be negative")
	}
	w, err := s.resolve(input.Workout)
	if err != nil {
		return nil, workoutOutput{}, err
	}
	if err := s.tracker.CompleteSet(w.ID, input.Weight, input.Reps); err != nil {
		return nil, workoutOutput{}, fmt.Errorf("failed to log set: %w", err)
	}
	n := len(s.tracker.SetsForWorkout(w.ID))
	return nil, s.workoutResult(w, fmt.Sprintf("Logged set %d for %s: %g x %d", n, w.Name, input.Weight, input.Reps)), nil
}

func (s *Server) handleRemoveSet(ctx context.Context, req *mcp.CallToolRequest, input removeSetInput) (*mcp.CallToolResult, workoutOutput, error) {
	w, err := s.resolve(input.Workout)
	if err != nil {
		return nil, workoutOutput{}, err
	}
	sets := s.tracker.SetsForWorkout(w.ID)
	if input.Set < 1 || input.Set > len(sets) {
		return nil, workoutOutput{}, fmt.Errorf("set %d not found (%s has %d sets)", input.Set, w.Name, len(sets))
	}
	if err := s.tracker.RemoveSet(w.ID, input.Set-1); err != nil {
		return nil, workoutOutput{}, fmt.Errorf("failed to remove set: %w", err)
	}
	return nil, s.workoutResult(w, fmt.Sprintf("Removed set %d from %s", input.Set, w.Name)), nil
}

func (s *Server) handleAddSet(ctx context.Context, req *mcp.CallToolRequest, input workoutInput) (*mcp.CallToolResult, workoutOutput, error) {
	w, err := s.resolve(input.Workout)
	if err != nil {
		return nil, workoutOutput{}, err
	}
	s.tracker.AddSet(w.ID)
	return nil, s.workoutResult(w, fmt.Sprintf("%s target is now %d sets", w.Name, s.tracker.TargetSets(w.ID))), nil
}

func (s *Server) handleCompleteWorkout(ctx context.Context, req *mcp.CallToolRequest, input workoutInput) (*mcp.CallToolResult, workoutOutput, error) {
	w, err := s.resolve(input.Workout)
	if err != nil {
		return nil, workoutOutput{}, err
	}
	if s.tracker.WorkoutStatus(w.ID) == tracker.StatusCompleted {
		return nil, s.workoutResult(w, fmt.Sprintf("%s was already completed", w.Name)), nil
	}
	if err := s.tracker.CompleteWorkout(w.ID); err != nil {
		return nil, workoutOutput{}, fmt.Errorf("failed to complete workout: %w", err)
	}
	msg := fmt.Sprintf("Completed %s, last weight now %g", w.Name, s.tracker.LastWeight(w.LiftID))
	if note := s.archive(ctx); note != "" {
		msg += " (" + note + ")"
	}
	return nil, s.workoutResult(w, msg), nil
}

func (s *Server) handleUndoCompleteWorkout(ctx context.Context, req *mcp.CallToolRequest, input workoutInput) (*mcp.CallToolResult, workoutOutput, error) {
	w, err := s.resolve(input.Workout)
	if err != nil {
		return nil, workoutOutput{}, err
	}
	if s.tracker.WorkoutStatus(w.ID) != tracker.StatusCompleted {
		return nil, workoutOutput{}, fmt.Errorf("%s is not completed", w.Name)
	}
	if err := s.tracker.UndoCompleteWorkout(w.ID); err != nil {
		return nil, workoutOutput{}, fmt.Errorf("failed to undo workout: %w", err)
	}
	return nil, s.workoutResult(w, fmt.Sprintf("Reopened %s", w.Name)), nil
}

func (s *Server) handleFinishDay(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, dayOutput, error) {
	finished := s.tracker.Today().DayName
	if err := s.tracker.CompleteCurrentDay(); err != nil {
		return nil, dayOutput{}, fmt.Errorf("failed to finish day: %w", err)
	}
	today := s.tracker.Today()
	msg := fmt.Sprintf("Finished %s. Next up: %s", finished, today.DayName)
	if note := s.archive(ctx); note != "" {
		msg += " (" + note + ")"
	}
	return nil, dayOutput{Day: today.DayIndex + 1, Name: today.DayName, Message: msg}, nil
}

func (s *Server) handleMoveToDay(ctx context.Context, req *mcp.CallToolRequest, input moveToDayInput) (*mcp.CallToolResult, dayOutput, error) {
	count := s.tracker.Today().DayCount
	if input.Day < 1 || input.Day > count {
		return nil, dayOutput{}, fmt.Errorf("day %d out of range (split has %d days)", input.Day, count)
	}
	if err := s.tracker.MoveToDay(input.Day - 1); err != nil {
		return nil, dayOutput{}, fmt.Errorf("failed to move to day: %w", err)
	}
	today := s.tracker.Today()
	return nil, dayOutput{Day: today.DayIndex + 1, Name: today.DayName, Message: fmt.Sprintf("Moved to %s", today.DayName)}, nil
}

func (s *Server) handleGetProgress(ctx context.Context, req *mcp.CallToolRequest, input progressInput) (*mcp.CallToolResult, progressOutput, error) {
	lift, ok := s.findLift(input.Lift)
	if !ok {
		return nil, progressOutput{}, fmt.Errorf("lift not found: %s", input.Lift)
	}
	return nil, progressOutput{Summary: s.tracker.Progress(lift.ID), Name: lift.Name}, nil
}

func (s *Server) findLift(ref string) (models.Lift, bool) {
	ref = strings.TrimSpace(ref)
	if l, ok := s.tracker.Lift(ref); ok {
		return l, true
	}
	for _, l := range s.tracker.Lifts() {
		if strings.EqualFold(l.Name, ref) {
			return l, true
		}
	}
	return models.Lift{}, false
}
