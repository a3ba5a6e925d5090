// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and resource handlers over a SQLite-backed tracker.
package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/repquest/internal/storage"
	"github.com/harperreed/repquest/internal/sync"
	"github.com/harperreed/repquest/internal/tracker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func fixedClock() time.Time {
	return time.Date(2024, 5, 10, 9, 30, 0, 0, time.Local)
}

// setupTestServer creates a server over a tracker backed by a temp database.
func setupTestServer(t *testing.T) (*Server, *storage.DB) {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "repquest.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tr := tracker.New(storage.NewStore(db, nil), tracker.Options{Now: fixedClock})
	server, err := NewServer(tr, Options{})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server, db
}

func TestNewServer(t *testing.T) {
	server, _ := setupTestServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.tracker == nil {
		t.Error("Expected non-nil tracker")
	}
}

func TestNewServerNilTracker(t *testing.T) {
	if _, err := NewServer(nil, Options{}); err == nil {
		t.Error("expected error for nil tracker")
	}
}

func TestHandleGetToday(t *testing.T) {
	server, _ := setupTestServer(t)

	_, out, err := server.handleGetToday(context.Background(), nil, emptyInput{})
	if err != nil {
		t.Fatalf("handleGetToday failed: %v", err)
	}
	if out.DayName != "Push" {
		t.Errorf("DayName = %q, want Push", out.DayName)
	}
	if len(out.Slots) != 2 {
		t.Fatalf("len(Slots) = %d, want 2", len(out.Slots))
	}
	if out.Slots[0].Status != tracker.StatusPending {
		t.Errorf("Status = %q, want pending", out.Slots[0].Status)
	}
	if out.NextDay != "Pull" {
		t.Errorf("NextDay = %q, want Pull", out.NextDay)
	}
}

func TestWorkoutFlow(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleStartWorkout(ctx, nil, workoutInput{Workout: "bench_press"})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if out.Status != string(tracker.StatusActive) {
		t.Errorf("Status = %q, want active", out.Status)
	}

	for range 3 {
		if _, _, err := server.handleLogSet(ctx, nil, logSetInput{Workout: "1", Weight: 135, Reps: 8}); err != nil {
			t.Fatalf("log_set failed: %v", err)
		}
	}

	_, out, err = server.handleCompleteWorkout(ctx, nil, workoutInput{Workout: "Bench press"})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if out.Status != string(tracker.StatusCompleted) {
		t.Errorf("Status = %q, want completed", out.Status)
	}
	if len(out.Sets) != 3 {
		t.Errorf("len(Sets) = %d, want 3", len(out.Sets))
	}
	if !strings.Contains(out.Message, "135") {
		t.Errorf("Message = %q, want last weight", out.Message)
	}

	if _, _, err := server.handleStartWorkout(ctx, nil, workoutInput{Workout: "bench_press"}); err == nil {
		t.Error("Expected error starting a completed workout")
	}

	_, out, err = server.handleUndoCompleteWorkout(ctx, nil, workoutInput{Workout: "bench_press"})
	if err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if out.Status != string(tracker.StatusActive) {
		t.Errorf("Status = %q, want active", out.Status)
	}
}

func TestHandleLogSetErrors(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     logSetInput
		errSubstr string
	}{
		{"negative weight", logSetInput{Workout: "1", Weight: -1, Reps: 5}, "negative"},
		{"unknown workout", logSetInput{Workout: "squat", Weight: 100, Reps: 5}, "not found"},
		{"position out of range", logSetInput{Workout: "9", Weight: 100, Reps: 5}, "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := server.handleLogSet(ctx, nil, tt.input)
			if err == nil || !strings.Contains(err.Error(), tt.errSubstr) {
				t.Errorf("err = %v, want containing %q", err, tt.errSubstr)
			}
		})
	}
}

func TestHandleRemoveSet(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	if _, _, err := server.handleLogSet(ctx, nil, logSetInput{Workout: "1", Weight: 135, Reps: 8}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := server.handleRemoveSet(ctx, nil, removeSetInput{Workout: "1", Set: 2}); err == nil {
		t.Error("Expected error for missing set")
	}
	_, out, err := server.handleRemoveSet(ctx, nil, removeSetInput{Workout: "1", Set: 1})
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(out.Sets) != 0 {
		t.Errorf("len(Sets) = %d, want 0", len(out.Sets))
	}
}

func TestHandleAddSet(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	before := server.tracker.TargetSets(server.tracker.Workouts()[0].ID)
	_, out, err := server.handleAddSet(ctx, nil, workoutInput{Workout: "1"})
	if err != nil {
		t.Fatalf("handleAddSet failed: %v", err)
	}
	if got := server.tracker.TargetSets(out.Workout); got != before+1 {
		t.Errorf("TargetSets = %d, want %d", got, before+1)
	}
	if _, _, err := server.handleAddSet(ctx, nil, workoutInput{Workout: "nope"}); err == nil {
		t.Error("Expected error for unknown workout")
	}
}

func TestHandleFinishDayAndMove(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleFinishDay(ctx, nil, emptyInput{})
	if err != nil {
		t.Fatalf("finish failed: %v", err)
	}
	if out.Day != 2 || out.Name != "Pull" {
		t.Errorf("finish = %+v, want day 2 Pull", out)
	}

	if _, _, err := server.handleMoveToDay(ctx, nil, moveToDayInput{Day: 4}); err == nil {
		t.Error("Expected error for out of range day")
	}
	_, out, err = server.handleMoveToDay(ctx, nil, moveToDayInput{Day: 3})
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if out.Name != "Legs" {
		t.Errorf("Name = %q, want Legs", out.Name)
	}
}

func TestHandleCompleteWorkoutArchives(t *testing.T) {
	server, db := setupTestServer(t)
	syncer, err := sync.NewSyncer(&sync.Config{UserID: 1}, db, nil, sync.Options{})
	if err != nil {
		t.Fatal(err)
	}
	server.syncer = syncer

	_, out, err := server.handleCompleteWorkout(context.Background(), nil, workoutInput{Workout: "1"})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if !strings.Contains(out.Message, "queued") {
		t.Errorf("Message = %q, want queued note", out.Message)
	}
	pending, err := db.ListPending()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 {
		t.Errorf("len(pending) = %d, want 1", len(pending))
	}
}

func TestHandleGetProgress(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	if _, _, err := server.handleLogSet(ctx, nil, logSetInput{Workout: "1", Weight: 155, Reps: 5}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := server.handleCompleteWorkout(ctx, nil, workoutInput{Workout: "1"}); err != nil {
		t.Fatal(err)
	}

	_, out, err := server.handleGetProgress(ctx, nil, progressInput{Lift: "bench press"})
	if err != nil {
		t.Fatalf("get_progress failed: %v", err)
	}
	if out.Summary.PersonalRecord == nil || out.Summary.PersonalRecord.MaxWeight != 155 {
		t.Errorf("PersonalRecord = %+v, want 155", out.Summary.PersonalRecord)
	}
	if out.Summary.Volume30d != 775 {
		t.Errorf("Volume30d = %v, want 775", out.Summary.Volume30d)
	}

	if _, _, err := server.handleGetProgress(ctx, nil, progressInput{Lift: "nope"}); err == nil {
		t.Error("Expected error for unknown lift")
	}
}

func TestHandleTodayResource(t *testing.T) {
	server, _ := setupTestServer(t)

	result, err := server.handleTodayResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleTodayResource failed: %v", err)
	}
	if len(result.Contents) != 1 || result.Contents[0].URI != todayURI {
		t.Fatalf("unexpected contents: %+v", result.Contents)
	}

	var view tracker.TodayView
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &view); err != nil {
		t.Fatalf("Failed to parse resource: %v", err)
	}
	if view.SplitID != "push_pull_legs" {
		t.Errorf("SplitID = %q", view.SplitID)
	}
}

func TestHandleProgressResource(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	if _, _, err := server.handleCompleteWorkout(ctx, nil, workoutInput{Workout: "2"}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := server.handleLogSet(ctx, nil, logSetInput{Workout: "1", Weight: 135, Reps: 8}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := server.handleCompleteWorkout(ctx, nil, workoutInput{Workout: "1"}); err != nil {
		t.Fatal(err)
	}

	result, err := server.handleProgressResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleProgressResource failed: %v", err)
	}

	var parsed struct {
		Lifts    []liftProgress `json:"lifts"`
		Calendar []struct {
			Date    string `json:"date"`
			Trained bool   `json:"trained"`
		} `json:"calendar"`
		WorkoutDays int `json:"workoutDays"`
	}
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &parsed); err != nil {
		t.Fatalf("Failed to parse resource: %v", err)
	}
	if len(parsed.Lifts) != 1 || parsed.Lifts[0].Name != "Bench press" {
		t.Errorf("Lifts = %+v, want only bench press (empty sessions excluded)", parsed.Lifts)
	}
	if len(parsed.Calendar) != 14 || !parsed.Calendar[13].Trained {
		t.Errorf("Calendar = %+v, want 14 days ending trained", parsed.Calendar)
	}
	if parsed.WorkoutDays != 1 {
		t.Errorf("WorkoutDays = %d, want 1", parsed.WorkoutDays)
	}
}
