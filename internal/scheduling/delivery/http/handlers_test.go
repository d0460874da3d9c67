package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"matterplan/internal/model"
	"matterplan/internal/scheduling"
	schedulingHTTP "matterplan/internal/scheduling/delivery/http"
)

// ── Mocks ──────────────────────────────────────────────────────────────────

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...interface{})  {}
func (m *mockLogger) Info(ctx context.Context, args ...interface{})                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...interface{})   {}
func (m *mockLogger) Warn(ctx context.Context, args ...interface{})                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...interface{})   {}
func (m *mockLogger) Error(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...interface{})  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...interface{})                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...interface{}) {}
func (m *mockLogger) Panic(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...interface{})  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...interface{})  {}

type mockUseCase struct {
	taskOutput      scheduling.TaskOutput
	taskErr         error
	scheduleOutput  scheduling.ScheduleOutput
	scheduleErr     error
	slots           []model.ScheduleSlot
	slotsErr        error
	placementOutput scheduling.PlacementOutput
	placementErr    error
	eventOutput     scheduling.EventOutput
	eventErr        error
	syncOutput      scheduling.SyncEventsOutput
	syncErr         error
}

func (m *mockUseCase) CreateTask(ctx context.Context, input scheduling.CreateTaskInput) (scheduling.TaskOutput, error) {
	return m.taskOutput, m.taskErr
}
func (m *mockUseCase) UpdateTask(ctx context.Context, input scheduling.UpdateTaskInput) (scheduling.TaskOutput, error) {
	return m.taskOutput, m.taskErr
}
func (m *mockUseCase) CompleteTask(ctx context.Context, taskID string) (scheduling.TaskOutput, error) {
	return m.taskOutput, m.taskErr
}
func (m *mockUseCase) DeleteTask(ctx context.Context, taskID string) error {
	return m.taskErr
}
func (m *mockUseCase) ScheduleTask(ctx context.Context, taskID string) (scheduling.ScheduleOutput, error) {
	return m.scheduleOutput, m.scheduleErr
}
func (m *mockUseCase) PinTask(ctx context.Context, input scheduling.PinTaskInput) (scheduling.TaskOutput, error) {
	return m.taskOutput, m.taskErr
}
func (m *mockUseCase) UnpinTask(ctx context.Context, taskID string) (scheduling.TaskOutput, error) {
	return m.taskOutput, m.taskErr
}
func (m *mockUseCase) GetAvailableSlots(ctx context.Context, input scheduling.SlotsInput) ([]model.ScheduleSlot, error) {
	return m.slots, m.slotsErr
}
func (m *mockUseCase) ValidatePlacement(ctx context.Context, input scheduling.PlacementInput) (scheduling.PlacementOutput, error) {
	return m.placementOutput, m.placementErr
}
func (m *mockUseCase) CreateEvent(ctx context.Context, input scheduling.CreateEventInput) (scheduling.EventOutput, error) {
	return m.eventOutput, m.eventErr
}
func (m *mockUseCase) UpdateEvent(ctx context.Context, input scheduling.UpdateEventInput) (scheduling.EventOutput, error) {
	return m.eventOutput, m.eventErr
}
func (m *mockUseCase) DeleteEvent(ctx context.Context, eventID string) error {
	return m.eventErr
}
func (m *mockUseCase) SyncExternalEvents(ctx context.Context, input scheduling.SyncEventsInput) (scheduling.SyncEventsOutput, error) {
	return m.syncOutput, m.syncErr
}

// ── Helpers ────────────────────────────────────────────────────────────────

func newTestRouter(uc scheduling.UseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := schedulingHTTP.New(&mockLogger{}, uc)
	schedulingHTTP.RegisterRoutes(engine.Group("/api/v1/scheduling"), h)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// ── Tests ──────────────────────────────────────────────────────────────────

func TestCreateTask(t *testing.T) {
	due := time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC)
	scheduled := due
	uc := &mockUseCase{
		taskOutput: scheduling.TaskOutput{Task: model.Task{
			ID:                 "task-1",
			AssigneeID:         "alice",
			Title:              "draft motion",
			DueDate:            due,
			EstimatedDuration:  120,
			ScheduledDate:      &scheduled,
			ScheduledStartTime: "09:00",
			Version:            2,
		}},
	}
	engine := newTestRouter(uc)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/scheduling/tasks", gin.H{
		"assigneeId":               "alice",
		"title":                    "draft motion",
		"dueDate":                  "2026-03-06",
		"estimatedDurationMinutes": 120,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Task struct {
				ID                 string `json:"id"`
				ScheduledDate      string `json:"scheduledDate"`
				ScheduledStartTime string `json:"scheduledStartTime"`
			} `json:"task"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Data.Task.ID != "task-1" || resp.Data.Task.ScheduledDate != "2026-03-06" || resp.Data.Task.ScheduledStartTime != "09:00" {
		t.Errorf("task = %+v", resp.Data.Task)
	}
}

func TestCreateTask_MissingAssignee(t *testing.T) {
	engine := newTestRouter(&mockUseCase{})

	w := doJSON(t, engine, http.MethodPost, "/api/v1/scheduling/tasks", gin.H{
		"title": "orphan",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreateTask_BadDate(t *testing.T) {
	engine := newTestRouter(&mockUseCase{})

	w := doJSON(t, engine, http.MethodPost, "/api/v1/scheduling/tasks", gin.H{
		"assigneeId": "alice",
		"title":      "draft motion",
		"dueDate":    "06/03/2026",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestPinTask_ConflictStatus(t *testing.T) {
	uc := &mockUseCase{
		taskErr: &scheduling.ConflictError{Conflicts: []model.ScheduleSlot{
			{StartTime: "10:00", EndTime: "11:00", DurationMinutes: 60},
		}},
	}
	engine := newTestRouter(uc)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/scheduling/tasks/task-1/pin", gin.H{
		"date":      "2026-03-06",
		"startTime": "10:30",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 (body %s)", w.Code, w.Body.String())
	}

	var resp struct {
		Errors []model.ScheduleSlot `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].StartTime != "10:00" {
		t.Errorf("conflicts = %+v", resp.Errors)
	}
}

func TestPinTask_PastDeadlineStatus(t *testing.T) {
	engine := newTestRouter(&mockUseCase{taskErr: scheduling.ErrPastDeadline})

	w := doJSON(t, engine, http.MethodPost, "/api/v1/scheduling/tasks/task-1/pin", gin.H{
		"date":      "2026-03-07",
		"startTime": "09:00",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
}

func TestScheduleTask_NotFound(t *testing.T) {
	engine := newTestRouter(&mockUseCase{scheduleErr: scheduling.ErrTaskNotFound})

	w := doJSON(t, engine, http.MethodPost, "/api/v1/scheduling/tasks/missing/schedule", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetSlots(t *testing.T) {
	uc := &mockUseCase{slots: []model.ScheduleSlot{
		{StartTime: "09:00", EndTime: "18:00", DurationMinutes: 540},
	}}
	engine := newTestRouter(uc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scheduling/slots?assigneeId=alice&date=2026-03-06", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Slots []model.ScheduleSlot `json:"slots"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Data.Slots) != 1 || resp.Data.Slots[0].DurationMinutes != 540 {
		t.Errorf("slots = %+v", resp.Data.Slots)
	}
}

func TestGetSlots_BadDate(t *testing.T) {
	engine := newTestRouter(&mockUseCase{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scheduling/slots?assigneeId=alice&date=tomorrow", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestValidatePlacement(t *testing.T) {
	uc := &mockUseCase{placementOutput: scheduling.PlacementOutput{
		Valid: false,
		Conflicts: []model.ScheduleSlot{
			{StartTime: "10:00", EndTime: "11:00", DurationMinutes: 60},
		},
	}}
	engine := newTestRouter(uc)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/scheduling/placements/validate", gin.H{
		"assigneeId":      "alice",
		"date":            "2026-03-06",
		"startTime":       "10:30",
		"durationMinutes": 60,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Valid     bool                 `json:"valid"`
			Conflicts []model.ScheduleSlot `json:"conflicts"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Data.Valid || len(resp.Data.Conflicts) != 1 {
		t.Errorf("placement = %+v", resp.Data)
	}
}

func TestCreateEvent_ReportsRescheduled(t *testing.T) {
	date := time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC)
	uc := &mockUseCase{eventOutput: scheduling.EventOutput{
		Event: model.Event{ID: "event-1", AssigneeID: "alice", Date: date, StartTime: "09:00", EndTime: "10:00"},
		Rescheduled: []scheduling.ScheduleOutput{
			{TaskID: "task-1", Scheduled: true, ScheduledDate: date, ScheduledStartTime: "10:00", Version: 3},
		},
	}}
	engine := newTestRouter(uc)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/scheduling/events", gin.H{
		"assigneeId": "alice",
		"date":       "2026-03-06",
		"startTime":  "09:00",
		"endTime":    "10:00",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Event struct {
				ID string `json:"id"`
			} `json:"event"`
			Rescheduled []struct {
				TaskID             string `json:"taskId"`
				ScheduledStartTime string `json:"scheduledStartTime"`
			} `json:"rescheduled"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Data.Event.ID != "event-1" {
		t.Errorf("event = %+v", resp.Data.Event)
	}
	if len(resp.Data.Rescheduled) != 1 || resp.Data.Rescheduled[0].TaskID != "task-1" {
		t.Errorf("rescheduled = %+v", resp.Data.Rescheduled)
	}
}
