package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"matterplan/internal/model"
	"matterplan/internal/scheduling"
	"matterplan/internal/scheduling/repository"
)

// Mock logger for testing.
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                    {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)    {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                    {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any)    {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                  {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Panic(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any)   {}

// memRepo is an in-memory Repository with real compare-and-swap semantics,
// safe for concurrent use so the guard tests exercise actual races.
type memRepo struct {
	mu     sync.Mutex
	nextID int
	tasks  map[string]model.Task
	events map[string]model.Event

	// failWrites makes the next N WriteSchedule calls return a version
	// conflict, simulating concurrent writers.
	failWrites int
}

func newMemRepo() *memRepo {
	return &memRepo{
		tasks:  make(map[string]model.Task),
		events: make(map[string]model.Event),
	}
}

func (m *memRepo) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *memRepo) CreateTask(ctx context.Context, opt repository.CreateTaskOptions) (model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	t := model.Task{
		ID:                m.id("task"),
		AssigneeID:        opt.AssigneeID,
		Title:             opt.Title,
		DueDate:           opt.DueDate,
		EstimatedDuration: opt.EstimatedDurationMinutes,
		LoggedDuration:    opt.LoggedDurationMinutes,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	m.tasks[t.ID] = t
	return t, nil
}

func (m *memRepo) GetTask(ctx context.Context, id string) (model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tasks[id], nil
}

func (m *memRepo) UpdateTaskFields(ctx context.Context, opt repository.UpdateTaskOptions) (model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[opt.ID]
	if !ok {
		return model.Task{}, repository.ErrNotFound
	}
	if opt.Title != nil {
		t.Title = *opt.Title
	}
	if opt.DueDate != nil {
		t.DueDate = *opt.DueDate
	}
	if opt.EstimatedDurationMinutes != nil {
		t.EstimatedDuration = *opt.EstimatedDurationMinutes
	}
	if opt.LoggedDurationMinutes != nil {
		t.LoggedDuration = *opt.LoggedDurationMinutes
	}
	t.Version++
	t.UpdatedAt = time.Now()
	m.tasks[t.ID] = t
	return t, nil
}

func (m *memRepo) WriteSchedule(ctx context.Context, opt repository.WriteScheduleOptions) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites > 0 {
		m.failWrites--
		return 0, repository.ErrVersionConflict
	}
	t, ok := m.tasks[opt.TaskID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	if t.Version != opt.ExpectedVersion {
		return 0, repository.ErrVersionConflict
	}
	t.ScheduledDate = opt.ScheduledDate
	t.ScheduledStartTime = opt.ScheduledStartTime
	t.Pinned = opt.Pinned
	t.Version++
	t.UpdatedAt = time.Now()
	m.tasks[t.ID] = t
	return t.Version, nil
}

func (m *memRepo) CompleteTask(ctx context.Context, id string) (model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return model.Task{}, repository.ErrNotFound
	}
	t.Completed = true
	t.Version++
	m.tasks[id] = t
	return t, nil
}

func (m *memRepo) DeleteTask(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *memRepo) ListScheduledTasks(ctx context.Context, opt repository.ListScheduledTasksOptions) ([]model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Task
	for _, t := range m.tasks {
		if t.Completed || t.AssigneeID != opt.AssigneeID || t.ScheduledDate == nil {
			continue
		}
		if !t.ScheduledDate.Equal(opt.ScheduledDate) {
			continue
		}
		if opt.PinnedOnly && !t.Pinned {
			continue
		}
		if opt.ExcludeTaskID != "" && t.ID == opt.ExcludeTaskID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *memRepo) CreateEvent(ctx context.Context, opt repository.CreateEventOptions) (model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := model.Event{
		ID:         m.id("event"),
		AssigneeID: opt.AssigneeID,
		Title:      opt.Title,
		Date:       opt.Date,
		StartTime:  opt.StartTime,
		EndTime:    opt.EndTime,
		ExternalID: opt.ExternalID,
	}
	m.events[e.ID] = e
	return e, nil
}

func (m *memRepo) GetEvent(ctx context.Context, id string) (model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[id], nil
}

func (m *memRepo) UpdateEvent(ctx context.Context, opt repository.UpdateEventOptions) (model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[opt.ID]
	if !ok {
		return model.Event{}, repository.ErrNotFound
	}
	if opt.Title != nil {
		e.Title = *opt.Title
	}
	if opt.Date != nil {
		e.Date = *opt.Date
	}
	if opt.StartTime != nil {
		e.StartTime = *opt.StartTime
	}
	if opt.EndTime != nil {
		e.EndTime = *opt.EndTime
	}
	m.events[e.ID] = e
	return e, nil
}

func (m *memRepo) DeleteEvent(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *memRepo) ListEvents(ctx context.Context, opt repository.ListEventsOptions) ([]model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Event
	for _, e := range m.events {
		if e.AssigneeID != opt.AssigneeID {
			continue
		}
		if e.Date.Before(opt.From) || e.Date.After(opt.To) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *memRepo) UpsertExternalEvent(ctx context.Context, opt repository.CreateEventOptions) (model.Event, error) {
	m.mu.Lock()
	for id, e := range m.events {
		if e.AssigneeID == opt.AssigneeID && e.ExternalID != "" && e.ExternalID == opt.ExternalID {
			e.Title = opt.Title
			e.Date = opt.Date
			e.StartTime = opt.StartTime
			e.EndTime = opt.EndTime
			m.events[id] = e
			m.mu.Unlock()
			return e, nil
		}
	}
	m.mu.Unlock()
	return m.CreateEvent(ctx, opt)
}

// testCalendar is the default business calendar used across the engine
// tests: 09:00-18:00, 540 capacity, 14 cascade days, 15 min granularity.
func testCalendar() scheduling.CalendarConfig {
	cfg, err := scheduling.ParseCalendarConfig("09:00", "18:00", 540, 14, 15, 3)
	if err != nil {
		panic(err)
	}
	return cfg
}

func newTestUseCase(repo repository.Repository) *implUseCase {
	return New(&mockLogger{}, repo, testCalendar(), nil, time.UTC)
}

// friday is an arbitrary fixed due date used by the scenario tests.
var friday = time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC)

func mustCreateTask(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, repo *memRepo, assignee string, due time.Time, estimated, logged int) model.Task {
	t.Helper()
	task, err := repo.CreateTask(context.Background(), repository.CreateTaskOptions{
		AssigneeID:               assignee,
		Title:                    "test task",
		DueDate:                  due,
		EstimatedDurationMinutes: estimated,
		LoggedDurationMinutes:    logged,
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}
