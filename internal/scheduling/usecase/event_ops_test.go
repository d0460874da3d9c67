package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"matterplan/internal/scheduling"
	"matterplan/internal/scheduling/repository"
	"matterplan/pkg/gcalendar"
)

func TestCreateEvent_ReschedulesDisplacedTasks(t *testing.T) {
	repo := newMemRepo()
	uc := newTestUseCase(repo)
	ctx := context.Background()

	displaced := mustCreateTask(t, repo, "alice", friday, 120, 0) // lands 09:00-11:00
	untouched := mustCreateTask(t, repo, "alice", friday, 60, 0)  // lands 11:00-12:00
	for _, id := range []string{displaced.ID, untouched.ID} {
		if _, err := uc.ScheduleTask(ctx, id); err != nil {
			t.Fatalf("schedule: %v", err)
		}
	}
	untouchedBefore, _ := repo.GetTask(ctx, untouched.ID)

	out, err := uc.CreateEvent(ctx, scheduling.CreateEventInput{
		AssigneeID: "alice", Title: "deposition", Date: friday, StartTime: "09:00", EndTime: "10:00",
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	if len(out.Rescheduled) != 1 || out.Rescheduled[0].TaskID != displaced.ID {
		t.Fatalf("rescheduled = %+v, want only the displaced task", out.Rescheduled)
	}

	moved, _ := repo.GetTask(ctx, displaced.ID)
	if moved.ScheduledStartTime == "09:00" {
		t.Error("displaced task still overlaps the new event")
	}

	after, _ := repo.GetTask(ctx, untouched.ID)
	if after.Version != untouchedBefore.Version {
		t.Error("task unaffected by the event change was rewritten")
	}
}

func TestCreateEvent_LeavesPinnedAlone(t *testing.T) {
	repo := newMemRepo()
	uc := newTestUseCase(repo)
	ctx := context.Background()

	task := mustCreateTask(t, repo, "alice", friday, 60, 0)
	if _, err := uc.PinTask(ctx, scheduling.PinTaskInput{
		ID: task.ID, TargetDate: friday, TargetStartTime: "09:00",
	}); err != nil {
		t.Fatalf("pin: %v", err)
	}

	out, err := uc.CreateEvent(ctx, scheduling.CreateEventInput{
		AssigneeID: "alice", Date: friday, StartTime: "09:00", EndTime: "10:00",
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if len(out.Rescheduled) != 0 {
		t.Errorf("pinned task was rescheduled: %+v", out.Rescheduled)
	}

	after, _ := repo.GetTask(ctx, task.ID)
	if !after.Pinned || after.ScheduledStartTime != "09:00" {
		t.Errorf("pinned task moved: %+v", after)
	}
}

func TestUpdateEvent_RejectsInvertedTimes(t *testing.T) {
	repo := newMemRepo()
	uc := newTestUseCase(repo)
	ctx := context.Background()

	out, err := uc.CreateEvent(ctx, scheduling.CreateEventInput{
		AssigneeID: "alice", Date: friday, StartTime: "10:00", EndTime: "11:00",
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	badEnd := "09:00"
	_, err = uc.UpdateEvent(ctx, scheduling.UpdateEventInput{ID: out.Event.ID, EndTime: &badEnd})
	if !errors.Is(err, scheduling.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestDeleteEvent_NoRescheduling(t *testing.T) {
	repo := newMemRepo()
	uc := newTestUseCase(repo)
	ctx := context.Background()

	out, err := uc.CreateEvent(ctx, scheduling.CreateEventInput{
		AssigneeID: "alice", Date: friday, StartTime: "10:00", EndTime: "11:00",
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	task := mustCreateTask(t, repo, "alice", friday, 60, 0)
	if _, err := uc.ScheduleTask(ctx, task.ID); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	before, _ := repo.GetTask(ctx, task.ID)

	if err := uc.DeleteEvent(ctx, out.Event.ID); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}

	after, _ := repo.GetTask(ctx, task.ID)
	if after.Version != before.Version {
		t.Error("deleting an event must only free time, not move tasks")
	}
}

type mockExternalCalendar struct {
	events []gcalendar.Event
	err    error
}

func (m *mockExternalCalendar) ListEvents(ctx context.Context, req gcalendar.ListEventsRequest) ([]gcalendar.Event, error) {
	return m.events, m.err
}

func TestSyncExternalEvents_ImportsAndDisplaces(t *testing.T) {
	repo := newMemRepo()
	external := &mockExternalCalendar{
		events: []gcalendar.Event{
			{
				ID:        "gcal-1",
				Summary:   "court hearing",
				StartTime: friday.Add(9 * time.Hour),
				EndTime:   friday.Add(10 * time.Hour),
			},
			{
				ID:        "gcal-2",
				Summary:   "spans days, skipped",
				StartTime: friday.Add(17 * time.Hour),
				EndTime:   friday.Add(30 * time.Hour),
			},
		},
	}
	uc := New(&mockLogger{}, repo, testCalendar(), external, time.UTC)
	ctx := context.Background()

	task := mustCreateTask(t, repo, "alice", friday, 60, 0)
	if _, err := uc.ScheduleTask(ctx, task.ID); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	out, err := uc.SyncExternalEvents(ctx, scheduling.SyncEventsInput{
		AssigneeID: "alice", From: friday, To: friday,
	})
	if err != nil {
		t.Fatalf("SyncExternalEvents: %v", err)
	}
	if out.Imported != 1 {
		t.Errorf("imported = %d, want 1 (multi-day entry skipped)", out.Imported)
	}
	if len(out.Rescheduled) != 1 || out.Rescheduled[0].TaskID != task.ID {
		t.Errorf("rescheduled = %+v, want the displaced task", out.Rescheduled)
	}

	// Re-sync upserts rather than duplicating.
	out, err = uc.SyncExternalEvents(ctx, scheduling.SyncEventsInput{
		AssigneeID: "alice", From: friday, To: friday,
	})
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	events, _ := repo.ListEvents(ctx, repository.ListEventsOptions{
		AssigneeID: "alice", From: friday, To: friday,
	})
	if len(events) != 1 {
		t.Errorf("events = %+v, want a single upserted row", events)
	}
	if out.Imported != 1 {
		t.Errorf("second sync imported = %d, want 1", out.Imported)
	}
}

func TestSyncExternalEvents_NoSourceConfigured(t *testing.T) {
	repo := newMemRepo()
	uc := newTestUseCase(repo) // external == nil

	_, err := uc.SyncExternalEvents(context.Background(), scheduling.SyncEventsInput{
		AssigneeID: "alice", From: friday, To: friday,
	})
	if !errors.Is(err, scheduling.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
