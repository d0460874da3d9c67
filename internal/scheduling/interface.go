package scheduling

import (
	"context"

	"matterplan/internal/model"
)

// UseCase is the business-logic interface for the scheduling domain. Task
// and event mutations run the auto-scheduling engine synchronously inside
// the triggering call.
type UseCase interface {
	// CreateTask persists a new task and immediately places it on the calendar.
	CreateTask(ctx context.Context, input CreateTaskInput) (TaskOutput, error)

	// UpdateTask applies partial field updates and re-schedules unless the task is pinned.
	UpdateTask(ctx context.Context, input UpdateTaskInput) (TaskOutput, error)

	// CompleteTask marks a task done and frees its occupancy.
	CompleteTask(ctx context.Context, taskID string) (TaskOutput, error)

	// DeleteTask removes a task, freeing its slot.
	DeleteTask(ctx context.Context, taskID string) error

	// ScheduleTask runs the placement engine for a single task.
	ScheduleTask(ctx context.Context, taskID string) (ScheduleOutput, error)

	// PinTask commits a manual drag: validates the target position and, on
	// success, freezes the task there (pinned=true).
	PinTask(ctx context.Context, input PinTaskInput) (TaskOutput, error)

	// UnpinTask returns a pinned task to engine ownership and re-schedules it.
	UnpinTask(ctx context.Context, taskID string) (TaskOutput, error)

	// GetAvailableSlots returns the free slots of a day that can hold the
	// given duration. Drives the drag-and-drop preview.
	GetAvailableSlots(ctx context.Context, input SlotsInput) ([]model.ScheduleSlot, error)

	// ValidatePlacement is the authoritative overlap + deadline check for a
	// proposed manual position.
	ValidatePlacement(ctx context.Context, input PlacementInput) (PlacementOutput, error)

	// CreateEvent, UpdateEvent and DeleteEvent manage fixed calendar entries.
	// Each re-schedules the non-pinned tasks whose placement the change
	// invalidated; unaffected tasks are left untouched.
	CreateEvent(ctx context.Context, input CreateEventInput) (EventOutput, error)
	UpdateEvent(ctx context.Context, input UpdateEventInput) (EventOutput, error)
	DeleteEvent(ctx context.Context, eventID string) error

	// SyncExternalEvents pulls an assignee's events from the external
	// calendar source into the events table and re-schedules affected tasks.
	SyncExternalEvents(ctx context.Context, input SyncEventsInput) (SyncEventsOutput, error)
}
