package repository

import (
	"context"

	"matterplan/internal/model"
)

// Repository is the composed persistence gateway for the scheduling domain.
type Repository interface {
	TaskRepository
	EventRepository
}

// TaskRepository defines the data access methods for tasks.
type TaskRepository interface {
	CreateTask(ctx context.Context, opt CreateTaskOptions) (model.Task, error)

	// GetTask returns the task with its current version. Zero-value Task
	// (ID == "") when not found, no error.
	GetTask(ctx context.Context, id string) (model.Task, error)

	// UpdateTaskFields applies partial field updates and bumps the version.
	UpdateTaskFields(ctx context.Context, opt UpdateTaskOptions) (model.Task, error)

	// WriteSchedule persists {scheduledDate, scheduledStartTime, pinned}
	// with compare-and-swap semantics: the row is written only if its
	// version still equals ExpectedVersion. Returns the new version, or
	// ErrVersionConflict when another writer got there first.
	WriteSchedule(ctx context.Context, opt WriteScheduleOptions) (int64, error)

	// CompleteTask marks the task done and bumps the version.
	CompleteTask(ctx context.Context, id string) (model.Task, error)

	DeleteTask(ctx context.Context, id string) error

	// ListScheduledTasks returns tasks scheduled on a given assignee/date.
	ListScheduledTasks(ctx context.Context, opt ListScheduledTasksOptions) ([]model.Task, error)
}

// EventRepository defines the data access methods for fixed calendar events.
type EventRepository interface {
	CreateEvent(ctx context.Context, opt CreateEventOptions) (model.Event, error)

	// GetEvent returns zero-value Event (ID == "") when not found, no error.
	GetEvent(ctx context.Context, id string) (model.Event, error)

	UpdateEvent(ctx context.Context, opt UpdateEventOptions) (model.Event, error)
	DeleteEvent(ctx context.Context, id string) error

	// ListEvents returns an assignee's events within [From, To] inclusive.
	ListEvents(ctx context.Context, opt ListEventsOptions) ([]model.Event, error)

	// UpsertExternalEvent inserts or refreshes an event mirrored from an
	// external calendar, matched on (assignee_id, external_id).
	UpsertExternalEvent(ctx context.Context, opt CreateEventOptions) (model.Event, error)
}
