package repository

import "time"

// CreateTaskOptions holds parameters for inserting a new task.
type CreateTaskOptions struct {
	AssigneeID               string
	Title                    string
	DueDate                  time.Time // date-only, zero allowed
	EstimatedDurationMinutes int
	LoggedDurationMinutes    int
}

// UpdateTaskOptions holds partial task field updates; nil pointers leave
// fields untouched. Every applied update bumps the task version once.
type UpdateTaskOptions struct {
	ID                       string
	Title                    *string
	DueDate                  *time.Time
	EstimatedDurationMinutes *int
	LoggedDurationMinutes    *int
}

// WriteScheduleOptions is the compare-and-swap schedule write.
type WriteScheduleOptions struct {
	TaskID          string
	ExpectedVersion int64

	ScheduledDate      *time.Time // nil clears the schedule
	ScheduledStartTime string     // "HH:MM", empty when clearing
	Pinned             bool
}

// ListScheduledTasksOptions filters tasks by assignee and scheduled date.
// Completed tasks are always excluded.
type ListScheduledTasksOptions struct {
	AssigneeID    string
	ScheduledDate time.Time
	PinnedOnly    bool
	ExcludeTaskID string
}

// CreateEventOptions holds parameters for inserting a fixed event.
type CreateEventOptions struct {
	AssigneeID string
	Title      string
	Date       time.Time
	StartTime  string // "HH:MM"
	EndTime    string // "HH:MM"
	ExternalID string
}

// UpdateEventOptions holds partial event updates.
type UpdateEventOptions struct {
	ID        string
	Title     *string
	Date      *time.Time
	StartTime *string
	EndTime   *string
}

// ListEventsOptions filters events by assignee and date range (inclusive).
type ListEventsOptions struct {
	AssigneeID string
	From       time.Time
	To         time.Time
}
