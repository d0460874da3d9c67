package model

import "time"

// Task is a movable work item placed on the calendar by the scheduling
// engine, unless a user pinned it by hand.
type Task struct {
	ID         string
	AssigneeID string
	Title      string

	DueDate           time.Time // date-only; zero means no deadline
	EstimatedDuration int       // minutes
	LoggedDuration    int       // minutes, sum of time entries

	ScheduledDate      *time.Time // date-only, nil while unscheduled
	ScheduledStartTime string     // "HH:MM", empty while unscheduled
	Pinned             bool

	Completed bool

	// Version increments exactly once per successful persisted change and
	// backs the compare-and-swap write discipline.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RemainingDuration is the still-unworked portion of the estimate, clamped
// up to minGranularity so a nearly-done task keeps a visible block.
func (t Task) RemainingDuration(minGranularity int) int {
	remaining := t.EstimatedDuration - t.LoggedDuration
	if remaining < minGranularity {
		return minGranularity
	}
	return remaining
}

// Schedulable reports whether the task carries enough information for
// automatic placement. Tasks missing a due date or estimate are skipped,
// not failed.
func (t Task) Schedulable() bool {
	return !t.Completed && !t.DueDate.IsZero() && t.EstimatedDuration > 0
}
