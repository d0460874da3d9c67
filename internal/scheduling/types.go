package scheduling

import (
	"fmt"
	"time"

	"matterplan/internal/model"
	"matterplan/internal/scheduling/interval"
)

// CalendarConfig is the business-hours calendar the engine schedules
// against. Fixed for the duration of any single scheduling call.
type CalendarConfig struct {
	BusinessStart         int // minutes since midnight
	BusinessEnd           int // minutes since midnight, exclusive
	DailyCapacityMinutes  int
	MaxCascadeDays        int
	MinGranularityMinutes int
	WriteRetries          int
}

// ParseCalendarConfig builds a CalendarConfig from the wire representation
// ("09:00" / "18:00" clock strings).
func ParseCalendarConfig(businessStart, businessEnd string, dailyCapacity, maxCascadeDays, minGranularity, writeRetries int) (CalendarConfig, error) {
	start, err := interval.ParseClock(businessStart)
	if err != nil {
		return CalendarConfig{}, fmt.Errorf("business_start: %w", err)
	}
	end, err := interval.ParseClock(businessEnd)
	if err != nil {
		return CalendarConfig{}, fmt.Errorf("business_end: %w", err)
	}
	if start >= end {
		return CalendarConfig{}, fmt.Errorf("business hours %s-%s are empty", businessStart, businessEnd)
	}
	if dailyCapacity <= 0 {
		dailyCapacity = end - start
	}
	if maxCascadeDays <= 0 {
		maxCascadeDays = 14
	}
	if minGranularity <= 0 {
		minGranularity = 15
	}
	if writeRetries <= 0 {
		writeRetries = 3
	}
	return CalendarConfig{
		BusinessStart:         start,
		BusinessEnd:           end,
		DailyCapacityMinutes:  dailyCapacity,
		MaxCascadeDays:        maxCascadeDays,
		MinGranularityMinutes: minGranularity,
		WriteRetries:          writeRetries,
	}, nil
}

// Window returns the business-hours window as an interval.
func (c CalendarConfig) Window() interval.Interval {
	return interval.Interval{Start: c.BusinessStart, End: c.BusinessEnd}
}

// --- Task inputs/outputs ---

type CreateTaskInput struct {
	AssigneeID               string
	Title                    string
	DueDate                  time.Time // date-only, zero allowed (task stays unscheduled)
	EstimatedDurationMinutes int
	LoggedDurationMinutes    int
}

// UpdateTaskInput carries partial updates; nil pointers leave fields untouched.
type UpdateTaskInput struct {
	ID                       string
	Title                    *string
	DueDate                  *time.Time
	EstimatedDurationMinutes *int
	LoggedDurationMinutes    *int
}

type TaskOutput struct {
	Task model.Task
}

// ScheduleOutput is the result of one engine run. Scheduled is false when
// the task lacks the inputs for automatic placement and was left alone.
type ScheduleOutput struct {
	TaskID             string
	Scheduled          bool
	ScheduledDate      time.Time
	ScheduledStartTime string // "HH:MM"
	Version            int64
}

type PinTaskInput struct {
	ID              string
	TargetDate      time.Time
	TargetStartTime string // "HH:MM"
}

// --- Slot/placement inputs/outputs ---

type SlotsInput struct {
	AssigneeID      string
	Date            time.Time
	DurationMinutes int // 0 means every free slot
}

type PlacementInput struct {
	AssigneeID      string
	Date            time.Time
	StartTime       string // "HH:MM"
	DurationMinutes int
	ExcludeTaskID   string
}

type PlacementOutput struct {
	Valid     bool
	Conflicts []model.ScheduleSlot
}

// --- Event inputs/outputs ---

type CreateEventInput struct {
	AssigneeID string
	Title      string
	Date       time.Time
	StartTime  string // "HH:MM"
	EndTime    string // "HH:MM"
	ExternalID string
}

type UpdateEventInput struct {
	ID        string
	Title     *string
	Date      *time.Time
	StartTime *string
	EndTime   *string
}

// EventOutput reports the event change plus every task placement the change
// forced the engine to redo.
type EventOutput struct {
	Event       model.Event
	Rescheduled []ScheduleOutput
}

type SyncEventsInput struct {
	AssigneeID string
	From       time.Time
	To         time.Time
}

type SyncEventsOutput struct {
	Imported    int
	Rescheduled []ScheduleOutput
}
