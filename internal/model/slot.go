package model

import "time"

// ScheduleSlot is a derived time range, half-open [StartTime, EndTime).
// It is never persisted; the engine computes slots per call.
type ScheduleSlot struct {
	Date            time.Time `json:"date"`
	StartTime       string    `json:"startTime"` // "HH:MM"
	EndTime         string    `json:"endTime"`   // "HH:MM", exclusive
	DurationMinutes int       `json:"durationMinutes"`
}
