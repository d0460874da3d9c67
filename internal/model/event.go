package model

import "time"

// Event is a fixed calendar entry (hearing, meeting, court date). The
// scheduling engine never moves events; they only occupy time.
type Event struct {
	ID         string
	AssigneeID string
	Title      string

	Date      time.Time // date-only
	StartTime string    // "HH:MM"
	EndTime   string    // "HH:MM", exclusive

	// ExternalID links the event to its source in an external calendar
	// system, empty for events created in-app.
	ExternalID string

	CreatedAt time.Time
	UpdatedAt time.Time
}
