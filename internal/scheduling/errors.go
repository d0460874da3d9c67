package scheduling

import (
	"errors"
	"fmt"

	"matterplan/internal/model"
)

// Domain-specific errors for the scheduling package.
var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrEventNotFound = errors.New("event not found")

	// ErrCascadeExhausted means the backward cascade hit maxCascadeDays
	// without placing the full remaining duration.
	ErrCascadeExhausted = errors.New("no capacity within cascade horizon")

	// ErrWriteConflict means concurrent mutations kept invalidating the
	// versioned write across the whole retry budget. Retryable.
	ErrWriteConflict = errors.New("schedule write conflicted with a concurrent change")

	// ErrPlacementConflict rejects a manual drag that overlaps occupied time.
	ErrPlacementConflict = errors.New("placement overlaps occupied time")

	// ErrPastDeadline rejects a manual drag beyond the task's due date.
	ErrPastDeadline = errors.New("placement is after the task due date")

	ErrInvalidInput = errors.New("invalid input")
)

// ConflictError carries the occupied intervals that caused a manual
// placement to be rejected. It matches ErrPlacementConflict under errors.Is.
type ConflictError struct {
	Conflicts []model.ScheduleSlot
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("placement overlaps %d occupied interval(s)", len(e.Conflicts))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrPlacementConflict
}
