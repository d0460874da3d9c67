package usecase

import (
	"context"
	"errors"

	"matterplan/internal/scheduling"
	"matterplan/internal/scheduling/repository"
)

// PinTask commits a manual drag. The target is validated against the
// backward-only deadline rule and fixed occupancy before anything is
// persisted; a rejected drag leaves the task exactly as it was.
func (uc *implUseCase) PinTask(ctx context.Context, input scheduling.PinTaskInput) (scheduling.TaskOutput, error) {
	var lastErr error
	for attempt := 0; attempt < uc.cfg.WriteRetries; attempt++ {
		out, err := uc.pinOnce(ctx, input)
		if errors.Is(err, repository.ErrVersionConflict) {
			lastErr = err
			continue
		}
		return out, err
	}
	uc.l.Errorf(ctx, "scheduling: retry budget exhausted pinning task %s: %v", input.ID, lastErr)
	return scheduling.TaskOutput{}, scheduling.ErrWriteConflict
}

func (uc *implUseCase) pinOnce(ctx context.Context, input scheduling.PinTaskInput) (scheduling.TaskOutput, error) {
	task, err := uc.repo.GetTask(ctx, input.ID)
	if err != nil {
		return scheduling.TaskOutput{}, err
	}
	if task.ID == "" {
		return scheduling.TaskOutput{}, scheduling.ErrTaskNotFound
	}

	unlock := uc.locks.Lock(task.AssigneeID)
	defer unlock()

	task, err = uc.repo.GetTask(ctx, input.ID)
	if err != nil {
		return scheduling.TaskOutput{}, err
	}
	if task.ID == "" {
		return scheduling.TaskOutput{}, scheduling.ErrTaskNotFound
	}

	targetDate := dateOnly(input.TargetDate)

	// Backward-only: a task may never be parked past its deadline.
	if !task.DueDate.IsZero() && targetDate.After(dateOnly(task.DueDate)) {
		return scheduling.TaskOutput{}, scheduling.ErrPastDeadline
	}

	duration := task.RemainingDuration(uc.cfg.MinGranularityMinutes)
	check, err := uc.ValidatePlacement(ctx, scheduling.PlacementInput{
		AssigneeID:      task.AssigneeID,
		Date:            targetDate,
		StartTime:       input.TargetStartTime,
		DurationMinutes: duration,
		ExcludeTaskID:   task.ID,
	})
	if err != nil {
		return scheduling.TaskOutput{}, err
	}
	if !check.Valid {
		return scheduling.TaskOutput{}, &scheduling.ConflictError{Conflicts: check.Conflicts}
	}

	if _, err := uc.repo.WriteSchedule(ctx, repository.WriteScheduleOptions{
		TaskID:             task.ID,
		ExpectedVersion:    task.Version,
		ScheduledDate:      &targetDate,
		ScheduledStartTime: input.TargetStartTime,
		Pinned:             true,
	}); err != nil {
		return scheduling.TaskOutput{}, err
	}

	updated, err := uc.repo.GetTask(ctx, task.ID)
	if err != nil {
		return scheduling.TaskOutput{}, err
	}
	uc.l.Infof(ctx, "scheduling: task %s pinned to %s %s", task.ID, targetDate.Format("2006-01-02"), input.TargetStartTime)
	return scheduling.TaskOutput{Task: updated}, nil
}

// UnpinTask returns a pinned task to engine ownership and immediately
// re-schedules it.
func (uc *implUseCase) UnpinTask(ctx context.Context, taskID string) (scheduling.TaskOutput, error) {
	task, err := uc.repo.GetTask(ctx, taskID)
	if err != nil {
		return scheduling.TaskOutput{}, err
	}
	if task.ID == "" {
		return scheduling.TaskOutput{}, scheduling.ErrTaskNotFound
	}

	if task.Pinned {
		if _, err := uc.repo.WriteSchedule(ctx, repository.WriteScheduleOptions{
			TaskID:             task.ID,
			ExpectedVersion:    task.Version,
			ScheduledDate:      task.ScheduledDate,
			ScheduledStartTime: task.ScheduledStartTime,
			Pinned:             false,
		}); err != nil {
			return scheduling.TaskOutput{}, err
		}
	}

	if _, err := uc.ScheduleTask(ctx, taskID); err != nil && !errors.Is(err, scheduling.ErrCascadeExhausted) {
		return scheduling.TaskOutput{}, err
	}

	updated, err := uc.repo.GetTask(ctx, taskID)
	if err != nil {
		return scheduling.TaskOutput{}, err
	}
	return scheduling.TaskOutput{Task: updated}, nil
}
