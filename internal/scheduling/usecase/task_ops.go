package usecase

import (
	"context"
	"errors"
	"time"

	"matterplan/internal/scheduling"
	"matterplan/internal/scheduling/repository"
)

// CreateTask persists a new task and immediately runs the engine. A task
// missing its due date or estimate is stored unscheduled without error.
func (uc *implUseCase) CreateTask(ctx context.Context, input scheduling.CreateTaskInput) (scheduling.TaskOutput, error) {
	if input.AssigneeID == "" {
		return scheduling.TaskOutput{}, scheduling.ErrInvalidInput
	}
	if input.EstimatedDurationMinutes < 0 || input.LoggedDurationMinutes < 0 {
		return scheduling.TaskOutput{}, scheduling.ErrInvalidInput
	}

	task, err := uc.repo.CreateTask(ctx, repository.CreateTaskOptions{
		AssigneeID:               input.AssigneeID,
		Title:                    input.Title,
		DueDate:                  dateOnlyOrZero(input.DueDate),
		EstimatedDurationMinutes: input.EstimatedDurationMinutes,
		LoggedDurationMinutes:    input.LoggedDurationMinutes,
	})
	if err != nil {
		return scheduling.TaskOutput{}, err
	}

	return uc.finishMutation(ctx, task.ID)
}

// UpdateTask applies partial field updates and re-runs the engine. A due
// date change that leaves a pinned position past the deadline unpins the
// task so the backward-only invariant holds.
func (uc *implUseCase) UpdateTask(ctx context.Context, input scheduling.UpdateTaskInput) (scheduling.TaskOutput, error) {
	if input.ID == "" {
		return scheduling.TaskOutput{}, scheduling.ErrInvalidInput
	}

	task, err := uc.repo.UpdateTaskFields(ctx, repository.UpdateTaskOptions{
		ID:                       input.ID,
		Title:                    input.Title,
		DueDate:                  input.DueDate,
		EstimatedDurationMinutes: input.EstimatedDurationMinutes,
		LoggedDurationMinutes:    input.LoggedDurationMinutes,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return scheduling.TaskOutput{}, scheduling.ErrTaskNotFound
	}
	if err != nil {
		return scheduling.TaskOutput{}, err
	}

	if task.Pinned && task.ScheduledDate != nil && !task.DueDate.IsZero() &&
		dateOnly(*task.ScheduledDate).After(dateOnly(task.DueDate)) {
		uc.l.Infof(ctx, "scheduling: due date moved before pinned position, unpinning task %s", task.ID)
		return uc.UnpinTask(ctx, task.ID)
	}

	return uc.finishMutation(ctx, task.ID)
}

// CompleteTask marks a task done. Its occupancy is freed; no global
// recomputation of other tasks happens.
func (uc *implUseCase) CompleteTask(ctx context.Context, taskID string) (scheduling.TaskOutput, error) {
	task, err := uc.repo.CompleteTask(ctx, taskID)
	if errors.Is(err, repository.ErrNotFound) {
		return scheduling.TaskOutput{}, scheduling.ErrTaskNotFound
	}
	if err != nil {
		return scheduling.TaskOutput{}, err
	}
	return scheduling.TaskOutput{Task: task}, nil
}

// DeleteTask removes a task, freeing its slot.
func (uc *implUseCase) DeleteTask(ctx context.Context, taskID string) error {
	err := uc.repo.DeleteTask(ctx, taskID)
	if errors.Is(err, repository.ErrNotFound) {
		return scheduling.ErrTaskNotFound
	}
	return err
}

// finishMutation runs the engine after a task mutation and returns the
// up-to-date task. Cascade exhaustion is reported but leaves the task
// stored; the caller decides how to surface it.
func (uc *implUseCase) finishMutation(ctx context.Context, taskID string) (scheduling.TaskOutput, error) {
	_, schedErr := uc.ScheduleTask(ctx, taskID)

	task, err := uc.repo.GetTask(ctx, taskID)
	if err != nil {
		return scheduling.TaskOutput{}, err
	}
	if schedErr != nil {
		return scheduling.TaskOutput{Task: task}, schedErr
	}
	return scheduling.TaskOutput{Task: task}, nil
}

func dateOnlyOrZero(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return dateOnly(t)
}
