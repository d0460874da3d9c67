package usecase

import (
	"context"
	"errors"
	"time"

	"matterplan/internal/model"
	"matterplan/internal/scheduling"
	"matterplan/internal/scheduling/interval"
	"matterplan/internal/scheduling/repository"
)

// placement is a computed canonical position: one date plus a start time.
type placement struct {
	date  time.Time
	start int // minutes since midnight
}

// ScheduleTask runs the placement engine for a task. Version conflicts on
// the final write re-run the whole read-compute-write cycle, bounded by the
// configured retry budget.
func (uc *implUseCase) ScheduleTask(ctx context.Context, taskID string) (scheduling.ScheduleOutput, error) {
	var lastErr error
	for attempt := 0; attempt < uc.cfg.WriteRetries; attempt++ {
		out, err := uc.scheduleOnce(ctx, taskID)
		if errors.Is(err, repository.ErrVersionConflict) {
			uc.l.Warnf(ctx, "scheduling: version conflict placing task %s (attempt %d), retrying", taskID, attempt+1)
			lastErr = err
			continue
		}
		return out, err
	}
	uc.l.Errorf(ctx, "scheduling: retry budget exhausted placing task %s: %v", taskID, lastErr)
	return scheduling.ScheduleOutput{}, scheduling.ErrWriteConflict
}

// scheduleOnce performs one read-occupancy → choose-slot → write pass under
// the assignee lock.
func (uc *implUseCase) scheduleOnce(ctx context.Context, taskID string) (scheduling.ScheduleOutput, error) {
	task, err := uc.repo.GetTask(ctx, taskID)
	if err != nil {
		return scheduling.ScheduleOutput{}, err
	}
	if task.ID == "" {
		return scheduling.ScheduleOutput{}, scheduling.ErrTaskNotFound
	}

	unlock := uc.locks.Lock(task.AssigneeID)
	defer unlock()

	// Re-read under the lock so the occupancy snapshot and the version we
	// CAS on belong to the same critical section.
	task, err = uc.repo.GetTask(ctx, taskID)
	if err != nil {
		return scheduling.ScheduleOutput{}, err
	}
	if task.ID == "" {
		return scheduling.ScheduleOutput{}, scheduling.ErrTaskNotFound
	}

	// Pinned positions belong to the user; the engine never touches them.
	if task.Pinned {
		return scheduleOutputFromTask(task), nil
	}

	// Tasks missing a due date or estimate are excluded from automatic
	// placement, not failed. Any stale position is cleared.
	if !task.Schedulable() {
		if task.ScheduledDate == nil && task.ScheduledStartTime == "" {
			return scheduling.ScheduleOutput{TaskID: task.ID, Version: task.Version}, nil
		}
		newVersion, writeErr := uc.repo.WriteSchedule(ctx, repository.WriteScheduleOptions{
			TaskID:          task.ID,
			ExpectedVersion: task.Version,
		})
		if writeErr != nil {
			return scheduling.ScheduleOutput{}, writeErr
		}
		return scheduling.ScheduleOutput{TaskID: task.ID, Version: newVersion}, nil
	}

	pos, err := uc.computePlacement(ctx, task)
	if err != nil {
		return scheduling.ScheduleOutput{}, err
	}

	startClock := interval.FormatClock(pos.start)

	// Unchanged position: skip the write so repeated calls are idempotent
	// and do not churn versions.
	if task.ScheduledDate != nil && sameDay(*task.ScheduledDate, pos.date) && task.ScheduledStartTime == startClock {
		return scheduleOutputFromTask(task), nil
	}

	day := pos.date
	newVersion, err := uc.repo.WriteSchedule(ctx, repository.WriteScheduleOptions{
		TaskID:             task.ID,
		ExpectedVersion:    task.Version,
		ScheduledDate:      &day,
		ScheduledStartTime: startClock,
	})
	if err != nil {
		return scheduling.ScheduleOutput{}, err
	}

	uc.l.Infof(ctx, "scheduling: task %s placed on %s at %s", task.ID, day.Format("2006-01-02"), startClock)
	return scheduling.ScheduleOutput{
		TaskID:             task.ID,
		Scheduled:          true,
		ScheduledDate:      day,
		ScheduledStartTime: startClock,
		Version:            newVersion,
	}, nil
}

// computePlacement walks backward from the due date placing the remaining
// duration. It terminates on the first day that can absorb the leftover in a
// single slot; that day is the earliest edge of the cascade chain and
// becomes the canonical reported position.
func (uc *implUseCase) computePlacement(ctx context.Context, task model.Task) (placement, error) {
	remaining := task.RemainingDuration(uc.cfg.MinGranularityMinutes)
	cursor := dateOnly(task.DueDate)
	window := uc.cfg.Window()

	for depth := 0; depth <= uc.cfg.MaxCascadeDays; depth++ {
		occupied, err := uc.occupied(ctx, task.AssigneeID, cursor, task.ID, true)
		if err != nil {
			return placement{}, err
		}

		gaps := interval.FreeGaps(occupied, window, uc.cfg.MinGranularityMinutes)
		budget := uc.cfg.DailyCapacityMinutes - uc.occupiedMinutes(occupied)

		if len(gaps) == 0 || budget < uc.cfg.MinGranularityMinutes {
			// The day is full; cascade strictly one day backward.
			cursor = cursor.AddDate(0, 0, -1)
			continue
		}

		if remaining <= budget {
			if depth == 0 {
				// Fill from top: earliest slot large enough for the whole block.
				for _, g := range gaps {
					if g.Duration() >= remaining {
						return placement{date: cursor, start: g.Start}, nil
					}
				}
			} else {
				// Cascade days sit as late as possible so earlier free time
				// stays available for other work: latest fitting slot,
				// right-aligned.
				for i := len(gaps) - 1; i >= 0; i-- {
					if gaps[i].Duration() >= remaining {
						return placement{date: cursor, start: gaps[i].End - remaining}, nil
					}
				}
			}
		}

		// No single slot holds the leftover: consume the largest contiguous
		// capacity (ties broken toward the latest slot) and keep cascading.
		consumed := min(largestGap(gaps).Duration(), budget)
		remaining -= consumed
		cursor = cursor.AddDate(0, 0, -1)
	}

	return placement{}, scheduling.ErrCascadeExhausted
}

// largestGap returns the biggest gap, preferring the latest start on ties.
func largestGap(gaps []interval.Interval) interval.Interval {
	best := gaps[0]
	for _, g := range gaps[1:] {
		if g.Duration() >= best.Duration() {
			best = g
		}
	}
	return best
}

func scheduleOutputFromTask(t model.Task) scheduling.ScheduleOutput {
	out := scheduling.ScheduleOutput{TaskID: t.ID, Version: t.Version}
	if t.ScheduledDate != nil {
		out.Scheduled = true
		out.ScheduledDate = *t.ScheduledDate
		out.ScheduledStartTime = t.ScheduledStartTime
	}
	return out
}
