package usecase

import (
	"context"
	"time"

	"matterplan/internal/model"
	"matterplan/internal/scheduling/interval"
	"matterplan/internal/scheduling/repository"
)

// dateOnly normalizes a timestamp to a bare UTC date, the representation
// every scheduled_date/due_date comparison uses.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return dateOnly(a).Equal(dateOnly(b))
}

// eventInterval converts an event to its occupied interval. Events with
// malformed times are skipped by the caller.
func eventInterval(e model.Event) (interval.Interval, error) {
	start, err := interval.ParseClock(e.StartTime)
	if err != nil {
		return interval.Interval{}, err
	}
	end, err := interval.ParseClock(e.EndTime)
	if err != nil {
		return interval.Interval{}, err
	}
	return interval.Interval{Start: start, End: end}, nil
}

// taskInterval converts a scheduled task to the interval it occupies on its
// scheduled date. The stored position is the single canonical block, so the
// occupied range is [start, start+remaining) clipped to business end.
func (uc *implUseCase) taskInterval(t model.Task) (interval.Interval, error) {
	start, err := interval.ParseClock(t.ScheduledStartTime)
	if err != nil {
		return interval.Interval{}, err
	}
	end := start + t.RemainingDuration(uc.cfg.MinGranularityMinutes)
	if end > uc.cfg.BusinessEnd {
		end = uc.cfg.BusinessEnd
	}
	if end <= start {
		end = start + uc.cfg.MinGranularityMinutes
	}
	return interval.Interval{Start: start, End: end}, nil
}

// occupied assembles the occupied intervals for one assignee/date.
// Fixed occupancy is Events ∪ pinned Tasks; the engine additionally treats
// other auto-scheduled tasks as occupied so two tasks cannot stack on the
// same gap (includeAuto). excludeTaskID drops the task being placed itself.
func (uc *implUseCase) occupied(ctx context.Context, assigneeID string, date time.Time, excludeTaskID string, includeAuto bool) ([]interval.Interval, error) {
	day := dateOnly(date)

	events, err := uc.repo.ListEvents(ctx, repository.ListEventsOptions{
		AssigneeID: assigneeID,
		From:       day,
		To:         day,
	})
	if err != nil {
		return nil, err
	}

	var occupied []interval.Interval
	for _, e := range events {
		iv, ivErr := eventInterval(e)
		if ivErr != nil {
			uc.l.Warnf(ctx, "scheduling: skipping event %s with bad times: %v", e.ID, ivErr)
			continue
		}
		occupied = append(occupied, iv)
	}

	tasks, err := uc.repo.ListScheduledTasks(ctx, repository.ListScheduledTasksOptions{
		AssigneeID:    assigneeID,
		ScheduledDate: day,
		PinnedOnly:    !includeAuto,
		ExcludeTaskID: excludeTaskID,
	})
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.ScheduledStartTime == "" {
			continue
		}
		iv, ivErr := uc.taskInterval(t)
		if ivErr != nil {
			uc.l.Warnf(ctx, "scheduling: skipping task %s with bad start time: %v", t.ID, ivErr)
			continue
		}
		occupied = append(occupied, iv)
	}

	return occupied, nil
}

// occupiedMinutes is the merged occupied time within the business window,
// counted against the daily capacity.
func (uc *implUseCase) occupiedMinutes(occupied []interval.Interval) int {
	window := uc.cfg.Window()
	total := 0
	for _, iv := range interval.Merge(occupied) {
		start := max(iv.Start, window.Start)
		end := min(iv.End, window.End)
		if end > start {
			total += end - start
		}
	}
	return total
}

func (uc *implUseCase) slotFromInterval(date time.Time, iv interval.Interval) model.ScheduleSlot {
	return model.ScheduleSlot{
		Date:            dateOnly(date),
		StartTime:       interval.FormatClock(iv.Start),
		EndTime:         interval.FormatClock(iv.End),
		DurationMinutes: iv.Duration(),
	}
}
