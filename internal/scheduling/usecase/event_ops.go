package usecase

import (
	"context"
	"errors"
	"time"

	"matterplan/internal/model"
	"matterplan/internal/scheduling"
	"matterplan/internal/scheduling/interval"
	"matterplan/internal/scheduling/repository"
	"matterplan/pkg/gcalendar"
)

// CreateEvent inserts a fixed event and re-schedules the non-pinned tasks
// whose placement it invalidated.
func (uc *implUseCase) CreateEvent(ctx context.Context, input scheduling.CreateEventInput) (scheduling.EventOutput, error) {
	if err := validateEventTimes(input.StartTime, input.EndTime); err != nil {
		return scheduling.EventOutput{}, err
	}
	if input.AssigneeID == "" || input.Date.IsZero() {
		return scheduling.EventOutput{}, scheduling.ErrInvalidInput
	}

	event, err := uc.repo.CreateEvent(ctx, repository.CreateEventOptions{
		AssigneeID: input.AssigneeID,
		Title:      input.Title,
		Date:       dateOnly(input.Date),
		StartTime:  input.StartTime,
		EndTime:    input.EndTime,
		ExternalID: input.ExternalID,
	})
	if err != nil {
		return scheduling.EventOutput{}, err
	}

	rescheduled, err := uc.rescheduleDisplaced(ctx, event)
	if err != nil {
		return scheduling.EventOutput{Event: event}, err
	}
	return scheduling.EventOutput{Event: event, Rescheduled: rescheduled}, nil
}

// UpdateEvent applies partial updates and re-schedules tasks overlapping the
// event's new position. Tasks on the old date are untouched: moving an
// event away only frees time.
func (uc *implUseCase) UpdateEvent(ctx context.Context, input scheduling.UpdateEventInput) (scheduling.EventOutput, error) {
	if input.ID == "" {
		return scheduling.EventOutput{}, scheduling.ErrInvalidInput
	}
	if input.StartTime != nil || input.EndTime != nil {
		current, err := uc.repo.GetEvent(ctx, input.ID)
		if err != nil {
			return scheduling.EventOutput{}, err
		}
		if current.ID == "" {
			return scheduling.EventOutput{}, scheduling.ErrEventNotFound
		}
		start, end := current.StartTime, current.EndTime
		if input.StartTime != nil {
			start = *input.StartTime
		}
		if input.EndTime != nil {
			end = *input.EndTime
		}
		if err := validateEventTimes(start, end); err != nil {
			return scheduling.EventOutput{}, err
		}
	}

	opt := repository.UpdateEventOptions{
		ID:        input.ID,
		Title:     input.Title,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
	}
	if input.Date != nil {
		d := dateOnly(*input.Date)
		opt.Date = &d
	}

	event, err := uc.repo.UpdateEvent(ctx, opt)
	if errors.Is(err, repository.ErrNotFound) {
		return scheduling.EventOutput{}, scheduling.ErrEventNotFound
	}
	if err != nil {
		return scheduling.EventOutput{}, err
	}

	rescheduled, err := uc.rescheduleDisplaced(ctx, event)
	if err != nil {
		return scheduling.EventOutput{Event: event}, err
	}
	return scheduling.EventOutput{Event: event, Rescheduled: rescheduled}, nil
}

// DeleteEvent removes an event. Deletion only frees time, so no task is
// re-scheduled.
func (uc *implUseCase) DeleteEvent(ctx context.Context, eventID string) error {
	err := uc.repo.DeleteEvent(ctx, eventID)
	if errors.Is(err, repository.ErrNotFound) {
		return scheduling.ErrEventNotFound
	}
	return err
}

// rescheduleDisplaced re-runs the engine for every non-pinned task on the
// event's assignee/date whose placement now overlaps the event. Everything
// else is left untouched; there is no global recomputation.
func (uc *implUseCase) rescheduleDisplaced(ctx context.Context, event model.Event) ([]scheduling.ScheduleOutput, error) {
	eventIv, err := eventInterval(event)
	if err != nil {
		uc.l.Warnf(ctx, "scheduling: event %s has bad times, skipping reschedule pass: %v", event.ID, err)
		return nil, nil
	}

	tasks, err := uc.repo.ListScheduledTasks(ctx, repository.ListScheduledTasksOptions{
		AssigneeID:    event.AssigneeID,
		ScheduledDate: dateOnly(event.Date),
	})
	if err != nil {
		return nil, err
	}

	var outputs []scheduling.ScheduleOutput
	for _, task := range tasks {
		if task.Pinned || task.ScheduledStartTime == "" {
			continue
		}
		taskIv, ivErr := uc.taskInterval(task)
		if ivErr != nil || !interval.Overlaps(taskIv, eventIv) {
			continue
		}
		out, schedErr := uc.ScheduleTask(ctx, task.ID)
		if schedErr != nil {
			uc.l.Errorf(ctx, "scheduling: could not re-place task %s displaced by event %s: %v", task.ID, event.ID, schedErr)
			continue
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

// SyncExternalEvents mirrors an assignee's external calendar into the events
// table and re-schedules whatever those events displaced.
func (uc *implUseCase) SyncExternalEvents(ctx context.Context, input scheduling.SyncEventsInput) (scheduling.SyncEventsOutput, error) {
	if uc.external == nil {
		return scheduling.SyncEventsOutput{}, scheduling.ErrInvalidInput
	}
	if input.AssigneeID == "" {
		return scheduling.SyncEventsOutput{}, scheduling.ErrInvalidInput
	}

	from, to := dateOnly(input.From), dateOnly(input.To)
	if to.Before(from) {
		return scheduling.SyncEventsOutput{}, scheduling.ErrInvalidInput
	}

	remote, err := uc.external.ListEvents(ctx, gcalendar.ListEventsRequest{
		CalendarID: input.AssigneeID,
		TimeMin:    from,
		TimeMax:    to.AddDate(0, 0, 1),
	})
	if err != nil {
		return scheduling.SyncEventsOutput{}, err
	}

	out := scheduling.SyncEventsOutput{}
	for _, re := range remote {
		start := re.StartTime.In(uc.location)
		end := re.EndTime.In(uc.location)
		if !start.Before(end) || !sameDay(start, end) {
			// Multi-day and zero-length entries don't map onto the
			// single-day occupied model.
			continue
		}

		event, upsertErr := uc.repo.UpsertExternalEvent(ctx, repository.CreateEventOptions{
			AssigneeID: input.AssigneeID,
			Title:      re.Summary,
			Date:       dateOnly(start),
			StartTime:  clockOf(start),
			EndTime:    clockOf(end),
			ExternalID: re.ID,
		})
		if upsertErr != nil {
			return out, upsertErr
		}
		out.Imported++

		rescheduled, resErr := uc.rescheduleDisplaced(ctx, event)
		if resErr != nil {
			return out, resErr
		}
		out.Rescheduled = append(out.Rescheduled, rescheduled...)
	}
	return out, nil
}

func clockOf(t time.Time) string {
	return interval.FormatClock(t.Hour()*60 + t.Minute())
}

func validateEventTimes(start, end string) error {
	s, err := interval.ParseClock(start)
	if err != nil {
		return scheduling.ErrInvalidInput
	}
	e, err := interval.ParseClock(end)
	if err != nil {
		return scheduling.ErrInvalidInput
	}
	if s >= e {
		return scheduling.ErrInvalidInput
	}
	return nil
}
