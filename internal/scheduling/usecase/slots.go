package usecase

import (
	"context"

	"matterplan/internal/model"
	"matterplan/internal/scheduling"
	"matterplan/internal/scheduling/interval"
)

// GetAvailableSlots returns the free slots of a day large enough for the
// requested duration, ascending by start time. Occupancy here includes
// auto-scheduled tasks, so a slot the engine just claimed is no longer
// offered.
func (uc *implUseCase) GetAvailableSlots(ctx context.Context, input scheduling.SlotsInput) ([]model.ScheduleSlot, error) {
	if input.AssigneeID == "" || input.Date.IsZero() {
		return nil, scheduling.ErrInvalidInput
	}

	occupied, err := uc.occupied(ctx, input.AssigneeID, input.Date, "", true)
	if err != nil {
		return nil, err
	}

	gaps := interval.FreeGaps(occupied, uc.cfg.Window(), uc.cfg.MinGranularityMinutes)

	slots := make([]model.ScheduleSlot, 0, len(gaps))
	for _, g := range gaps {
		if input.DurationMinutes > 0 && g.Duration() < input.DurationMinutes {
			continue
		}
		slots = append(slots, uc.slotFromInterval(input.Date, g))
	}
	return slots, nil
}

// ValidatePlacement is the authoritative overlap check for a proposed manual
// position. Per the drag contract it tests against fixed occupancy only
// (events ∪ pinned tasks), minus the task being dragged.
func (uc *implUseCase) ValidatePlacement(ctx context.Context, input scheduling.PlacementInput) (scheduling.PlacementOutput, error) {
	start, err := interval.ParseClock(input.StartTime)
	if err != nil {
		return scheduling.PlacementOutput{}, scheduling.ErrInvalidInput
	}
	if input.DurationMinutes <= 0 || input.AssigneeID == "" || input.Date.IsZero() {
		return scheduling.PlacementOutput{}, scheduling.ErrInvalidInput
	}

	proposed := interval.Interval{Start: start, End: start + input.DurationMinutes}
	window := uc.cfg.Window()
	if proposed.Start < window.Start || proposed.End > window.End {
		// Outside business hours; no occupied interval to blame.
		return scheduling.PlacementOutput{Valid: false}, nil
	}

	occupied, err := uc.occupied(ctx, input.AssigneeID, input.Date, input.ExcludeTaskID, false)
	if err != nil {
		return scheduling.PlacementOutput{}, err
	}

	var conflicts []model.ScheduleSlot
	for _, occ := range interval.Merge(occupied) {
		if interval.Overlaps(proposed, occ) {
			conflicts = append(conflicts, uc.slotFromInterval(input.Date, occ))
		}
	}

	return scheduling.PlacementOutput{Valid: len(conflicts) == 0, Conflicts: conflicts}, nil
}
