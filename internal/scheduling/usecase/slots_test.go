package usecase

import (
	"context"
	"errors"
	"testing"

	"matterplan/internal/scheduling"
	"matterplan/internal/scheduling/repository"
)

func TestGetAvailableSlots_EmptyDay(t *testing.T) {
	repo := newMemRepo()
	uc := newTestUseCase(repo)

	slots, err := uc.GetAvailableSlots(context.Background(), scheduling.SlotsInput{
		AssigneeID: "alice", Date: friday,
	})
	if err != nil {
		t.Fatalf("GetAvailableSlots: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("slots = %+v, want one full-day slot", slots)
	}
	if slots[0].StartTime != "09:00" || slots[0].EndTime != "18:00" || slots[0].DurationMinutes != 540 {
		t.Errorf("slot = %+v", slots[0])
	}
}

func TestGetAvailableSlots_FiltersByDuration(t *testing.T) {
	repo := newMemRepo()
	uc := newTestUseCase(repo)
	ctx := context.Background()

	if _, err := repo.CreateEvent(ctx, repository.CreateEventOptions{
		AssigneeID: "alice", Date: friday, StartTime: "10:00", EndTime: "11:00",
	}); err != nil {
		t.Fatalf("create event: %v", err)
	}

	slots, err := uc.GetAvailableSlots(ctx, scheduling.SlotsInput{
		AssigneeID: "alice", Date: friday, DurationMinutes: 120,
	})
	if err != nil {
		t.Fatalf("GetAvailableSlots: %v", err)
	}
	// The 09:00-10:00 gap is too small for 120 min.
	if len(slots) != 1 || slots[0].StartTime != "11:00" {
		t.Errorf("slots = %+v, want only 11:00-18:00", slots)
	}
}

func TestGetAvailableSlots_ClaimedIntervalDisappears(t *testing.T) {
	// Round-trip property: after placement, the day's available slots no
	// longer contain the task's claimed interval.
	repo := newMemRepo()
	uc := newTestUseCase(repo)
	ctx := context.Background()

	task := mustCreateTask(t, repo, "alice", friday, 180, 0)
	out, err := uc.ScheduleTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	slots, err := uc.GetAvailableSlots(ctx, scheduling.SlotsInput{AssigneeID: "alice", Date: friday})
	if err != nil {
		t.Fatalf("GetAvailableSlots: %v", err)
	}
	for _, s := range slots {
		if s.StartTime < "12:00" {
			t.Errorf("slot %+v overlaps the claimed interval %s+180m", s, out.ScheduledStartTime)
		}
	}
}

func TestValidatePlacement_ReportsConflicts(t *testing.T) {
	repo := newMemRepo()
	uc := newTestUseCase(repo)
	ctx := context.Background()

	if _, err := repo.CreateEvent(ctx, repository.CreateEventOptions{
		AssigneeID: "alice", Date: friday, StartTime: "10:00", EndTime: "11:00",
	}); err != nil {
		t.Fatalf("create event: %v", err)
	}

	tests := []struct {
		name      string
		start     string
		duration  int
		wantValid bool
	}{
		{"before event", "09:00", 60, true},
		{"overlapping event head", "09:30", 60, false},
		{"inside event", "10:15", 30, false},
		{"touching event end", "11:00", 60, true},
		{"past business end", "17:30", 60, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := uc.ValidatePlacement(ctx, scheduling.PlacementInput{
				AssigneeID:      "alice",
				Date:            friday,
				StartTime:       tt.start,
				DurationMinutes: tt.duration,
			})
			if err != nil {
				t.Fatalf("ValidatePlacement: %v", err)
			}
			if out.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v (conflicts %+v)", out.Valid, tt.wantValid, out.Conflicts)
			}
			if !out.Valid && tt.start != "17:30" && len(out.Conflicts) == 0 {
				t.Error("invalid placement must name its conflicts")
			}
		})
	}
}

func TestValidatePlacement_BadInput(t *testing.T) {
	repo := newMemRepo()
	uc := newTestUseCase(repo)

	_, err := uc.ValidatePlacement(context.Background(), scheduling.PlacementInput{
		AssigneeID: "alice", Date: friday, StartTime: "9am", DurationMinutes: 60,
	})
	if !errors.Is(err, scheduling.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
