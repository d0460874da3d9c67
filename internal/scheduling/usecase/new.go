package usecase

import (
	"context"
	"time"

	"matterplan/internal/scheduling"
	"matterplan/internal/scheduling/repository"
	"matterplan/pkg/gcalendar"
	pkgLog "matterplan/pkg/log"
)

// ExternalCalendar is the read-only source of fixed events mirrored from an
// outside calendar system (e.g. Google Calendar).
type ExternalCalendar interface {
	ListEvents(ctx context.Context, req gcalendar.ListEventsRequest) ([]gcalendar.Event, error)
}

type implUseCase struct {
	l        pkgLog.Logger
	repo     repository.Repository
	cfg      scheduling.CalendarConfig
	external ExternalCalendar // optional, nil when no external source is configured
	location *time.Location

	locks *assigneeLocker
}

// New creates a new scheduling UseCase instance. external may be nil.
func New(
	l pkgLog.Logger,
	repo repository.Repository,
	cfg scheduling.CalendarConfig,
	external ExternalCalendar,
	location *time.Location,
) *implUseCase {
	if location == nil {
		location = time.UTC
	}
	return &implUseCase{
		l:        l,
		repo:     repo,
		cfg:      cfg,
		external: external,
		location: location,
		locks:    newAssigneeLocker(),
	}
}

var _ scheduling.UseCase = (*implUseCase)(nil)
