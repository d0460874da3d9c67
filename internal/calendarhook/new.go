package calendarhook

import (
	"matterplan/internal/scheduling"
	"matterplan/pkg/log"
)

// Handler receives change notifications from the external calendar source
// and triggers an event sync plus rescheduling for the affected assignee.
type Handler struct {
	l        log.Logger
	uc       scheduling.UseCase
	security *SecurityValidator
}

func New(l log.Logger, uc scheduling.UseCase, security *SecurityValidator) *Handler {
	return &Handler{
		l:        l,
		uc:       uc,
		security: security,
	}
}
