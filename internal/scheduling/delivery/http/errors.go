package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"matterplan/internal/scheduling"
	"matterplan/pkg/response"
)

// respondError translates domain errors into HTTP status codes. Placement
// conflicts carry the occupied intervals so the client can render them.
func (h *handler) respondError(c *gin.Context, err error) {
	var conflictErr *scheduling.ConflictError

	switch {
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, response.Resp{
			ErrorCode: http.StatusConflict,
			Message:   err.Error(),
			Errors:    conflictErr.Conflicts,
		})
	case errors.Is(err, scheduling.ErrWriteConflict):
		c.JSON(http.StatusConflict, response.Resp{
			ErrorCode: http.StatusConflict,
			Message:   err.Error(),
		})
	case errors.Is(err, scheduling.ErrTaskNotFound), errors.Is(err, scheduling.ErrEventNotFound):
		c.JSON(http.StatusNotFound, response.Resp{
			ErrorCode: http.StatusNotFound,
			Message:   err.Error(),
		})
	case errors.Is(err, scheduling.ErrPastDeadline),
		errors.Is(err, scheduling.ErrCascadeExhausted):
		c.JSON(http.StatusUnprocessableEntity, response.Resp{
			ErrorCode: http.StatusUnprocessableEntity,
			Message:   err.Error(),
		})
	case errors.Is(err, scheduling.ErrInvalidInput):
		response.Error(c, err, nil)
	default:
		response.InternalError(c, err)
	}
}
