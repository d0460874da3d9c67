package http

import (
	"github.com/gin-gonic/gin"

	"matterplan/pkg/response"
)

// CreateTask godoc
// @Summary     Create a task
// @Description Creates a task and immediately runs the auto-scheduling engine for it.
// @Tags        Scheduling
// @Accept      json
// @Produce     json
// @Param       body body createTaskReq true "Task data"
// @Success     200 {object} taskDetailResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     422 {object} response.Resp "No capacity before the due date"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/scheduling/tasks [POST]
func (h *handler) CreateTask(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processCreateTaskReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.CreateTask(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.CreateTask: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, h.newTaskDetailResp(output))
}

// UpdateTask godoc
// @Summary     Update a task
// @Description Applies partial updates and re-schedules the task unless it is pinned.
// @Tags        Scheduling
// @Accept      json
// @Produce     json
// @Param       id   path string        true "Task ID"
// @Param       body body updateTaskReq true "Fields to update"
// @Success     200 {object} taskDetailResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/scheduling/tasks/{id} [PATCH]
func (h *handler) UpdateTask(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processUpdateTaskReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.UpdateTask(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.UpdateTask: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, h.newTaskDetailResp(output))
}

// DeleteTask godoc
// @Summary     Delete a task
// @Description Removes a task, freeing its calendar slot.
// @Tags        Scheduling
// @Accept      json
// @Produce     json
// @Param       id path string true "Task ID"
// @Success     200 {object} response.Resp "OK"
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/scheduling/tasks/{id} [DELETE]
func (h *handler) DeleteTask(c *gin.Context) {
	ctx := c.Request.Context()

	id := c.Param("id")
	if id == "" {
		response.Error(c, errMissingID, nil)
		return
	}

	if err := h.uc.DeleteTask(ctx, id); err != nil {
		h.l.Errorf(ctx, "uc.DeleteTask: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, nil)
}

// CompleteTask godoc
// @Summary     Complete a task
// @Description Marks a task done. Its occupied interval stops blocking the calendar.
// @Tags        Scheduling
// @Accept      json
// @Produce     json
// @Param       id path string true "Task ID"
// @Success     200 {object} taskDetailResp
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/scheduling/tasks/{id}/complete [POST]
func (h *handler) CompleteTask(c *gin.Context) {
	ctx := c.Request.Context()

	id := c.Param("id")
	if id == "" {
		response.Error(c, errMissingID, nil)
		return
	}

	output, err := h.uc.CompleteTask(ctx, id)
	if err != nil {
		h.l.Errorf(ctx, "uc.CompleteTask: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, h.newTaskDetailResp(output))
}

// ScheduleTask godoc
// @Summary     Run the engine for a task
// @Description Recomputes a single task's automatic placement.
// @Tags        Scheduling
// @Accept      json
// @Produce     json
// @Param       id path string true "Task ID"
// @Success     200 {object} scheduleResp
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     409 {object} response.Resp "Concurrent write conflict"
// @Failure     422 {object} response.Resp "No capacity within the cascade horizon"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/scheduling/tasks/{id}/schedule [POST]
func (h *handler) ScheduleTask(c *gin.Context) {
	ctx := c.Request.Context()

	id := c.Param("id")
	if id == "" {
		response.Error(c, errMissingID, nil)
		return
	}

	output, err := h.uc.ScheduleTask(ctx, id)
	if err != nil {
		h.l.Errorf(ctx, "uc.ScheduleTask: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, newScheduleResp(output))
}

// PinTask godoc
// @Summary     Pin a task (drag commit)
// @Description Validates a manual position and freezes the task there on success.
// @Tags        Scheduling
// @Accept      json
// @Produce     json
// @Param       id   path string     true "Task ID"
// @Param       body body pinTaskReq true "Target position"
// @Success     200 {object} taskDetailResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     409 {object} response.Resp "Position overlaps occupied time"
// @Failure     422 {object} response.Resp "Position is past the due date"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/scheduling/tasks/{id}/pin [POST]
func (h *handler) PinTask(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processPinTaskReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.PinTask(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.PinTask: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, h.newTaskDetailResp(output))
}

// UnpinTask godoc
// @Summary     Unpin a task
// @Description Returns a pinned task to engine ownership and re-schedules it.
// @Tags        Scheduling
// @Accept      json
// @Produce     json
// @Param       id path string true "Task ID"
// @Success     200 {object} taskDetailResp
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/scheduling/tasks/{id}/unpin [POST]
func (h *handler) UnpinTask(c *gin.Context) {
	ctx := c.Request.Context()

	id := c.Param("id")
	if id == "" {
		response.Error(c, errMissingID, nil)
		return
	}

	output, err := h.uc.UnpinTask(ctx, id)
	if err != nil {
		h.l.Errorf(ctx, "uc.UnpinTask: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, h.newTaskDetailResp(output))
}

// GetSlots godoc
// @Summary     List available slots
// @Description Returns the free business-hours slots of a day, optionally filtered to those that hold a duration.
// @Tags        Scheduling
// @Accept      json
// @Produce     json
// @Param       assigneeId      query string true  "Assignee ID"
// @Param       date            query string true  "Day (YYYY-MM-DD)"
// @Param       durationMinutes query int    false "Minimum slot duration"
// @Success     200 {object} slotsResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/scheduling/slots [GET]
func (h *handler) GetSlots(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processSlotsReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	slots, err := h.uc.GetAvailableSlots(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.GetAvailableSlots: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, slotsResp{Slots: slots})
}

// ValidatePlacement godoc
// @Summary     Validate a manual placement
// @Description Checks a proposed position for overlaps without committing anything. Drives the drag preview.
// @Tags        Scheduling
// @Accept      json
// @Produce     json
// @Param       body body validatePlacementReq true "Proposed position"
// @Success     200 {object} placementResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/scheduling/placements/validate [POST]
func (h *handler) ValidatePlacement(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processValidatePlacementReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.ValidatePlacement(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.ValidatePlacement: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, h.newPlacementResp(output))
}

// CreateEvent godoc
// @Summary     Create a calendar event
// @Description Creates a fixed event and re-schedules the non-pinned tasks it displaced.
// @Tags        Scheduling
// @Accept      json
// @Produce     json
// @Param       body body createEventReq true "Event data"
// @Success     200 {object} eventMutationResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/scheduling/events [POST]
func (h *handler) CreateEvent(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processCreateEventReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.CreateEvent(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.CreateEvent: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, h.newEventMutationResp(output))
}

// UpdateEvent godoc
// @Summary     Update a calendar event
// @Description Updates an event and re-schedules the non-pinned tasks its new interval displaced.
// @Tags        Scheduling
// @Accept      json
// @Produce     json
// @Param       id   path string         true "Event ID"
// @Param       body body updateEventReq true "Fields to update"
// @Success     200 {object} eventMutationResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/scheduling/events/{id} [PATCH]
func (h *handler) UpdateEvent(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processUpdateEventReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.UpdateEvent(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.UpdateEvent: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, h.newEventMutationResp(output))
}

// DeleteEvent godoc
// @Summary     Delete a calendar event
// @Description Removes an event. Freed time is picked up by later engine runs.
// @Tags        Scheduling
// @Accept      json
// @Produce     json
// @Param       id path string true "Event ID"
// @Success     200 {object} response.Resp "OK"
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/scheduling/events/{id} [DELETE]
func (h *handler) DeleteEvent(c *gin.Context) {
	ctx := c.Request.Context()

	id := c.Param("id")
	if id == "" {
		response.Error(c, errMissingID, nil)
		return
	}

	if err := h.uc.DeleteEvent(ctx, id); err != nil {
		h.l.Errorf(ctx, "uc.DeleteEvent: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, nil)
}

// SyncEvents godoc
// @Summary     Sync external calendar events
// @Description Pulls events from the configured external calendar into the local table and re-schedules affected tasks.
// @Tags        Scheduling
// @Accept      json
// @Produce     json
// @Param       body body syncEventsReq true "Sync window"
// @Success     200 {object} syncEventsResp
// @Failure     400 {object} response.Resp "Bad Request or no external source configured"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/scheduling/events/sync [POST]
func (h *handler) SyncEvents(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processSyncEventsReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.SyncExternalEvents(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.SyncExternalEvents: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, h.newSyncEventsResp(output))
}
