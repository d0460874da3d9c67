package http

import (
	"errors"

	"github.com/gin-gonic/gin"
)

var errMissingID = errors.New("id is required")

// processCreateTaskReq binds and validates the create task request body.
func (h *handler) processCreateTaskReq(c *gin.Context) (createTaskReq, error) {
	var req createTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, req.validate()
}

// processUpdateTaskReq binds and validates the update task body + URI param.
func (h *handler) processUpdateTaskReq(c *gin.Context) (updateTaskReq, error) {
	var req updateTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	req.ID = c.Param("id")
	if req.ID == "" {
		return req, errMissingID
	}
	return req, req.validate()
}

// processPinTaskReq binds and validates the pin (drag commit) body + URI param.
func (h *handler) processPinTaskReq(c *gin.Context) (pinTaskReq, error) {
	var req pinTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	req.ID = c.Param("id")
	if req.ID == "" {
		return req, errMissingID
	}
	return req, req.validate()
}

// processSlotsReq binds and validates the available-slots query parameters.
func (h *handler) processSlotsReq(c *gin.Context) (slotsReq, error) {
	var req slotsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return req, err
	}
	return req, req.validate()
}

// processValidatePlacementReq binds and validates the placement check body.
func (h *handler) processValidatePlacementReq(c *gin.Context) (validatePlacementReq, error) {
	var req validatePlacementReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, req.validate()
}

// processCreateEventReq binds and validates the create event request body.
func (h *handler) processCreateEventReq(c *gin.Context) (createEventReq, error) {
	var req createEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, req.validate()
}

// processUpdateEventReq binds and validates the update event body + URI param.
func (h *handler) processUpdateEventReq(c *gin.Context) (updateEventReq, error) {
	var req updateEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	req.ID = c.Param("id")
	if req.ID == "" {
		return req, errMissingID
	}
	return req, req.validate()
}

// processSyncEventsReq binds and validates the external sync request body.
func (h *handler) processSyncEventsReq(c *gin.Context) (syncEventsReq, error) {
	var req syncEventsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, req.validate()
}
