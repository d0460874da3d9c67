package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods.
func RegisterRoutes(rg *gin.RouterGroup, h *handler) {
	tasks := rg.Group("/tasks")
	{
		tasks.POST("", h.CreateTask)
		tasks.PATCH("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
		tasks.POST("/:id/complete", h.CompleteTask)
		tasks.POST("/:id/schedule", h.ScheduleTask)
		tasks.POST("/:id/pin", h.PinTask)
		tasks.POST("/:id/unpin", h.UnpinTask)
	}

	rg.GET("/slots", h.GetSlots)
	rg.POST("/placements/validate", h.ValidatePlacement)

	events := rg.Group("/events")
	{
		events.POST("", h.CreateEvent)
		events.PATCH("/:id", h.UpdateEvent)
		events.DELETE("/:id", h.DeleteEvent)
		events.POST("/sync", h.SyncEvents)
	}
}
