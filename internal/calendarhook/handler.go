package calendarhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"matterplan/internal/scheduling"
	pkgResponse "matterplan/pkg/response"
)

// HandleCalendarWebhook processes change notifications from the external
// calendar. The sync itself runs in the background; the webhook is
// acknowledged immediately.
func (h *Handler) HandleCalendarWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	// Read body
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.l.Errorf(ctx, "Failed to read webhook body: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	// Verify source IP
	if err := h.security.ValidateIPAddress(c.Request); err != nil {
		h.l.Errorf(ctx, "Webhook IP rejected: %v", err)
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	// Verify signature
	signature := c.GetHeader("X-Calendar-Signature-256")
	if err := h.security.ValidateSignature(body, signature); err != nil {
		h.l.Errorf(ctx, "Webhook signature verification failed: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	var notification changeNotification
	if err := json.Unmarshal(body, &notification); err != nil {
		h.l.Errorf(ctx, "Failed to parse webhook payload: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}
	if notification.AssigneeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "assigneeId is required"})
		return
	}

	// Check rate limit per assignee
	if err := h.security.CheckRateLimit(notification.AssigneeID); err != nil {
		h.l.Warnf(ctx, "Rate limit exceeded: %v", err)
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}

	input, err := h.syncInput(notification)
	if err != nil {
		pkgResponse.Error(c, err, nil)
		return
	}

	// Process in background
	go h.processSyncAsync(input)

	// Acknowledge immediately
	pkgResponse.OK(c, gin.H{"status": "accepted"})
}

// syncInput resolves the notification's window, defaulting to today plus the
// cascade horizon.
func (h *Handler) syncInput(n changeNotification) (scheduling.SyncEventsInput, error) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if n.From != "" {
		parsed, err := time.Parse("2006-01-02", n.From)
		if err != nil {
			return scheduling.SyncEventsInput{}, err
		}
		from = parsed
	}

	to := from.Add(defaultSyncHorizon)
	if n.To != "" {
		parsed, err := time.Parse("2006-01-02", n.To)
		if err != nil {
			return scheduling.SyncEventsInput{}, err
		}
		to = parsed
	}

	return scheduling.SyncEventsInput{
		AssigneeID: n.AssigneeID,
		From:       from,
		To:         to,
	}, nil
}

// processSyncAsync runs the sync in background
func (h *Handler) processSyncAsync(input scheduling.SyncEventsInput) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	h.l.Infof(ctx, "Syncing external calendar for %s (%s..%s)",
		input.AssigneeID, input.From.Format("2006-01-02"), input.To.Format("2006-01-02"))

	output, err := h.uc.SyncExternalEvents(ctx, input)
	if err != nil {
		h.l.Errorf(ctx, "Calendar sync failed: %v", err)
		return
	}

	h.l.Infof(ctx, "Calendar sync done: %d imported, %d tasks rescheduled",
		output.Imported, len(output.Rescheduled))
}
