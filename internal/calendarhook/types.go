package calendarhook

import "time"

// SecurityConfig holds webhook security settings
type SecurityConfig struct {
	Secret          string   // Shared secret for signature verification
	AllowedIPs      []string // IP whitelist (optional)
	RateLimitPerMin int      // Max requests per minute
}

// changeNotification is the push payload the external calendar source sends
// when an assignee's calendar changes.
type changeNotification struct {
	AssigneeID string `json:"assigneeId" binding:"required"`
	From       string `json:"from"` // YYYY-MM-DD, defaults to today
	To         string `json:"to"`   // YYYY-MM-DD, defaults to from + horizon
}

// defaultSyncHorizon bounds the window synced when the notification does not
// carry one. Matches the engine's cascade horizon.
const defaultSyncHorizon = 14 * 24 * time.Hour
