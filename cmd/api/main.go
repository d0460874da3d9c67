package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"matterplan/config"
	_ "matterplan/docs" // Swagger docs
	"matterplan/internal/calendarhook"
	"matterplan/internal/httpserver"
	"matterplan/internal/scheduling"
	schedulingRepo "matterplan/internal/scheduling/repository/postgres"
	"matterplan/internal/scheduling/usecase"
	"matterplan/pkg/gcalendar"
	"matterplan/pkg/log"
	"matterplan/pkg/postgres"
)

// calendarSource adapts the Google Calendar client to the scheduling
// use case. The use case addresses calendars per assignee; a fixed
// calendar_id in config overrides that for single-calendar deployments.
type calendarSource struct {
	client     *gcalendar.Client
	calendarID string
}

func (s calendarSource) ListEvents(ctx context.Context, req gcalendar.ListEventsRequest) ([]gcalendar.Event, error) {
	if s.calendarID != "" {
		req.CalendarID = s.calendarID
	}
	return s.client.ListEvents(ctx, req)
}

// @title       Matterplan Scheduling API
// @description Task auto-scheduling for legal practice management: free-slot calculation, conflict detection, and deadline-aware placement.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Matterplan scheduling service...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Postgres
	pool, err := postgres.Connect(ctx, postgres.Config{
		DSN:      cfg.Postgres.DSN,
		MaxConns: cfg.Postgres.MaxConns,
	})
	if err != nil {
		logger.Error(ctx, "Failed to connect to Postgres: ", err)
		return
	}
	defer pool.Close()

	if cfg.Postgres.EnsureSchema {
		if err := schedulingRepo.EnsureSchema(ctx, pool); err != nil {
			logger.Error(ctx, "Failed to ensure schema: ", err)
			return
		}
	}

	// 4. Business calendar
	calendar, err := scheduling.ParseCalendarConfig(
		cfg.Scheduler.BusinessStart,
		cfg.Scheduler.BusinessEnd,
		cfg.Scheduler.DailyCapacityMinutes,
		cfg.Scheduler.MaxCascadeDays,
		cfg.Scheduler.MinGranularityMin,
		cfg.Scheduler.WriteRetries,
	)
	if err != nil {
		logger.Error(ctx, "Invalid scheduler config: ", err)
		return
	}

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logger.Warnf(ctx, "Invalid timezone %q, falling back to UTC: %v", cfg.Scheduler.Timezone, err)
		location = time.UTC
	}

	// 5. Google Calendar client (optional)
	var external usecase.ExternalCalendar
	if cfg.GoogleCalendar.Enabled && cfg.GoogleCalendar.CredentialsPath != "" {
		calendarClient, gcErr := gcalendar.NewClientFromCredentialsFile(ctx, cfg.GoogleCalendar.CredentialsPath)
		if gcErr != nil {
			logger.Warnf(ctx, "Google Calendar not available (optional): %v", gcErr)
		} else {
			external = calendarSource{client: calendarClient, calendarID: cfg.GoogleCalendar.CalendarID}
			logger.Info(ctx, "Google Calendar initialized")
		}
	}

	// 6. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:      logger,
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,
		PostgresDB:  pool,
		Calendar:    calendar,
		Location:    location,
		External:    external,

		WebhookEnabled: cfg.Webhook.Enabled && cfg.Webhook.Secret != "",
		WebhookSecurity: calendarhook.SecurityConfig{
			Secret:          cfg.Webhook.Secret,
			AllowedIPs:      cfg.Webhook.AllowedIPs,
			RateLimitPerMin: cfg.Webhook.RateLimitPerMin,
		},
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 7. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
