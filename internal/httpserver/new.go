package httpserver

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"matterplan/internal/calendarhook"
	"matterplan/internal/scheduling"
	"matterplan/internal/scheduling/usecase"
	"matterplan/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	// Scheduling domain
	postgresDB *pgxpool.Pool
	calendar   scheduling.CalendarConfig
	location   *time.Location
	external   usecase.ExternalCalendar

	// Calendar change webhook
	webhookEnabled  bool
	webhookSecurity calendarhook.SecurityConfig
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string

	// Scheduling domain
	PostgresDB *pgxpool.Pool
	Calendar   scheduling.CalendarConfig
	Location   *time.Location
	External   usecase.ExternalCalendar // optional

	// Calendar change webhook
	WebhookEnabled  bool
	WebhookSecurity calendarhook.SecurityConfig
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:               logger,
		gin:             gin.Default(),
		port:            cfg.Port,
		mode:            cfg.Mode,
		environment:     cfg.Environment,
		postgresDB:      cfg.PostgresDB,
		calendar:        cfg.Calendar,
		location:        cfg.Location,
		external:        cfg.External,
		webhookEnabled:  cfg.WebhookEnabled,
		webhookSecurity: cfg.WebhookSecurity,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv *HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.postgresDB == nil {
		return errors.New("postgres pool is required")
	}
	return nil
}
