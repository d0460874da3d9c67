package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Storage
	Postgres PostgresConfig

	// Scheduling engine
	Scheduler SchedulerConfig

	// External calendar
	GoogleCalendar GoogleCalendarConfig

	// Webhooks
	Webhook WebhookConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type PostgresConfig struct {
	DSN          string
	MaxConns     int
	EnsureSchema bool
}

// SchedulerConfig drives the slot calculator and the placement engine.
// Times are wall-clock "HH:MM" strings, durations are minutes.
type SchedulerConfig struct {
	BusinessStart        string
	BusinessEnd          string
	DailyCapacityMinutes int
	MaxCascadeDays       int
	MinGranularityMin    int
	WriteRetries         int
	Timezone             string
}

type GoogleCalendarConfig struct {
	Enabled         bool
	CredentialsPath string
	CalendarID      string
}

type WebhookConfig struct {
	Enabled         bool
	Secret          string
	AllowedIPs      []string
	RateLimitPerMin int
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Postgres
	cfg.Postgres.DSN = viper.GetString("postgres.dsn")
	cfg.Postgres.MaxConns = viper.GetInt("postgres.max_conns")
	cfg.Postgres.EnsureSchema = viper.GetBool("postgres.ensure_schema")
	if dsn := viper.GetString("postgres_dsn"); dsn != "" {
		cfg.Postgres.DSN = dsn
	}
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("postgres.dsn is required")
	}

	// Scheduler
	cfg.Scheduler.BusinessStart = viper.GetString("scheduler.business_start")
	cfg.Scheduler.BusinessEnd = viper.GetString("scheduler.business_end")
	cfg.Scheduler.DailyCapacityMinutes = viper.GetInt("scheduler.daily_capacity_minutes")
	cfg.Scheduler.MaxCascadeDays = viper.GetInt("scheduler.max_cascade_days")
	cfg.Scheduler.MinGranularityMin = viper.GetInt("scheduler.min_granularity_minutes")
	cfg.Scheduler.WriteRetries = viper.GetInt("scheduler.write_retries")
	cfg.Scheduler.Timezone = viper.GetString("scheduler.timezone")

	// Google Calendar
	cfg.GoogleCalendar.Enabled = viper.GetBool("google_calendar.enabled")
	cfg.GoogleCalendar.CredentialsPath = viper.GetString("google_calendar.credentials_path")
	cfg.GoogleCalendar.CalendarID = viper.GetString("google_calendar.calendar_id")
	if googleCreds := viper.GetString("google_calendar_credentials"); googleCreds != "" {
		cfg.GoogleCalendar.CredentialsPath = googleCreds
	}

	// Webhooks
	cfg.Webhook.Enabled = viper.GetBool("webhook.enabled")
	cfg.Webhook.Secret = viper.GetString("webhook.secret")
	if webhookSecret := viper.GetString("webhook_secret"); webhookSecret != "" {
		cfg.Webhook.Secret = webhookSecret
	}
	cfg.Webhook.RateLimitPerMin = viper.GetInt("webhook.rate_limit_per_min")

	// Split allowed IPs since viper might not parse array seamlessly from env
	var ips []string
	if rawIps := viper.GetString("webhook.allowed_ips"); rawIps != "" {
		for _, ip := range strings.Split(rawIps, ",") {
			ip = strings.TrimSpace(ip)
			if ip != "" {
				ips = append(ips, ip)
			}
		}
	}
	cfg.Webhook.AllowedIPs = ips

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("postgres.max_conns", 10)
	viper.SetDefault("postgres.ensure_schema", true)

	viper.SetDefault("scheduler.business_start", "09:00")
	viper.SetDefault("scheduler.business_end", "18:00")
	viper.SetDefault("scheduler.daily_capacity_minutes", 540)
	viper.SetDefault("scheduler.max_cascade_days", 14)
	viper.SetDefault("scheduler.min_granularity_minutes", 15)
	viper.SetDefault("scheduler.write_retries", 3)
	viper.SetDefault("scheduler.timezone", "UTC")

	viper.SetDefault("google_calendar.enabled", false)

	viper.SetDefault("webhook.rate_limit_per_min", 60)
	viper.SetDefault("webhook.enabled", true)
}
