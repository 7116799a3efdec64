package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the tracking daemon.
type Config struct {
	DBPath   string
	Catalog  CatalogConfig
	Tracking TrackingConfig
	Actuator ActuatorConfig
	Telegram TelegramConfig
	Metrics  MetricsConfig
	Log      LogConfig
}

// CatalogConfig points at the catalogue API endpoints and controls how often
// the local cache is refreshed.
type CatalogConfig struct {
	SatellitesURL   string
	StationsURL     string
	RefreshInterval time.Duration
}

// TrackingConfig holds the pass scheduling and tracking loop timing knobs.
type TrackingConfig struct {
	Horizon        time.Duration // pass look-ahead window
	LeadMargin     time.Duration // wake this long before predicted rise
	TrailingMargin time.Duration // stay in cooldown this long after predicted set
	PollInterval   time.Duration // tracking loop poll period
	IdleRetry      time.Duration // delay between idle-state selection attempts
	RetryBackoff   time.Duration // delay between ephemeris retries while waiting
	RetryLimit     int           // ephemeris retries before falling back to idle
	CallTimeout    time.Duration // upper bound on any single collaborator call
}

// ActuatorConfig selects and parameterizes the mount driver.
type ActuatorConfig struct {
	Driver           string // "pwm" or "log"
	PWMChipPath      string
	AzimuthChannel   int
	ElevationChannel int
}

// TelegramConfig enables pass notifications via a Telegram bot when both
// fields are set.
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// MetricsConfig controls the Prometheus endpoint. An empty address disables it.
type MetricsConfig struct {
	Addr string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from the config file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("db_path", "sattrack.db")
	v.SetDefault("catalog.satellites_url", "http://localhost:8001/api/satellites/")
	v.SetDefault("catalog.stations_url", "http://localhost:8001/api/ground_stations/")
	v.SetDefault("catalog.refresh_minutes", 360)
	v.SetDefault("tracking.horizon_hours", 48)
	v.SetDefault("tracking.lead_margin_seconds", 120)
	v.SetDefault("tracking.trailing_margin_seconds", 30)
	v.SetDefault("tracking.poll_interval_seconds", 4)
	v.SetDefault("tracking.idle_retry_seconds", 60)
	v.SetDefault("tracking.retry_backoff_seconds", 60)
	v.SetDefault("tracking.retry_limit", 3)
	v.SetDefault("tracking.call_timeout_seconds", 10)
	v.SetDefault("actuator.driver", "log")
	v.SetDefault("actuator.pwm_chip", "/sys/class/pwm/pwmchip0")
	v.SetDefault("actuator.azimuth_channel", 0)
	v.SetDefault("actuator.elevation_channel", 1)
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("metrics.addr", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/sattrack")
	v.AddConfigPath(".")

	if configPath := os.Getenv("SATTRACK_CONFIG_PATH"); configPath != "" {
		v.SetConfigFile(configPath)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine; defaults plus env vars apply.
	}

	v.SetEnvPrefix("SATTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		DBPath: v.GetString("db_path"),
		Catalog: CatalogConfig{
			SatellitesURL:   v.GetString("catalog.satellites_url"),
			StationsURL:     v.GetString("catalog.stations_url"),
			RefreshInterval: time.Duration(v.GetInt("catalog.refresh_minutes")) * time.Minute,
		},
		Tracking: TrackingConfig{
			Horizon:        time.Duration(v.GetInt("tracking.horizon_hours")) * time.Hour,
			LeadMargin:     time.Duration(v.GetInt("tracking.lead_margin_seconds")) * time.Second,
			TrailingMargin: time.Duration(v.GetInt("tracking.trailing_margin_seconds")) * time.Second,
			PollInterval:   time.Duration(v.GetInt("tracking.poll_interval_seconds")) * time.Second,
			IdleRetry:      time.Duration(v.GetInt("tracking.idle_retry_seconds")) * time.Second,
			RetryBackoff:   time.Duration(v.GetInt("tracking.retry_backoff_seconds")) * time.Second,
			RetryLimit:     v.GetInt("tracking.retry_limit"),
			CallTimeout:    time.Duration(v.GetInt("tracking.call_timeout_seconds")) * time.Second,
		},
		Actuator: ActuatorConfig{
			Driver:           v.GetString("actuator.driver"),
			PWMChipPath:      v.GetString("actuator.pwm_chip"),
			AzimuthChannel:   v.GetInt("actuator.azimuth_channel"),
			ElevationChannel: v.GetInt("actuator.elevation_channel"),
		},
		Telegram: TelegramConfig{
			BotToken: v.GetString("telegram.bot_token"),
			ChatID:   v.GetString("telegram.chat_id"),
		},
		Metrics: MetricsConfig{
			Addr: v.GetString("metrics.addr"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate validates the configuration values.
func validate(cfg *Config) error {
	if cfg.Catalog.SatellitesURL == "" {
		return fmt.Errorf("catalog.satellites_url is required")
	}
	if cfg.Catalog.StationsURL == "" {
		return fmt.Errorf("catalog.stations_url is required")
	}
	if cfg.Tracking.Horizon <= 0 {
		return fmt.Errorf("tracking.horizon_hours must be greater than 0")
	}
	if cfg.Tracking.PollInterval <= 0 {
		return fmt.Errorf("tracking.poll_interval_seconds must be greater than 0")
	}
	if cfg.Tracking.IdleRetry <= 0 {
		return fmt.Errorf("tracking.idle_retry_seconds must be greater than 0")
	}
	if cfg.Tracking.RetryLimit < 0 {
		return fmt.Errorf("tracking.retry_limit must not be negative")
	}
	if cfg.Tracking.CallTimeout <= 0 {
		return fmt.Errorf("tracking.call_timeout_seconds must be greater than 0")
	}

	switch cfg.Actuator.Driver {
	case "pwm", "log":
	default:
		return fmt.Errorf("invalid actuator driver: %s (must be pwm or log)", cfg.Actuator.Driver)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Log.Level)
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[strings.ToLower(cfg.Log.Format)] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", cfg.Log.Format)
	}

	return nil
}
