package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"mixlab/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	API        APIConfig        `yaml:"api"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Notify     NotifyConfig     `yaml:"notify"`
	Exports    ExportConfig     `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type APIConfig struct {
	Enabled   bool               `yaml:"enabled"`
	Port      int                `yaml:"port"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key         string   `yaml:"key"`
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// ScheduleConfig carries the booking policy knobs. The recurrence count is
// configuration, not a literal, so term length can vary by deployment.
type ScheduleConfig struct {
	RecurrenceCount  int      `yaml:"recurrence_count"`
	MaxDurationHours int      `yaml:"max_duration_hours"`
	OpenHour         int      `yaml:"open_hour"`
	CloseHour        int      `yaml:"close_hour"`
	ClosedWeekday    string   `yaml:"closed_weekday"`
	MaxBookingDays   int      `yaml:"max_booking_days"`
	FullDayThreshold int      `yaml:"full_day_threshold"`
	SessionRate      int      `yaml:"session_rate"`
	StatsCacheTTL    int      `yaml:"stats_cache_ttl"` // seconds
	Services         []string `yaml:"services"`
}

// ClosedDay parses the configured rest day. Empty means no closed day.
func (s ScheduleConfig) ClosedDay() (time.Weekday, bool) {
	days := map[string]time.Weekday{
		"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
		"wednesday": time.Wednesday, "thursday": time.Thursday,
		"friday": time.Friday, "saturday": time.Saturday,
	}
	d, ok := days[s.ClosedWeekday]
	return d, ok
}

func (s ScheduleConfig) CacheTTL() time.Duration {
	return time.Duration(s.StatsCacheTTL) * time.Second
}

type NotifyConfig struct {
	Enabled    bool   `yaml:"enabled"`
	GatewayURL string `yaml:"gateway_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
	MaxRetries int    `yaml:"max_retries"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; it only feeds the ${VAR} expansion below.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	if c.Schedule.RecurrenceCount < 1 {
		return errors.New("schedule recurrence_count must be at least 1")
	}
	if c.Schedule.MaxDurationHours < 1 {
		return errors.New("schedule max_duration_hours must be at least 1")
	}
	if c.Schedule.OpenHour < 0 || c.Schedule.CloseHour > 24 || c.Schedule.OpenHour >= c.Schedule.CloseHour {
		return fmt.Errorf("invalid opening hours %d-%d", c.Schedule.OpenHour, c.Schedule.CloseHour)
	}
	if c.Schedule.ClosedWeekday != "" {
		if _, ok := c.Schedule.ClosedDay(); !ok {
			return fmt.Errorf("unknown closed_weekday %q", c.Schedule.ClosedWeekday)
		}
	}
	if c.Notify.Enabled && c.Notify.GatewayURL == "" {
		return errors.New("notify.gateway_url is required when notifications are enabled")
	}
	if c.API.Auth.Enabled && len(c.API.Auth.APIKeys) == 0 {
		return errors.New("api auth is enabled but no api keys are configured")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "mixlab"
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Schedule.RecurrenceCount == 0 {
		c.Schedule.RecurrenceCount = models.DefaultRecurrenceCount
	}
	if c.Schedule.MaxDurationHours == 0 {
		c.Schedule.MaxDurationHours = models.DefaultMaxDurationHours
	}
	if c.Schedule.OpenHour == 0 && c.Schedule.CloseHour == 0 {
		c.Schedule.OpenHour = 8
		c.Schedule.CloseHour = 22
	}
	if c.Schedule.MaxBookingDays == 0 {
		c.Schedule.MaxBookingDays = 365
	}
	if c.Schedule.FullDayThreshold == 0 {
		c.Schedule.FullDayThreshold = models.DefaultFullDayThreshold
	}
	if c.Schedule.SessionRate == 0 {
		c.Schedule.SessionRate = models.DefaultSessionRate
	}
	if c.Schedule.StatsCacheTTL == 0 {
		c.Schedule.StatsCacheTTL = models.DefaultStatsCacheTTL
	}
	if len(c.Schedule.Services) == 0 {
		c.Schedule.Services = []string{"Recording Session", "Mixing & Mastering", "Band Rehearsal", "Music Lesson"}
	}
	if c.Notify.TimeoutSec == 0 {
		c.Notify.TimeoutSec = 10
	}
	if c.Notify.MaxRetries == 0 {
		c.Notify.MaxRetries = 5
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
}
