// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct. Immutable for the
// process lifetime once loaded.
type Config struct {
	App          AppConfig         `mapstructure:"app"`
	Screening    ScreeningConfig   `mapstructure:"screening"`
	Interview    InterviewConfig   `mapstructure:"interview"`
	Booking      BookingConfig     `mapstructure:"booking"`
	Results      ResultsConfig     `mapstructure:"results"`
	Database     DatabaseConfig    `mapstructure:"database"`
	Integrations IntegrationConfig `mapstructure:"integrations"`
	Logging      LoggingConfig     `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ScreeningConfig holds scoring weights, decision thresholds, and the
// evaluation retry policy.
type ScreeningConfig struct {
	Weights    map[string]float64 `mapstructure:"weights"`
	Thresholds ThresholdConfig    `mapstructure:"thresholds"`
	Retry      RetryConfig        `mapstructure:"retry"`
}

type ThresholdConfig struct {
	Qualified   int `mapstructure:"qualified"`
	StrongFit   int `mapstructure:"strong_fit"`
	ModerateFit int `mapstructure:"moderate_fit"`
}

type RetryConfig struct {
	MaxAttempts  int `mapstructure:"max_attempts"`
	DelaySeconds int `mapstructure:"delay_seconds"`
}

// Delay returns the fixed wait between evaluation attempts.
func (r RetryConfig) Delay() time.Duration {
	return time.Duration(r.DelaySeconds) * time.Second
}

// InterviewConfig holds the scheduling calendar: business windows, holidays,
// slot duration, and the allocator search horizon.
type InterviewConfig struct {
	DurationMinutes int            `mapstructure:"duration_minutes"`
	Timezone        string         `mapstructure:"timezone"`
	HorizonDays     int            `mapstructure:"horizon_days"`
	NumQuestions    int            `mapstructure:"num_questions"`
	Windows         []WindowConfig `mapstructure:"windows"`
	Holidays        []string       `mapstructure:"holidays"` // YYYY-MM-DD
}

// WindowConfig is one half-open business window, times as "HH:MM".
type WindowConfig struct {
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

// Duration returns the interview slot length.
func (i InterviewConfig) Duration() time.Duration {
	return time.Duration(i.DurationMinutes) * time.Minute
}

// BookingConfig selects the booking store backend.
type BookingConfig struct {
	Backend  string `mapstructure:"backend"` // file | postgres | redis
	FilePath string `mapstructure:"file_path"`
}

// ResultsConfig selects the finalized-record store backend.
type ResultsConfig struct {
	Backend       string `mapstructure:"backend"` // file | postgres
	FilePath      string `mapstructure:"file_path"`
	Elasticsearch struct {
		Enabled bool   `mapstructure:"enabled"`
		Index   string `mapstructure:"index"`
	} `mapstructure:"elasticsearch"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

// IntegrationConfig holds settings for the LLM backend and outbound
// candidate notifications.
type IntegrationConfig struct {
	Gemini struct {
		APIKey string `mapstructure:"api_key"`
		Model  string `mapstructure:"model"`
	} `mapstructure:"gemini"`

	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled   bool   `mapstructure:"enabled"`
			FromEmail string `mapstructure:"from_email"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled            bool   `mapstructure:"enabled"`
			DefaultSMSSenderID string `mapstructure:"default_sms_sender_id"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
