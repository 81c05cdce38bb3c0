package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like GEMINI_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, e.g. config.production.yaml
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig() // ignore error if not found

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Load .env from multiple possible locations so the binary works from
// the repo root, cmd directories, and test packages alike.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// Direct override if config values are still empty after expansion.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Integrations.Gemini.APIKey == "" {
		if val := os.Getenv("GEMINI_API_KEY"); val != "" {
			cfg.Integrations.Gemini.APIKey = val
		}
	}

	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "hr-screening"
	}

	if cfg.Screening.Thresholds.Qualified == 0 {
		cfg.Screening.Thresholds.Qualified = 70
	}
	if cfg.Screening.Thresholds.StrongFit == 0 {
		cfg.Screening.Thresholds.StrongFit = 75
	}
	if cfg.Screening.Thresholds.ModerateFit == 0 {
		cfg.Screening.Thresholds.ModerateFit = 50
	}
	if cfg.Screening.Retry.MaxAttempts == 0 {
		cfg.Screening.Retry.MaxAttempts = 3
	}
	if cfg.Screening.Retry.DelaySeconds == 0 {
		cfg.Screening.Retry.DelaySeconds = 2
	}
	if len(cfg.Screening.Weights) == 0 {
		cfg.Screening.Weights = map[string]float64{
			"skills_match":     0.40,
			"experience_years": 0.25,
			"education":        0.15,
			"relevance":        0.20,
		}
	}

	if cfg.Interview.DurationMinutes == 0 {
		cfg.Interview.DurationMinutes = 60
	}
	if cfg.Interview.HorizonDays == 0 {
		cfg.Interview.HorizonDays = 14
	}
	if cfg.Interview.NumQuestions == 0 {
		cfg.Interview.NumQuestions = 8
	}
	if cfg.Interview.Timezone == "" {
		cfg.Interview.Timezone = "Asia/Colombo"
	}
	if len(cfg.Interview.Windows) == 0 {
		cfg.Interview.Windows = []WindowConfig{
			{Start: "10:00", End: "12:00"},
			{Start: "14:00", End: "17:00"},
		}
	}

	if cfg.Booking.Backend == "" {
		cfg.Booking.Backend = "file"
	}
	if cfg.Booking.FilePath == "" {
		cfg.Booking.FilePath = "data/booked_slots.json"
	}

	if cfg.Results.Backend == "" {
		cfg.Results.Backend = "file"
	}
	if cfg.Results.FilePath == "" {
		cfg.Results.FilePath = "data/screening_results.jsonl"
	}
	if cfg.Results.Elasticsearch.Index == "" {
		cfg.Results.Elasticsearch.Index = "screening-results"
	}

	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.Integrations.Gemini.Model == "" {
		cfg.Integrations.Gemini.Model = "gemini-2.5-flash"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

func validateConfig(cfg *Config) error {
	var sum float64
	for name, w := range cfg.Screening.Weights {
		if w < 0 {
			return fmt.Errorf("screening weight %q is negative", name)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-6 {
		return fmt.Errorf("screening weights must sum to 1.0, got %.4f", sum)
	}

	th := cfg.Screening.Thresholds
	if th.Qualified < 0 || th.Qualified > 100 {
		return fmt.Errorf("qualified threshold %d outside [0,100]", th.Qualified)
	}
	if th.ModerateFit > th.StrongFit {
		return fmt.Errorf("moderate_fit threshold %d above strong_fit threshold %d", th.ModerateFit, th.StrongFit)
	}

	if cfg.Screening.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max_attempts must be >= 1, got %d", cfg.Screening.Retry.MaxAttempts)
	}
	if cfg.Screening.Retry.DelaySeconds < 0 {
		return fmt.Errorf("retry delay_seconds must be >= 0, got %d", cfg.Screening.Retry.DelaySeconds)
	}

	if cfg.Interview.DurationMinutes <= 0 {
		return fmt.Errorf("interview duration_minutes must be positive, got %d", cfg.Interview.DurationMinutes)
	}
	if cfg.Interview.HorizonDays < 1 {
		return fmt.Errorf("interview horizon_days must be >= 1, got %d", cfg.Interview.HorizonDays)
	}
	if _, err := time.LoadLocation(cfg.Interview.Timezone); err != nil {
		return fmt.Errorf("invalid interview timezone %q: %w", cfg.Interview.Timezone, err)
	}
	for i, w := range cfg.Interview.Windows {
		start, err := parseClock(w.Start)
		if err != nil {
			return fmt.Errorf("window %d start: %w", i, err)
		}
		end, err := parseClock(w.End)
		if err != nil {
			return fmt.Errorf("window %d end: %w", i, err)
		}
		if start >= end {
			return fmt.Errorf("window %d start %s not before end %s", i, w.Start, w.End)
		}
	}
	for _, h := range cfg.Interview.Holidays {
		if _, err := time.Parse("2006-01-02", h); err != nil {
			return fmt.Errorf("invalid holiday date %q: %w", h, err)
		}
	}

	switch cfg.Booking.Backend {
	case "file", "postgres", "redis":
	default:
		return fmt.Errorf("unknown booking backend %q", cfg.Booking.Backend)
	}
	switch cfg.Results.Backend {
	case "file", "postgres":
	default:
		return fmt.Errorf("unknown results backend %q", cfg.Results.Backend)
	}

	return nil
}

// parseClock parses "HH:MM" into minutes since midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}
