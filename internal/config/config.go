package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/mamadbah2/flockwatch/internal/domain/models"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	WhatsApp  WhatsAppConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
	AI        AIConfig
	MongoDB   MongoDBConfig
	Analytics AnalyticsConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	VerifyToken   string
	BaseURL       string
	APIVersion    string
	GroupID       string
	ManagerID     string
	// AppSecret enables X-Hub-Signature-256 checks on webhook posts when set.
	AppSecret     string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	// CacheTTL bounds how long a loaded workbook snapshot is reused. Zero disables caching.
	CacheTTL        time.Duration
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule       string
	WeeklyCronSchedule string
	Timezone           string
}

// AIConfig holds settings for LLM providers. An empty key disables free-text translation.
type AIConfig struct {
	AnthropicKey string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// AnalyticsConfig carries the farm thresholds used when the sheet has no Settings tab.
type AnalyticsConfig struct {
	MinFeedStock    float64
	MaxMortality    float64
	AlertDaysBefore int
	ForecastDays    int
}

// Settings converts the thresholds into engine settings, falling back to defaults.
func (a AnalyticsConfig) Settings() models.Settings {
	return models.Settings{
		MinFeedStock:    a.MinFeedStock,
		MaxMortality:    a.MaxMortality,
		AlertDaysBefore: a.AlertDaysBefore,
	}.WithDefaults()
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance. Only the core settings are validated here;
// the server calls ValidateServer on top.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// missing .env is fine, the environment may already be populated
		_ = godotenv.Load()
	}

	analytics, err := loadAnalytics()
	if err != nil {
		return nil, err
	}

	cacheTTL, err := getenvDuration("SHEETS_CACHE_TTL", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			VerifyToken:   os.Getenv("META_VERIFY_TOKEN"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			GroupID:       os.Getenv("WHATSAPP_GROUP_ID"),
			ManagerID:     os.Getenv("WHATSAPP_MANAGER_ID"),
			AppSecret:     os.Getenv("WHATSAPP_APP_SECRET"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			CacheTTL:        cacheTTL,
		},
		Reporting: ReportingConfig{
			CronSchedule:       getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * *"),
			WeeklyCronSchedule: getenvWithDefault("WEEKLY_REPORT_CRON_SCHEDULE", "0 20 * * 5"),
			Timezone:           getenvWithDefault("TIMEZONE", "Africa/Conakry"),
		},
		AI: AIConfig{
			AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "flockwatch"),
		},
		Analytics: analytics,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures the settings every entrypoint needs are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
	}

	if c.Sheets.SpreadsheetID == "" {
		return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided")
	}

	if c.Analytics.ForecastDays <= 0 {
		return errors.New("FORECAST_DAYS must be positive")
	}

	return nil
}

// ValidateServer adds the requirements of the long-running server: WhatsApp
// credentials, snapshot storage and the report schedules.
func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.WhatsApp.AccessToken == "":
		return errors.New("WHATSAPP_TOKEN must be provided")
	case c.WhatsApp.PhoneNumberID == "":
		return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
	case c.WhatsApp.VerifyToken == "":
		return errors.New("META_VERIFY_TOKEN must be provided")
	case c.WhatsApp.BaseURL == "":
		return errors.New("WHATSAPP_BASE_URL must not be empty")
	case c.WhatsApp.APIVersion == "":
		return errors.New("WHATSAPP_API_VERSION must not be empty")
	case c.WhatsApp.GroupID == "":
		return errors.New("WHATSAPP_GROUP_ID must be provided")
	}

	if c.WhatsApp.ManagerID == "" {
		c.WhatsApp.ManagerID = c.WhatsApp.GroupID
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.WeeklyCronSchedule == "" {
		return errors.New("WEEKLY_REPORT_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	return nil
}

func loadAnalytics() (AnalyticsConfig, error) {
	var (
		cfg AnalyticsConfig
		err error
	)
	if cfg.MinFeedStock, err = getenvFloat("MIN_FEED_STOCK_KG", models.DefaultMinFeedStock); err != nil {
		return cfg, err
	}
	if cfg.MaxMortality, err = getenvFloat("MAX_MORTALITY_PCT", models.DefaultMaxMortality); err != nil {
		return cfg, err
	}
	if cfg.AlertDaysBefore, err = getenvInt("ALERT_DAYS_BEFORE", models.DefaultAlertDaysBefore); err != nil {
		return cfg, err
	}
	if cfg.ForecastDays, err = getenvInt("FORECAST_DAYS", 7); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return v, nil
}

func getenvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return v, nil
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return v, nil
}
