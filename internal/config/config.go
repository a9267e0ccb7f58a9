package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Canvas   CanvasConfig   `mapstructure:"canvas" validate:"required"`
	Calendar CalendarConfig `mapstructure:"calendar"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lte=44640"`
	BCryptCost           int    `mapstructure:"bcrypt_cost" validate:"required,gte=4,lte=31"`
}

// LLMConfig contains the generation service settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name" validate:"required"`
	// PromptTemplatePath overrides the embedded scheduling instruction template.
	PromptTemplatePath string        `mapstructure:"prompt_template_path"`
	MaxRetries         int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds  int           `mapstructure:"retry_delay_seconds" validate:"gte=1,lte=60"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout" validate:"required,gt=0"`
}

// CanvasConfig contains the course service client settings.
type CanvasConfig struct {
	BaseURL           string        `mapstructure:"base_url" validate:"required,url"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout" validate:"required,gt=0"`
	MaxPages          int           `mapstructure:"max_pages" validate:"required,gt=0"`
	PerPage           int           `mapstructure:"per_page" validate:"required,gt=0,lte=100"`
	CourseConcurrency int           `mapstructure:"course_concurrency" validate:"required,gt=0,lte=32"`
}

// CalendarConfig controls publishing assigned blocks to Google Calendar.
type CalendarConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	CredentialsFile string `mapstructure:"credentials_file" validate:"required_if=Enabled true"`
	CalendarID      string `mapstructure:"calendar_id" validate:"required_if=Enabled true"`
	// TimeZone is the IANA zone block times are interpreted in.
	TimeZone string `mapstructure:"time_zone" validate:"required"`
}
