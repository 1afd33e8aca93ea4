package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Session  SessionConfig  `mapstructure:"session" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Job      JobConfig      `mapstructure:"job" validate:"required"`
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
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	// RefreshTokenLifetimeMinutes controls how long refresh tokens stay
	// valid. Defaults to seven days.
	RefreshTokenLifetimeMinutes int `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
	BCryptCost           int    `mapstructure:"bcrypt_cost" validate:"gte=0,lte=31"`
}

// SessionConfig contains focus session behavior settings.
type SessionConfig struct {
	// TTLMinutes is how long a live session may sit idle before it is
	// treated as abandoned.
	TTLMinutes int `mapstructure:"ttl_minutes" validate:"required,gt=0"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name" validate:"required"`
	// MaxRetries bounds how many times a failed generation call is
	// retried before giving up.
	MaxRetries        int `mapstructure:"max_retries" validate:"gte=0"`
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}

// JobConfig contains background job processing settings.
type JobConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize   int `mapstructure:"queue_size" validate:"required,gt=0"`
	// StuckJobAgeMinutes is how long a job may sit in the processing
	// state before it is reset for another attempt.
	StuckJobAgeMinutes int `mapstructure:"stuck_job_age_minutes" validate:"required,gt=0"`
	// ReminderPollSeconds controls how often due task reminders are
	// collected and dispatched.
	ReminderPollSeconds int `mapstructure:"reminder_poll_seconds" validate:"required,gt=0"`
}
