package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Default values applied when neither config file nor environment sets a key.
var defaults = map[string]interface{}{
	"server.port":                 8080,
	"server.log_level":            "info",
	"auth.token_lifetime_minutes":         60,
	"auth.refresh_token_lifetime_minutes": 10080,
	"auth.bcrypt_cost":            0,
	"session.ttl_minutes":         60,
	"llm.model_name":              "gemini-2.0-flash",
	"llm.max_retries":             3,
	"llm.retry_delay_seconds":     2,
	"job.worker_count":            2,
	"job.queue_size":              100,
	"job.stuck_job_age_minutes":   30,
	"job.reminder_poll_seconds":   60,
}

// Keys with no default that can still come from the environment. Viper only
// considers env values for keys it already knows about, so they are bound
// explicitly.
var envOnlyKeys = []string{
	"database.url",
	"auth.jwt_secret",
	"llm.gemini_api_key",
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// Optional config file next to the binary or in /etc
	v.SetConfigName("studycoach")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/studycoach")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables such as STUDYCOACH_DATABASE_URL override
	// anything from the file.
	v.SetEnvPrefix("STUDYCOACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key := range defaults {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}
	for _, key := range envOnlyKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
