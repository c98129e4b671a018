package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string
	DatabaseURL      string
	RedisURL         string
	JWTSecret        string
	EncryptionKey    string
	OpenAIAPIKey     string
	AIModel          string
	NATSURL          string
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageUseSSL    bool
	SendGridAPIKey   string
	MailFromName     string
	MailFromEmail    string
	GradingTimeout   time.Duration
	EmailTimeout     time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
// Secrets required for every request (JWT signing key, access-key encryption key)
// are validated here so a misconfigured deployment fails at startup, not mid-request.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "CourseMaker API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("storage.bucket", "submissions")
	v.SetDefault("mail.from_name", "AI Course Maker")
	v.SetDefault("grading.timeout", "90s")
	v.SetDefault("email.timeout", "15s")

	gradingTimeout, err := time.ParseDuration(v.GetString("grading.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid grading timeout: %w", err)
	}

	emailTimeout, err := time.ParseDuration(v.GetString("email.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid email timeout: %w", err)
	}

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          v.GetString("app.port"),
		DatabaseURL:      v.GetString("database.url"),
		RedisURL:         v.GetString("redis.url"),
		JWTSecret:        v.GetString("jwt.secret"),
		EncryptionKey:    v.GetString("encryption.key"),
		OpenAIAPIKey:     v.GetString("openai_api_key"),
		AIModel:          v.GetString("ai.model"),
		NATSURL:          v.GetString("nats.url"),
		StorageEndpoint:  v.GetString("storage.endpoint"),
		StorageAccessKey: v.GetString("storage.access_key"),
		StorageSecretKey: v.GetString("storage.secret_key"),
		StorageBucket:    v.GetString("storage.bucket"),
		StorageUseSSL:    v.GetBool("storage.use_ssl"),
		SendGridAPIKey:   v.GetString("sendgrid_api_key"),
		MailFromName:     v.GetString("mail.from_name"),
		MailFromEmail:    v.GetString("mail.from_email"),
		GradingTimeout:   gradingTimeout,
		EmailTimeout:     emailTimeout,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.EncryptionKey == "" {
		return Config{}, fmt.Errorf("encryption key must be provided")
	}

	return cfg, nil
}
