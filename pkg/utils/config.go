package utils

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	Email    EmailConfig
	AI       AIConfig
	Redis    RedisConfig
	Admin    AdminConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
	SiteURL string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type SessionConfig struct {
	ExpiryHours int
}

type EmailConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	From         string
	AdminEmail   string
	SupportEmail string
	Workers      int
	QueueSize    int
}

// AIConfig holds the generative AI provider settings. An empty APIKey
// switches the assistant to demo mode.
type AIConfig struct {
	APIKey string
	Model  string
}

// AdminConfig is read by the create-admin and seed commands. The admin's
// email is Email.AdminEmail.
type AdminConfig struct {
	Username string
	Password string
}

type RedisConfig struct {
	Addr               string
	Password           string
	ResendCooldownSecs int
	MaxSendsPerHour    int
}

// LoadConfigFrom reads the .env file at path (if present) and the process
// environment. Environment variables win over the file.
func LoadConfigFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "knowledge-assistant")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("SITE_URL", "http://localhost:8080")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("SESSION_EXPIRY_HOURS", 24)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("EMAIL_FROM", "noreply@example.com")
	v.SetDefault("MAIL_WORKERS", 2)
	v.SetDefault("MAIL_QUEUE_SIZE", 100)
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("OTP_RESEND_COOLDOWN_SECONDS", 60)
	v.SetDefault("OTP_MAX_SENDS_PER_HOUR", 5)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	v.AutomaticEnv()

	from := v.GetString("EMAIL_FROM")
	adminEmail := v.GetString("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = from
	}
	supportEmail := v.GetString("SUPPORT_EMAIL")
	if supportEmail == "" {
		supportEmail = from
	}

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
			SiteURL: v.GetString("SITE_URL"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Session: SessionConfig{
			ExpiryHours: v.GetInt("SESSION_EXPIRY_HOURS"),
		},
		Email: EmailConfig{
			Host:         v.GetString("SMTP_HOST"),
			Port:         v.GetInt("SMTP_PORT"),
			User:         v.GetString("SMTP_USER"),
			Password:     v.GetString("SMTP_PASS"),
			From:         from,
			AdminEmail:   adminEmail,
			SupportEmail: supportEmail,
			Workers:      v.GetInt("MAIL_WORKERS"),
			QueueSize:    v.GetInt("MAIL_QUEUE_SIZE"),
		},
		AI: AIConfig{
			APIKey: v.GetString("GEMINI_API_KEY"),
			Model:  v.GetString("GEMINI_MODEL"),
		},
		Redis: RedisConfig{
			Addr:               v.GetString("REDIS_ADDR"),
			Password:           v.GetString("REDIS_PASSWORD"),
			ResendCooldownSecs: v.GetInt("OTP_RESEND_COOLDOWN_SECONDS"),
			MaxSendsPerHour:    v.GetInt("OTP_MAX_SENDS_PER_HOUR"),
		},
		Admin: AdminConfig{
			Username: v.GetString("ADMIN_USERNAME"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
	}

	return config, nil
}
