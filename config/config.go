package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the API needs at start-up.
type Config struct {
	Port        string
	Env         string
	LogLevel    string
	CORSOrigins string

	DatabaseURL    string
	DBMaxOpenConns int
	DBMaxIdleConns int

	RedisAddr     string
	RedisPassword string

	JWTSecret string
	JWTTTL    time.Duration

	Location *time.Location

	SMTP       SMTPConfig
	Cloudinary CloudinaryConfig

	OTPTTL       time.Duration
	ReminderCron string
}

// SMTPConfig holds outgoing mail settings
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

// CloudinaryConfig holds Cloudinary configuration
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// IsProduction reports whether the API runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	loc, err := time.LoadLocation(v.GetString("APP_TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	cfg := &Config{
		Port:           v.GetString("PORT"),
		Env:            v.GetString("APP_ENV"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		CORSOrigins:    v.GetString("CORS_ORIGINS"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		DBMaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTTTL:         time.Duration(v.GetInt("JWT_TTL_HOURS")) * time.Hour,
		Location:       loc,
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("EMAIL_USER"),
			Password: v.GetString("EMAIL_PASS"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: v.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:    v.GetString("CLOUDINARY_API_KEY"),
			APISecret: v.GetString("CLOUDINARY_API_SECRET"),
			Folder:    v.GetString("CLOUDINARY_FOLDER"),
		},
		OTPTTL:       time.Duration(v.GetInt("OTP_TTL_MINUTES")) * time.Minute,
		ReminderCron: v.GetString("REMINDER_CRON"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("JWT_TTL_HOURS", 24)
	v.SetDefault("APP_TIMEZONE", "UTC")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("CLOUDINARY_FOLDER", "Kure_Application")
	v.SetDefault("OTP_TTL_MINUTES", 5)
	v.SetDefault("REMINDER_CRON", "0 18 * * *")
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("JWT_SECRET is not set")
		}
		c.JWTSecret = "solid_secret_key"
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL_HOURS must be positive")
	}
	if c.OTPTTL <= 0 {
		return fmt.Errorf("OTP_TTL_MINUTES must be positive")
	}
	return nil
}
