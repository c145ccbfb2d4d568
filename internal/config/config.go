package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ApprovalMode controls what happens when a student logs in from a device
// the system has never seen before.
type ApprovalMode string

const (
	// ApprovalModeAuto approves new devices immediately until the per-user
	// device quota is reached.
	ApprovalModeAuto ApprovalMode = "auto"
	// ApprovalModeManual queues new devices as pending until an admin
	// approves or denies them.
	ApprovalModeManual ApprovalMode = "manual"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string
	MySQLDSN   string
	RedisAddr  string
	RedisDB    int
	RedisPass  string
	JWTSecret  string

	// LoginApprovalMode selects the device approval policy for new devices.
	LoginApprovalMode ApprovalMode

	// FrontendBaseURL is used to build password reset links sent by email.
	FrontendBaseURL string

	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	EmailFrom string

	MediaCloudName string
	MediaAPIKey    string
	MediaAPISecret string
	MediaFolder    string

	SwaggerHost string
}

// Load builds Config from environment with sensible defaults. A .env file in
// the working directory is honoured when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		MySQLDSN:          getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/app?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		RedisPass:         os.Getenv("REDIS_PASSWORD"),
		JWTSecret:         getEnv("JWT_SECRET", "change-me"),
		LoginApprovalMode: approvalMode(getEnv("LOGIN_APPROVAL_MODE", string(ApprovalModeAuto))),
		FrontendBaseURL:   getEnv("FRONTEND_BASE_URL", "http://localhost:3000"),
		SMTPHost:          getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:          getEnvInt("SMTP_PORT", 465),
		SMTPUser:          os.Getenv("SMTP_USER"),
		SMTPPass:          os.Getenv("SMTP_PASSWORD"),
		EmailFrom:         getEnv("EMAIL_FROM", "no-reply@frenchnotes.app"),
		MediaCloudName:    os.Getenv("MEDIA_CLOUD_NAME"),
		MediaAPIKey:       os.Getenv("MEDIA_API_KEY"),
		MediaAPISecret:    os.Getenv("MEDIA_API_SECRET"),
		MediaFolder:       getEnv("MEDIA_FOLDER", "frenchnotes"),
		SwaggerHost:       os.Getenv("SWAGGER_HOST"),
	}
}

func approvalMode(v string) ApprovalMode {
	if ApprovalMode(v) == ApprovalModeManual {
		return ApprovalModeManual
	}
	return ApprovalModeAuto
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
