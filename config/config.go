package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Cloudinary CloudinaryConfig
	Gemini     GeminiConfig
	Mingle     MingleConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type GeminiConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// MingleConfig holds the simulated-event delays and profile limits. The
// delays are configurable so tests can run them in milliseconds.
type MingleConfig struct {
	RequestArrivalDelay time.Duration // incoming friend request shows up
	MatchSearchDelay    time.Duration // random match "searching" period
	AutoReplyDelay      time.Duration // scripted reply after a private message
}

func Load() *Config {
	_ = godotenv.Load() // optional .env; real env vars win

	return &Config{
		Server: ServerConfig{
			Port:         envOr("PORT", "8099"),
			Env:          envOr("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             envOr("DATABASE_DSN", "mingle:mingle@tcp(localhost:3306)/maldamingle?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			Secret: envOr("JWT_SECRET", "change-me-in-production"),
			Expiry: 168 * time.Hour,
			Issuer: "maldamingle",
		},
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		Gemini: GeminiConfig{
			BaseURL: envOr("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			APIKey:  os.Getenv("GEMINI_API_KEY"),
			Model:   envOr("GEMINI_MODEL", "gemini-3-flash-preview"),
		},
		Mingle: MingleConfig{
			RequestArrivalDelay: 8 * time.Second,
			MatchSearchDelay:    2 * time.Second,
			AutoReplyDelay:      1500 * time.Millisecond,
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
