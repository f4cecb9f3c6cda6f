package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"4000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	AutoMigrate bool   `envconfig:"AUTO_MIGRATE" default:"true"`

	// Landmarks
	LandmarkProvider string `envconfig:"LANDMARK_PROVIDER" default:"mock"`
	LandmarkURL      string `envconfig:"LANDMARK_URL" default:"http://localhost:5006"`

	// Face gate
	FaceGate  string `envconfig:"FACE_GATE" default:"none"`
	AWSRegion string `envconfig:"AWS_REGION" default:"us-east-1"`

	// Vision
	VisionProvider string        `envconfig:"VISION_PROVIDER" default:"mock"`
	OpenAIAPIKey   string        `envconfig:"OPENAI_API_KEY"`
	OpenAIModel    string        `envconfig:"OPENAI_MODEL" default:"gpt-4o"`
	GeminiAPIKey   string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel    string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	VisionCacheTTL time.Duration `envconfig:"VISION_CACHE_TTL" default:"24h"`
	VisionQuota    int           `envconfig:"VISION_QUOTA" default:"0"`
	VisionQuotaWin time.Duration `envconfig:"VISION_QUOTA_WINDOW" default:"24h"`

	// Cache
	CacheCleanupInterval time.Duration `envconfig:"CACHE_CLEANUP_INTERVAL" default:"1h"`

	// Assets
	AssetDir      string `envconfig:"ASSET_DIR" default:"./public"`
	MaxImageBytes int64  `envconfig:"MAX_IMAGE_BYTES" default:"10485760"`

	// Security
	AdminAPIKey     string        `envconfig:"ADMIN_API_KEY"`
	RateLimitMax    int           `envconfig:"RATE_LIMIT_MAX" default:"30"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
	VisionRateLimit int           `envconfig:"VISION_RATE_LIMIT_MAX" default:"10"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
