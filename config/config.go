package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime parameter, sourced from environment variables.
type Config struct {
	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`

	// Directory holding the JSON collection files.
	DataDir string `envconfig:"DATA_DIR" default:"./data"`

	JWTSecret     string `envconfig:"JWT_SECRET" required:"true"`
	AllowedOrigin string `envconfig:"CORS_ALLOWED_ORIGIN" default:"*"`

	// Cron spec for the expired-advertisement sweep.
	AdCleanupSchedule string `envconfig:"AD_CLEANUP_SCHEDULE" default:"@hourly"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
