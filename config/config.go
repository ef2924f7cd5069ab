package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration, sourced from environment variables.
type Config struct {
	DBDriver string `envconfig:"DB_DRIVER" default:"sqlite"`
	DBPath   string `envconfig:"DB_PATH" default:"enrollment.db"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"enrollnet"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"enrollnet"`

	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`
	APIKey   string `envconfig:"API_KEY"`

	// DataDir is scanned for enrollment files; term and year come from
	// the filename (e.g. fall_2019.csv).
	DataDir   string `envconfig:"DATA_DIR" default:"data"`
	OutputDir string `envconfig:"OUTPUT_DIR" default:"output"`

	// Default analysis window when no explicit bounds are given.
	StartYear int `envconfig:"START_YEAR" default:"1995"`
	EndYear   int `envconfig:"END_YEAR" default:"2025"`

	// BetweennessMaxNodes caps the graph size for betweenness centrality.
	BetweennessMaxNodes int `envconfig:"BETWEENNESS_MAX_NODES" default:"1000"`

	CronSchedule string `envconfig:"CRON_SCHEDULE"`

	S3Key    string `envconfig:"S3_KEY"`
	S3Secret string `envconfig:"S3_SECRET"`
	S3URL    string `envconfig:"S3_URL"`
	S3Region string `envconfig:"S3_REGION" default:"eu-central-1"`
	S3Bucket string `envconfig:"S3_BUCKET"`
}

// DSN returns the Data Source Name for the PostgreSQL connection.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// S3Enabled reports whether an object store is configured for uploads.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Key != "" && c.S3Secret != ""
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
