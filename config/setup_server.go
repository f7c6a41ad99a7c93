package config

import (
	"fmt"
	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"
	"net/http"
	"os"
	"time"
)

const (
	ModePostgres = "postgres"
	ModeMemory   = "memory"
)

type AppConfig struct {
	Mode           string          `yaml:"mode" validate:"oneof=postgres memory"`
	Server         ServerConfig    `yaml:"server"`
	DatabaseConfig DatabaseConfig  `yaml:"databaseConfig"`
	RedisConfig    RedisConfig     `yaml:"redisConfig"`
	S3Config       S3Config        `yaml:"s3Config"`
	JWT            JWTConfig       `yaml:"jwt"`
	TTL            TTL             `yaml:"TTL"`
	Trash          TrashConfig     `yaml:"trash"`
	Quota          QuotaConfig     `yaml:"quota"`
	Tree           TreeConfig      `yaml:"tree"`
	Retry          RetryConfig     `yaml:"retry"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Logging        LoggingConfig   `yaml:"logging"`
}

// DefaultConfig : values used for every key missing from config.yaml
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Mode: ModePostgres,
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
			RequestTimeout:  30 * time.Second,
			MaxUploadBytes:  512 << 20,
		},
		DatabaseConfig: DatabaseConfig{MaxOpenConns: 25, Migrate: true},
		S3Config:       S3Config{Region: "us-east-1", MaxAttempts: 3, Backend: "s3"},
		JWT:            JWTConfig{Issuer: "cloud-drive", AccessTokenTTL: time.Hour},
		TTL:            TTL{SignedURL: 15 * time.Minute, ShareCache: 5 * time.Minute},
		Trash:          TrashConfig{Retention: 30 * 24 * time.Hour, SweepInterval: time.Hour, BatchSize: 500},
		Quota:          QuotaConfig{DefaultLimit: 15 << 30},
		Tree:           TreeConfig{MaxDepth: 256},
		Retry:          RetryConfig{Attempts: 4, BaseDelay: 100 * time.Millisecond},
		RateLimit:      RateLimitConfig{PublicRPS: 5, PublicBurst: 20},
		Logging:        LoggingConfig{Level: "info", Format: "json"},
	}
}

// LoadConfig : defaults, then config.yaml (if present), then DRIVE_* environment, then validation
func LoadConfig(path string) (*AppConfig, error) {
	cfg := DefaultConfig()

	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func SetupServer(cfg ServerConfig) (*http.Server, *chi.Mux) {
	router := chi.NewRouter()
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return server, router
}

func SetupDatabase(cfg DatabaseConfig) (*Database, error) {
	return NewDatabaseConnection("postgres", cfg.DSN, cfg.MaxOpenConns)
}

func SetupRedis(cfg *RedisConfig) (*RedisClient, error) {
	return NewRedisClient(cfg)
}
