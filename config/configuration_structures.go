package config

import "time"

type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
	RequestTimeout  time.Duration `yaml:"request_timeout" validate:"gt=0"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" validate:"gt=0"`
}

type DatabaseConfig struct {
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns" validate:"gte=0"`
	Migrate      bool   `yaml:"migrate"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr" validate:"required_if=Enabled true"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"gte=0"`
}

type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	Local           bool   `yaml:"local"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	MaxAttempts     int    `yaml:"max_attempts" validate:"gte=0"`
	Backend         string `yaml:"backend" validate:"oneof=s3 memory"`
}

type JWTConfig struct {
	SecretKey      string        `yaml:"secret_key" validate:"required,min=16"`
	Issuer         string        `yaml:"issuer"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" validate:"gt=0"`
	// AdminToken : static bearer token with admin rights, empty disables it
	AdminToken string `yaml:"admin_token"`
}

// TTL : lifetimes of signed URLs and cached share records
type TTL struct {
	SignedURL  time.Duration `yaml:"signed_url" validate:"gt=0"`
	ShareCache time.Duration `yaml:"share_cache" validate:"gt=0"`
}

type TrashConfig struct {
	Retention     time.Duration `yaml:"retention" validate:"gt=0"`
	SweepInterval time.Duration `yaml:"sweep_interval" validate:"gt=0"`
	BatchSize     int           `yaml:"batch_size" validate:"gt=0,lte=10000"`
}

type QuotaConfig struct {
	DefaultLimit int64 `yaml:"default_limit" validate:"gt=0"`
}

type TreeConfig struct {
	MaxDepth int `yaml:"max_depth" validate:"gt=0"`
}

type RetryConfig struct {
	Attempts  uint64        `yaml:"attempts" validate:"gt=0,lte=20"`
	BaseDelay time.Duration `yaml:"base_delay" validate:"gt=0"`
}

type RateLimitConfig struct {
	PublicRPS   float64 `yaml:"public_rps" validate:"gt=0"`
	PublicBurst int     `yaml:"public_burst" validate:"gt=0"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}
