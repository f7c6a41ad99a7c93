package config

import (
	"github.com/spf13/viper"
	"strings"
)

// applyEnvOverrides : DRIVE_* variables win over config.yaml, e.g. DRIVE_DATABASE_DSN
func applyEnvOverrides(cfg *AppConfig) {
	v := viper.New()
	v.SetEnvPrefix("drive")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	overrideString(v, "mode", &cfg.Mode)
	overrideString(v, "server.addr", &cfg.Server.Addr)
	overrideString(v, "database.dsn", &cfg.DatabaseConfig.DSN)
	overrideString(v, "redis.addr", &cfg.RedisConfig.Addr)
	overrideString(v, "redis.password", &cfg.RedisConfig.Password)
	overrideString(v, "s3.bucket", &cfg.S3Config.Bucket)
	overrideString(v, "s3.region", &cfg.S3Config.Region)
	overrideString(v, "s3.endpoint", &cfg.S3Config.Endpoint)
	overrideString(v, "s3.access_key_id", &cfg.S3Config.AccessKeyID)
	overrideString(v, "s3.secret_access_key", &cfg.S3Config.SecretAccessKey)
	overrideString(v, "jwt.secret_key", &cfg.JWT.SecretKey)
	overrideString(v, "jwt.admin_token", &cfg.JWT.AdminToken)
	overrideString(v, "logging.level", &cfg.Logging.Level)

	if v.IsSet("redis.enabled") {
		cfg.RedisConfig.Enabled = v.GetBool("redis.enabled")
	}
	if v.IsSet("trash.retention") {
		cfg.Trash.Retention = v.GetDuration("trash.retention")
	}
	if v.IsSet("quota.default_limit") {
		cfg.Quota.DefaultLimit = v.GetInt64("quota.default_limit")
	}
}

func overrideString(v *viper.Viper, key string, target *string) {
	if value := v.GetString(key); value != "" {
		*target = value
	}
}
