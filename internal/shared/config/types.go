package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host" validate:"required"`
	Port           int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	Mode           string   `mapstructure:"mode" validate:"oneof=debug release test"`
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host" validate:"required"`
	Port            int    `mapstructure:"port" validate:"required"`
	Username        string `mapstructure:"username" validate:"required"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database" validate:"required"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format" validate:"omitempty,oneof=console json"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"required"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret" validate:"required"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes" validate:"min=1"`
}

type AuthConfig struct {
	JWT        JWTConfig     `mapstructure:"jwt"`
	CookieName string        `mapstructure:"cookie_name"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
	// APIKey guards the service-to-service payment lookup.
	APIKey       string `mapstructure:"api_key" validate:"required"`
	APIKeyHeader string `mapstructure:"api_key_header"`
}

// UsageLimits are per-window caps; zero means unlimited.
type UsageLimits struct {
	Anonymous    int64 `mapstructure:"anonymous" validate:"min=0"`
	Free         int64 `mapstructure:"free" validate:"min=0"`
	Premium      int64 `mapstructure:"premium" validate:"min=0"`
	Professional int64 `mapstructure:"professional" validate:"min=0"`
}

type UsageConfig struct {
	Window time.Duration `mapstructure:"window" validate:"gt=0"`
	Limits UsageLimits   `mapstructure:"limits"`
}

// PaymentAuthorityConfig describes one regional payment authority. The list
// order in PaymentConfig.Authorities is the query precedence.
type PaymentAuthorityConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
}

type PaymentConfig struct {
	Authorities      []PaymentAuthorityConfig `mapstructure:"authorities" validate:"required,min=1,dive"`
	SecretHeader     string                   `mapstructure:"secret_header" validate:"required"`
	Secret           string                   `mapstructure:"secret"`
	AuthorityTimeout time.Duration            `mapstructure:"authority_timeout" validate:"gt=0"`
	// SyncRateLimit caps payment-sync requests per caller per minute; zero disables it.
	SyncRateLimit int `mapstructure:"sync_rate_limit" validate:"min=0"`
}
