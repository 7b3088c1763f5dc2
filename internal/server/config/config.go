// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment and command-line flags.
package config

import (
	"time"
)

// Session store backends.
const (
	SessionStorePostgres = "postgres"
	SessionStoreRedis    = "redis"
)

// Config holds runtime settings for the notes server.
//
// Fields:
//   - HTTPAddr / GRPCAddr: bind addresses for the web and gRPC endpoints.
//   - DatabaseDSN: PostgreSQL DSN (pgx).
//   - SecretKey: HMAC secret for signing session tokens (HS256).
//   - SessionValidityDuration: how long a login lasts.
//   - SessionStore: "postgres" or "redis"; Redis* configure the latter.
//   - S3*: object storage for note exports. An empty S3Bucket disables exports.
type Config struct {
	HTTPAddr                string
	GRPCAddr                string
	DatabaseDSN             string
	SecretKey               string
	SessionValidityDuration time.Duration
	SessionStore            string
	RedisAddr               string
	RedisPassword           string
	RedisDB                 int
	CookieSecure            bool
	AllowedOrigins          []string
	BcryptCost              int
	RequestTimeout          time.Duration
	LogLevel                string
	S3RootUser              string
	S3RootPassword          string
	S3Bucket                string
	S3Region                string
	S3BaseEndpoint          string
	ExportLinkValidity      time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey and the S3 credentials must be overridden in production.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.GRPCAddr = ":50051"
	c.DatabaseDSN = "postgres:///notes?sslmode=disable"
	c.SecretKey = "secretKey"
	c.SessionValidityDuration = 24 * time.Hour
	c.SessionStore = SessionStorePostgres
	c.RedisAddr = "127.0.0.1:6379"
	c.AllowedOrigins = []string{"http://localhost:3000"}
	c.BcryptCost = 10
	c.RequestTimeout = 30 * time.Second
	c.LogLevel = "info"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "notes"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.ExportLinkValidity = 15 * time.Minute
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment (and .env file) and finally
// command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
