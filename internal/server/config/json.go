package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophnotes/internal/flagx"
	"github.com/dmitrijs2005/gophnotes/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept both
// "15m"-style strings and integer nanoseconds. Pointers distinguish "absent"
// from zero values for the fields where zero is meaningful.
type JsonConfig struct {
	HTTPAddr                string         `json:"http_addr"`
	GRPCAddr                string         `json:"grpc_addr"`
	DatabaseDSN             string         `json:"database_dsn"`
	SecretKey               string         `json:"secret_key"`
	SessionValidityDuration timex.Duration `json:"session_validity_duration"`
	SessionStore            string         `json:"session_store"`
	RedisAddr               string         `json:"redis_addr"`
	RedisPassword           string         `json:"redis_password"`
	RedisDB                 *int           `json:"redis_db"`
	CookieSecure            *bool          `json:"cookie_secure"`
	AllowedOrigins          []string       `json:"allowed_origins"`
	BcryptCost              int            `json:"bcrypt_cost"`
	RequestTimeout          timex.Duration `json:"request_timeout"`
	LogLevel                string         `json:"log_level"`
	S3RootUser              string         `json:"s3_root_user"`
	S3RootPassword          string         `json:"s3_root_password"`
	S3Bucket                *string        `json:"s3_bucket"`
	S3Region                string         `json:"s3_region"`
	S3BaseEndpoint          string         `json:"s3_base_endpoint"`
	ExportLinkValidity      timex.Duration `json:"export_link_validity"`
}

// parseJson overlays values from the JSON file named by -c/-config onto
// config. Fields missing from the file keep their current value.
func parseJson(config *Config) error {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", jsonConfigFile, err)
	}

	c.apply(config)
	return nil
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.SessionStore, c.SessionStore)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.S3Bucket != nil {
		config.S3Bucket = *c.S3Bucket
	}
	if c.RedisDB != nil {
		config.RedisDB = *c.RedisDB
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	if c.AllowedOrigins != nil {
		config.AllowedOrigins = c.AllowedOrigins
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.SessionValidityDuration.Duration != 0 {
		config.SessionValidityDuration = c.SessionValidityDuration.Duration
	}
	if c.RequestTimeout.Duration != 0 {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	if c.ExportLinkValidity.Duration != 0 {
		config.ExportLinkValidity = c.ExportLinkValidity.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
