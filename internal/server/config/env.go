package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "NOTES_"

// loadDotEnv is a seam for godotenv.Load.
var loadDotEnv = godotenv.Load

// parseEnv overlays NOTES_* environment variables onto config. Variables from
// a dotenv file (-env path, or ./.env when present) are loaded first but never
// override variables already set in the process environment.
//
// All malformed values are reported together in one error.
func parseEnv(config *Config) error {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := loadDotEnv(path); err != nil {
			return fmt.Errorf("loading env file: %w", err)
		}
	} else if err := loadDotEnv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	var errs []string

	config.HTTPAddr = getOptionalEnv("HTTP_ADDR", config.HTTPAddr)
	config.GRPCAddr = getOptionalEnv("GRPC_ADDR", config.GRPCAddr)
	config.DatabaseDSN = getOptionalEnv("DATABASE_DSN", config.DatabaseDSN)
	config.SecretKey = getOptionalEnv("SECRET_KEY", config.SecretKey)
	config.SessionValidityDuration = getOptionalEnvDuration("SESSION_VALIDITY", config.SessionValidityDuration, &errs)
	config.SessionStore = getOptionalEnv("SESSION_STORE", config.SessionStore)
	config.RedisAddr = getOptionalEnv("REDIS_ADDR", config.RedisAddr)
	config.RedisPassword = getOptionalEnv("REDIS_PASSWORD", config.RedisPassword)
	config.RedisDB = getOptionalEnvInt("REDIS_DB", config.RedisDB, &errs)
	config.CookieSecure = getOptionalEnvBool("COOKIE_SECURE", config.CookieSecure, &errs)
	config.AllowedOrigins = getOptionalEnvList("ALLOWED_ORIGINS", config.AllowedOrigins)
	config.BcryptCost = getOptionalEnvInt("BCRYPT_COST", config.BcryptCost, &errs)
	config.RequestTimeout = getOptionalEnvDuration("REQUEST_TIMEOUT", config.RequestTimeout, &errs)
	config.LogLevel = getOptionalEnv("LOG_LEVEL", config.LogLevel)
	config.S3RootUser = getOptionalEnv("S3_ROOT_USER", config.S3RootUser)
	config.S3RootPassword = getOptionalEnv("S3_ROOT_PASSWORD", config.S3RootPassword)
	config.S3Bucket = getOptionalEnv("S3_BUCKET", config.S3Bucket)
	config.S3Region = getOptionalEnv("S3_REGION", config.S3Region)
	config.S3BaseEndpoint = getOptionalEnv("S3_BASE_ENDPOINT", config.S3BaseEndpoint)
	config.ExportLinkValidity = getOptionalEnvDuration("EXPORT_LINK_VALIDITY", config.ExportLinkValidity, &errs)

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n - %s", strings.Join(errs, "\n - "))
	}
	return nil
}

func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(envPrefix + key); exists {
		return value
	}
	return defaultValue
}

func getOptionalEnvInt(key string, defaultValue int, errs *[]string) int {
	valueStr, exists := os.LookupEnv(envPrefix + key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s%s: expected integer, got '%s'", envPrefix, key, valueStr))
		return defaultValue
	}
	return value
}

func getOptionalEnvBool(key string, defaultValue bool, errs *[]string) bool {
	valueStr, exists := os.LookupEnv(envPrefix + key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s%s: expected boolean, got '%s'", envPrefix, key, valueStr))
		return defaultValue
	}
	return value
}

func getOptionalEnvDuration(key string, defaultValue time.Duration, errs *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(envPrefix + key)
	if !exists {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s%s: expected duration string, got '%s'", envPrefix, key, valueStr))
		return defaultValue
	}
	return value
}

// getOptionalEnvList splits a comma separated value, dropping empty items.
func getOptionalEnvList(key string, defaultValue []string) []string {
	valueStr, exists := os.LookupEnv(envPrefix + key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
