package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubDotEnv(t *testing.T) {
	t.Helper()
	orig := loadDotEnv
	loadDotEnv = func(...string) error { return nil }
	t.Cleanup(func() { loadDotEnv = orig })
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, ":50051", c.GRPCAddr)
	assert.Equal(t, "postgres:///notes?sslmode=disable", c.DatabaseDSN)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 24*time.Hour, c.SessionValidityDuration)
	assert.Equal(t, SessionStorePostgres, c.SessionStore)
	assert.Equal(t, "127.0.0.1:6379", c.RedisAddr)
	assert.Equal(t, []string{"http://localhost:3000"}, c.AllowedOrigins)
	assert.Equal(t, 10, c.BcryptCost)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "notes", c.S3Bucket)
	assert.Equal(t, 15*time.Minute, c.ExportLinkValidity)
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	stubDotEnv(t)
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	c, err := LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, c, "LoadConfig must not return nil")

	var want Config
	want.LoadDefaults()
	assert.Equal(t, want.DatabaseDSN, c.DatabaseDSN)
	assert.Equal(t, want.SessionValidityDuration, c.SessionValidityDuration)
	assert.Equal(t, want.ExportLinkValidity, c.ExportLinkValidity)
}

func TestLoadConfig_Precedence(t *testing.T) {
	stubDotEnv(t)
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"http_addr":    ":7000",
		"grpc_addr":    ":7001",
		"database_dsn": "from-json",
	})
	t.Setenv("NOTES_GRPC_ADDR", ":7101")
	t.Setenv("NOTES_DATABASE_DSN", "from-env")
	os.Args = []string{"testbin", "-c", path, "-d", "from-flag"}

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":7000", c.HTTPAddr, "json over defaults")
	assert.Equal(t, ":7101", c.GRPCAddr, "env over json")
	assert.Equal(t, "from-flag", c.DatabaseDSN, "flags over env")
}

func TestLoadConfig_ReportsErrors(t *testing.T) {
	stubDotEnv(t)
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-k", "memcached"}

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown session store")
}

func TestValidate(t *testing.T) {
	var c Config
	c.LoadDefaults()
	c.BcryptCost = 2
	c.SecretKey = ""
	c.SessionValidityDuration = 0

	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bcrypt cost 2")
	assert.Contains(t, err.Error(), "secret key is empty")
	assert.Contains(t, err.Error(), "session validity")
}
