package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "app.db")
	path := writeConfig(t, `
server:
  port: 9000
database:
  path: `+dbPath+`
redis_service:
  enabled: true
  lock_ttl_seconds: 5
jwt:
  secret_key: file-secret
admin:
  password: adminpass
pagination:
  per_page: 20
log:
  level: debug
`)

	cfg, err := loadConfigFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Server.GetAddress())
	assert.Equal(t, "localhost:6379", cfg.Redis.GetAddress())
	assert.Equal(t, 5*time.Second, cfg.Redis.GetLockTTL())
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "file-secret", cfg.JWT.SecretKey)
	assert.Equal(t, "HS256", cfg.JWT.Algorithm)
	assert.Equal(t, 24*time.Hour, cfg.JWT.GetExpireDuration())
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, 20, cfg.Pagination.PerPage)
	assert.Equal(t, 100, cfg.Pagination.MaxPerPage)
	assert.Equal(t, "debug", cfg.Log.Level)

	// 数据库目录会被自动创建
	_, err = os.Stat(filepath.Dir(dbPath))
	assert.NoError(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
database:
  path: ":memory:"
jwt:
  secret_key: file-secret
admin:
  password: adminpass
`)
	t.Setenv("WEBSECURITY_JWT_SECRET_KEY", "env-secret")
	t.Setenv("WEBSECURITY_LOG_LEVEL", "warn")

	cfg, err := loadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.JWT.SecretKey)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestSecretsFromEnvOnly(t *testing.T) {
	path := writeConfig(t, `
database:
  path: ":memory:"
`)
	t.Setenv("WEBSECURITY_JWT_SECRET_KEY", "env-secret")
	t.Setenv("WEBSECURITY_ADMIN_PASSWORD", "env-admin")

	cfg, err := loadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.JWT.SecretKey)
	assert.Equal(t, "env-admin", cfg.Admin.Password)
}

func TestValidateConfig(t *testing.T) {
	for name, body := range map[string]string{
		"missing secret":   "database:\n  path: \":memory:\"\nadmin:\n  password: x\n",
		"missing password": "database:\n  path: \":memory:\"\njwt:\n  secret_key: s\n",
		"bad port":         "server:\n  port: 70000\ndatabase:\n  path: \":memory:\"\njwt:\n  secret_key: s\nadmin:\n  password: x\n",
		"bad log level":    "database:\n  path: \":memory:\"\njwt:\n  secret_key: s\nadmin:\n  password: x\nlog:\n  level: loud\n",
	} {
		_, err := loadConfigFromFile(writeConfig(t, body))
		assert.Error(t, err, name)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfigFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestPaginationNormalize(t *testing.T) {
	p := &PaginationConfig{PerPage: 10, MaxPerPage: 50}

	page, perPage := p.Normalize(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, perPage)

	page, perPage = p.Normalize(4, 80)
	assert.Equal(t, 4, page)
	assert.Equal(t, 50, perPage)
}
