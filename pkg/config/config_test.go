package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "test-config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))
	return configPath
}

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		configContent := `
server:
  listen: ":9090"
  timeout: 45s

site:
  url: https://example.com
  public_dir: /var/www/public

refresh:
  interval: 12h
  max_workers: 3

email:
  host: smtp.example.com
  from: noreply@example.com
  recipients:
    - owner@example.com
`
		cfg, err := Load(writeConfig(t, configContent))
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "https://example.com", cfg.Site.URL)
		assert.Equal(t, "/var/www/public", cfg.Site.PublicDir)
		assert.Equal(t, 12*time.Hour, cfg.Refresh.Interval)
		assert.Equal(t, 3, cfg.Refresh.MaxWorkers)
		assert.Equal(t, []string{"owner@example.com"}, cfg.Email.Recipients)
	})

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "site:\n  url: https://example.com\n"))
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, ":8080", cfg.Server.Listen)
		assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "file:blogroll.db?cache=shared&mode=rwc&_txlock=immediate", cfg.Database.DSN)
		assert.Equal(t, 10, cfg.Database.MaxOpenConns)
		assert.Equal(t, "./public", cfg.Site.PublicDir)
		assert.Equal(t, 24*time.Hour, cfg.Refresh.Interval)
		assert.Equal(t, 5, cfg.Refresh.MaxWorkers)
		assert.Equal(t, 30*time.Second, cfg.Metadata.Timeout)
		assert.Equal(t, 587, cfg.Email.Port)
	})

	t.Run("environment variables are expanded", func(t *testing.T) {
		t.Setenv("TEST_SMTP_PASSWORD", "secret")
		configContent := `
site:
  url: https://example.com
email:
  host: smtp.example.com
  password: ${TEST_SMTP_PASSWORD}
  from: noreply@example.com
  recipients: [owner@example.com]
`
		cfg, err := Load(writeConfig(t, configContent))
		require.NoError(t, err)
		assert.Equal(t, "secret", cfg.Email.Password)
	})

	t.Run("site url is required", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "server:\n  listen: \":8080\"\n"))
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "site.url is required")
	})

	t.Run("site url must be absolute", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "site:\n  url: /relative\n"))
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "site.url must be an absolute http(s) URL")
	})

	t.Run("email needs recipients", func(t *testing.T) {
		configContent := `
site:
  url: https://example.com
email:
  host: smtp.example.com
  from: noreply@example.com
`
		cfg, err := Load(writeConfig(t, configContent))
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "email.recipients is required")
	})

	t.Run("file not found", func(t *testing.T) {
		cfg, err := Load("/non/existent/file.yml")
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configContent := `
invalid yaml content
  with bad indentation
    and no structure
`
		cfg, err := Load(writeConfig(t, configContent))
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "parse config")
	})
}

func TestConfig_GetServerConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  listen: \":9090\"\n  timeout: 45s\nsite:\n  url: https://example.com\n"))
	require.NoError(t, err)

	listen, timeout := cfg.GetServerConfig()
	assert.Equal(t, ":9090", listen)
	assert.Equal(t, 45*time.Second, timeout)
	assert.Equal(t, "./public", cfg.GetPublicDir())
}

func TestConfig_SiteURL(t *testing.T) {
	cfg, err := Load(writeConfig(t, "site:\n  url: https://example.com/blog\n"))
	require.NoError(t, err)

	u := cfg.SiteURL()
	require.NotNil(t, u)
	assert.Equal(t, "example.com", u.Host)
	assert.Equal(t, "/blog", u.Path)
}
