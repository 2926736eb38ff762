package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"portfolio/internal/domain"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"PORT", "CHROME_PATH", "BROWSER_DRIVER", "EXPORTS_DATABASE_URL", "LOG_LEVEL", "SITE_BASE_URL"} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingOptionalFileGivesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "http://127.0.0.1:3000/resume", cfg.PageURL())

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"), true)
	assert.Error(t, err)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
server:
  port: "8080"
browser:
  driver: rod
export:
  settle_delay: 250ms
  options:
    mode: print
    page:
      orientation: landscape
`)
	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "rod", cfg.Browser.Driver)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 250*time.Millisecond, cfg.Export.SettleDelay)
	assert.Equal(t, domain.RenderModePrint, cfg.Export.Options.Mode)
	assert.Equal(t, "landscape", cfg.Export.Options.Page.Orientation)
	assert.Equal(t, "a4", cfg.Export.Options.Page.Format)
	assert.Equal(t, "resume-content", cfg.Export.TargetElementID)
}

func TestLoad_EnvWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("EXPORTS_DATABASE_URL", "postgres://x@db/exports")
	t.Setenv("SITE_BASE_URL", "https://jane.dev/resume")
	cfg, err := Load(writeFile(t, "server:\n  port: \"8080\"\n"), true)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "postgres://x@db/exports", cfg.Database.URL)
	assert.Equal(t, "https://jane.dev/resume", cfg.PageURL())
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeFile(t, "browser:\n  driver: firefox\nexport:\n  options:\n    mode: vector\n"), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown driver "firefox"`)
	assert.Contains(t, err.Error(), `unknown mode "vector"`)

	_, err = Load(writeFile(t, "server: [\n"), true)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	file := filepath.Join(t.TempDir(), "svc.log")
	l, closeFn, err := NewLogger(LogConfig{Level: "warn", Format: "json", File: file, MaxSizeMB: 1}, false)
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())
	l.Warn("disk almost full")
	require.NoError(t, closeFn())

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"disk almost full"`)

	l, _, err = NewLogger(LogConfig{Level: "info"}, true)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	_, _, err = NewLogger(LogConfig{Level: "loud"}, false)
	assert.Error(t, err)
}
