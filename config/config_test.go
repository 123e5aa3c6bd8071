package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-calendar/config"
)

func writeTOML(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "shiftcal.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.HourlyWage().Equal(decimal.NewFromInt(10030)))
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 60*time.Second, cfg.OCR.TimeoutDuration())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, config.StoreMemory, cfg.Store.Driver)
}

func TestLoad_EnvOverridesFileOverridesDefaults(t *testing.T) {
	// GIVEN: A TOML file setting wage and port, and an env var for the port
	// WHEN: Loading
	// THEN: Port comes from env, wage from the file, log level from defaults

	path := writeTOML(t, `
[server]
port = "9000"

[wage]
hourly = 12000.0

[store]
driver = "sqlite"
path = "shifts.db"
`)
	t.Setenv("SHIFTCAL_SERVER_PORT", "9100")
	t.Setenv("SHIFTCAL_CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, float64(12000), cfg.Wage.Hourly)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "shifts.db", cfg.Store.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_GeminiKeyFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-gemini-env")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-gemini-env", cfg.OCR.APIKey)

	t.Setenv("SHIFTCAL_OCR_API_KEY", "explicit")
	cfg, err = config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.OCR.APIKey)
}

func TestLoad_BadTOML(t *testing.T) {
	path := writeTOML(t, "[server\nport = ")
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Driver = "postgres"
	cfg.Wage.Hourly = -1
	cfg.OCR.Provider = "tesseract"
	cfg.OCR.LineThreshold = 0
	cfg.Schedule.Pairing = "nearest"
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	for _, field := range []string{"store.driver", "wage.hourly", "ocr.provider", "ocr.line_threshold", "schedule.pairing", "log.level"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestNewLogger_JSONAtLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"

	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":"v"`)
}
