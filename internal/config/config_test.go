package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelpms/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(writeEnv(t, ""))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 50, cfg.Reconciliation.MatchThreshold)
	assert.False(t, cfg.Reconciliation.ExclusiveAssignment)
	assert.Equal(t, 720*time.Hour, cfg.Reconciliation.DefaultWindow)
	assert.Empty(t, cfg.Reconciliation.AlertRecipients)
	assert.Equal(t, 5*time.Minute, cfg.Cache.FinancialConfigTTL)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
	assert.Contains(t, cfg.CORS.AllowedOrigins, "http://localhost:3000")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HOTELPMS_RECONCILIATION_EXCLUSIVE_ASSIGNMENT", "true")
	t.Setenv("HOTELPMS_RECONCILIATION_ALERT_RECIPIENTS", "finance@hotel.test, gm@hotel.test")
	t.Setenv("HOTELPMS_DB_PORT", "6543")

	cfg, err := config.Load(writeEnv(t, ""))
	require.NoError(t, err)

	assert.True(t, cfg.Reconciliation.ExclusiveAssignment)
	assert.Equal(t, []string{"finance@hotel.test", "gm@hotel.test"}, cfg.Reconciliation.AlertRecipients)
	assert.Equal(t, 6543, cfg.DB.Port)
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("PORT", "9000")
	cfg, err := config.Load(writeEnv(t, ""))
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Port)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	t.Setenv("HOTELPMS_LOG_LEVEL", "error")
	path := writeEnv(t, "HOTELPMS_LOG_LEVEL=info\nHOTELPMS_RATE_LIMIT_BURST=7\n")
	t.Cleanup(func() { _ = os.Unsetenv("HOTELPMS_RATE_LIMIT_BURST") })

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, 7, cfg.RateLimit.Burst)
}

func TestLoad_InvalidThreshold(t *testing.T) {
	t.Setenv("HOTELPMS_RECONCILIATION_MATCH_THRESHOLD", "30")
	_, err := config.Load(writeEnv(t, ""))
	assert.Error(t, err)
}

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
