// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "erp_db", cfg.Database.Name)
	assert.InDelta(t, 0.7, cfg.Analytics.CostRatio, 0.001)
	assert.InDelta(t, 5.0, cfg.Analytics.LateDeliveryDayLimit, 0.001)
	assert.Equal(t, 5*time.Minute, cfg.Analytics.ReportCacheTTL)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ANALYTICS_COST_RATIO", "0.5")
	t.Setenv("ANALYTICS_LATE_DELIVERY_DAY_LIMIT", "7")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 0.5, cfg.Analytics.CostRatio, 0.001)
	assert.InDelta(t, 7.0, cfg.Analytics.LateDeliveryDayLimit, 0.001)
	assert.True(t, cfg.IsProduction())
}

func TestValidateRejectsBadCostRatio(t *testing.T) {
	t.Setenv("ANALYTICS_COST_RATIO", "1.5")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANALYTICS_COST_RATIO")
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	dsn := cfg.GetDatabaseDSN()
	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "dbname=erp_db")
	assert.Contains(t, dsn, "sslmode=disable")
}
