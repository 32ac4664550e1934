package config

import (
	"testing"

	"github.com/andresuchdata/stockcast/internal/engine"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaultsMatchEngineDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, engine.DefaultParams(), cfg.Forecast.Params())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 4, cfg.Forecast.BatchWorkers)
	assert.False(t, cfg.Cache.Enabled)
}

func TestEnvironmentOverridesForecastConstants(t *testing.T) {
	t.Setenv("FORECAST_SAFETY_STOCK_LOW", "0.25")
	t.Setenv("FORECAST_MOVING_AVERAGE_WINDOW", "14")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	params := fromViper(v).Forecast.Params()
	assert.Equal(t, 0.25, params.Inventory.SafetyStockLow)
	assert.Equal(t, 14, params.Forecast.MovingAverageWindow)
}
