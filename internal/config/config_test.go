package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8007, cfg.HTTPPort)
	assert.Equal(t, "localhost", cfg.RedisHost)
	assert.Equal(t, 168, cfg.SessionTTLHours)
	assert.Equal(t, "wishlist_store", cfg.StoreTable)
	assert.Equal(t, []string{"product"}, cfg.ModelTypes)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL())
	assert.True(t, cfg.TaxRate().IsZero())

	format := cfg.NumberFormat()
	assert.Equal(t, 2, format.Decimals)
	assert.Equal(t, ".", format.Point)
	assert.Equal(t, ",", format.Thousands)
}

func TestLoad_InvalidHTTPPort(t *testing.T) {
	t.Setenv("WISHLIST_HTTP_PORT", "0")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_NegativeTaxRate(t *testing.T) {
	t.Setenv("WISHLIST_TAX_RATE", "-5")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid tax rate")
}

func TestLoad_TaxRateAndFormat(t *testing.T) {
	t.Setenv("WISHLIST_TAX_RATE", "21")
	t.Setenv("WISHLIST_FORMAT_POINT", ",")
	t.Setenv("WISHLIST_FORMAT_THOUSANDS", ".")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "21", cfg.TaxRate().String())
	assert.Equal(t, ",", cfg.NumberFormat().Point)
	assert.Equal(t, ".", cfg.NumberFormat().Thousands)
}

func TestLoad_PostgresConfig(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db.prod")
	t.Setenv("POSTGRES_PORT", "5433")

	cfg, err := Load()

	require.NoError(t, err)
	pg := cfg.Postgres()
	assert.Equal(t, "db.prod", pg.Host)
	assert.Equal(t, 5433, pg.Port)
	assert.Contains(t, pg.DSN(), "db.prod:5433")
}
