package app

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milkbook/milkbook/internal/store"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, "milkbook:", cfg.StorePrefix)
	assert.False(t, cfg.LedgerStrictRates)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", " Redis ")
	t.Setenv("LEDGER_STRICT_RATES", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("APP_ENV", "production")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.StoreBackend)
	assert.True(t, cfg.LedgerStrictRates)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.IsProduction())
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "sqlite")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoggerFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&Config{LogFormat: "json", LogLevel: "warn"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}

func TestInTestMode(t *testing.T) {
	t.Setenv(testModeEnv, "1")
	RefreshTestMode()
	assert.True(t, InTestMode())
	t.Setenv(testModeEnv, "")
	RefreshTestMode()
	assert.False(t, InTestMode())
}

func TestOpenStoreInTestModeStaysInMemory(t *testing.T) {
	t.Cleanup(RefreshTestMode)
	t.Setenv(testModeEnv, "1")
	RefreshTestMode()

	cfg := &Config{StoreBackend: BackendPostgres, PGDSN: "postgres://nowhere:1/none", StorePrefix: "t:"}
	st, closeStore, err := OpenStore(context.Background(), cfg, NewLoggerTo(nil, io.Discard))
	require.NoError(t, err)
	defer closeStore()
	assert.NotNil(t, st)
}

func TestOpenStoreRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &Config{StoreBackend: BackendRedis, RedisAddr: mr.Addr(), StorePrefix: "t:"}
	st, closeStore, err := OpenStore(context.Background(), cfg, NewLoggerTo(nil, io.Discard))
	require.NoError(t, err)
	defer closeStore()

	require.NoError(t, st.Update(context.Background(), func(c *store.Collections) error {
		c.Products = append(c.Products, store.Product{ID: "milk", Name: "Milk"})
		return nil
	}, store.KeyProducts))
	raw, err := mr.Get("t:" + store.KeyProducts)
	require.NoError(t, err)
	assert.Contains(t, raw, `"milk"`)
}
