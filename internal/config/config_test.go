package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, ":9090", cfg.Server.GRPCAddr)
	assert.True(t, cfg.Server.VerifyTimestamp)
	assert.Equal(t, 150*time.Second, cfg.Server.TimestampTolerance)
	assert.Equal(t, BackendHTTP, cfg.Catalog.Backend)
	assert.Equal(t, "https://alexa-conecta.herokuapp.com/api", cfg.Catalog.APIURL)
	assert.Equal(t, 0, cfg.Catalog.APIRetryMax)
	assert.Equal(t, 24*time.Hour, cfg.History.TTL)
	assert.Equal(t, "silvia.salazarr@tec.mx", cfg.InscriptionEmail)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ZONAEI_CATALOG_BACKEND", "postgres")
	t.Setenv("ZONAEI_DATABASE_URL", "postgres://localhost/zonaei")
	t.Setenv("ZONAEI_API_RETRY_MAX", "2")
	t.Setenv("ZONAEI_RATE_LIMIT_RPS", "0.5")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.Catalog.Backend)
	assert.Equal(t, 2, cfg.Catalog.APIRetryMax)
	assert.Equal(t, 0.5, cfg.RateLimit.RPS)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("ZONAEI_OPENAI_MODEL=gpt-4o\nZONAEI_HISTORY_TTL=1h\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("ZONAEI_OPENAI_MODEL")
		os.Unsetenv("ZONAEI_HISTORY_TTL")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, time.Hour, cfg.History.TTL)
}

func TestLoad_MissingDotEnvIsFine(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	t.Setenv("ZONAEI_CATALOG_BACKEND", "postgres")
	_, err := Load("")
	assert.ErrorContains(t, err, "ZONAEI_DATABASE_URL")

	t.Setenv("ZONAEI_CATALOG_BACKEND", "sqlite")
	_, err = Load("")
	assert.ErrorContains(t, err, "unknown catalog backend")

	t.Setenv("ZONAEI_CATALOG_BACKEND", "http")
	t.Setenv("ZONAEI_TLS_CERT", "cert.pem")
	_, err = Load("")
	assert.ErrorContains(t, err, "must be set together")
}
