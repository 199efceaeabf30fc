package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	cfg := FromViper(newViper())

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "local", cfg.ObjectStoreType)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowOrigin)
	assert.Equal(t, 20*time.Second, cfg.ResumeFetchTimeout)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.True(t, cfg.IsDevLike())
}

func TestFromViperEnvOverrides(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("OBJECT_STORE", "S3")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("RESUME_FETCH_TIMEOUT", "3s")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("REDIS_URL", " redis://localhost:6379/0 ")

	cfg := FromViper(newViper())

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "s3", cfg.ObjectStoreType)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigin)
	assert.Equal(t, 3*time.Second, cfg.ResumeFetchTimeout)
	assert.InDelta(t, 2.5, cfg.RateLimitRPS, 0.0001)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.False(t, cfg.IsDevLike())
}

func TestLoadEnvFilesDoesNotOverrideExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("JOBBOARD_TEST_A=from-file\nJOBBOARD_TEST_B=\"quoted\"\n"), 0o600))

	t.Setenv("JOBBOARD_TEST_A", "from-env")
	t.Setenv("JOBBOARD_TEST_B", "")
	require.NoError(t, os.Unsetenv("JOBBOARD_TEST_B"))

	loadEnvFiles(filepath.Join(dir, "missing.env"), path)

	assert.Equal(t, "from-env", os.Getenv("JOBBOARD_TEST_A"))
	assert.Equal(t, "quoted", os.Getenv("JOBBOARD_TEST_B"))
}
