package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir()) // no .env
	for _, k := range []string{
		"APP_ENV", "PORT", "JWT_SECRET", "REDIS_DB", "DB_PASSWORD",
		"PERSISTENCE_BACKEND", "BANDIT_SNAPSHOT_NAME", "BANDIT_SAMPLER", "BANDIT_SEED",
		"BANDIT_PRIOR_ALPHA", "BANDIT_PRIOR_BETA", "BANDIT_FINGERPRINT_RESOLUTION", "BANDIT_MAX_POSTERIORS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Persistence.Backend)
	assert.Equal(t, "default", cfg.Persistence.SnapshotName)
	assert.Equal(t, 1.0, cfg.Bandit.PriorAlpha)
	assert.Equal(t, 1.0, cfg.Bandit.PriorBeta)
	assert.Equal(t, "beta", cfg.Bandit.Sampler)
	assert.Empty(t, cfg.JWT.SecretKey)
}

func TestLoad_SeedRandomUnlessPinned(t *testing.T) {
	clearEnv(t)

	first, err := Load()
	require.NoError(t, err)
	second, err := Load()
	require.NoError(t, err)
	assert.NotEqual(t, first.Bandit.Seed, second.Bandit.Seed)

	t.Setenv("BANDIT_SEED", "5")
	pinned, err := Load()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), pinned.Bandit.Seed)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PERSISTENCE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("BANDIT_SAMPLER", "normal")
	t.Setenv("BANDIT_FINGERPRINT_RESOLUTION", "0.05")
	t.Setenv("BANDIT_MAX_POSTERIORS", "10000")
	t.Setenv("BANDIT_SEED", "77")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Persistence.Backend)
	assert.Equal(t, "/tmp/x.db", cfg.SQLite.Path)
	assert.Equal(t, "normal", cfg.Bandit.Sampler)
	assert.Equal(t, 0.05, cfg.Bandit.FingerprintResolution)
	assert.Equal(t, 10000, cfg.Bandit.MaxPosteriors)
	assert.Equal(t, uint64(77), cfg.Bandit.Seed)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown backend", map[string]string{"PERSISTENCE_BACKEND": "s3"}},
		{"unknown sampler", map[string]string{"BANDIT_SAMPLER": "ucb"}},
		{"zero prior", map[string]string{"BANDIT_PRIOR_ALPHA": "0"}},
		{"bad number", map[string]string{"BANDIT_MAX_POSTERIORS": "lots"}},
		{"negative seed", map[string]string{"BANDIT_SEED": "-1"}},
		{"postgres without password", map[string]string{"PERSISTENCE_BACKEND": "postgres", "DB_PASSWORD": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
