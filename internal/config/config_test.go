package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadValidConfig(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "hunter2")

	cfg, err := Load("testdata/valid.yaml")
	require.NoError(t, err)

	assert.Equal(t, "courtside", cfg.App.Name)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "hunter2", cfg.Database.Password, "env placeholders must expand")
	assert.Equal(t, 22024, cfg.StatsAPI.CurrentSeasonID)
	assert.Equal(t, []string{"Anthony Edwards"}, cfg.Training.Players)
	assert.Equal(t, []string{"PTS", "AST"}, cfg.Training.Stats)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	assert.NoError(t, Validate(cfg))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/does_not_exist.yaml")
	assert.Error(t, err)
}

func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults("testdata/does_not_exist.yaml")
	require.NoError(t, err)

	assert.Equal(t, "courtside", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 22018, cfg.Training.SeasonFloor)
	assert.Equal(t, 3, cfg.Training.RollingWindow)
	assert.Equal(t, 0.1, cfg.Training.Alpha)
	assert.Equal(t, "filesystem", cfg.ModelStore.Backend)
}

func TestGetDatabaseDSN(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "hunter2")

	cfg, err := Load("testdata/valid.yaml")
	require.NoError(t, err)

	dsn := cfg.GetDatabaseDSN()
	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "dbname=courtside_test")
	assert.Contains(t, dsn, "password=hunter2")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestValidateRejectsThresholdBeforeFloor(t *testing.T) {
	cfg, err := Load("testdata/bad_threshold.yaml")
	require.NoError(t, err)

	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "season_threshold")
}

func TestValidateCustomRules(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "hunter2")

	base := func() *Config {
		cfg, err := Load("testdata/valid.yaml")
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.App.Environment = "prod"
	assert.Error(t, Validate(cfg))

	cfg = base()
	cfg.App.LogLevel = "verbose"
	assert.Error(t, Validate(cfg))

	cfg = base()
	cfg.Training.Stats = []string{"PTS", "BLK"}
	assert.Error(t, Validate(cfg))

	cfg = base()
	cfg.ModelStore.Backend = "gcs"
	assert.Error(t, Validate(cfg))

	cfg = base()
	cfg.ModelStore = ModelStoreConfig{Backend: "s3"}
	assert.Error(t, Validate(cfg), "s3 backend requires bucket and region")
}
