package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileFallsBack(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "no_such_file.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game_settings.json")
	body := `{
		"Battle": {"Team1Slimes": 3, "Team2Slimes": 7},
		"Merge": {"Chance": 0.5}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Balance.Battle.Team1Slimes)
	assert.Equal(t, 7, cfg.Balance.Battle.Team2Slimes)
	assert.Equal(t, 0.5, cfg.Balance.Merge.Chance)
	// 書かれていない値は既定値のまま
	assert.Equal(t, 100.0, cfg.Balance.Merge.Range)
}

func TestLoadConfigRejectsBrokenJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game_settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestTeamOpponent(t *testing.T) {
	assert.Equal(t, Team2, Team1.Opponent())
	assert.Equal(t, Team1, Team2.Opponent())
}
