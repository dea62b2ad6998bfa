// pkg/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, 120, config.Simulation.TickRate)
	assert.Equal(t, 0.15, config.Simulation.MaxFrameDelta)
	assert.Equal(t, 500, config.Rules.PowerUpScoreInterval)
	assert.Equal(t, RendererEngo, config.Render.Renderer)
	assert.InDelta(t, 1.0/120, config.TimeStep(), 1e-12)
	assert.NoError(t, config.Validate())
}

func TestLoadConfig_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "game.toml",
			content: `
[simulation]
seed = 42
tick_rate = 240

[render]
renderer = "terminal"
`,
		},
		{
			name: "yaml",
			file: "game.yaml",
			content: `
simulation:
  seed: 42
  tick_rate: 240
render:
  renderer: terminal
`,
		},
		{
			name:    "json",
			file:    "game.json",
			content: `{"simulation": {"seed": 42, "tickRate": 240}, "render": {"renderer": "terminal"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			config, err := LoadConfig(path)
			require.NoError(t, err)

			assert.Equal(t, uint64(42), config.Simulation.Seed)
			assert.Equal(t, 240, config.Simulation.TickRate)
			assert.Equal(t, RendererTerminal, config.Render.Renderer)
			// untouched keys keep their defaults
			assert.Equal(t, 0.15, config.Simulation.MaxFrameDelta)
			assert.Equal(t, 500, config.Rules.PowerUpScoreInterval)
			assert.True(t, config.Audio.Enabled)
		})
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad_toml", "game.toml", "[simulation\nseed = "},
		{"bad_yaml", "game.yml", "simulation: [unclosed"},
		{"bad_json", "game.json", "{not json"},
		{"unknown_extension", "game.ini", "seed=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "parse config")
		})
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	for _, ext := range []string{".toml", ".yaml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			original := DefaultConfig()
			original.Simulation.Seed = 7
			original.Render.Renderer = RendererHeadless
			original.Logging.Format = "console"

			path := filepath.Join(t.TempDir(), "game"+ext)
			require.NoError(t, SaveConfig(original, path))

			loaded, err := LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, original, loaded)
		})
	}
}

func TestSaveConfig_Errors(t *testing.T) {
	assert.Error(t, SaveConfig(nil, filepath.Join(t.TempDir(), "x.json")))
	assert.Error(t, SaveConfig(DefaultConfig(), filepath.Join(t.TempDir(), "x.txt")))
	assert.Error(t, SaveConfig(DefaultConfig(), filepath.Join(t.TempDir(), "missing", "dir", "x.json")))
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvSeed, "1234")
	t.Setenv(EnvTickRate, "60")
	t.Setenv(EnvRenderer, "TERMINAL")
	t.Setenv(EnvAudio, "false")
	t.Setenv(EnvVolume, "0.25")
	t.Setenv(EnvLogLevel, "debug")

	config := DefaultConfig()
	require.NoError(t, config.ApplyEnv())

	assert.Equal(t, uint64(1234), config.Simulation.Seed)
	assert.Equal(t, 60, config.Simulation.TickRate)
	assert.Equal(t, RendererTerminal, config.Render.Renderer)
	assert.False(t, config.Audio.Enabled)
	assert.Equal(t, 0.25, config.Audio.MasterVolume)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	t.Setenv(EnvSeed, "minus-one")
	t.Setenv(EnvAudio, "maybe")

	config := DefaultConfig()
	err := config.ApplyEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvSeed)
	assert.Contains(t, err.Error(), EnvAudio)
	assert.Equal(t, uint64(0), config.Simulation.Seed, "bad values must not be applied")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *GameConfig)
		wantErr string
	}{
		{"tick_rate_low", func(c *GameConfig) { c.Simulation.TickRate = 10 }, "tick_rate"},
		{"frame_delta", func(c *GameConfig) { c.Simulation.MaxFrameDelta = 0 }, "max_frame_delta"},
		{"powerup_interval", func(c *GameConfig) { c.Rules.PowerUpScoreInterval = 0 }, "powerup_score_interval"},
		{"volume", func(c *GameConfig) { c.Audio.MasterVolume = 2 }, "master_volume"},
		{"renderer", func(c *GameConfig) { c.Render.Renderer = "opengl" }, "render.renderer"},
		{"size", func(c *GameConfig) { c.Render.Width = 0 }, "render size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
