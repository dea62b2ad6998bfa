// pkg/config/config.go
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// GameConfig contains host-side configuration for a game session
type GameConfig struct {
	Simulation SimulationConfig `json:"simulation" toml:"simulation" yaml:"simulation"`
	Rules      RulesConfig      `json:"rules" toml:"rules" yaml:"rules"`
	Audio      AudioConfig      `json:"audio" toml:"audio" yaml:"audio"`
	Render     RenderConfig     `json:"render" toml:"render" yaml:"render"`
	Logging    LoggingConfig    `json:"logging" toml:"logging" yaml:"logging"`
}

// SimulationConfig controls the fixed-step loop
type SimulationConfig struct {
	Seed          uint64  `json:"seed" toml:"seed" yaml:"seed"` // 0 picks a seed at startup
	TickRate      int     `json:"tickRate" toml:"tick_rate" yaml:"tick_rate"`
	MaxFrameDelta float64 `json:"maxFrameDelta" toml:"max_frame_delta" yaml:"max_frame_delta"`
}

// RulesConfig contains gameplay tunables
type RulesConfig struct {
	PowerUpScoreInterval int     `json:"powerUpScoreInterval" toml:"powerup_score_interval" yaml:"powerup_score_interval"`
	LevelTitleSeconds    float64 `json:"levelTitleSeconds" toml:"level_title_seconds" yaml:"level_title_seconds"`
}

// AudioConfig contains sound output configuration
type AudioConfig struct {
	Enabled      bool    `json:"enabled" toml:"enabled" yaml:"enabled"`
	MasterVolume float64 `json:"masterVolume" toml:"master_volume" yaml:"master_volume"` // 0..1
	SampleRate   int     `json:"sampleRate" toml:"sample_rate" yaml:"sample_rate"`
	BufferMillis int     `json:"bufferMillis" toml:"buffer_millis" yaml:"buffer_millis"`
}

// RenderConfig selects and sizes the renderer
type RenderConfig struct {
	Renderer   string `json:"renderer" toml:"renderer" yaml:"renderer"` // engo, terminal or headless
	Width      int    `json:"width" toml:"width" yaml:"width"`
	Height     int    `json:"height" toml:"height" yaml:"height"`
	Fullscreen bool   `json:"fullscreen" toml:"fullscreen" yaml:"fullscreen"`
	VSync      bool   `json:"vsync" toml:"vsync" yaml:"vsync"`
	TargetFPS  int    `json:"targetFPS" toml:"target_fps" yaml:"target_fps"`
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Level  string `json:"level" toml:"level" yaml:"level"`
	Format string `json:"format" toml:"format" yaml:"format"` // json or console
	Output string `json:"output" toml:"output" yaml:"output"` // path, stderr when empty
}

// Renderer names
const (
	RendererEngo     = "engo"
	RendererTerminal = "terminal"
	RendererHeadless = "headless"
)

// DefaultConfig returns a default game configuration
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Simulation: SimulationConfig{
			TickRate:      120,
			MaxFrameDelta: 0.15,
		},
		Rules: RulesConfig{
			PowerUpScoreInterval: 500,
			LevelTitleSeconds:    2,
		},
		Audio: AudioConfig{
			Enabled:      true,
			MasterVolume: 0.8,
			SampleRate:   44100,
			BufferMillis: 50,
		},
		Render: RenderConfig{
			Renderer:  RendererEngo,
			Width:     1280,
			Height:    720,
			VSync:     true,
			TargetFPS: 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// TimeStep is the fixed simulation step in seconds.
func (c *GameConfig) TimeStep() float64 {
	if c.Simulation.TickRate <= 0 {
		return 1.0 / 120
	}
	return 1.0 / float64(c.Simulation.TickRate)
}

// LoadConfig loads a configuration from a file. The format is chosen by
// extension: .toml, .yaml/.yml or .json. Keys missing from the file keep
// their default values.
func LoadConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	config := DefaultConfig()
	switch format(path) {
	case "toml":
		err = toml.Unmarshal(data, config)
	case "yaml":
		err = yaml.Unmarshal(data, config)
	case "json":
		err = json.Unmarshal(data, config)
	default:
		return nil, fmt.Errorf("parse config %s: unsupported extension %q", path, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return config, nil
}

// SaveConfig saves a configuration to a file in the format matching its
// extension.
func SaveConfig(config *GameConfig, path string) error {
	if config == nil {
		return errors.New("save config: nil config")
	}

	var (
		data []byte
		err  error
	)
	switch format(path) {
	case "toml":
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(config)
		data = buf.Bytes()
	case "yaml":
		data, err = yaml.Marshal(config)
	case "json":
		data, err = json.MarshalIndent(config, "", "  ")
	default:
		return fmt.Errorf("save config %s: unsupported extension %q", path, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	default:
		return ""
	}
}

// Environment variables read by ApplyEnv.
const (
	EnvSeed     = "SHOOTER_SEED"
	EnvTickRate = "SHOOTER_TICK_RATE"
	EnvRenderer = "SHOOTER_RENDERER"
	EnvAudio    = "SHOOTER_AUDIO"
	EnvVolume   = "SHOOTER_VOLUME"
	EnvLogLevel = "SHOOTER_LOG_LEVEL"
)

// ApplyEnv overrides fields from SHOOTER_* environment variables. Unset
// variables leave the config untouched.
func (c *GameConfig) ApplyEnv() error {
	var errs []error

	if v, ok := os.LookupEnv(EnvSeed); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvSeed, err))
		} else {
			c.Simulation.Seed = seed
		}
	}
	if v, ok := os.LookupEnv(EnvTickRate); ok {
		rate, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvTickRate, err))
		} else {
			c.Simulation.TickRate = rate
		}
	}
	if v, ok := os.LookupEnv(EnvRenderer); ok {
		c.Render.Renderer = strings.ToLower(v)
	}
	if v, ok := os.LookupEnv(EnvAudio); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvAudio, err))
		} else {
			c.Audio.Enabled = enabled
		}
	}
	if v, ok := os.LookupEnv(EnvVolume); ok {
		volume, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvVolume, err))
		} else {
			c.Audio.MasterVolume = volume
		}
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.Logging.Level = v
	}

	return errors.Join(errs...)
}

// Validate reports every invalid field.
func (c *GameConfig) Validate() error {
	var errs []error

	if c.Simulation.TickRate < 30 || c.Simulation.TickRate > 1000 {
		errs = append(errs, fmt.Errorf("simulation.tick_rate %d out of range [30,1000]", c.Simulation.TickRate))
	}
	if c.Simulation.MaxFrameDelta <= 0 || c.Simulation.MaxFrameDelta > 1 {
		errs = append(errs, fmt.Errorf("simulation.max_frame_delta %v out of range (0,1]", c.Simulation.MaxFrameDelta))
	}
	if c.Rules.PowerUpScoreInterval <= 0 {
		errs = append(errs, fmt.Errorf("rules.powerup_score_interval must be positive, got %d", c.Rules.PowerUpScoreInterval))
	}
	if c.Rules.LevelTitleSeconds < 0 {
		errs = append(errs, fmt.Errorf("rules.level_title_seconds must not be negative"))
	}
	if c.Audio.MasterVolume < 0 || c.Audio.MasterVolume > 1 {
		errs = append(errs, fmt.Errorf("audio.master_volume %v out of range [0,1]", c.Audio.MasterVolume))
	}
	if c.Audio.Enabled && c.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio.sample_rate must be positive"))
	}
	switch c.Render.Renderer {
	case RendererEngo, RendererTerminal, RendererHeadless:
	default:
		errs = append(errs, fmt.Errorf("render.renderer %q is not one of engo, terminal, headless", c.Render.Renderer))
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Errorf("render size %dx%d must be positive", c.Render.Width, c.Render.Height))
	}
	if c.Render.TargetFPS <= 0 {
		errs = append(errs, fmt.Errorf("render.target_fps must be positive"))
	}

	return errors.Join(errs...)
}
