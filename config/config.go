// Package config handles application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/esdrastavares/heronote/internal/types"
)

const (
	appName        = "heronote"
	configFileName = "config.json"
	audioDirName   = "debug_audio"
)

// Config represents the application configuration.
type Config struct {
	Debug DebugSettings `json:"debug"`
}

// DebugSettings holds the persisted diagnostics preferences. The runtime
// enabled flag is deliberately not part of it: diagnostics always start
// disabled and must be toggled each session.
type DebugSettings struct {
	SaveAudioFiles  bool   `json:"save_audio_files"`
	LogAudioBuffers bool   `json:"log_audio_buffers"`
	LogPerformance  bool   `json:"log_performance"`
	AudioOutputDir  string `json:"audio_output_dir,omitempty"`
	PollIntervalMs  int    `json:"poll_interval_ms,omitempty"`
	LogCapacity     int    `json:"log_capacity,omitempty"`
}

// Load loads configuration from the config file.
// Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, fmt.Errorf("get config path: %w", err)
	}
	return loadFrom(path)
}

func loadFrom(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Unmarshal over defaults so fields missing from older config
	// files keep their default values.
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.fillDefaults()
	return cfg, nil
}

// Save persists the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return fmt.Errorf("get config path: %w", err)
	}
	return c.saveTo(path)
}

func (c *Config) saveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// CaptureConfig builds the runtime capture configuration from the
// persisted settings and the current enabled flag.
func (c *Config) CaptureConfig(enabled bool) types.CaptureConfig {
	return types.CaptureConfig{
		Enabled:         enabled,
		SaveAudioFiles:  c.Debug.SaveAudioFiles,
		LogAudioBuffers: c.Debug.LogAudioBuffers,
		LogPerformance:  c.Debug.LogPerformance,
		AudioOutputDir:  c.Debug.AudioOutputDir,
	}
}

func configPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(dir, appName, configFileName), nil
}

// DefaultAudioDir returns where captured WAV files are saved when no
// directory is configured.
func DefaultAudioDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(dir, appName, audioDirName), nil
}

func defaultConfig() *Config {
	return &Config{
		Debug: DebugSettings{
			SaveAudioFiles:  true,
			LogAudioBuffers: true,
			LogPerformance:  true,
			PollIntervalMs:  500,
			LogCapacity:     100,
		},
	}
}

func (c *Config) fillDefaults() {
	if c.Debug.PollIntervalMs <= 0 {
		c.Debug.PollIntervalMs = 500
	}
	if c.Debug.LogCapacity <= 0 {
		c.Debug.LogCapacity = 100
	}
}
