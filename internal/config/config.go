package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable consulted when no config path
// is given on the command line.
const EnvConfigPath = "SHABD_CONFIG"

type Pipeline struct {
	Mode               string  `toml:"mode" yaml:"mode"`
	MinWordDuration    float64 `toml:"min_word_duration" yaml:"min_word_duration"`
	MinEventDuration   float64 `toml:"min_event_duration" yaml:"min_event_duration"`
	MaxGap             float64 `toml:"max_gap" yaml:"max_gap"`
	PreferWordSegments bool    `toml:"prefer_word_segments" yaml:"prefer_word_segments"`
	Format             string  `toml:"format" yaml:"format"`
}

type Batch struct {
	Concurrency int  `toml:"concurrency" yaml:"concurrency"`
	Overwrite   bool `toml:"overwrite" yaml:"overwrite"`
}

type Transcribe struct {
	Provider            string `toml:"provider" yaml:"provider"`
	Model               string `toml:"model" yaml:"model"`
	Language            string `toml:"language" yaml:"language"`
	SaveJSON            bool   `toml:"save_json" yaml:"save_json"`
	WhisperXDevice      string `toml:"whisperx_device" yaml:"whisperx_device"`
	WhisperXComputeType string `toml:"whisperx_compute_type" yaml:"whisperx_compute_type"`
	WhisperXBatchSize   int    `toml:"whisperx_batch_size" yaml:"whisperx_batch_size"`
}

type Translate struct {
	Provider    string `toml:"provider" yaml:"provider"`
	Model       string `toml:"model" yaml:"model"`
	BatchSize   int    `toml:"batch_size" yaml:"batch_size"`
	Concurrency int    `toml:"concurrency" yaml:"concurrency"`
}

type Logging struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Config holds every tunable of the converter, the batch runner, and the
// provider-backed commands.
type Config struct {
	Pipeline   Pipeline   `toml:"pipeline" yaml:"pipeline"`
	Batch      Batch      `toml:"batch" yaml:"batch"`
	Transcribe Transcribe `toml:"transcribe" yaml:"transcribe"`
	Translate  Translate  `toml:"translate" yaml:"translate"`
	Logging    Logging    `toml:"logging" yaml:"logging"`
}

// Load reads the config file at path over the defaults and validates the
// result. An empty path falls back to $SHABD_CONFIG; when neither is set, or
// the file does not exist, the defaults are returned with exists=false.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("failed to read config: %w", err)
		}
		if err := decode(resolved, data, &cfg); err != nil {
			return nil, "", false, err
		}
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case ".toml", "":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		return "", false, nil
	}

	expanded, err := ExpandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("failed to stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	}
	return expanded, true, nil
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Marshal encodes cfg as TOML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

// CreateSample writes the default configuration as TOML. It refuses to
// overwrite an existing file.
func CreateSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}
	def := Default()
	data, err := Marshal(&def)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// APIKey returns the key for a provider from its conventional environment
// variable. An explicit override wins.
func APIKey(provider, override string) string {
	if override != "" {
		return override
	}
	switch strings.ToLower(provider) {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "gemini":
		return os.Getenv("GEMINI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	}
	return ""
}

func (c *Config) normalize() {
	c.Pipeline.Mode = strings.ToLower(strings.TrimSpace(c.Pipeline.Mode))
	c.Pipeline.Format = strings.ToLower(strings.TrimSpace(c.Pipeline.Format))
	c.Transcribe.Provider = strings.ToLower(strings.TrimSpace(c.Transcribe.Provider))
	c.Translate.Provider = strings.ToLower(strings.TrimSpace(c.Translate.Provider))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
}
