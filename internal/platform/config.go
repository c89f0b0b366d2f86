package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/aretw0/jot/pkg/codec"
)

// ConfigFile is the name of the config file inside the data directory.
const ConfigFile = "config.toml"

// Config is the optional TOML configuration file.
type Config struct {
	DataDir  string `toml:"data_dir,omitempty"`
	Backend  string `toml:"backend,omitempty"`
	Format   string `toml:"format,omitempty"`
	LogLevel string `toml:"log_level,omitempty"`
}

// DefaultConfigPath returns ~/.jot/config.toml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DirName, ConfigFile), nil
}

// LoadConfig reads the config file at path. A missing file yields the zero
// Config. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to open config %s: %w", path, err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, creating parent directories as needed.
func SaveConfig(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the enumerated fields.
func (c Config) Validate() error {
	switch c.Backend {
	case "", BackendFS, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if _, err := codec.New(codec.Format(c.Format)); err != nil {
		return err
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Options translates the config into Open options.
func (c Config) Options() []Option {
	return []Option{
		WithBackend(c.Backend),
		WithFormat(codec.Format(c.Format)),
	}
}

// ParseLevel maps a log_level value to a slog.Level. Empty means warn.
func ParseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
