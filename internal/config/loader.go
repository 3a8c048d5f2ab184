package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// PathEnv names the config file when --config is not given.
const PathEnv = "CONFIG_PATH"

// DefaultPath is read when present and nothing else names a file.
const DefaultPath = "config.yaml"

// ResolvePath picks the config file: flagPath, then $CONFIG_PATH, then
// DefaultPath. explicit is false only for DefaultPath, which may be absent.
func ResolvePath(flagPath string) (path string, explicit bool) {
	if flagPath != "" {
		return flagPath, true
	}
	if env := os.Getenv(PathEnv); env != "" {
		return env, true
	}
	return DefaultPath, false
}

// Load builds the console configuration from the file ResolvePath picks,
// the environment and env-default tags, in that order of precedence from
// lowest: defaults < file < environment. Source on the result records the
// file that was read, empty when there was none.
func Load(flagPath string) (*Config, error) {
	path, explicit := ResolvePath(flagPath)

	var cfg Config
	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		cfg.Source = path
	case explicit || !errors.Is(statErr, fs.ErrNotExist):
		return nil, fmt.Errorf("config: %w", statErr)
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		if cfg.Source != "" {
			return nil, fmt.Errorf("config %s: %w", cfg.Source, err)
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
