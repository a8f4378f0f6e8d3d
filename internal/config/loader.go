package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix      = "WIRECIRCLE"
	envConfigDir   = envPrefix + "_CONFIG_DIR"
	configFileName = "config.yaml"
)

// Load resolves configuration from defaults, the YAML file at explicitPath
// (or the default location) and WIRECIRCLE_* environment variables, later
// sources winning. A missing file is created with the defaults.
// The result is not validated so callers can apply their own overrides first.
func Load(logger *zerolog.Logger, explicitPath string) (Config, string, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	defaults := Default()
	path := configPath(explicitPath)

	v, err := newViper(defaults)
	if err != nil {
		return defaults, path, err
	}
	if err := readOrCreate(v, path, defaults, logger); err != nil {
		return defaults, path, err
	}

	cfg := defaults
	if err := v.Unmarshal(&cfg); err != nil {
		return defaults, path, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, path, nil
}

func newViper(defaults Config) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	keys, err := flatten(defaults)
	if err != nil {
		return nil, err
	}
	// Env lookups only apply to keys viper knows about.
	for key, value := range keys {
		v.SetDefault(key, value)
	}
	return v, nil
}

// flatten maps cfg onto the keys used in the YAML file.
func flatten(cfg Config) (map[string]any, error) {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode defaults: %w", err)
	}
	keys := make(map[string]any)
	if err := yaml.Unmarshal(raw, &keys); err != nil {
		return nil, fmt.Errorf("decode defaults: %w", err)
	}
	return keys, nil
}

func readOrCreate(v *viper.Viper, path string, defaults Config, logger *zerolog.Logger) error {
	v.SetConfigFile(path)

	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	if err := writeConfig(path, defaults); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("could not write default config")
		return nil
	}
	logger.Info().Str("path", path).Msg("created default config")
	return nil
}

func configPath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}
	if dir := os.Getenv(envConfigDir); dir != "" {
		return filepath.Join(dir, configFileName)
	}
	if cwd, err := os.Getwd(); err == nil {
		return filepath.Join(cwd, configFileName)
	}
	return configFileName
}

func writeConfig(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
