package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/agentx-labs/agentcfg/internal/branding"
	"github.com/agentx-labs/agentcfg/internal/logging"
	"github.com/agentx-labs/agentcfg/internal/manifest"
	"github.com/agentx-labs/agentcfg/internal/userdata"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyRepoDir  = "repo_dir"
	KeyMode     = "mode"
	KeyEnvFile  = "env_file"
	KeyTable    = "table"
	KeyLogLevel = "log_level"
	KeyColor    = "color"
	KeyTargets  = "targets"
)

// Keys lists the scalar setting keys. Target overrides use "targets.<agent>".
var Keys = []string{KeyRepoDir, KeyMode, KeyEnvFile, KeyTable, KeyLogLevel, KeyColor}

// Settings is the decoded view of the configuration.
type Settings struct {
	RepoDir  string            `mapstructure:"repo_dir"`
	Mode     string            `mapstructure:"mode"` // empty: each agent's own mode
	EnvFile  string            `mapstructure:"env_file"`
	Table    string            `mapstructure:"table"`
	LogLevel string            `mapstructure:"log_level"`
	Color    bool              `mapstructure:"color"`
	Targets  map[string]string `mapstructure:"targets"`
}

// Dir returns the path to the config directory (~/.agentcfg/).
func Dir() string {
	home, err := userdata.HomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.agentcfg/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, userdata.DirPermNormal); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
// A missing config file is not an error.
func Load() error {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyLogLevel, logging.DefaultLevel)
	viper.SetDefault(KeyColor, true)

	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file %s: %w", FilePath(), err)
		}
	}
	return nil
}

// Current decodes the loaded configuration.
func Current() (Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decoding config: %w", err)
	}
	return s, nil
}

// TargetOverride returns the configured target directory for agent, if any.
// Environment variables such as AGENTCFG_TARGETS_CLAUDE are honoured.
func TargetOverride(agent string) string {
	return viper.GetString(KeyTargets + "." + agent)
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set validates and writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := Validate(key, value); err != nil {
		return err
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	if key == KeyColor {
		b, _ := strconv.ParseBool(value)
		viper.Set(key, b)
	} else {
		viper.Set(key, value)
	}

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Known reports whether key names a setting.
func Known(key string) bool {
	if agent, ok := strings.CutPrefix(key, KeyTargets+"."); ok {
		return agent != "" && !strings.Contains(agent, ".")
	}
	return slices.Contains(Keys, key)
}

// Validate checks that key is known and value is acceptable for it.
func Validate(key, value string) error {
	if agent, ok := strings.CutPrefix(key, KeyTargets+"."); ok {
		if agent == "" || strings.Contains(agent, ".") {
			return fmt.Errorf("invalid target key %q (want %s.<agent>)", key, KeyTargets)
		}
		return nil
	}
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("unknown config key %q (valid: %s, %s.<agent>)", key, strings.Join(Keys, ", "), KeyTargets)
	}

	switch key {
	case KeyMode:
		if _, ok := manifest.ParseMode(value); !ok || value == "" {
			return fmt.Errorf("invalid mode %q (valid: %s, %s)", value, manifest.ModeSymlink, manifest.ModeCopy)
		}
	case KeyLogLevel:
		if _, err := logging.ParseLevel(value); err != nil {
			return err
		}
	case KeyColor:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("invalid color value %q: want true or false", value)
		}
	}
	return nil
}
