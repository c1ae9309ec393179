// Config loading for the keeper CLI.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/keeper/internal/logging"
	"github.com/mesh-intelligence/keeper/internal/paths"
	"github.com/mesh-intelligence/keeper/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "KEEPER"

	// Config keys.
	cfgKeyBackend   = "backend"
	cfgKeyCapacity  = "capacity"
	cfgKeyLogLevel  = "log_level"
	cfgKeyLogFormat = "log_format"
)

// flagKeys maps config keys to the persistent flags that override them.
var flagKeys = map[string]string{
	cfgKeyBackend:   "backend",
	cfgKeyCapacity:  "capacity",
	cfgKeyLogLevel:  "log-level",
	cfgKeyLogFormat: "log-format",
}

// configFile holds the structure written to config.yaml by init.
type configFile struct {
	Backend   string `yaml:"backend"`
	Capacity  int    `yaml:"capacity"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// defaultConfig is what init writes and what applies when no file exists.
var defaultConfig = configFile{
	Backend:   types.BackendMemory,
	Capacity:  0,
	LogLevel:  "warn",
	LogFormat: logging.FormatText,
}

// settings is the resolved configuration for one command run.
type settings struct {
	Inventory types.Config
	Logging   logging.Config
	File      string // config file used, empty when none was found
}

// loadConfig reads config.yaml from configDir with precedence
// flag > KEEPER_* env > config.yaml > defaults. A missing config.yaml is
// not an error.
func loadConfig(configDir string, flags *pflag.FlagSet) (settings, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultConfig.Backend)
	v.SetDefault(cfgKeyCapacity, defaultConfig.Capacity)
	v.SetDefault(cfgKeyLogLevel, defaultConfig.LogLevel)
	v.SetDefault(cfgKeyLogFormat, defaultConfig.LogFormat)

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	for key, name := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return settings{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	s := settings{
		Inventory: types.Config{
			Backend:  v.GetString(cfgKeyBackend),
			Capacity: v.GetInt(cfgKeyCapacity),
		},
		Logging: logging.Config{
			Level:  v.GetString(cfgKeyLogLevel),
			Format: v.GetString(cfgKeyLogFormat),
		},
		File: v.ConfigFileUsed(),
	}
	if err := s.Inventory.Validate(); err != nil {
		return settings{}, fmt.Errorf("invalid config: %w", err)
	}
	return s, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. Reports whether a file was written.
func writeConfigIfMissing(configDir string) (bool, error) {
	path := paths.ConfigFile(configDir)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(&defaultConfig)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}
