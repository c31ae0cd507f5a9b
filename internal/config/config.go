package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "THZ_SETUP"

type Config struct {
	Conda       CondaConfig       `mapstructure:"conda"`
	Environment EnvironmentConfig `mapstructure:"environment"`
	Install     InstallConfig     `mapstructure:"install"`
	Driver      DriverConfig      `mapstructure:"driver"`
	Console     ConsoleConfig     `mapstructure:"console"`
}

type CondaConfig struct {
	Binary string `mapstructure:"binary"`
}

type EnvironmentConfig struct {
	Name          string `mapstructure:"name"`
	PythonVersion string `mapstructure:"python_version"`
}

type InstallConfig struct {
	Manifest string `mapstructure:"manifest"`
}

type DriverConfig struct {
	HelperScript string `mapstructure:"helper_script"`
	Python       string `mapstructure:"python"`
	Pattern      string `mapstructure:"pattern"`
}

type ConsoleConfig struct {
	Color       string `mapstructure:"color"`
	PauseOnExit bool   `mapstructure:"pause_on_exit"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("conda.binary", "conda")
	v.SetDefault("environment.name", "thz")
	v.SetDefault("environment.python_version", "3.9.7")
	v.SetDefault("install.manifest", "requirements.txt")
	v.SetDefault("driver.helper_script", "gpib_check.py")
	v.SetDefault("driver.python", "python")
	v.SetDefault("driver.pattern", `visa(32|64)\.dll`)
	v.SetDefault("console.color", "auto")
	v.SetDefault("console.pause_on_exit", true)
}

// LoadConfig reads the configuration at path. An empty path yields the
// built-in defaults, still subject to THZ_SETUP_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects settings that would make a stage unrunnable.
func (c *Config) Validate() error {
	switch {
	case c.Conda.Binary == "":
		return fmt.Errorf("conda.binary must not be empty")
	case c.Environment.Name == "":
		return fmt.Errorf("environment.name must not be empty")
	case c.Environment.PythonVersion == "":
		return fmt.Errorf("environment.python_version must not be empty")
	case c.Driver.Pattern == "":
		return fmt.Errorf("driver.pattern must not be empty")
	}

	switch c.Console.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("console.color must be one of auto, always, never: got %q", c.Console.Color)
	}

	return nil
}
