package config

import (
	"fmt"
	"strings"

	internal "mediacat/internal"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Log   LogConfig   `mapstructure:"log"`
	Walk  WalkConfig  `mapstructure:"walk"`
	Sniff SniffConfig `mapstructure:"sniff"`
}

// LogConfig stores diagnostics settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// WalkConfig stores traversal settings.
type WalkConfig struct {
	IgnoreFile string `mapstructure:"ignoreFile"`
}

// SniffConfig stores content-detection settings.
type SniffConfig struct {
	MaxBytes uint32 `mapstructure:"maxBytes"`
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath(internal.DefaultConfigPath)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Set default values
	viper.SetDefault("log.level", "info")
	viper.SetDefault("walk.ignoreFile", internal.DefaultIgnoreFile)
	// mimetype's default detection window
	viper.SetDefault("sniff.maxBytes", 3072)

	viper.AutomaticEnv()                                   // Read in environment variables that match
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // e.g. log.level becomes LOG_LEVEL

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; defaults will be used. This is not an error to halt on.
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	err := viper.Unmarshal(&AppConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &AppConfig, nil
}
