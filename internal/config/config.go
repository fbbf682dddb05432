// Package config loads tool configuration from an optional YAML file and
// MOORBUILD_* environment variables. Flags are bound by the CLI layer and
// take precedence over both.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "MOORBUILD"

// DefaultHost is the production RDB instance.
const DefaultHost = "ooi-rdb.whoi.edu"

// Config holds the resolved tool configuration.
type Config struct {
	Host     string        `mapstructure:"host"`
	Netrc    string        `mapstructure:"netrc"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Parallel int           `mapstructure:"parallel"`
	Log      LogConfig     `mapstructure:"log"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// BaseURL returns the HTTPS base URL for the configured host.
func (c *Config) BaseURL() string {
	if strings.Contains(c.Host, "://") {
		return strings.TrimSuffix(c.Host, "/")
	}
	return "https://" + c.Host
}

// Load reads configuration from the given file (optional; "" skips the file
// lookup unless ./moorbuild.yaml exists) and the environment.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("host", DefaultHost)
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("parallel", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case configFile != "":
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	default:
		v.SetConfigFile("moorbuild.yaml")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read moorbuild.yaml: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
