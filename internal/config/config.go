// Package config loads probe configuration from file, environment, and
// command-line flags, and builds the logger from it.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Load reads configuration with the precedence flags > environment > file >
// defaults. configPath may be empty, in which case well-known locations are
// searched and a missing file is fine. flags may be nil.
func Load(configPath string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("url", "http://localhost:8080")
	v.SetDefault("timeout", "10s")
	v.SetDefault("insecure", false)
	v.SetDefault("proxy", false)
	v.SetDefault("username", "")
	v.SetDefault("api_token", "")
	v.SetDefault("perfdata", true)
	v.SetDefault("textfile", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("state.enabled", false)
	v.SetDefault("state.backend", "file")
	v.SetDefault("state.dir", "")
	v.SetDefault("state.path", "cicheck_state.db")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("cicheck")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/cicheck")
		v.AddConfigPath("/etc/cicheck")
	}

	v.SetEnvPrefix("CICHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing default-location file is fine; an explicit path must exist.
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	return v, nil
}
