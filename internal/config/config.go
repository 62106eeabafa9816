// Package config loads viewer configuration from file and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds viewer configuration.
type Config struct {
	Server ServerConfig
	Window WindowConfig
	Web    WebConfig
	Log    LogConfig
}

// ServerConfig holds connection settings.
type ServerConfig struct {
	URL          string
	RetrySeconds int
}

// WindowConfig holds window settings.
type WindowConfig struct {
	Title  string
	Width  int
	Height int
}

// WebConfig holds the optional HTTP mirror settings.
type WebConfig struct {
	Addr string
}

// LogConfig holds file logging settings. An empty path logs to stderr only.
type LogConfig struct {
	Path       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
}

// Load reads configuration from file and env. Env var overrides use prefix
// PEEKVIZ_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("server.url", "localhost:9001")
	v.SetDefault("server.retry_seconds", 2)
	v.SetDefault("window.title", "peekviz viewer")
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 800)
	v.SetDefault("web.addr", "")
	v.SetDefault("log.path", "")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("PEEKVIZ_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "peekviz"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PEEKVIZ")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
