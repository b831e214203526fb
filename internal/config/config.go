package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Session storage drivers
const (
	SessionDriverMemory = "memory"
	SessionDriverSQLite = "sqlite"
	SessionDriverFile   = "file"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Backend BackendConfig `mapstructure:"backend"`
	Session SessionConfig `mapstructure:"session"`
	Lark    LarkConfig    `mapstructure:"lark"`
	Poller  PollerConfig  `mapstructure:"poller"`
	Logger  LoggerConfig  `mapstructure:"logger"`
}

// ServerConfig holds desk gateway configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// BackendConfig holds the workflow backend location.
// A zero timeout leaves requests bounded only by their context.
type BackendConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	APIPrefix string        `mapstructure:"api_prefix"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// SessionConfig selects where the signed-in profile is kept
type SessionConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	Key             string        `mapstructure:"key"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// LarkConfig holds reviewer notification settings. Empty app_id disables notifications.
type LarkConfig struct {
	AppID     string `mapstructure:"app_id"`
	AppSecret string `mapstructure:"app_secret"`
	ChatID    string `mapstructure:"chat_id"`
}

// PollerConfig controls the pending application poller. Zero disables it.
type PollerConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load reads configuration from an optional YAML file, optional .env files and
// the environment. An empty configPath uses defaults and environment only.
func Load(configPath string, envFiles ...string) (*Config, error) {
	for _, envFile := range envFiles {
		if err := gotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("DESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := bindEnvVars(v); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)

	v.SetDefault("backend.base_url", "http://localhost:3000")
	v.SetDefault("backend.api_prefix", "/api")
	v.SetDefault("backend.timeout", time.Duration(0))

	v.SetDefault("session.driver", SessionDriverMemory)
	v.SetDefault("session.path", "data/desk.db")
	v.SetDefault("session.key", "currentUser")
	v.SetDefault("session.max_open_conns", 1)
	v.SetDefault("session.max_idle_conns", 1)
	v.SetDefault("session.conn_max_lifetime", time.Duration(0))

	v.SetDefault("poller.interval", time.Duration(0))

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds the variable names that do not follow the DESK_ prefix
func bindEnvVars(v *viper.Viper) error {
	bindings := map[string]string{
		"backend.base_url": "DESK_BACKEND_BASE_URL",
		"lark.app_id":      "LARK_APP_ID",
		"lark.app_secret":  "LARK_APP_SECRET",
		"lark.chat_id":     "LARK_CHAT_ID",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return err
		}
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend.base_url must be an http(s) URL, got %q", c.Backend.BaseURL)
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout must not be negative")
	}

	switch c.Session.Driver {
	case SessionDriverMemory:
	case SessionDriverSQLite, SessionDriverFile:
		if c.Session.Path == "" {
			return fmt.Errorf("session.path is required for the %s driver", c.Session.Driver)
		}
	default:
		return fmt.Errorf("session.driver must be one of memory, sqlite, file; got %q", c.Session.Driver)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}

	if c.Lark.AppID != "" {
		if c.Lark.AppSecret == "" {
			return fmt.Errorf("lark.app_secret is required when lark.app_id is set")
		}
		if c.Lark.ChatID == "" {
			return fmt.Errorf("lark.chat_id is required when lark.app_id is set")
		}
	}

	if c.Poller.Interval < 0 {
		return fmt.Errorf("poller.interval must not be negative")
	}

	return nil
}

// Address returns the gateway listen address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
