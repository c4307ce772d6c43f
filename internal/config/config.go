package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix         = "TASKHELPER"
	ConfigPathEnv     = "TASKHELPER_CONFIG"
	DefaultConfigPath = "config.yml"

	masked = "******"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
	Repository RepositoryConfig `mapstructure:"repository" yaml:"repository"`
	Database   DatabaseConfig   `mapstructure:"database" yaml:"database"`
	SQLite     SQLiteConfig     `mapstructure:"sqlite" yaml:"sqlite"`
	LLM        LLMConfig        `mapstructure:"llm" yaml:"llm"`
	Image      ImageConfig      `mapstructure:"image" yaml:"image"`
	CORS       CORSConfig       `mapstructure:"cors" yaml:"cors"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit" yaml:"rate_limit"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port" validate:"gt=0,lt=65536"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"gt=0"`
}

type LoggingConfig struct {
	Development bool `mapstructure:"development" yaml:"development"`
}

type RepositoryConfig struct {
	Type string `mapstructure:"type" yaml:"type" validate:"oneof=inmemory postgres sqlite"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url" yaml:"url"`
	MaxConnections int           `mapstructure:"max_connections" yaml:"max_connections" validate:"gte=0"`
	MinConnections int           `mapstructure:"min_connections" yaml:"min_connections" validate:"gte=0,ltefield=MaxConnections"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout" validate:"gte=0"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type LLMConfig struct {
	Provider string `mapstructure:"provider" yaml:"provider" validate:"oneof=gemini mock"`
	APIKey   string `mapstructure:"api_key" yaml:"api_key"`
	Model    string `mapstructure:"model" yaml:"model"`
}

type ImageConfig struct {
	Provider string `mapstructure:"provider" yaml:"provider" validate:"oneof=placeholder gemini"`
	Model    string `mapstructure:"model" yaml:"model"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute" yaml:"requests_per_minute" validate:"gte=0"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8787)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("logging.development", false)

	v.SetDefault("repository.type", "inmemory")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.idle_timeout", 5*time.Minute)

	v.SetDefault("sqlite.path", "taskhelper.db")

	v.SetDefault("llm.provider", "mock")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gemini-2.0-flash")

	v.SetDefault("image.provider", "placeholder")
	v.SetDefault("image.model", "imagen-3.0-generate-002")

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173"})

	v.SetDefault("rate_limit.requests_per_minute", 120)
}

// Load reads the config file at path, then applies TASKHELPER_* environment
// overrides. An empty path falls back to $TASKHELPER_CONFIG and then to
// config.yml; the default file may be missing, an explicit one may not.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		if fromEnv := os.Getenv(ConfigPathEnv); fromEnv != "" {
			path, explicit = fromEnv, true
		} else {
			path = DefaultConfigPath
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	var errs []error
	if c.Repository.Type == "postgres" && c.Database.URL == "" {
		errs = append(errs, errors.New("database.url is required for the postgres repository"))
	}
	if c.Repository.Type == "sqlite" && c.SQLite.Path == "" {
		errs = append(errs, errors.New("sqlite.path is required for the sqlite repository"))
	}
	if (c.LLM.Provider == "gemini" || c.Image.Provider == "gemini") && c.LLM.APIKey == "" {
		errs = append(errs, errors.New("llm.api_key is required for gemini providers"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// Redacted renders the effective configuration as YAML with secrets masked.
func (c *Config) Redacted() string {
	clone := *c
	clone.CORS.AllowedOrigins = append([]string(nil), c.CORS.AllowedOrigins...)
	if clone.LLM.APIKey != "" {
		clone.LLM.APIKey = masked
	}
	clone.Database.URL = redactURL(clone.Database.URL)

	out, err := yaml.Marshal(clone)
	if err != nil {
		return ""
	}
	return string(out)
}

func redactURL(raw string) string {
	if raw == "" {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return masked
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), masked)
	}
	return u.String()
}
