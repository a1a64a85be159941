package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rpgo/swr-simulator/internal/domain"
)

// EnvPrefix namespaces environment overrides, e.g. SWRSIM_SERVER_PORT.
const EnvPrefix = "SWRSIM"

// ServiceConfig holds process-level settings for the CLI and HTTP service. Scenario
// parameters live in domain.Configuration instead.
type ServiceConfig struct {
	LogLevel  string       `mapstructure:"log_level"`
	LogFormat string       `mapstructure:"log_format"`
	Workers   int          `mapstructure:"workers"`
	Server    ServerConfig `mapstructure:"server"`
	Data      DataConfig   `mapstructure:"data"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DataConfig points at the datasets served and used by default.
type DataConfig struct {
	Historic  string `mapstructure:"historic"`
	Forward   string `mapstructure:"forward"`
	Mortality string `mapstructure:"mortality"`
}

// Sources converts the paths to the form the dataset loader takes.
func (d DataConfig) Sources() domain.DataSources {
	return domain.DataSources{Historic: d.Historic, Forward: d.Forward, Mortality: d.Mortality}
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("workers", 0)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "2m")
	v.SetDefault("server.request_timeout", "90s")

	defaults := DefaultConfiguration().Data
	v.SetDefault("data.historic", defaults.Historic)
	v.SetDefault("data.forward", defaults.Forward)
	v.SetDefault("data.mortality", defaults.Mortality)
}

// LoadServiceConfig reads settings from defaults, an optional swrsim.yaml in ./configs or
// the working directory (or the explicit file given), and SWRSIM_* environment variables.
func LoadServiceConfig(file string) (*ServiceConfig, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("swrsim")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read service config: %w", err)
		}
	}

	var cfg ServiceConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode service config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the service settings.
func (c *ServiceConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers cannot be negative")
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("log format must be 'console' or 'json', got %q", c.LogFormat)
	}
	return nil
}
