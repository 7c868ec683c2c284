package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	API         APIConfig         `mapstructure:"api"`
	Search      SearchConfig      `mapstructure:"search"`
	Console     ConsoleConfig     `mapstructure:"console"`
	Preferences PreferencesConfig `mapstructure:"preferences"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	CORS        CORSConfig        `mapstructure:"cors"`
}

type APIConfig struct {
	BaseURL            string        `mapstructure:"base_url"`
	Timeout            time.Duration `mapstructure:"timeout"`
	RetryCount         int           `mapstructure:"retry_count"`
	RetryDelay         time.Duration `mapstructure:"retry_delay"`
	BreakerMaxRequests uint32        `mapstructure:"breaker_max_requests"`
	BreakerInterval    time.Duration `mapstructure:"breaker_interval"`
	BreakerTimeout     time.Duration `mapstructure:"breaker_timeout"`
	BreakerMinRequests uint32        `mapstructure:"breaker_min_requests"`
	BreakerFailureRate float64       `mapstructure:"breaker_failure_rate"`
}

type SearchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

type ConsoleConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type PreferencesConfig struct {
	Path string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Pretty  bool   `mapstructure:"pretty"`
	NoColor bool   `mapstructure:"no_color"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("api.base_url", "http://localhost:5000")
	viper.SetDefault("api.timeout", "30s")
	viper.SetDefault("api.retry_count", 3)
	viper.SetDefault("api.retry_delay", "100ms")
	viper.SetDefault("api.breaker_max_requests", 5)
	viper.SetDefault("api.breaker_interval", "30s")
	viper.SetDefault("api.breaker_timeout", "60s")
	viper.SetDefault("api.breaker_min_requests", 5)
	viper.SetDefault("api.breaker_failure_rate", 0.5)

	viper.SetDefault("search.debounce", "300ms")

	viper.SetDefault("console.address", "127.0.0.1:7070")
	viper.SetDefault("console.read_timeout", "15s")
	viper.SetDefault("console.write_timeout", "15s")
	viper.SetDefault("console.idle_timeout", "60s")
	viper.SetDefault("console.shutdown_timeout", "10s")

	viper.SetDefault("preferences.path", "preferences.yaml")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.pretty", true)
	viper.SetDefault("logging.no_color", false)

	viper.SetDefault("cors.allowed_origins", []string{"http://localhost:7070", "http://127.0.0.1:7070"})
	viper.SetDefault("cors.allowed_methods", []string{"GET", "POST", "DELETE", "OPTIONS"})
	viper.SetDefault("cors.allowed_headers", []string{"Accept", "Content-Type"})
	viper.SetDefault("cors.exposed_headers", []string{"Link"})
	viper.SetDefault("cors.allow_credentials", true)
	viper.SetDefault("cors.max_age", 300)
}
