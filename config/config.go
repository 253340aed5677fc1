package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "config/config.yaml"
	DefaultEnvFile    = ".env"
)

type Config struct {
	App     AppConfig     `yaml:"app"`
	Server  ServerConfig  `yaml:"server"`
	Weather WeatherConfig `yaml:"weather"`
	Log     LogConfig     `yaml:"log"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Env     string `yaml:"env"`
}

// ServerConfig timeouts are in seconds.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"read_timeout" split_words:"true"`
	WriteTimeout int    `yaml:"write_timeout" split_words:"true"`
	IdleTimeout  int    `yaml:"idle_timeout" split_words:"true"`
}

// WeatherConfig describes the upstream provider. Temperatures are always
// requested in metric units. Empty URLs select the provider's public
// endpoints. A zero Timeout leaves the request bounded only by the transport
// defaults.
type WeatherConfig struct {
	Provider     string `yaml:"provider"`
	BaseURL      string `yaml:"base_url" split_words:"true"`
	GeocodingURL string `yaml:"geocoding_url" split_words:"true"`
	APIKey       string `yaml:"api_key,omitempty" split_words:"true"`
	Lang         string `yaml:"lang"`
	IconBaseURL  string `yaml:"icon_base_url" split_words:"true"`
	Timeout      int    `yaml:"timeout"`
}

type LogConfig struct {
	Level     string `yaml:"level"`
	SentryDSN string `yaml:"sentry_dsn,omitempty" split_words:"true"`
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production" || c.App.Env == "prod"
}

// ConfigProvider loads and validates the application configuration.
type ConfigProvider interface {
	Load() (*Config, error)
	Validate(config *Config) error
}

type FileConfigProvider struct {
	path    string
	envFile string
}

func NewFileConfigProvider(path string) *FileConfigProvider {
	return &FileConfigProvider{
		path:    path,
		envFile: DefaultEnvFile,
	}
}

// WithEnvFile sets the dotenv file read before the environment is processed.
// An empty name disables dotenv loading.
func (p *FileConfigProvider) WithEnvFile(name string) *FileConfigProvider {
	p.envFile = name
	return p
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "weather-lookup",
			Version: "1.0.0",
			Env:     "development",
		},
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  10,
			WriteTimeout: 10,
			IdleTimeout:  120,
		},
		Weather: WeatherConfig{
			Provider:    "openweathermap",
			Lang:        "es",
			IconBaseURL: "https://openweathermap.org/img/wn",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func (p *FileConfigProvider) Load() (*Config, error) {
	cnf := defaultConfig()

	if err := p.loadEnvFile(); err != nil {
		return nil, err
	}

	if err := p.loadFromFile(cnf); err != nil {
		return nil, err
	}

	// Override with environment variables
	if err := envconfig.Process("", cnf); err != nil {
		return nil, fmt.Errorf("error environment variable parsing: %w", err)
	}

	return cnf, nil
}

// loadEnvFile populates the process environment from the dotenv file without
// overriding variables that are already set.
func (p *FileConfigProvider) loadEnvFile() error {
	if p.envFile == "" {
		return nil
	}

	if err := godotenv.Load(p.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file %s: %w", p.envFile, err)
	}

	return nil
}

// loadFromFile reads the YAML file over the current values. A missing file is
// not an error.
func (p *FileConfigProvider) loadFromFile(config *Config) error {
	yamlData, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", p.path, err)
	}

	if err := yaml.Unmarshal(yamlData, config); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}

	return nil
}

var (
	validProviders = []string{"openweathermap", "open-meteo"}
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
)

// Validate checks the structural settings. The provider API key is not
// required here: a missing key surfaces as a provider error at lookup time.
func (p *FileConfigProvider) Validate(config *Config) error {
	var errs []string

	if strings.TrimSpace(config.App.Name) == "" {
		errs = append(errs, "app.name is required")
	}
	if strings.TrimSpace(config.Server.Port) == "" {
		errs = append(errs, "server.port is required")
	}
	if config.Server.ReadTimeout < 0 || config.Server.WriteTimeout < 0 || config.Server.IdleTimeout < 0 {
		errs = append(errs, "server timeouts must not be negative")
	}

	for name, raw := range map[string]string{
		"weather.base_url":      config.Weather.BaseURL,
		"weather.geocoding_url": config.Weather.GeocodingURL,
		"weather.icon_base_url": config.Weather.IconBaseURL,
	} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, name+" must be an absolute URL")
		}
	}
	if !slices.Contains(validProviders, config.Weather.Provider) {
		errs = append(errs, fmt.Sprintf("weather.provider must be one of %v", validProviders))
	}
	if config.Weather.Timeout < 0 {
		errs = append(errs, "weather.timeout must not be negative")
	}

	if !slices.Contains(validLogLevels, strings.ToLower(config.Log.Level)) {
		errs = append(errs, fmt.Sprintf("log.level must be one of %v", validLogLevels))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}

	return nil
}

func NewConfig() (*Config, error) {
	return NewConfigWithProvider(NewFileConfigProvider(DefaultConfigPath))
}

func NewConfigWithProvider(provider ConfigProvider) (*Config, error) {
	cnf, err := provider.Load()
	if err != nil {
		return nil, err
	}

	if err := provider.Validate(cnf); err != nil {
		return nil, err
	}

	return cnf, nil
}
