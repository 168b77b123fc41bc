package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Required environment variables.
const (
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvAuthorization = "AUTHORIZATION"
	EnvServerURL     = "SERVER_URL"
)

// MissingKeyError names the configuration key that was absent or empty.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("required environment variable %s is not set", e.Key)
}

type Config struct {
	OpenAIAPIKey  string
	Authorization string
	ServerURL     string

	BaseURL     string // empty means the provider default
	Model       string
	ServerLabel string
	Symbol      string
	Window      string
	OutputPath  string

	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment. The three credentials are
// required; everything else falls back to a default.
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIAPIKey:  os.Getenv(EnvOpenAIKey),
		Authorization: os.Getenv(EnvAuthorization),
		ServerURL:     os.Getenv(EnvServerURL),
		BaseURL:       getEnvOrDefault("OPENAI_BASE_URL", ""),
		Model:         getEnvOrDefault("ANALYZER_MODEL", "gpt-5-mini"),
		ServerLabel:   getEnvOrDefault("ANALYZER_SERVER_LABEL", "AlphaVantage"),
		Symbol:        getEnvOrDefault("ANALYZER_SYMBOL", "AAPL"),
		Window:        getEnvOrDefault("ANALYZER_WINDOW", "the last 3 months"),
		OutputPath:    getEnvOrDefault("ANALYZER_OUTPUT", "stock_image.png"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:     getEnvOrDefault("LOG_FORMAT", "text"),
	}

	required := []struct{ key, val string }{
		{EnvOpenAIKey, cfg.OpenAIAPIKey},
		{EnvAuthorization, cfg.Authorization},
		{EnvServerURL, cfg.ServerURL},
	}
	for _, req := range required {
		if strings.TrimSpace(req.val) == "" {
			return nil, &MissingKeyError{Key: req.key}
		}
	}
	return cfg, nil
}

// Extras enables the optional history/storage sinks, loaded from a YAML file.
type Extras struct {
	Storage struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"storage"`

	History struct {
		Driver   string `yaml:"driver"` // mysql | postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"history"`
}

// LoadExtras reads the optional YAML config. A missing file just disables
// the sinks; it is not an error.
func LoadExtras(path string) (*Extras, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var ex Extras
	if err := yaml.Unmarshal(data, &ex); err != nil {
		return nil, err
	}
	return &ex, nil
}

func (e *Extras) StorageEnabled() bool { return e != nil && e.Storage.Endpoint != "" }
func (e *Extras) HistoryEnabled() bool { return e != nil && e.History.Driver != "" }

// Helper to build the MySQL history DSN
func (e *Extras) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		e.History.User,
		e.History.Password,
		e.History.Host,
		e.History.Port,
		e.History.Name,
	)
}

// Helper to build the Postgres history DSN
func (e *Extras) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		e.History.Host,
		e.History.Port,
		e.History.User,
		e.History.Password,
		e.History.Name,
	)
}

// getEnvOrDefault returns the environment variable value or a default when
// unset, empty or whitespace-only
func getEnvOrDefault(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}
