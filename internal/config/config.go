package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"groobi/internal/changes"
)

// EnvPrefix namespaces every environment variable, e.g. GROOBI_SERVER_PORT
const EnvPrefix = "GROOBI"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Engine    EngineConfig    `yaml:"engine" envconfig:"ENGINE"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" validate:"gte=0"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	// RequestTimeout bounds how long a request waits for a busy workbook
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" validate:"gt=0"`
}

// Address returns host:port for net/http
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// TelemetryConfig selects the OpenTelemetry exporters
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricExporter string `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=prometheus none"`
}

// EngineConfig is the operator-controlled comparison configuration
type EngineConfig struct {
	IgnoredColumns      []string `yaml:"ignored_columns" envconfig:"IGNORED_COLUMNS"`
	NoiseThreshold      float64  `yaml:"noise_threshold" envconfig:"NOISE_THRESHOLD" validate:"gte=0,lte=1"`
	HeaderRow           int      `yaml:"header_row" envconfig:"HEADER_ROW" validate:"min=1"`
	DateOrder           string   `yaml:"date_order" envconfig:"DATE_ORDER" validate:"oneof=MD DM"`
	HighlightColor      string   `yaml:"highlight_color" envconfig:"HIGHLIGHT_COLOR" validate:"len=6,hexadecimal"`
	NumericTextAsNumber bool     `yaml:"numeric_text_as_number" envconfig:"NUMERIC_TEXT_AS_NUMBER"`
	// CleanupOrphans removes stale temp files next to a workbook before it
	// is processed
	CleanupOrphans bool `yaml:"cleanup_orphans" envconfig:"CLEANUP_ORPHANS"`
}

// Options converts the section into engine options
func (e EngineConfig) Options() changes.Options {
	return changes.Options{
		IgnoredColumns:      append([]string(nil), e.IgnoredColumns...),
		NoiseThreshold:      e.NoiseThreshold,
		HeaderRow:           e.HeaderRow,
		DateOrder:           changes.DateOrder(e.DateOrder),
		HighlightColor:      e.HighlightColor,
		NumericTextAsNumber: e.NumericTextAsNumber,
	}
}

// Load builds the configuration from defaults, the first config file found
// in the standard locations, and GROOBI_* environment variables, in
// increasing precedence.
func Load() (*Config, error) {
	return LoadFrom(findConfigFile())
}

// LoadFrom is Load with an explicit config file; "" skips the file layer
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configFile, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg; keys absent from the file
// keep their current values
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks every section's constraints
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified when CORS is enabled")
	}
	return nil
}

// findConfigFile returns the first existing config file, or ""
func findConfigFile() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG_FILE"); p != "" {
		return p
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    5 * time.Minute,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  5 * time.Minute,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8000", "app://."},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   10,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/groobi.log",
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "groobi",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
		},
		Engine: EngineConfig{
			IgnoredColumns: []string{"LOT #"},
			NoiseThreshold: 0.5,
			HeaderRow:      2,
			DateOrder:      string(changes.DateOrderMD),
			HighlightColor: changes.DefaultHighlightColor,
			CleanupOrphans: true,
		},
	}
}
