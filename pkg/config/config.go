package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ServerConfig represents server configuration
type ServerConfig struct {
	Address  string         `yaml:"address"`
	TLS      TLSConfig      `yaml:"tls"`
	Auth     AuthConfig     `yaml:"auth"`
	Files    FilesConfig    `yaml:"files"`
	Static   StaticConfig   `yaml:"static"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// TLSConfig represents TLS settings
type TLSConfig struct {
	Enabled     bool   `yaml:"enabled"`
	CertFile    string `yaml:"cert_file"`
	KeyFile     string `yaml:"key_file"`
	BehindProxy bool   `yaml:"behind_proxy"`
}

// AuthConfig represents shared-secret authentication settings
type AuthConfig struct {
	Password    string `yaml:"password"`
	MaxAttempts int    `yaml:"max_attempts"`
	WindowSecs  int    `yaml:"attempt_window_seconds"`
}

// FilesConfig represents the files resource settings
type FilesConfig struct {
	Root string `yaml:"root"`
}

// StaticConfig represents the static fallback settings
type StaticConfig struct {
	Root string `yaml:"root"`
}

// DatabaseConfig represents audit store settings
type DatabaseConfig struct {
	Type string `yaml:"type"` // sqlite | mysql | none
	Path string `yaml:"path"` // sqlite file path
	DSN  string `yaml:"dsn"`  // mysql data source name
}

// LoggingConfig represents logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Address: ":8443",
		TLS: TLSConfig{
			Enabled:     false,
			CertFile:    "",
			KeyFile:     "",
			BehindProxy: false,
		},
		Auth: AuthConfig{
			Password:    "",
			MaxAttempts: 5,
			WindowSecs:  300,
		},
		Files: FilesConfig{
			Root: "",
		},
		Static: StaticConfig{
			Root: "./web",
		},
		Database: DatabaseConfig{
			Type: "sqlite",
			Path: "./audit.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*ServerConfig, error) {
	config := DefaultConfig()

	// Load from file if provided
	if configPath != "" {
		if err := loadFromFile(configPath, config); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Override with environment variables
	applyEnvOverrides(config)

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(path string, config *ServerConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, config)
}

// applyEnvOverrides applies environment variable overrides
func applyEnvOverrides(config *ServerConfig) {
	if addr := os.Getenv("CODEGATE_ADDR"); addr != "" {
		config.Address = addr
	}

	if password := os.Getenv("CODEGATE_PASSWORD"); password != "" {
		config.Auth.Password = password
	}

	if root := os.Getenv("CODEGATE_FILES_ROOT"); root != "" {
		config.Files.Root = root
	}

	if root := os.Getenv("CODEGATE_STATIC_ROOT"); root != "" {
		config.Static.Root = root
	}

	if dbType := os.Getenv("CODEGATE_DB_TYPE"); dbType != "" {
		config.Database.Type = dbType
	}

	if dbPath := os.Getenv("CODEGATE_DB_PATH"); dbPath != "" {
		config.Database.Path = dbPath
	}

	if dsn := os.Getenv("CODEGATE_DB_DSN"); dsn != "" {
		config.Database.DSN = dsn
	}

	if logLevel := os.Getenv("CODEGATE_LOG_LEVEL"); logLevel != "" {
		config.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("CODEGATE_LOG_FORMAT"); logFormat != "" {
		config.Logging.Format = logFormat
	}

	if tlsEnabled := os.Getenv("CODEGATE_TLS_ENABLED"); tlsEnabled != "" {
		config.TLS.Enabled = tlsEnabled == "true"
	}

	if certFile := os.Getenv("CODEGATE_TLS_CERT_FILE"); certFile != "" {
		config.TLS.CertFile = certFile
	}

	if keyFile := os.Getenv("CODEGATE_TLS_KEY_FILE"); keyFile != "" {
		config.TLS.KeyFile = keyFile
	}

	if maxAttempts := os.Getenv("CODEGATE_AUTH_MAX_ATTEMPTS"); maxAttempts != "" {
		if val, err := strconv.Atoi(maxAttempts); err == nil {
			config.Auth.MaxAttempts = val
		}
	}
}

// Validate validates the configuration
func (c *ServerConfig) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("server address cannot be empty")
	}

	if c.Auth.Password == "" {
		return fmt.Errorf("auth password cannot be empty")
	}

	if c.Auth.MaxAttempts < 1 {
		return fmt.Errorf("auth max attempts must be at least 1")
	}

	if c.TLS.Enabled {
		if c.TLS.CertFile == "" || c.TLS.KeyFile == "" {
			return fmt.Errorf("TLS enabled but cert/key files not provided")
		}

		if _, err := os.Stat(c.TLS.CertFile); err != nil {
			return fmt.Errorf("certificate file not found: %w", err)
		}

		if _, err := os.Stat(c.TLS.KeyFile); err != nil {
			return fmt.Errorf("key file not found: %w", err)
		}
	}

	switch c.Database.Type {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("sqlite database path cannot be empty")
		}
	case "mysql":
		if c.Database.DSN == "" {
			return fmt.Errorf("mysql DSN cannot be empty")
		}
	case "none":
		// Audit persistence disabled; failures are log-only.
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}

	if !isValidLogLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}

// isValidLogLevel checks if the log level is valid
func isValidLogLevel(level string) bool {
	valid := []string{"debug", "info", "warn", "error"}
	level = strings.ToLower(level)
	for _, v := range valid {
		if level == v {
			return true
		}
	}
	return false
}

// GetDatabasePath returns the absolute sqlite database path
func (c *ServerConfig) GetDatabasePath() string {
	if filepath.IsAbs(c.Database.Path) {
		return c.Database.Path
	}
	wd, err := os.Getwd()
	if err != nil {
		return c.Database.Path
	}
	return filepath.Join(wd, c.Database.Path)
}

// String returns a string representation of the configuration (for logging)
func (c *ServerConfig) String() string {
	return fmt.Sprintf("Config{Address: %s, DB: %s, TLS: %v, LogLevel: %s}",
		c.Address, c.Database.Type, c.TLS.Enabled, c.Logging.Level)
}
