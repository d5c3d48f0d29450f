package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the VK video scanner
type Config struct {
	// VK API and web settings
	VK VKConfig `yaml:"vk" json:"vk"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Relational store
	Database DatabaseConfig `yaml:"database" json:"database"`

	// Batch scan settings
	Scan ScanConfig `yaml:"scan" json:"scan"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// VKConfig holds VK-specific configuration
type VKConfig struct {
	AccessToken string `yaml:"access_token" json:"access_token"`
	APIVersion  string `yaml:"api_version" json:"api_version"`
	APIBaseURL  string `yaml:"api_base_url" json:"api_base_url"`
	WebBaseURL  string `yaml:"web_base_url" json:"web_base_url"`
	UserAgent   string `yaml:"user_agent" json:"user_agent"`
	// PageSize is the video.get count parameter
	PageSize int `yaml:"page_size" json:"page_size"`
	// ResolveRetryDelay is the fixed wait between users.get attempts
	ResolveRetryDelay time.Duration `yaml:"resolve_retry_delay" json:"resolve_retry_delay"`
	// ResolveMaxAttempts caps users.get attempts; 0 retries forever
	ResolveMaxAttempts int           `yaml:"resolve_max_attempts" json:"resolve_max_attempts"`
	RequestTimeout     time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `yaml:"burst" json:"burst"`
}

// DatabaseConfig selects the SQL driver and data source
type DatabaseConfig struct {
	// Driver is "sqlite" or "pgx"
	Driver      string `yaml:"driver" json:"driver"`
	DSN         string `yaml:"dsn" json:"dsn"`
	AutoMigrate bool   `yaml:"auto_migrate" json:"auto_migrate"`
}

// ScanConfig holds batch scan configuration
type ScanConfig struct {
	UsersFile string `yaml:"users_file" json:"users_file"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		VK: VKConfig{
			APIVersion:         "5.92",
			APIBaseURL:         "https://api.vk.com/method",
			WebBaseURL:         "https://vk.com",
			UserAgent:          "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			PageSize:           200,
			ResolveRetryDelay:  time.Second,
			ResolveMaxAttempts: 0,
			RequestTimeout:     30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 3,
			Burst:             3,
		},
		Database: DatabaseConfig{
			Driver:      "sqlite",
			DSN:         "vkscan.db",
			AutoMigrate: true,
		},
		Scan: ScanConfig{
			UsersFile: "users.txt",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if token := os.Getenv("VKSCAN_ACCESS_TOKEN"); token != "" {
		c.VK.AccessToken = token
	}
	if version := os.Getenv("VKSCAN_API_VERSION"); version != "" {
		c.VK.APIVersion = version
	}
	if userAgent := os.Getenv("VKSCAN_USER_AGENT"); userAgent != "" {
		c.VK.UserAgent = userAgent
	}
	if attempts := os.Getenv("VKSCAN_RESOLVE_MAX_ATTEMPTS"); attempts != "" {
		val, err := strconv.Atoi(attempts)
		if err != nil {
			errs = append(errs, fmt.Errorf("VKSCAN_RESOLVE_MAX_ATTEMPTS: %w", err))
		} else {
			c.VK.ResolveMaxAttempts = val
		}
	}

	if rps := os.Getenv("VKSCAN_REQUESTS_PER_SECOND"); rps != "" {
		val, err := strconv.ParseFloat(rps, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("VKSCAN_REQUESTS_PER_SECOND: %w", err))
		} else if val > 0 {
			c.RateLimit.RequestsPerSecond = val
		}
	}

	if driver := os.Getenv("VKSCAN_DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("VKSCAN_DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}

	if usersFile := os.Getenv("VKSCAN_USERS_FILE"); usersFile != "" {
		c.Scan.UsersFile = usersFile
	}

	if logLevel := os.Getenv("VKSCAN_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		"vkscan.yaml",
		"vkscan.yml",
		".vkscan.yaml",
		".vkscan.yml",
		filepath.Join(home, ".config", "vkscan", "config.yaml"),
		filepath.Join(home, ".config", "vkscan", "config.yml"),
		filepath.Join(home, ".vkscan.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid. The access token is not
// required here because commands that do not call the API can run without it.
func (c *Config) Validate() error {
	var errs []error

	if c.VK.APIVersion == "" {
		errs = append(errs, errors.New("VK API version is required"))
	}
	if c.VK.APIBaseURL == "" {
		errs = append(errs, errors.New("VK API base URL is required"))
	}
	if c.VK.WebBaseURL == "" {
		errs = append(errs, errors.New("VK web base URL is required"))
	}
	if c.VK.PageSize <= 0 || c.VK.PageSize > 200 {
		errs = append(errs, errors.New("page size must be between 1 and 200"))
	}
	if c.VK.ResolveRetryDelay < 0 {
		errs = append(errs, errors.New("resolve retry delay cannot be negative"))
	}
	if c.VK.ResolveMaxAttempts < 0 {
		errs = append(errs, errors.New("resolve max attempts cannot be negative"))
	}
	if c.VK.RequestTimeout < 0 {
		errs = append(errs, errors.New("request timeout cannot be negative"))
	}

	if c.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("requests per second cannot be negative"))
	}
	if c.RateLimit.Burst < 0 {
		errs = append(errs, errors.New("burst cannot be negative"))
	}

	switch c.Database.Driver {
	case "sqlite", "pgx":
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q (want sqlite or pgx)", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database DSN is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if token, ok := flags["access-token"].(string); ok && token != "" {
		c.VK.AccessToken = token
	}
	if version, ok := flags["api-version"].(string); ok && version != "" {
		c.VK.APIVersion = version
	}
	if attempts, ok := flags["resolve-max-attempts"].(int); ok && attempts >= 0 {
		c.VK.ResolveMaxAttempts = attempts
	}
	if driver, ok := flags["db-driver"].(string); ok && driver != "" {
		c.Database.Driver = driver
	}
	if dsn, ok := flags["db-dsn"].(string); ok && dsn != "" {
		c.Database.DSN = dsn
	}
	if usersFile, ok := flags["users-file"].(string); ok && usersFile != "" {
		c.Scan.UsersFile = usersFile
	}
	if rps, ok := flags["requests-per-second"].(float64); ok && rps > 0 {
		c.RateLimit.RequestsPerSecond = rps
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".vkscan.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
