package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultAPIBaseURL is used until the user points the client elsewhere.
const DefaultAPIBaseURL = "https://uni-api-w0ms.onrender.com"

// Config holds user preferences
type Config struct {
	APIBaseURL         string `yaml:"api_base_url" json:"api_base_url"`                   // Remote API base URL
	PageSize           int    `yaml:"page_size" json:"page_size"`                         // Catalog page size hint
	ConfirmAdminDelete bool   `yaml:"confirm_admin_delete" json:"confirm_admin_delete"`   // Require confirmation for admin deletes

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	logPath := ""
	if home != "" {
		logPath = filepath.Join(home, ".unicompass", "logs", "unicompass.log")
	}

	return &Config{
		APIBaseURL:         getEnv("UNICOMPASS_API_URL", DefaultAPIBaseURL),
		PageSize:           getEnvInt("UNICOMPASS_PAGE_SIZE", 20),
		ConfirmAdminDelete: true,
		LogLevel:           getEnv("UNICOMPASS_LOG_LEVEL", "INFO"),
		LogFile:            getEnv("UNICOMPASS_LOG_FILE", logPath),
		LogConsole:         getEnv("UNICOMPASS_LOG_CONSOLE", "false") == "true",
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

// Path returns the config file path (~/.unicompass/config.yaml)
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".unicompass", "config.yaml"), nil
}

// Load loads config from ~/.unicompass/config.yaml
func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		return nil, err
	}

	// Check if exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Return defaults if no config
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save saves config to ~/.unicompass/config.yaml
func (c *Config) Save() error {
	configPath, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
