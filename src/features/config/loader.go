package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML file from the given path and returns a new Manager.
// If the file doesn't exist, a default configuration is written there first.
// Environment variables override the file, then the result is validated.
func Load(path string) (*Manager, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables if set
	if appleID := os.Getenv("APPLE_ID"); appleID != "" {
		cfg.Notify.Recipient = appleID
	}
	if token := os.Getenv("TELEGRAM_TOKEN"); token != "" {
		cfg.Notify.Telegram.Token = token
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return NewManager(cfg), nil
}

// Validate checks the struct tags and the cross-field rules.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if cfg.Notify.Backend == "telegram" && cfg.Notify.Telegram.Token == "" {
		return fmt.Errorf("config validation failed: notify.telegram.token is required for the telegram backend")
	}
	if cfg.Notify.Backend == "command" && cfg.Notify.Command == "" {
		return fmt.Errorf("config validation failed: notify.command is required for the command backend")
	}
	return nil
}

func read(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Info("Config file not found, creating default configuration", "path", path)
		defaultCfg := createDefaultConfig()
		if err := saveDefaultConfig(path, defaultCfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return defaultCfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Start from the defaults so keys missing from the file keep their value
	cfg := createDefaultConfig()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	return cfg, nil
}

// saveDefaultConfig saves the default configuration to the specified file path
func saveDefaultConfig(path string, cfg *Config) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()
	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	slog.Info("Default configuration saved", "path", path)
	return nil
}
