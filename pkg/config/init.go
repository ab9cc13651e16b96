package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// configFileHeader is prepended to generated configuration files.
const configFileHeader = `# DittoDrive Configuration File
#
# This file was generated by 'dittodrive init'.
# Edit the values below to customize your deployment.
#
# Environment variables with the DITTODRIVE_ prefix override file values.
# Example: DITTODRIVE_LOGGING_LEVEL=DEBUG
#
# The JWT signing secret below was randomly generated for development use.
# For production, prefer the environment variable:
#   export DITTODRIVE_JWT_SECRET=$(openssl rand -hex 32)

`

// InitConfig creates a sample configuration file at the default location
// ($XDG_CONFIG_HOME/dittodrive/config.yaml).
//
// Returns the path of the created file. Fails if a config file already
// exists unless force is true.
func InitConfig(force bool) (string, error) {
	configPath := GetDefaultConfigPath()
	if err := InitConfigToPath(configPath, force); err != nil {
		return "", err
	}
	return configPath, nil
}

// InitConfigToPath creates a sample configuration file at the given path,
// creating parent directories as needed. Fails if the file already exists
// unless force is true.
func InitConfigToPath(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", path)
	}

	cfg := GetDefaultConfig()

	// Generate a random development JWT secret so a freshly initialized
	// server works out of the box.
	secret, err := generateSecret()
	if err != nil {
		return fmt.Errorf("failed to generate jwt secret: %w", err)
	}
	cfg.Auth.Secret = secret

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// 0600: the file carries the JWT secret and may carry S3 credentials
	content := append([]byte(configFileHeader), data...)
	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// generateSecret returns a 64-character hex string (32 bytes of entropy).
func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
