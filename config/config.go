package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for manygit.
type Config struct {
	Connections []ConnectionConfig `yaml:"connections"`
}

// ConnectionConfig describes the credential for a single hosting service
// connection.
type ConnectionConfig struct {
	Provider string `yaml:"provider"` // "github", "gitlab", "gitea"
	Auth     string `yaml:"auth"`     // Auth scheme within the provider family
	Username string `yaml:"username"` // Required by username-based schemes only
	Token    string `yaml:"token"`    // Inline, ${ENV_VAR}, or file path
	URL      string `yaml:"url"`      // Optional enterprise or self-hosted URL
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Load reads and parses a configuration file, expanding environment variables
// and resolving token file paths.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var cfg Config
	if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	// Resolve tokens (env vars and file paths)
	for i := range cfg.Connections {
		cfg.Connections[i].Token = resolveToken(cfg.Connections[i].Token)
	}

	if validateErr := validate(&cfg); validateErr != nil {
		return nil, validateErr
	}

	return &cfg, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".manygit.yaml",
		".manygit.yml",
		"manygit.yaml",
		"manygit.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	// Expand ${ENV_VAR} references
	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	// If the resolved value is a path to an existing file, read the token from it
	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// validate checks for required configuration values.
func validate(cfg *Config) error {
	if len(cfg.Connections) == 0 {
		return errors.New("at least one connection must be configured")
	}

	for i, c := range cfg.Connections {
		if c.Provider == "" {
			return fmt.Errorf("connections[%d].provider is required", i)
		}
		if c.Token == "" {
			return fmt.Errorf(
				"connections[%d].token is required (set inline, via ${ENV_VAR}, or as file path)",
				i,
			)
		}
	}

	return nil
}
