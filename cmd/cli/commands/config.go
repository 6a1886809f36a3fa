package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// cliConfig holds CLI-local settings read from ~/.voxtask.yaml. Values not
// present fall back to the same environment variables the server uses.
type cliConfig struct {
	UserID      string `yaml:"user_id"`
	DatabaseURL string `yaml:"database_url"`
	OpenAIKey   string `yaml:"openai_api_key"`
	AIModel     string `yaml:"ai_model"`
	AIBaseURL   string `yaml:"ai_base_url"`
}

func loadCLIConfig() (*cliConfig, error) {
	cfg := &cliConfig{}

	home, err := os.UserHomeDir()
	if err == nil {
		path := filepath.Join(home, ".voxtask.yaml")
		data, readErr := os.ReadFile(path)
		if readErr == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.OpenAIKey == "" {
		cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.AIModel == "" {
		cfg.AIModel = os.Getenv("AI_MODEL")
	}
	if cfg.AIBaseURL == "" {
		cfg.AIBaseURL = os.Getenv("AI_BASE_URL")
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database_url is required (set it in ~/.voxtask.yaml or DATABASE_URL)")
	}

	return cfg, nil
}

// resolveUserID prefers the --user flag, then the config file
func resolveUserID(flagValue string, cfg *cliConfig) (uuid.UUID, error) {
	raw := flagValue
	if raw == "" {
		raw = cfg.UserID
	}
	if raw == "" {
		return uuid.Nil, fmt.Errorf("user ID is required (use --user or set user_id in ~/.voxtask.yaml)")
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user ID %q: %w", raw, err)
	}
	return id, nil
}
