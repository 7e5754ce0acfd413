package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/critiq-ai/critiq/internal/core"
)

var (
	ErrRepoConfigNotFound = errors.New("repo config file not found")
	ErrRepoConfigParsing  = errors.New("repo config parsing failed")
)

// LoadRepoConfig loads and parses the .critiq.yml file from a repository path.
// A missing file yields defaults together with ErrRepoConfigNotFound so
// callers can decide whether to mention it.
func LoadRepoConfig(repoPath string) (*core.RepoConfig, error) {
	configPath := filepath.Join(repoPath, ".critiq.yml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return core.DefaultRepoConfig(), ErrRepoConfigNotFound
		}
		return nil, fmt.Errorf("failed to read .critiq.yml: %w", err)
	}

	cfg := core.DefaultRepoConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRepoConfigParsing, err)
	}
	return cfg, nil
}
