package core

import (
	"path/filepath"
	"strings"
)

// RepoConfig represents the structure of the optional .critiq.yml file that a
// repository may carry to steer its own reviews.
type RepoConfig struct {
	// Custom instructions appended to the review prompt.
	CustomInstructions []string `yaml:"custom_instructions"`

	// Exclusion of entire directories by name.
	// Example: ["dist", "build", "docs"]
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// Exclusion of files based on their extension.
	// The leading dot is optional. Example: [".md", "lock", ".log"]
	ExcludeExts []string `yaml:"exclude_exts"`
}

// Excludes reports whether a repository-relative path is excluded from
// review by directory name or file extension.
func (c *RepoConfig) Excludes(path string) bool {
	parts := strings.Split(filepath.ToSlash(path), "/")
	for _, dir := range c.ExcludeDirs {
		for _, part := range parts[:max(len(parts)-1, 0)] {
			if part == dir {
				return true
			}
		}
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	for _, excluded := range c.ExcludeExts {
		if ext == strings.TrimPrefix(excluded, ".") && ext != "" {
			return true
		}
	}
	return false
}

// DefaultRepoConfig returns a config with default values.
func DefaultRepoConfig() *RepoConfig {
	return &RepoConfig{
		CustomInstructions: []string{},
		ExcludeDirs:        []string{},
		ExcludeExts:        []string{},
	}
}
