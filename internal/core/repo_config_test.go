package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepoConfigExcludes(t *testing.T) {
	cfg := &RepoConfig{
		ExcludeDirs: []string{"vendor", "docs"},
		ExcludeExts: []string{".md", "lock"},
	}

	tests := []struct {
		path string
		want bool
	}{
		{"vendor/lib/util.go", true},
		{"docs/guide.txt", true},
		{"internal/docs.go", false}, // file named like a dir is not a dir
		{"README.md", true},
		{"go.lock", true},
		{"main.go", false},
		{"pkg/server/router.go", false},
		{"Makefile", false}, // no extension never matches ext rules
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.Excludes(tt.path), "path %q", tt.path)
	}

	assert.False(t, DefaultRepoConfig().Excludes("anything.go"))
}
