package gitutil

import "strings"

// IsRemoteURL reports whether s looks like a remote repository URL rather
// than a local filesystem path.
func IsRemoteURL(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}
