package review

import (
	"path/filepath"
	"strings"
)

var extensionLanguages = map[string]string{
	".py":    "python",
	".js":    "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".java":  "java",
	".cpp":   "cpp",
	".cc":    "cpp",
	".hpp":   "cpp",
	".c":     "c",
	".h":     "c",
	".go":    "go",
	".rs":    "rust",
	".php":   "php",
	".rb":    "ruby",
	".kt":    "kotlin",
	".swift": "swift",
	".cs":    "csharp",
	".sh":    "shell",
	".sql":   "sql",
}

// DetectLanguage guesses the programming language from a file name's
// extension. Unknown extensions map to "text".
func DetectLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extensionLanguages[ext]; ok {
		return lang
	}
	return "text"
}
