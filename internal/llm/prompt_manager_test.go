package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPromptManagerLoadsEmbeddedPrompts(t *testing.T) {
	pm, err := NewPromptManager()
	require.NoError(t, err)

	for _, key := range []PromptKey{SystemPrompt, CommitReviewPrompt, FileReviewPrompt, AlgorithmPrompt, ChatPrompt} {
		_, err := pm.Get(key, DefaultProvider)
		assert.NoError(t, err, "missing embedded prompt for key %q", key)
	}
}

func TestPromptManagerProviderFallback(t *testing.T) {
	pm, err := NewPromptManager()
	require.NoError(t, err)

	// No gemini-specific variant is shipped; the default must be served.
	tmpl, err := pm.Get(AlgorithmPrompt, ModelProvider("gemini"))
	require.NoError(t, err)
	assert.NotNil(t, tmpl)

	_, err = pm.Get(PromptKey("nonexistent"), DefaultProvider)
	assert.Error(t, err)
}

func TestRenderCommitReviewPrompt(t *testing.T) {
	pm, err := NewPromptManager()
	require.NoError(t, err)

	out, err := pm.Render(CommitReviewPrompt, DefaultProvider, map[string]any{
		"ShortHash":    "abc1234",
		"Message":      "fix cache invalidation",
		"Dimensions":   []string{"readability", "performance"},
		"Instructions": []string{"prefer table-driven tests"},
		"Diff":         "+added line\n-removed line",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "abc1234")
	assert.Contains(t, out, "fix cache invalidation")
	assert.Contains(t, out, "readability, performance")
	assert.Contains(t, out, "prefer table-driven tests")
	assert.Contains(t, out, "+added line")
	assert.Contains(t, out, "## Suggestion [path/to/file.go:123]")
}

func TestRenderFileReviewPromptChunkNote(t *testing.T) {
	pm, err := NewPromptManager()
	require.NoError(t, err)

	data := map[string]any{
		"FilePath":   "pkg/util/strings.go",
		"Language":   "go",
		"Dimensions": []string{"maintainability"},
		"Code":       "func main() {}",
		"Part":       2,
		"Parts":      3,
	}
	out, err := pm.Render(FileReviewPrompt, DefaultProvider, data)
	require.NoError(t, err)
	assert.Contains(t, out, "part 2 of 3")

	data["Part"] = 1
	data["Parts"] = 1
	out, err = pm.Render(FileReviewPrompt, DefaultProvider, data)
	require.NoError(t, err)
	assert.NotContains(t, out, "part 1 of 1")
}

func TestRenderChatPromptHistory(t *testing.T) {
	pm, err := NewPromptManager()
	require.NoError(t, err)

	type turn struct {
		Role    string
		Content string
	}
	out, err := pm.Render(ChatPrompt, DefaultProvider, map[string]any{
		"History": []turn{
			{Role: "Developer", Content: "what does this loop do?"},
			{Role: "Assistant", Content: "it deduplicates the slice"},
		},
		"Message": "can it be faster?",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "what does this loop do?")
	assert.Contains(t, out, "it deduplicates the slice")
	assert.Contains(t, out, "Developer: can it be faster?")
}
