package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harvest-labs/agrolens-cli/internal/core/ports/driven"
)

func TestNewPromptStore_WithCustomDir(t *testing.T) {
	dir := t.TempDir()

	store, err := NewPromptStore(dir)

	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())
}

func TestNewPromptStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	store, err := NewPromptStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".agrolens", "prompts"), store.Dir())
}

func TestPromptStore_Load_CreatesDefaultFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	// Load triggers lazy init
	prompt, err := store.Load(driven.PromptRAGAnswer)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Context:")

	for _, f := range []string{"rag_answer.txt", "README.md"} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, "expected file %s to exist", f)
	}
}

func TestPromptStore_Load_UserEditedFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	custom := "Custom%s prompt with %s and %s"
	path := filepath.Join(dir, driven.PromptRAGAnswer+".txt")
	require.NoError(t, os.WriteFile(path, []byte(custom+"\n"), 0600))

	prompt, err := store.Load(driven.PromptRAGAnswer)
	require.NoError(t, err)
	assert.Equal(t, custom, prompt)
}

func TestPromptStore_Load_UnknownPrompt(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("no_such_prompt")
	assert.Error(t, err)
}

func TestPromptStore_Reload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	original, err := store.Load(driven.PromptRAGAnswer)
	require.NoError(t, err)

	// Edit the file behind the cache.
	path := filepath.Join(dir, driven.PromptRAGAnswer+".txt")
	require.NoError(t, os.WriteFile(path, []byte("Edited%s %s %s"), 0600))

	// Cached value still served until Reload.
	cached, err := store.Load(driven.PromptRAGAnswer)
	require.NoError(t, err)
	assert.Equal(t, original, cached)

	store.Reload()

	fresh, err := store.Load(driven.PromptRAGAnswer)
	require.NoError(t, err)
	assert.Equal(t, "Edited%s %s %s", fresh)
}
