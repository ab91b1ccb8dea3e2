package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfigStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := newTestConfigStore(t)

	require.NoError(t, store.Set("llm.provider", "openai"))

	val, ok := store.Get("llm.provider")
	assert.True(t, ok)
	assert.Equal(t, "openai", val)
	assert.Equal(t, "openai", store.GetString("llm.provider"))
}

func TestConfigStore_Defaults(t *testing.T) {
	store := newTestConfigStore(t)

	assert.Equal(t, "ollama", store.GetString("embedding.provider"))
	assert.Equal(t, 1000, store.GetInt("chunker.size"))
	assert.Equal(t, 200, store.GetInt("chunker.overlap"))
	assert.Equal(t, 5, store.GetInt("query.top_k"))

	_, ok := store.Get("no.such.key")
	assert.False(t, ok)
}

func TestConfigStore_EnvOverride(t *testing.T) {
	store := newTestConfigStore(t)
	require.NoError(t, store.Set("llm.provider", "ollama"))

	t.Setenv("AGROLENS_LLM_PROVIDER", "openai")
	assert.Equal(t, "openai", store.GetString("llm.provider"))

	t.Setenv("AGROLENS_QUERY_TOP_K", "7")
	assert.Equal(t, 7, store.GetInt("query.top_k"))
}

func TestConfigStore_PersistsAcrossLoads(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("openai.api_key", "sk-test"))
	require.NoError(t, store.Set("chunker.size", int64(500)))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", reopened.GetString("openai.api_key"))
	assert.Equal(t, 500, reopened.GetInt("chunker.size"))
}

func TestConfigStore_SavesGroupedTOML(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("ollama.base_url", "http://remote:11434"))

	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[ollama]")
	assert.Contains(t, string(data), "base_url")
}

func TestConfigStore_TypeMismatches(t *testing.T) {
	store := newTestConfigStore(t)
	require.NoError(t, store.Set("some.number", int64(42)))

	assert.Empty(t, store.GetString("some.number"))
	assert.Zero(t, store.GetInt("embedding.provider"))
	assert.False(t, store.GetBool("embedding.provider"))
}

func TestConfigStore_GetBool(t *testing.T) {
	store := newTestConfigStore(t)
	require.NoError(t, store.Set("feature.enabled", true))

	assert.True(t, store.GetBool("feature.enabled"))

	t.Setenv("AGROLENS_FEATURE_ENABLED", "false")
	assert.False(t, store.GetBool("feature.enabled"))
}

func TestConfigStore_Path(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}
