package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestConfigStore_SetAndGetString(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(KeyAnthropicAPIKey, "sk-ant-test"))

	assert.Equal(t, "sk-ant-test", store.GetString(KeyAnthropicAPIKey))
	assert.Empty(t, store.GetString("no.such.key"))
}

func TestConfigStore_GetStringWrongType(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(KeyChunkSize, 800))

	assert.Empty(t, store.GetString(KeyChunkSize))
}

func TestConfigStore_GetInt(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(KeyChunkSize, 800))
	require.NoError(t, store.Set(KeyHistoryWindow, int64(4)))

	assert.Equal(t, 800, store.GetInt(KeyChunkSize))
	assert.Equal(t, 4, store.GetInt(KeyHistoryWindow))
	assert.Zero(t, store.GetInt("no.such.key"))
	assert.Zero(t, store.GetInt(KeyAnthropicAPIKey), "non-integer values read as zero")
}

func TestConfigStore_GetBool(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("chat.debug", true))

	assert.True(t, store.GetBool("chat.debug"))
	assert.False(t, store.GetBool("no.such.key"))
}

func TestConfigStore_Get(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(KeyOllamaURL, "http://localhost:11434"))

	val, ok := store.Get(KeyOllamaURL)
	assert.True(t, ok)
	assert.Equal(t, "http://localhost:11434", val)

	_, ok = store.Get("no.such.key")
	assert.False(t, ok)
}

func TestConfigStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyAIProvider, "ollama"))
	require.NoError(t, store.Set(KeyChunkOverlap, 150))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "ollama", reopened.GetString(KeyAIProvider))
	assert.Equal(t, 150, reopened.GetInt(KeyChunkOverlap))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(KeyOpenAIAPIKey, "sk-test"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_LoadMissingFileStartsEmpty(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Load())

	_, ok := store.Get(KeyAIProvider)
	assert.False(t, ok)
}

func TestConfigStore_Path(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestFlattenMap(t *testing.T) {
	nested := map[string]any{
		"ai": map[string]any{
			"provider": "openai",
		},
		"chat": map[string]any{
			"max_results":    int64(5),
			"history_window": int64(2),
		},
		"top": "level",
	}

	flat := flattenMap(nested, "")

	assert.Equal(t, map[string]any{
		"ai.provider":         "openai",
		"chat.max_results":    int64(5),
		"chat.history_window": int64(2),
		"top":                 "level",
	}, flat)
}

func TestSettings_Defaults(t *testing.T) {
	store := newTestStore(t)

	settings := Settings(store)

	assert.Equal(t, 800, settings.ChunkSize)
	assert.Equal(t, 100, settings.ChunkOverlap)
	assert.Equal(t, 5, settings.MaxResults)
	assert.Equal(t, 2, settings.HistoryWindow)
	assert.Equal(t, 2, settings.MaxToolRounds)
	assert.Equal(t, 2*time.Minute, settings.CompletionTimeout)
}

func TestSettings_Overrides(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set(KeyChunkSize, 1200))
	require.NoError(t, store.Set(KeyMaxResults, 10))
	require.NoError(t, store.Set(KeyCompletionTimeout, 30))

	settings := Settings(store)

	assert.Equal(t, 1200, settings.ChunkSize)
	assert.Equal(t, 10, settings.MaxResults)
	assert.Equal(t, 30*time.Second, settings.CompletionTimeout)
	assert.Equal(t, 100, settings.ChunkOverlap, "unset keys keep their defaults")
}
