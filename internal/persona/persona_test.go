package persona

import (
	"os"
	"path/filepath"
	"testing"

	"server-muse/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadLibrary(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing files leave an empty library", func(t *testing.T) {
		lib := LoadLibrary(filepath.Join(dir, "no-lore.json"), filepath.Join(dir, "no-speech.json"))
		assert.Empty(t, lib.lore)
		assert.Empty(t, lib.speech)
	})

	t.Run("valid files load", func(t *testing.T) {
		lorePath := writeFile(t, dir, "lore.json", `{"the old war": "a long story"}`)
		speechPath := writeFile(t, dir, "speech.json", `["short answers"]`)

		lib := LoadLibrary(lorePath, speechPath)
		assert.Len(t, lib.lore, 1)
		assert.NotEmpty(t, lib.speech)
	})

	t.Run("broken speech file is skipped", func(t *testing.T) {
		speechPath := writeFile(t, dir, "bad.json", `{not json`)
		lib := LoadLibrary(filepath.Join(dir, "no-lore.json"), speechPath)
		assert.Empty(t, lib.speech)
	})
}

func TestSystemPrompt(t *testing.T) {
	dir := t.TempDir()
	lorePath := writeFile(t, dir, "lore.json", `{"founding": "how it all began"}`)
	lib := LoadLibrary(lorePath, filepath.Join(dir, "missing.json"))
	th := ComputeThresholds(100, -40)

	t.Run("base voice always present", func(t *testing.T) {
		prompt := lib.SystemPrompt("hello", storage.UserRecord{}, th, storage.ScopeSettings{})
		assert.Contains(t, prompt, "You are Muse")
		assert.Contains(t, prompt, toneBlocks[ToneNeutral])
	})

	t.Run("tone follows reputation", func(t *testing.T) {
		rec := storage.UserRecord{Reputation: 80, Interactions: 10}
		prompt := lib.SystemPrompt("hello", rec, th, storage.ScopeSettings{})
		assert.Contains(t, prompt, toneBlocks[ToneElite])
	})

	t.Run("mature phrase only when enabled", func(t *testing.T) {
		st := storage.ScopeSettings{MatureEnabled: true, MatureLevel: 2}
		with := lib.SystemPrompt("hello", storage.UserRecord{}, th, st)
		without := lib.SystemPrompt("hello", storage.UserRecord{}, th, storage.ScopeSettings{})
		assert.Contains(t, with, maturePhrases[2])
		assert.NotContains(t, without, "Mature themes")
	})

	t.Run("lore keyed by message content", func(t *testing.T) {
		hit := lib.SystemPrompt("tell me about the founding", storage.UserRecord{}, th, storage.ScopeSettings{})
		miss := lib.SystemPrompt("nice weather", storage.UserRecord{}, th, storage.ScopeSettings{})
		assert.Contains(t, hit, "how it all began")
		assert.NotContains(t, miss, "how it all began")
	})
}
