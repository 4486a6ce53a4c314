package chunker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeparatorSets(t *testing.T) {
	t.Run("ShouldPutDandaFirstForBengali", func(t *testing.T) {
		seps, err := Separators(" Bengali ")
		require.NoError(t, err)
		assert.Equal(t, Danda, seps[0])
		assert.Equal(t, "", seps[len(seps)-1])
	})

	t.Run("ShouldReturnCopies", func(t *testing.T) {
		seps, err := Separators(SetEnglish)
		require.NoError(t, err)
		seps[0] = "mutated"

		again, err := Separators(SetEnglish)
		require.NoError(t, err)
		assert.Equal(t, ".", again[0])
	})

	t.Run("ShouldRejectUnknownSet", func(t *testing.T) {
		_, err := Separators("klingon")
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, cfgErr.Reason, "klingon")

		_, err = Separators("")
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("ShouldValidateBuiltins", func(t *testing.T) {
		for name, seps := range DefaultSeparatorSets() {
			assert.NoError(t, validateSeparators(seps), name)
		}
	})
}

func TestLoadSeparatorSets(t *testing.T) {
	dir := t.TempDir()

	t.Run("ShouldMergeCustomSetsOverBuiltins", func(t *testing.T) {
		path := filepath.Join(dir, "separators.yaml")
		content := "legal:\n  - \"\\n\\n\"\n  - \"§\"\n  - \"\"\nBengali:\n  - \"।\"\n  - \"\"\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		sets, err := LoadSeparatorSets(path)
		require.NoError(t, err)

		legal, err := sets.Lookup("legal")
		require.NoError(t, err)
		assert.Equal(t, []string{"\n\n", "§", ""}, legal)

		bengali, err := sets.Lookup(SetBengali)
		require.NoError(t, err)
		assert.Equal(t, []string{Danda, ""}, bengali)

		english, err := sets.Lookup(SetEnglish)
		require.NoError(t, err)
		assert.Equal(t, ".", english[0])
		assert.Contains(t, sets.Names(), "legal")
	})

	t.Run("ShouldRejectInvalidCustomSet", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("dup:\n  - \" \"\n  - \" \"\n"), 0o644))

		_, err := LoadSeparatorSets(path)
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("ShouldFailOnMissingFile", func(t *testing.T) {
		_, err := LoadSeparatorSets(filepath.Join(dir, "missing.yaml"))
		require.Error(t, err)
	})
}
