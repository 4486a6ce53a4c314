package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactory(t *testing.T) {
	f, err := NewFactory(Config{MaxChunkSize: 100, Overlap: 10, Separators: []string{"\n", ""}})
	require.NoError(t, err)

	t.Run("ShouldPickChunkerByExtension", func(t *testing.T) {
		cases := map[string]string{
			"notes.md":        MethodMarkdown,
			"README.MARKDOWN": MethodMarkdown,
			"book.txt":        MethodRecursive,
			"paper.pdf":       MethodRecursive,
			"noext":           MethodRecursive,
		}
		for path, want := range cases {
			c, err := f.GetChunker(path, "")
			require.NoError(t, err)
			assert.Equal(t, want, c.Name(), path)
		}
	})

	t.Run("ShouldPreferExplicitMethod", func(t *testing.T) {
		c, err := f.GetChunker("notes.md", "text")
		require.NoError(t, err)
		assert.Equal(t, MethodRecursive, c.Name())

		c, err = f.GetChunker("book.txt", "MD")
		require.NoError(t, err)
		assert.Equal(t, MethodMarkdown, c.Name())
	})

	t.Run("ShouldRejectUnknownMethod", func(t *testing.T) {
		_, err := f.GetChunkerByMethod("semantic")
		require.Error(t, err)
		_, err = f.GetChunker("book.txt", "semantic")
		require.Error(t, err)
	})

	t.Run("ShouldValidateConfigUpFront", func(t *testing.T) {
		_, err := NewFactory(Config{MaxChunkSize: 10, Overlap: 15, Separators: []string{""}})
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "overlap", cfgErr.Field)
	})
}
