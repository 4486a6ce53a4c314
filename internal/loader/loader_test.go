package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"ShouldCollapseSpaces", "  আমার   সোনার\tবাংলা  ", "আমার সোনার বাংলা"},
		{"ShouldNormalizeLineEndings", "one\r\ntwo\rthree", "one\ntwo\nthree"},
		{"ShouldTurnPageBreakIntoParagraph", "page one\fpage two", "page one\n\npage two"},
		{"ShouldCollapseBlankLines", "a\n\n\n\n  \n\nb", "a\n\nb"},
		{"ShouldFixDoubledDanda", "বাক্য শেষ।। পরের বাক্য।।।", "বাক্য শেষ। পরের বাক্য।"},
		{"ShouldDropControlCharacters", "te\x00xt\x07 here", "text here"},
		{"ShouldKeepParagraphs", "first paragraph\n\nsecond paragraph", "first paragraph\n\nsecond paragraph"},
		{"ShouldComposeBengaliVowelSign", "\u0995\u09c7\u09be", "\u0995\u09cb"},
		{"ShouldDecomposeExcludedNukta", "\u09b9\u09df\u09c7", "\u09b9\u09af\u09bc\u09c7"},
		{"ShouldReturnEmptyForBlank", " \n\t\f ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Clean(tc.in))
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	t.Run("ShouldLoadAndCleanText", func(t *testing.T) {
		path := write("notes.txt", "রাত হলে   তারা জ্বলে।\r\n\r\n\r\nআকাশ অন্ধকার।")
		doc, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, path, doc.Path)
		assert.Equal(t, 1, doc.Pages)
		assert.Equal(t, "রাত হলে তারা জ্বলে।\n\nআকাশ অন্ধকার।", doc.Content)
	})

	t.Run("ShouldKeepMarkdownHeadings", func(t *testing.T) {
		path := write("guide.md", "# Title\n\n## Part\n\nBody text.\n")
		doc, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "# Title\n\n## Part\n\nBody text.", doc.Content)
	})

	t.Run("ShouldRejectUnsupportedFormat", func(t *testing.T) {
		path := write("sheet.xlsx", "binary")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported file format")
	})

	t.Run("ShouldJoinPDFPagesAndSkipBlankOnes", func(t *testing.T) {
		// вторая страница без содержимого
		doc, err := Load(filepath.Join("testdata", "pages.pdf"))
		require.NoError(t, err)
		assert.Equal(t, 3, doc.Pages)
		assert.Equal(t, "First page text.\n\nThird page text.", doc.Content)
	})

	t.Run("ShouldFailOnBrokenPDF", func(t *testing.T) {
		path := write("broken.pdf", "this is not a pdf")
		_, err := Load(path)
		require.Error(t, err)
	})

	t.Run("ShouldFailOnMissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "missing.txt"))
		require.Error(t, err)
	})
}

func TestCanLoad(t *testing.T) {
	assert.True(t, CanLoad("a.PDF"))
	assert.True(t, CanLoad("b.md"))
	assert.True(t, CanLoad("c.txt"))
	assert.False(t, CanLoad("d.docx"))
	assert.False(t, CanLoad("noext"))
}
