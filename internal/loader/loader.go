// Package loader читает исходные документы и приводит текст к виду,
// пригодному для chunker'а.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

// Document - очищенный текст одного файла
type Document struct {
	Path    string
	Content string
	Pages   int // для pdf; у остальных форматов 1
}

// CanLoad проверяет, что файл это .md, .txt или .pdf
func CanLoad(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".md", ".markdown", ".txt", ".text":
		return true
	}
	return false
}

// Load читает файл и возвращает очищенный текст
func Load(path string) (Document, error) {
	var (
		raw   string
		pages = 1
		err   error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		raw, pages, err = readPDF(path)
	case ".md", ".markdown", ".txt", ".text":
		raw, err = readFile(path)
	default:
		return Document{}, fmt.Errorf("unsupported file format: %s", ext)
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	content := Clean(raw)
	log.Debug().
		Str("path", path).
		Int("pages", pages).
		Int("raw_bytes", len(raw)).
		Int("clean_bytes", len(content)).
		Msg("📄 document loaded")

	return Document{Path: path, Content: content, Pages: pages}, nil
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// readPDF достаёт текст постранично; страницы разделяются переводом страницы,
// который Clean превращает в границу абзаца.
func readPDF(path string) (string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", 0, err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return "", 0, err
	}

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", 0, fmt.Errorf("page %d: %w", i, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\f")
		}
		buf.WriteString(text)
	}

	return buf.String(), numPages, nil
}
