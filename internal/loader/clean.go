package loader

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	blankLines = regexp.MustCompile(`\n{3,}`)
	dandaRun   = regexp.MustCompile(`।{2,}`)
)

// Clean нормализует текст для chunker'а:
// NFC, переводы строк \n, разрыв страницы - граница абзаца, без управляющих
// символов, одиночные пробелы, не больше одной пустой строки подряд, "।।" -> "।".
// Переводы строк сохраняются: по ним режет chunker.
func Clean(text string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\f", "\n\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = collapseSpaces(line)
	}
	text = strings.Join(lines, "\n")

	text = blankLines.ReplaceAllString(text, "\n\n")
	text = dandaRun.ReplaceAllString(text, "।")

	return strings.TrimSpace(text)
}

// collapseSpaces сжимает пробелы внутри строки и обрезает края
func collapseSpaces(line string) string {
	var buf strings.Builder
	buf.Grow(len(line))

	pendingSpace := false
	for _, r := range line {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = true
		case unicode.IsControl(r):
			// мусор от pdf-экстрактора
		default:
			if pendingSpace && buf.Len() > 0 {
				buf.WriteByte(' ')
			}
			pendingSpace = false
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
