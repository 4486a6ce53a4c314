package chunker

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"unicode/utf8"
)

// CreateChunk создаёт чанк с автоматической генерацией ID.
// Текст не обрезается: чанк должен оставаться точным срезом документа.
func CreateChunk(index int, text, source, section string, metadata map[string]string) Chunk {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s\x00%d\x00%s", source, index, text)))

	if metadata == nil {
		metadata = make(map[string]string)
	}

	return Chunk{
		ID:       fmt.Sprintf("%x", hash[:8]),
		Index:    index,
		Text:     text,
		Source:   source,
		Section:  section,
		Metadata: metadata,
	}
}

// Reassemble склеивает чанки обратно в документ, отбрасывая overlap
func Reassemble(chunks []Chunk) string {
	var buf strings.Builder
	for _, ch := range chunks {
		runes := []rune(ch.Text)
		if ch.Overlap > len(runes) {
			continue
		}
		buf.WriteString(string(runes[ch.Overlap:]))
	}
	return buf.String()
}

// validUTF8 заменяет каждую серию невалидных байтов одним U+FFFD.
// Чанки покрывают уже исправленную строку.
func validUTF8(content string) string {
	return strings.ToValidUTF8(content, string(utf8.RuneError))
}

// runeOffset переводит байтовое смещение в смещение в рунах
func runeOffset(content string, byteOffset int) int {
	return utf8.RuneCountInString(content[:byteOffset])
}
