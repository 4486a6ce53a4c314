package chunker

import (
	"strconv"
	"unicode"

	"github.com/rs/zerolog/log"
)

// TextChunker рекурсивно разбивает текст по иерархии разделителей с overlap.
// Рекурсия заменена явным стеком, так что глубина входа не важна.
type TextChunker struct {
	config     Config
	separators [][]rune
}

// NewTextChunker создаёт chunker; неверный конфиг - *ConfigurationError
func NewTextChunker(config Config) (*TextChunker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config = config.clone()

	seps := make([][]rune, len(config.Separators))
	for i, sep := range config.Separators {
		seps[i] = []rune(sep)
	}
	return &TextChunker{config: config, separators: seps}, nil
}

// Split разбивает content одним вызовом, без сохранения chunker'а
func Split(content string, config Config) ([]Chunk, error) {
	tc, err := NewTextChunker(config)
	if err != nil {
		return nil, err
	}
	return tc.Chunk(content, "")
}

func (s *TextChunker) Name() string {
	return "recursive"
}

// Config возвращает копию конфигурации
func (s *TextChunker) Config() Config {
	return s.config.clone()
}

func (s *TextChunker) Chunk(content, source string) ([]Chunk, error) {
	runes := []rune(validUTF8(content))
	spans := s.spans(runes, 0, len(runes))

	chunks := make([]Chunk, 0, len(spans))
	for _, sp := range spans {
		chunks = append(chunks, newChunk(runes, sp, len(chunks), source, "", map[string]string{
			"chunk_num": strconv.Itoa(len(chunks) + 1),
			"method":    s.Name(),
		}))
	}

	log.Debug().
		Str("chunker", s.Name()).
		Str("source", source).
		Int("runes", len(runes)).
		Int("chunks", len(chunks)).
		Msg("✅ created chunks")
	return chunks, nil
}

// span - границы чанка в рунах и длина общего с предыдущим чанком префикса
type span struct {
	start, end int
	overlap    int
}

type workItem struct {
	start, end int
	sep        int // индекс первого ещё не опробованного разделителя
	flush      bool
}

// spans разбивает text[start:end) и возвращает границы чанков по порядку.
func (s *TextChunker) spans(text []rune, start, end int) []span {
	if start >= end {
		return nil
	}

	p := &packer{text: text, max: s.config.MaxChunkSize, overlap: s.config.Overlap}
	stack := []workItem{{start: start, end: end}}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch {
		case item.flush:
			p.flush()
		case item.end-item.start <= p.max:
			p.add(item.start, item.end)
		default:
			// Слишком большой кусок: закрываем буфер и дробим его отдельно,
			// чтобы его части не склеивались с соседями
			p.flush()
			pieces, next := s.split(text, item.start, item.end, item.sep)
			stack = append(stack, workItem{flush: true})
			for i := len(pieces) - 1; i >= 0; i-- {
				stack = append(stack, workItem{start: pieces[i].start, end: pieces[i].end, sep: next})
			}
		}
	}
	p.flush()

	return p.out
}

// split режет text[start:end) первым разделителем, дающим хотя бы два куска.
// Когда разделители кончились, режет по одному символу.
func (s *TextChunker) split(text []rune, start, end, from int) ([]span, int) {
	for i := from; i < len(s.separators); i++ {
		var pieces []span
		if len(s.separators[i]) == 0 {
			pieces = splitRunes(start, end)
		} else {
			pieces = splitOn(text, start, end, s.separators[i])
		}
		if len(pieces) > 1 {
			return pieces, i + 1
		}
	}
	return splitRunes(start, end), len(s.separators)
}

// splitOn режет после каждого вхождения sep вместе с идущими следом пробелами.
// Конкатенация кусков равна исходному отрезку.
func splitOn(text []rune, start, end int, sep []rune) []span {
	var pieces []span
	pieceStart := start

	for i := start; i+len(sep) <= end; {
		if !hasPrefixAt(text, i, sep) {
			i++
			continue
		}
		cut := i + len(sep)
		for cut < end && unicode.IsSpace(text[cut]) {
			cut++
		}
		pieces = append(pieces, span{start: pieceStart, end: cut})
		pieceStart = cut
		i = cut
	}
	if pieceStart < end {
		pieces = append(pieces, span{start: pieceStart, end: end})
	}
	return pieces
}

func splitRunes(start, end int) []span {
	pieces := make([]span, 0, end-start)
	for i := start; i < end; i++ {
		pieces = append(pieces, span{start: i, end: i + 1})
	}
	return pieces
}

func hasPrefixAt(text []rune, at int, sep []rune) bool {
	for j, r := range sep {
		if text[at+j] != r {
			return false
		}
	}
	return true
}

// packer жадно склеивает подряд идущие куски в чанки не длиннее max.
type packer struct {
	text    []rune
	max     int
	overlap int

	bufStart, bufEnd int
	bufOverlap       int
	active           bool

	out []span
}

func (p *packer) add(start, end int) {
	if p.active && end-p.bufStart > p.max {
		p.flush()
	}
	if !p.active {
		k := p.overlapFor(start, end-start)
		p.bufStart = start - k
		p.bufOverlap = k
		p.active = true
	}
	p.bufEnd = end
}

func (p *packer) flush() {
	if !p.active {
		return
	}
	p.out = append(p.out, span{start: p.bufStart, end: p.bufEnd, overlap: p.bufOverlap})
	p.active = false
}

// overlapFor возвращает длину хвоста предыдущего чанка, который повторится
// в начале нового. Хвост не начинается с пробела или комбинируемого знака
// (бенгальские огласовки, хасанта), а вместе с куском влезает в max.
func (p *packer) overlapFor(start, pieceLen int) int {
	if p.overlap == 0 || len(p.out) == 0 {
		return 0
	}
	prev := p.out[len(p.out)-1]
	if prev.end != start {
		return 0
	}

	k := min(p.overlap, p.max-pieceLen, prev.end-prev.start)
	if k <= 0 {
		return 0
	}

	from := prev.end - k
	for from < prev.end && isWeakStart(p.text[from]) {
		from++
	}
	return prev.end - from
}

func isWeakStart(r rune) bool {
	return unicode.IsSpace(r) || unicode.In(r, unicode.Mn, unicode.Mc)
}

func newChunk(text []rune, sp span, index int, source, section string, metadata map[string]string) Chunk {
	ch := CreateChunk(index, string(text[sp.start:sp.end]), source, section, metadata)
	ch.Start = sp.start
	ch.End = sp.end
	ch.Overlap = sp.overlap
	return ch
}
