package chunker

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownChunker режет markdown по заголовкам, а секции - через TextChunker.
// Секции берутся по точным позициям в исходнике, поэтому чанки остаются
// срезами документа; overlap между секциями не делается.
type MarkdownChunker struct {
	config Config
	text   *TextChunker
}

// NewMarkdownChunker создаёт новый markdown chunker
func NewMarkdownChunker(config Config) (*MarkdownChunker, error) {
	tc, err := NewTextChunker(config)
	if err != nil {
		return nil, err
	}
	return &MarkdownChunker{config: tc.config, text: tc}, nil
}

func (m *MarkdownChunker) Name() string {
	return "markdown"
}

// DocumentStructure содержит информацию о структуре документа
type DocumentStructure struct {
	HeadingCounts   map[int]int // уровень заголовка -> количество
	TotalParagraphs int
}

// ChunkingStrategy определяет стратегию разбиения
type ChunkingStrategy struct {
	Level int // уровень заголовка (2-4)
}

// section - кусок документа от заголовка до следующего заголовка
type section struct {
	start, end int // байты
	title      string
	parent     string
	level      int
}

func (m *MarkdownChunker) Chunk(content, source string) ([]Chunk, error) {
	content = validUTF8(content)
	md := goldmark.New()
	src := []byte(content)
	doc := md.Parser().Parse(text.NewReader(src))

	structure := m.analyzeStructure(doc)

	strategy, err := m.selectStrategy(structure)
	if err != nil {
		// Явно возвращаем ошибку - пусть вызывающий код решает что делать
		return nil, fmt.Errorf("markdown chunker cannot process this content: %w", err)
	}

	log.Debug().
		Str("chunker", m.Name()).
		Interface("headings", structure.HeadingCounts).
		Int("paragraphs", structure.TotalParagraphs).
		Int("level", strategy.Level).
		Msg("📊 selected heading strategy")

	sections := m.sectionsByHeadings(doc, src, strategy.Level)
	runes := []rune(content)

	var chunks []Chunk
	for _, sec := range sections {
		start := runeOffset(content, sec.start)
		end := start + runeOffset(content[sec.start:], sec.end-sec.start)

		spans := m.text.spans(runes, start, end)
		for part, sp := range spans {
			chunks = append(chunks, newChunk(runes, sp, len(chunks), source,
				sectionTitle(sec.title, part, len(spans)),
				sectionMetadata(sec, part, len(spans), len(chunks)+1)))
		}
	}

	log.Debug().
		Str("chunker", m.Name()).
		Str("source", source).
		Int("sections", len(sections)).
		Int("chunks", len(chunks)).
		Msg("✅ created chunks")
	return chunks, nil
}

// analyzeStructure анализирует структуру markdown документа
func (m *MarkdownChunker) analyzeStructure(doc ast.Node) DocumentStructure {
	structure := DocumentStructure{
		HeadingCounts: make(map[int]int),
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if heading, ok := n.(*ast.Heading); ok {
				structure.HeadingCounts[heading.Level]++
			}
			if _, ok := n.(*ast.Paragraph); ok {
				structure.TotalParagraphs++
			}
		}
		return ast.WalkContinue, nil
	})

	return structure
}

// selectStrategy выбирает уровень заголовков для разбиения
func (m *MarkdownChunker) selectStrategy(structure DocumentStructure) (ChunkingStrategy, error) {
	// Проверяем заголовки от H2 до H4 (наиболее частые для структурированных документов)
	for level := 2; level <= 4; level++ {
		var minHeadings int
		switch level {
		case 2:
			minHeadings = 3 // Для H2 (статьи) достаточно 3
		case 3:
			minHeadings = 5 // Для H3 (подразделы) нужно больше
		default:
			minHeadings = 10
		}

		if structure.HeadingCounts[level] >= minHeadings {
			return ChunkingStrategy{Level: level}, nil
		}
	}

	return ChunkingStrategy{}, fmt.Errorf(
		"no suitable markdown structure found (headings: %v, paragraphs: %d)",
		structure.HeadingCounts, structure.TotalParagraphs,
	)
}

// sectionsByHeadings режет документ в начале строк заголовков уровня <= targetLevel.
// Секции покрывают весь документ без пропусков.
func (m *MarkdownChunker) sectionsByHeadings(doc ast.Node, src []byte, targetLevel int) []section {
	var sections []section
	var parent string
	current := section{start: 0}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Level > targetLevel || heading.Lines().Len() == 0 {
			return ast.WalkContinue, nil
		}

		lineStart := headingLineStart(src, heading.Lines().At(0).Start)
		title := extractText(heading, src)

		// Пробельную преамбулу не выделяем в отдельную секцию
		if lineStart > current.start && strings.TrimSpace(string(src[current.start:lineStart])) != "" {
			current.end = lineStart
			sections = append(sections, current)
			current = section{start: lineStart}
		}

		current.title = title
		current.level = heading.Level
		if heading.Level < targetLevel {
			parent = title
			current.parent = ""
		} else {
			current.parent = parent
		}
		return ast.WalkSkipChildren, nil
	})

	current.end = len(src)
	if current.end > current.start {
		sections = append(sections, current)
	}
	return sections
}

func headingLineStart(src []byte, pos int) int {
	for pos > 0 && src[pos-1] != '\n' {
		pos--
	}
	return pos
}

// extractText извлекает текст из узла AST
func extractText(node ast.Node, source []byte) string {
	var buf strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			buf.Write(c.Segment.Value(source))
		case *ast.String:
			buf.Write(c.Value)
		default:
			buf.WriteString(extractText(child, source))
		}
	}
	return strings.TrimSpace(buf.String())
}

func sectionTitle(title string, part, parts int) string {
	if parts > 1 && part > 0 {
		return fmt.Sprintf("%s (part %d)", title, part+1)
	}
	return title
}

func sectionMetadata(sec section, part, parts, chunkNum int) map[string]string {
	metadata := map[string]string{
		"chunk_num": strconv.Itoa(chunkNum),
		"method":    "markdown",
		"level":     strconv.Itoa(sec.level),
	}
	if parts > 1 {
		metadata["part"] = strconv.Itoa(part + 1)
		metadata["has_parts"] = "true"
	}
	if sec.parent != "" && sec.parent != sec.title {
		metadata["parent_section"] = sec.parent
	}
	return metadata
}
