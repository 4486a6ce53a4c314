package chunker

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Методы разбиения
const (
	MethodMarkdown  = "markdown"
	MethodRecursive = "recursive"
)

// Factory создаёт chunker на основе метода и типа файла
type Factory struct {
	config Config
}

// NewFactory проверяет конфиг один раз, чтобы GetChunker не падал на нём
func NewFactory(config Config) (*Factory, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Factory{config: config.clone()}, nil
}

// Config возвращает копию конфигурации фабрики
func (f *Factory) Config() Config {
	return f.config.clone()
}

// GetChunker возвращает подходящий chunker для файла
func (f *Factory) GetChunker(filePath, method string) (Chunker, error) {
	// Если метод явно указан - используем его
	if strings.TrimSpace(method) != "" {
		return f.GetChunkerByMethod(method)
	}

	// Иначе определяем по расширению файла
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".md", ".markdown":
		return NewMarkdownChunker(f.config)
	default:
		return NewTextChunker(f.config)
	}
}

// GetChunkerByMethod возвращает chunker по названию метода
func (f *Factory) GetChunkerByMethod(method string) (Chunker, error) {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case MethodMarkdown, "md":
		return NewMarkdownChunker(f.config)
	case MethodRecursive, "simple", "text", "txt":
		return NewTextChunker(f.config)
	default:
		return nil, fmt.Errorf("unknown chunking method: %s", method)
	}
}
