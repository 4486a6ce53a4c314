package chunker

// Chunk представляет единицу текста для векторизации.
// Text всегда равен срезу документа [Start:End) в рунах.
type Chunk struct {
	ID       string            // Уникальный идентификатор (hash)
	Index    int               // Порядковый номер в документе
	Text     string            // Текст чанка
	Source   string            // Имя исходного файла
	Section  string            // Название секции (заголовок, глава и т.д.)
	Start    int               // Смещение начала в рунах
	End      int               // Смещение конца в рунах (не включая)
	Overlap  int               // Сколько рун повторено из предыдущего чанка
	Metadata map[string]string // Дополнительные метаданные
}

// Chunker - интерфейс для всех типов chunker'ов
type Chunker interface {
	// Chunk разбивает контент на чанки. Невалидный UTF-8 сначала исправляется
	// (серия плохих байтов -> U+FFFD), Reassemble возвращает исправленный текст.
	Chunk(content, source string) ([]Chunk, error)

	// Name возвращает название chunker'а для логирования
	Name() string
}

// Config содержит общие параметры для chunker'ов.
// Размеры измеряются в символах (рунах Unicode).
type Config struct {
	MaxChunkSize int      // Максимальный размер чанка
	Overlap      int      // Размер overlap между чанками
	Separators   []string // Разделители по убыванию приоритета
}

// Validate проверяет конфигурацию до того, как будет создан хоть один чанк.
func (c Config) Validate() error {
	if c.MaxChunkSize <= 0 {
		return configErr("max_chunk_size", "must be greater than zero, got %d", c.MaxChunkSize)
	}
	if c.Overlap < 0 {
		return configErr("overlap", "cannot be negative, got %d", c.Overlap)
	}
	if c.Overlap >= c.MaxChunkSize {
		return configErr("overlap", "%d must be smaller than max_chunk_size %d", c.Overlap, c.MaxChunkSize)
	}
	return validateSeparators(c.Separators)
}

// clone отвязывает конфиг от слайса вызывающего кода
func (c Config) clone() Config {
	seps := make([]string, len(c.Separators))
	copy(seps, c.Separators)
	c.Separators = seps
	return c
}
