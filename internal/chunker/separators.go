package chunker

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Названия встроенных наборов разделителей
const (
	SetBengali      = "bengali"
	SetEnglish      = "english"
	SetMultilingual = "multilingual"
	SetParagraph    = "paragraph"
)

const (
	Danda       = "।" // бенгальская точка
	DoubleDanda = "॥"
)

// Пустая строка в конце - посимвольное разбиение, оно всегда срабатывает.
var builtinSets = map[string][]string{
	SetBengali:      {Danda, DoubleDanda, "?", "!", "\n\n", "\n", " ", ""},
	SetEnglish:      {".", "?", "!", "\n\n", "\n", " ", ""},
	SetMultilingual: {Danda, DoubleDanda, ".", "?", "!", "\n\n", "\n", " ", ""},
	SetParagraph:    {"\n\n", "\n", " ", ""},
}

// SeparatorSets - именованные наборы разделителей
type SeparatorSets map[string][]string

// DefaultSeparatorSets возвращает копию встроенных наборов
func DefaultSeparatorSets() SeparatorSets {
	sets := make(SeparatorSets, len(builtinSets))
	for name, seps := range builtinSets {
		sets[name] = append([]string(nil), seps...)
	}
	return sets
}

// Separators возвращает встроенный набор по имени
func Separators(name string) ([]string, error) {
	return DefaultSeparatorSets().Lookup(name)
}

// Lookup возвращает копию набора; неизвестное имя - ошибка конфигурации.
func (s SeparatorSets) Lookup(name string) ([]string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, configErr("separators", "separator set name is empty")
	}
	seps, ok := s[name]
	if !ok {
		return nil, configErr("separators", "unknown separator set %q (known: %s)", name, strings.Join(s.Names(), ", "))
	}
	return append([]string(nil), seps...), nil
}

// Names возвращает отсортированные имена наборов
func (s SeparatorSets) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadSeparatorSets читает YAML вида `name: [sep, ...]` и добавляет
// наборы к встроенным. Одноимённый набор из файла заменяет встроенный.
func LoadSeparatorSets(path string) (SeparatorSets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read separator sets: %w", err)
	}

	var custom map[string][]string
	if err := yaml.Unmarshal(data, &custom); err != nil {
		return nil, fmt.Errorf("failed to parse separator sets %s: %w", path, err)
	}

	sets := DefaultSeparatorSets()
	for name, seps := range custom {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return nil, configErr("separators", "separator set with empty name in %s", path)
		}
		if err := validateSeparators(seps); err != nil {
			return nil, fmt.Errorf("separator set %q: %w", key, err)
		}
		sets[key] = append([]string(nil), seps...)
	}
	return sets, nil
}

func validateSeparators(seps []string) error {
	if len(seps) == 0 {
		return configErr("separators", "separator list is empty")
	}
	seen := make(map[string]struct{}, len(seps))
	for i, sep := range seps {
		if _, dup := seen[sep]; dup {
			return configErr("separators", "duplicate separator %q", sep)
		}
		seen[sep] = struct{}{}
		// после посимвольного разбиения остальные разделители недостижимы
		if sep == "" && i != len(seps)-1 {
			return configErr("separators", "empty separator must be the last one")
		}
	}
	return nil
}
