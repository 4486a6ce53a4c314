package chunker

import "fmt"

// ConfigurationError возвращается при неверных параметрах chunker'а.
// Других ошибок на корректной строке алгоритм не возвращает.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("chunker: invalid %s: %s", e.Field, e.Reason)
}

func configErr(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
