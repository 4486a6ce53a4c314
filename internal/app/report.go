package app

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Report - сводка по пачке обработанных файлов
type Report struct {
	Results      []*DocumentResult
	SuccessCount int
	SkippedCount int
	ErrorCount   int
	TotalChunks  int
	ProcessedAt  string
}

func NewReport(results []*DocumentResult) *Report {
	r := &Report{
		Results:     results,
		ProcessedAt: time.Now().Format("2006-01-02 15:04:05"),
	}
	for _, res := range results {
		switch {
		case res == nil:
		case res.Error != nil:
			r.ErrorCount++
		case res.Skipped:
			r.SkippedCount++
			r.TotalChunks += res.Chunks
		default:
			r.SuccessCount++
			r.TotalChunks += res.Chunks
		}
	}
	return r
}

// SaveReport сохраняет отчёт в markdown
func SaveReport(report *Report, outputPath string) error {
	var buf strings.Builder

	buf.WriteString("# Разбиение документов\n\n")
	buf.WriteString(fmt.Sprintf("**Дата обработки:** %s\n\n", report.ProcessedAt))
	buf.WriteString(fmt.Sprintf("**Всего чанков:** %d\n\n", report.TotalChunks))

	buf.WriteString("## Итоговая статистика\n\n")
	buf.WriteString(fmt.Sprintf("- ✅ Обработано: %d\n", report.SuccessCount))
	buf.WriteString(fmt.Sprintf("- ⏭️ Пропущено: %d\n", report.SkippedCount))
	buf.WriteString(fmt.Sprintf("- ❌ Ошибок: %d\n\n", report.ErrorCount))

	buf.WriteString("## Файлы\n\n")
	buf.WriteString("| Файл | Метод | Чанков | Результат |\n")
	buf.WriteString("|---|---|---|---|\n")
	for _, res := range report.Results {
		if res == nil || res.Error != nil {
			continue
		}
		status := res.Output
		if res.Skipped {
			status += " (без изменений)"
		}
		buf.WriteString(fmt.Sprintf("| %s | %s | %d | %s |\n", res.Source, res.Method, res.Chunks, status))
	}

	if report.ErrorCount > 0 {
		buf.WriteString("\n## Ошибки\n\n")
		for _, res := range report.Results {
			if res == nil || res.Error == nil {
				continue
			}
			buf.WriteString(fmt.Sprintf("- `%s`: %v\n", res.Path, res.Error))
		}
	}

	return os.WriteFile(outputPath, []byte(buf.String()), 0644)
}
