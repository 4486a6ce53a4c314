package app

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"docsplit/internal/chunker"
	"docsplit/internal/loader"
)

func (a *App) Run(ctx context.Context) error {
	log.Info().Msg("Application started")
	log.Info().Msg("Enter a file or directory path, or plain text to preview chunks (one per line). Ctrl+C to exit.")

	scanner := bufio.NewScanner(a.input)

	// Увеличим буфер, если пути/строки будут длинные
	const maxLineSize = 1024 * 1024
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, maxLineSize)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Shutting down application")
			return nil
		default:
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("stdin error: %w", err)
				}
				log.Info().Msg("stdin closed")
				return nil
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			a.handleLine(ctx, line)
		}
	}
}

func (a *App) handleLine(ctx context.Context, line string) {
	log.Debug().Str("input", line).Msg("received input")

	info, err := os.Stat(line)
	if err != nil {
		// Не путь - показываем, как текст разобьётся
		a.previewChunks(line)
		return
	}

	if !info.IsDir() && !loader.CanLoad(line) {
		log.Error().Str("ext", filepath.Ext(line)).Msg("❌ unsupported format")
		return
	}

	results := a.ProcessPaths(ctx, []string{line})

	outputPath := a.outputPath
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		baseName := strings.TrimSuffix(filepath.Base(line), filepath.Ext(line))
		outputPath = filepath.Join(a.cfg.DataDir, fmt.Sprintf("%s_report_%s.md", baseName, timestamp))
	}

	if err := SaveReport(NewReport(results), outputPath); err != nil {
		log.Warn().Err(err).Msg("⚠️  failed to save report")
		return
	}
	log.Info().Str("path", outputPath).Msg("💾 report saved")
}

func (a *App) previewChunks(text string) {
	c, err := a.factory.GetChunkerByMethod(chunker.MethodRecursive)
	if err != nil {
		log.Error().Err(err).Msg("❌ no text chunker")
		return
	}

	chunks, err := c.Chunk(loader.Clean(text), "stdin")
	if err != nil {
		log.Error().Err(err).Msg("❌ chunking failed")
		return
	}

	log.Info().Int("chunks", len(chunks)).Msg("🔍 preview")
	for _, ch := range chunks {
		log.Info().
			Int("index", ch.Index).
			Int("start", ch.Start).
			Int("end", ch.End).
			Int("overlap", ch.Overlap).
			Msg(ch.Text)
	}
}
