package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"docsplit/internal/chunker"
	"docsplit/internal/loader"
)

// DocumentResult - итог обработки одного файла
type DocumentResult struct {
	Path    string
	Source  string
	Method  string
	Pages   int
	Chunks  int
	Output  string
	Skipped bool
	Error   error
}

// ProcessDocument загружает файл, режет его на чанки и пишет JSONL рядом с манифестом.
// Неизменившиеся файлы пропускаются, если не включён ForceReprocess.
func (a *App) ProcessDocument(ctx context.Context, path string) (*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	result := &DocumentResult{
		Path:   path,
		Source: filepath.Base(path),
	}

	if !a.cfg.ForceReprocess && a.isUnchanged(absPath, info) {
		known := a.Manifest().Files[absPath]
		result.Skipped = true
		result.Method = known.Method
		result.Chunks = known.Chunks
		result.Output = known.Output
		log.Info().Str("file", result.Source).Msg("⏭️  unchanged, skipping")
		return result, nil
	}

	doc, err := loader.Load(absPath)
	if err != nil {
		return nil, err
	}
	result.Pages = doc.Pages

	log.Debug().
		Str("file", result.Source).
		Int("bytes", len(doc.Content)).
		Msg("📄 file loaded")

	chunks, method, err := a.chunk(doc.Content, absPath)
	if err != nil {
		return nil, err
	}
	result.Method = method
	result.Chunks = len(chunks)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Output = a.outputFile(absPath)
	if err := writeChunks(result.Output, chunks); err != nil {
		return nil, fmt.Errorf("failed to write chunks: %w", err)
	}

	if err := a.recordFile(absPath, FileInfo{
		Path:         absPath,
		LastModified: info.ModTime(),
		Size:         info.Size(),
		Chunks:       len(chunks),
		Method:       method,
		Output:       result.Output,
		ChunkConfig:  a.configKey,
	}); err != nil {
		return nil, fmt.Errorf("failed to save manifest: %w", err)
	}

	log.Info().
		Str("file", result.Source).
		Str("method", method).
		Int("chunks", len(chunks)).
		Msg("📦 document split")
	return result, nil
}

// chunk выбирает chunker; при ошибке markdown-разбора откатывается на текстовый
func (a *App) chunk(content, path string) ([]chunker.Chunk, string, error) {
	source := filepath.Base(path)

	c, err := a.factory.GetChunker(path, a.cfg.ChunkMethod)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get chunker: %w", err)
	}

	chunks, err := c.Chunk(content, source)
	if err == nil {
		return chunks, c.Name(), nil
	}
	if c.Name() == chunker.MethodRecursive {
		return nil, "", fmt.Errorf("text chunker failed: %w", err)
	}

	log.Warn().Err(err).Str("file", source).Msg("⚠️  chunker failed, falling back to text chunker")
	textChunker, err := a.factory.GetChunkerByMethod(chunker.MethodRecursive)
	if err != nil {
		return nil, "", err
	}
	chunks, err = textChunker.Chunk(content, source)
	if err != nil {
		return nil, "", fmt.Errorf("text chunker failed: %w", err)
	}
	return chunks, textChunker.Name(), nil
}

// outputFile - имя JSONL-файла; хэш пути разводит одноимённые файлы из разных каталогов
func (a *App) outputFile(absPath string) string {
	sum := sha256.Sum256([]byte(absPath))
	base := strings.TrimSuffix(filepath.Base(absPath), filepath.Ext(absPath))
	name := fmt.Sprintf("%s-%s.chunks.jsonl", base, hex.EncodeToString(sum[:4]))
	return filepath.Join(a.cfg.DataDir, name)
}

// ProcessPaths обрабатывает файлы и каталоги параллельно, не больше MaxConcurrency за раз.
// Каталоги раскрываются в поддерживаемые файлы. Результаты идут в порядке входа,
// ошибки обхода каталогов - перед ними.
func (a *App) ProcessPaths(ctx context.Context, paths []string) []*DocumentResult {
	files, expandErrs := expandPaths(paths)

	// Semaphore для контроля concurrency
	sem := make(chan struct{}, a.cfg.MaxConcurrency)
	results := make([]*DocumentResult, len(files))

	var wg sync.WaitGroup
	for i, path := range files {
		wg.Add(1)
		go func(idx int, p string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[idx] = &DocumentResult{Path: p, Source: filepath.Base(p), Error: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			res, err := a.ProcessDocument(ctx, p)
			if err != nil {
				log.Error().Err(err).Str("file", p).Msg("❌ processing failed")
				res = &DocumentResult{Path: p, Source: filepath.Base(p), Error: err}
			}
			results[idx] = res
		}(i, path)
	}
	wg.Wait()

	results = append(expandErrs, results...)

	report := NewReport(results)
	log.Info().
		Int("total", len(results)).
		Int("processed", report.SuccessCount).
		Int("skipped", report.SkippedCount).
		Int("errors", report.ErrorCount).
		Int("chunks", report.TotalChunks).
		Msg("📊 summary")

	return results
}

// expandPaths раскрывает каталоги; ошибки обхода возвращаются как результаты.
// Каждый файл попадает в список один раз, иначе две горутины писали бы один JSONL.
func expandPaths(paths []string) ([]string, []*DocumentResult) {
	var files []string
	var failed []*DocumentResult

	seen := make(map[string]struct{})
	add := func(path string) {
		key := path
		if abs, err := filepath.Abs(path); err == nil {
			key = abs
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			// ошибку доступа к файлу сообщит ProcessDocument
			add(p)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !loader.CanLoad(path) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			failed = append(failed, &DocumentResult{
				Path:   p,
				Source: filepath.Base(p),
				Error:  fmt.Errorf("failed to walk directory: %w", err),
			})
		}
	}
	return files, failed
}
