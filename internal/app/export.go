package app

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/schema"

	"docsplit/internal/chunker"
)

// toDocuments переводит чанки в документы langchaingo для следующей стадии (embedding)
func toDocuments(chunks []chunker.Chunk) []schema.Document {
	docs := make([]schema.Document, 0, len(chunks))
	for _, ch := range chunks {
		meta := map[string]any{
			"id":      ch.ID,
			"index":   ch.Index,
			"source":  ch.Source,
			"section": ch.Section,
			"start":   ch.Start,
			"end":     ch.End,
			"overlap": ch.Overlap,
		}
		for k, v := range ch.Metadata {
			if _, taken := meta[k]; !taken {
				meta[k] = v
			}
		}
		docs = append(docs, schema.Document{
			PageContent: ch.Text,
			Metadata:    meta,
		})
	}
	return docs
}

// writeChunks пишет чанки в JSONL, по документу на строку
func writeChunks(path string, chunks []chunker.Chunk) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, doc := range toDocuments(chunks) {
		if err := enc.Encode(doc); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadChunks читает JSONL, записанный ProcessDocument
func ReadChunks(path string) ([]schema.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var docs []schema.Document
	dec := json.NewDecoder(f)
	for dec.More() {
		var doc schema.Document
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
