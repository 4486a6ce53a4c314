package app

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"docsplit/internal/chunker"
	"docsplit/internal/config"
)

type App struct {
	cfg        *config.Config
	factory    *chunker.Factory
	configKey  string     // отпечаток настроек разбиения, см. chunkConfigKey
	mu         sync.Mutex // защищает metadata
	metadata   *Metadata
	outputPath string
	input      io.Reader
}

// Metadata - манифест обработанных файлов
type Metadata struct {
	Files    map[string]FileInfo `json:"files"`
	DataPath string              `json:"data_path"`
}

type FileInfo struct {
	Path         string    `json:"path"`
	LastModified time.Time `json:"last_modified"`
	Size         int64     `json:"size"`
	Chunks       int       `json:"chunks"`
	Method       string    `json:"method"`
	Output       string    `json:"output"`
	ChunkConfig  string    `json:"chunk_config"`
}

func New(cfg *config.Config) (*App, error) {
	sets := chunker.DefaultSeparatorSets()
	if cfg.SeparatorsFile != "" {
		var err error
		sets, err = chunker.LoadSeparatorSets(cfg.SeparatorsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load separator sets: %w", err)
		}
	}

	separators, err := sets.Lookup(cfg.Separators)
	if err != nil {
		return nil, err
	}

	factory, err := chunker.NewFactory(chunker.Config{
		MaxChunkSize: cfg.ChunkSize,
		Overlap:      cfg.ChunkOverlap,
		Separators:   separators,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid chunker configuration: %w", err)
	}

	return &App{
		cfg:       cfg,
		factory:   factory,
		configKey: chunkConfigKey(factory.Config(), cfg.ChunkMethod),
		metadata:  &Metadata{Files: make(map[string]FileInfo)},
		input:     os.Stdin,
	}, nil
}

// chunkConfigKey - отпечаток размера, overlap, разделителей и метода.
// Старый JSONL годится только при тех же настройках.
func chunkConfigKey(cfg chunker.Config, method string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d\x00%d\x00%s", cfg.MaxChunkSize, cfg.Overlap, strings.ToLower(strings.TrimSpace(method)))
	for _, sep := range cfg.Separators {
		fmt.Fprintf(h, "\x00%q", sep)
	}
	return hex.EncodeToString(h.Sum(nil)[:8])
}

// SetOutputPath задаёт файл для markdown-отчёта
func (a *App) SetOutputPath(path string) {
	a.outputPath = path
}

// SetInput подменяет источник строк для Run
func (a *App) SetInput(r io.Reader) {
	a.input = r
}

func (a *App) Init() error {
	if err := os.MkdirAll(a.cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := a.loadMetadata(); err != nil {
		log.Warn().Err(err).Msg("failed to read manifest, starting fresh")
		a.metadata = &Metadata{Files: make(map[string]FileInfo)}
	}

	absDataDir, err := filepath.Abs(a.cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute data dir: %w", err)
	}

	// Манифест от другой директории ничего не говорит о здешних файлах
	if a.metadata.DataPath != "" && a.metadata.DataPath != absDataDir {
		log.Info().
			Str("from", a.metadata.DataPath).
			Str("to", absDataDir).
			Msg("data directory changed, invalidating manifest")
		a.metadata.Files = make(map[string]FileInfo)
	}
	a.metadata.DataPath = absDataDir

	if err := a.saveMetadata(); err != nil {
		return fmt.Errorf("failed to save manifest: %w", err)
	}

	log.Info().
		Str("data_dir", absDataDir).
		Int("known_files", len(a.metadata.Files)).
		Msg("manifest loaded")
	return nil
}

// Manifest возвращает копию манифеста
func (a *App) Manifest() Metadata {
	a.mu.Lock()
	defer a.mu.Unlock()

	files := make(map[string]FileInfo, len(a.metadata.Files))
	for k, v := range a.metadata.Files {
		files[k] = v
	}
	return Metadata{Files: files, DataPath: a.metadata.DataPath}
}

func (a *App) loadMetadata() error {
	f, err := os.Open(a.cfg.MetadataFile)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}
	defer f.Close()

	meta := &Metadata{}
	if err := json.NewDecoder(f).Decode(meta); err != nil {
		return err
	}
	if meta.Files == nil {
		meta.Files = make(map[string]FileInfo)
	}
	a.metadata = meta
	return nil
}

// saveMetadata вызывается под a.mu или до запуска обработки
func (a *App) saveMetadata() error {
	f, err := os.Create(a.cfg.MetadataFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a.metadata); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// isUnchanged сообщает, что файл уже обработан с теми же настройками и с тех пор не менялся
func (a *App) isUnchanged(absPath string, info os.FileInfo) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	known, ok := a.metadata.Files[absPath]
	if !ok || known.ChunkConfig != a.configKey {
		return false
	}
	if _, err := os.Stat(known.Output); err != nil {
		return false
	}
	return known.LastModified.Equal(info.ModTime()) && known.Size == info.Size()
}

func (a *App) recordFile(absPath string, fi FileInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.metadata.Files[absPath] = fi
	return a.saveMetadata()
}
