package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"docsplit/internal/app"
	"docsplit/internal/config"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Парсим флаги командной строки
	dataDir := flag.String("data", "", "Directory for chunk files and manifest")
	outputFile := flag.String("output", "", "Save markdown report to file (optional)")
	method := flag.String("method", "", "Chunking method: markdown or recursive (default: by file extension)")
	separators := flag.String("separators", "", "Separator set: bengali, english, multilingual, paragraph")
	force := flag.Bool("force", false, "Reprocess files even if unchanged")
	flag.Parse()

	// Загружаем .env (опционально)
	_ = godotenv.Load()

	// Флаги важнее окружения
	if *dataDir != "" {
		os.Setenv("DATA_DIR", *dataDir)
	}
	if *method != "" {
		os.Setenv("CHUNK_METHOD", *method)
	}
	if *separators != "" {
		os.Setenv("SEPARATORS", *separators)
	}
	if *force {
		os.Setenv("FORCE_REPROCESS", strconv.FormatBool(*force))
	}

	cfg := config.Config{}
	if err := config.Init(&cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("data_dir", cfg.DataDir).
		Int("chunk_size", cfg.ChunkSize).
		Int("chunk_overlap", cfg.ChunkOverlap).
		Str("separators", cfg.Separators).
		Msg("configuration loaded")

	a, err := app.New(&cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create app")
	}

	if *outputFile != "" {
		a.SetOutputPath(*outputFile)
	}

	// Создаём каталог данных и читаем манифест
	if err := a.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize app")
	}

	// Контекст с сигналами завершения
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	// Пути в аргументах - пакетный режим, иначе читаем stdin
	if paths := flag.Args(); len(paths) > 0 {
		report := app.NewReport(a.ProcessPaths(ctx, paths))
		if *outputFile != "" {
			if err := app.SaveReport(report, *outputFile); err != nil {
				log.Error().Err(err).Msg("failed to save report")
			} else {
				log.Info().Str("path", *outputFile).Msg("💾 report saved")
			}
		}
		if report.ErrorCount > 0 {
			stop()
			os.Exit(1)
		}
		return
	}

	if err := a.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("app stopped with error")
	}
}
