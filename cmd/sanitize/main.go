// cmd/sanitize/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/retailetl/sanitize/pkg/cleaner"
	"github.com/retailetl/sanitize/pkg/config"
	"github.com/retailetl/sanitize/pkg/sink"
	"github.com/retailetl/sanitize/pkg/table"
)

func main() {
	var (
		entity = flag.String("entity", "", "entity kind to clean: user, card, store, product, order, datetime")
		outDir = flag.String("out", "", "directory for cleaned CSV output")
		target = flag.String("target", "", "PostgreSQL table to upload cleaned rows into")
	)
	flag.Parse()

	if err := run(*entity, *outDir, *target, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(entity, outDir, target string, inputs []string) error {
	if entity == "" {
		return fmt.Errorf("-entity is required")
	}
	if len(inputs) == 0 {
		return fmt.Errorf("at least one input CSV path is required")
	}
	if outDir == "" && target == "" {
		return fmt.Errorf("one of -out or -target is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	c, err := cleaner.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create cleaner: %w", err)
	}

	ctx := context.Background()

	var consumer sink.Consumer
	if target != "" {
		if cfg.Postgres == nil {
			return fmt.Errorf("-target requires PostgreSQL configuration in the environment")
		}
		pg, err := sink.NewPostgres(ctx, cfg.Postgres, logger.Named("sink"))
		if err != nil {
			return err
		}
		defer pg.Close()
		consumer = pg
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, path := range inputs {
		path := path
		g.Go(func() error {
			return processFile(ctx, c, consumer, entity, path, outDir, target, logger)
		})
	}
	return g.Wait()
}

func processFile(
	ctx context.Context,
	c *cleaner.Cleaner,
	consumer sink.Consumer,
	entity, path, outDir, target string,
	logger *zap.Logger,
) error {
	logger.Info("Processing input", zap.String("path", path), zap.String("entity", entity))

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	t, err := table.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	cleaned, err := c.Clean(entity, t)
	if err != nil {
		return fmt.Errorf("failed to clean %s: %w", path, err)
	}

	if consumer != nil {
		if err := consumer.Write(ctx, target, cleaned); err != nil {
			return err
		}
	}

	if outDir != "" {
		outPath := filepath.Join(outDir, filepath.Base(path))
		out, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", outPath, err)
		}
		defer out.Close()
		if err := table.WriteCSV(out, cleaned); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		logger.Info("Wrote cleaned CSV", zap.String("path", outPath), zap.Int("rows", cleaned.NumRows()))
	}

	return nil
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	var zapCfg zap.Config
	if cfg.LogFormat == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = level

	return zapCfg.Build()
}
