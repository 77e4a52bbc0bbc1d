package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/peplaybook/internal/catalog"
	"github.com/alexanderramin/peplaybook/internal/cli"
	"github.com/alexanderramin/peplaybook/internal/config"
	"github.com/alexanderramin/peplaybook/internal/db"
	"github.com/alexanderramin/peplaybook/internal/generator"
	"github.com/alexanderramin/peplaybook/internal/intelligence"
	"github.com/alexanderramin/peplaybook/internal/llm"
	"github.com/alexanderramin/peplaybook/internal/repository"
	"github.com/alexanderramin/peplaybook/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Logs go to stderr so command output stays clean. --verbose lowers
	// the level through the shared LevelVar.
	level := new(slog.LevelVar)
	level.Set(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx := context.Background()

	store, closer, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	cat := catalog.Load(cfg.CatalogDir, catalog.WithLogger(logger))
	gen := generator.New(cat)

	var observer llm.Observer = llm.NoopObserver{}
	if cfg.AI.LogCalls {
		observer = llm.NewLogObserver(logger)
	}
	ai := intelligence.NewPlaybookService(gen, llm.NewClientFactory(cfg.AI, observer))

	useCases := service.NewLogUseCaseObserver(logger)
	app := &cli.App{
		Playbooks: service.NewPlaybookService(store, gen, ai,
			service.WithRetention(cfg.Retention),
			service.WithObserver(useCases),
		),
		Settings: service.NewSettingsService(store,
			service.WithRetentionOverride(cfg.Retention),
			service.WithSettingsObserver(useCases),
		),
		Catalog:  service.NewCatalogService(cat),
		Logger:   logger,
		LogLevel: level,
		HTTPAddr: cfg.HTTPAddr,
	}

	// Forms, spinners and the browse view need a terminal on both ends.
	app.IsInteractive = func() bool {
		in := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		out := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		return in && out
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

// openStore opens the configured playbook store and returns its closer.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.Transactor, io.Closer, error) {
	switch cfg.Store {
	case config.StoreRedis:
		kv, err := repository.NewRedisKV(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return repository.NewKVTransactor(kv, logger), kv, nil
	default:
		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		return repository.NewSQLiteTransactor(db.NewSQLiteUnitOfWork(database), logger), database, nil
	}
}
