package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/lelesmart/internal/common"
	"github.com/Veraticus/lelesmart/internal/config"
	"github.com/Veraticus/lelesmart/internal/engine"
	"github.com/Veraticus/lelesmart/internal/storage"
)

// Output formats shared by the commands that print records.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context, cfg *config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Debug("Opened database", "path", cfg.Database.Path)
	return store, nil
}

// withStorage loads the config and hands the opened database to fn, closing
// it afterwards.
func withStorage(ctx context.Context, fn func(*storage.SQLiteStorage, *config.Config) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close database", "error", err)
		}
	}()

	return fn(store, cfg)
}

// withEngine is withStorage for commands that only need the engine.
func withEngine(ctx context.Context, fn func(*engine.Engine, *config.Config) error) error {
	return withStorage(ctx, func(store *storage.SQLiteStorage, cfg *config.Config) error {
		return fn(newEngine(cfg, store), cfg)
	})
}

func newEngine(cfg *config.Config, store *storage.SQLiteStorage) *engine.Engine {
	engineCfg := engine.DefaultConfig()
	engineCfg.DefaultPageLimit = cfg.Pagination.DefaultLimit
	engineCfg.MaxPageLimit = cfg.Pagination.MaxLimit
	if store == nil {
		return engine.NewWithConfig(nil, engineCfg)
	}
	return engine.NewWithConfig(store, engineCfg)
}

// encode writes v as JSON or YAML.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		plain, err := viaJSON(v)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plain); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: unsupported format %q", common.ErrInvalidInput, format)
	}
}

func checkFormat(format string, allowed ...string) error {
	for _, f := range allowed {
		if f == format {
			return nil
		}
	}
	return common.NewUserError(fmt.Sprintf("unknown format %q, expected one of %v", format, allowed), common.ErrInvalidInput)
}

// viaJSON round-trips v through JSON so YAML output uses the same keys as the
// API.
func viaJSON(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var plain any
	if err := json.Unmarshal(data, &plain); err != nil {
		return nil, err
	}
	return plain, nil
}
