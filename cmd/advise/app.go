package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/the-spice-must-advise/internal/advice"
	"github.com/Veraticus/the-spice-must-advise/internal/aggregate"
	"github.com/Veraticus/the-spice-must-advise/internal/cli"
	"github.com/Veraticus/the-spice-must-advise/internal/common"
	"github.com/Veraticus/the-spice-must-advise/internal/config"
	"github.com/Veraticus/the-spice-must-advise/internal/llm"
	"github.com/Veraticus/the-spice-must-advise/internal/model"
	"github.com/Veraticus/the-spice-must-advise/internal/observability/metrics"
	"github.com/Veraticus/the-spice-must-advise/internal/prompt"
	"github.com/Veraticus/the-spice-must-advise/internal/recommend"
	"github.com/Veraticus/the-spice-must-advise/internal/service"
	"github.com/Veraticus/the-spice-must-advise/internal/storage"
)

// app holds the components a command needs. Fields not requested are nil.
type app struct {
	cfg     *config.Config
	store   service.Storage
	engine  *aggregate.Engine
	prompts *prompt.Builder
	model   *llm.ManagedClient
	cache   *advice.Cache
	metrics *metrics.Recorder
	svc     *recommend.Service
}

// loadConfig decodes the viper state into a typed configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, common.NewUserError("Invalid configuration", err)
	}
	return cfg, nil
}

// initStorage opens and migrates the record store.
func initStorage(ctx context.Context, cfg *config.Config) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newReadApp wires the store, the aggregation engine and the prompt builder.
func newReadApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	prompts, err := prompt.NewBuilder(slog.Default())
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &app{
		cfg:     cfg,
		store:   store,
		engine:  aggregate.NewEngine(store, slog.Default()),
		prompts: prompts,
	}, nil
}

// newApp wires everything needed for recommendations.
func newApp(ctx context.Context) (*app, error) {
	a, err := newReadApp(ctx)
	if err != nil {
		return nil, err
	}

	a.model, err = createLLMClient(a.cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	cacheOpts := []advice.Option{
		advice.WithMaxSize(a.cfg.Cache.MaxSize),
		advice.WithTTL(a.cfg.Cache.TTL),
	}
	if a.cfg.Cache.JanitorInterval > 0 {
		cacheOpts = append(cacheOpts, advice.WithJanitor(a.cfg.Cache.JanitorInterval))
	}
	a.cache = advice.NewCache(cacheOpts...)

	a.metrics, err = metrics.NewRecorder()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	a.svc, err = recommend.NewService(recommend.Deps{
		Aggregator: a.engine,
		Prompts:    a.prompts,
		Model:      a.model,
		Cache:      a.cache,
		Metrics:    a.metrics,
		Logger:     slog.Default(),
	}, serviceConfig(a.cfg))
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// Close releases every component that was opened.
func (a *app) Close() {
	if a.cache != nil {
		a.cache.Close()
	}
	if a.model != nil {
		a.model.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			slog.Warn("Failed to close database", "error", err)
		}
	}
}

func serviceConfig(cfg *config.Config) recommend.Config {
	sc := recommend.DefaultConfig()
	sc.Params.Temperature = cfg.LLM.Temperature
	sc.Params.TopP = cfg.LLM.TopP
	sc.Params.MaxTokens = cfg.LLM.MaxTokens
	sc.Prompt = promptOptions(cfg)
	sc.ModelTimeout = cfg.LLM.Timeout
	return sc
}

func promptOptions(cfg *config.Config) prompt.Options {
	opts := prompt.DefaultOptions()
	if cfg.Prompt.MaxChars > 0 {
		opts.MaxChars = cfg.Prompt.MaxChars
	}
	return opts
}

// scopeFromConfig selects the owner to aggregate. Empty means every owner.
func scopeFromConfig(cfg *config.Config) model.Scope {
	return model.Scope{Owner: strings.TrimSpace(cfg.Owner)}
}

func outputJSON(cmd *cobra.Command) (bool, error) {
	format, _ := cmd.Flags().GetString("output")
	switch format {
	case "text", "":
		return false, nil
	case "json":
		return true, nil
	default:
		return false, common.NewUserError(fmt.Sprintf("Unknown output format %q (use text or json)", format), nil)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printCacheStats honors --show-cache-stats.
func printCacheStats(cmd *cobra.Command, a *app) {
	show, _ := cmd.Flags().GetBool("show-cache-stats")
	if !show || a.svc == nil {
		return
	}
	fmt.Fprintln(cmd.ErrOrStderr(), cli.RenderCacheStats(a.svc.CacheStats()))
}

// responseError turns a failed response into a command error.
func responseError(code recommend.ErrorCode, message string) error {
	return common.NewUserError(fmt.Sprintf("%s (%s)", message, code), nil)
}
