// Command server runs the MìMart storefront backend.
//
// Configuration is layered: built-in defaults, then an optional YAML file
// (--config flag, MIMART_CONFIG, ./config.yaml, /etc/mimart/config.yaml),
// then MIMART_* environment variables. See pkg/config for the full list.
//
// Common environment variables:
//
//	MIMART_AI_KEYS     - comma-separated API key pool (GEMINI_API_KEYS also works)
//	MIMART_MODEL       - default chat model
//	MIMART_PORT        - listen port (default: 8080)
//	MIMART_STORAGE     - cart storage: "memory", "sqlite", or "postgres" (default: "sqlite")
//	MIMART_SQLITE_PATH - cart database path (default: ./data/carts.db)
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mimart/storefront/pkg/assistant"
	"github.com/mimart/storefront/pkg/cart"
	cartmemory "github.com/mimart/storefront/pkg/cart/memory"
	cartpostgres "github.com/mimart/storefront/pkg/cart/postgres"
	cartsqlite "github.com/mimart/storefront/pkg/cart/sqlite"
	"github.com/mimart/storefront/pkg/catalog"
	"github.com/mimart/storefront/pkg/config"
	"github.com/mimart/storefront/pkg/debug"
	"github.com/mimart/storefront/pkg/observability"
	"github.com/mimart/storefront/pkg/provider/gemini"
	"github.com/mimart/storefront/pkg/rag"
	"github.com/mimart/storefront/pkg/rotation"
	"github.com/mimart/storefront/pkg/search"
	"github.com/mimart/storefront/pkg/transport"
	transporthttp "github.com/mimart/storefront/pkg/transport/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	debug.Init(cfg.Observability.Debug, cfg.Observability.LogLevel)
	logger := slog.Default()

	if len(cfg.AI.APIKeys) == 0 {
		logger.Warn("no AI API keys configured, AI endpoints will fail until keys are provided")
	}

	cat, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	logger.Info("catalog loaded", "products", len(cat.List()))

	carts, err := openCartStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("opening cart store: %w", err)
	}
	defer carts.Close()

	rotator := rotation.New(
		cfg.AI.APIKeys,
		gemini.Factory(cfg.AI.BaseURL, cfg.AI.Timeout),
		rotation.WithLogger(logger),
	)

	searcher := search.NewDuckDuckGo(
		search.WithBaseURL(cfg.Search.BaseURL),
		search.WithTimeout(cfg.Search.Timeout),
		search.WithLogger(logger),
	)

	extractor := rag.NewExtractor(
		rag.WithFetchTimeout(cfg.RAG.FetchTimeout),
		rag.WithExtractorLogger(logger),
	)
	assembler := rag.NewAssembler(extractor, rag.AssemblerConfig{
		MaxContextLength: cfg.RAG.MaxContextLength,
		MaxSnippetLength: cfg.RAG.MaxSnippetLength,
		MaxResults:       cfg.RAG.MaxResults,
		TrustedDomains:   cfg.RAG.TrustedDomains,
		Logger:           logger,
	})

	svc := assistant.New(rotator, searcher, assembler, cat, assistant.Config{
		Models: assistant.Models{
			Chat:   cfg.AI.DefaultModel,
			Vision: cfg.AI.VisionModel,
			Audio:  cfg.AI.AudioModel,
		},
		SearchResults: cfg.Search.MaxResults,
		Logger:        logger,
	})

	adapter := transporthttp.NewAdapter(svc, cat, carts, transporthttp.Config{
		MaxBodySize: cfg.Server.MaxBodySize,
	})

	serverCfg := transporthttp.ServerConfig{
		Addr:            fmt.Sprintf(":%d", cfg.Server.Port),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Logger:          logger,
	}
	if cfg.Observability.Metrics.Enabled {
		serverCfg.ExtraMiddleware = []transport.Middleware{metricsMiddleware(cfg.Observability.Metrics.Path)}
	}

	srv := transporthttp.NewServer(adapter, serverCfg)

	logger.Info("storefront starting",
		"port", cfg.Server.Port,
		"model", cfg.AI.DefaultModel,
		"storage", cfg.Storage.Type,
		"keys", len(cfg.AI.APIKeys),
	)
	return srv.ListenAndServe()
}

// openCartStore opens the configured cart storage backend.
func openCartStore(cfg *config.Config, logger *slog.Logger) (cart.Store, error) {
	switch cfg.Storage.Type {
	case "memory":
		logger.Info("cart storage enabled", "type", "memory")
		return cartmemory.New(), nil

	case "sqlite":
		store, err := cartsqlite.New(cfg.Storage.SQLite.Path)
		if err != nil {
			return nil, err
		}
		logger.Info("cart storage enabled", "type", "sqlite", "path", cfg.Storage.SQLite.Path)
		return store, nil

	case "postgres":
		ctx := context.Background()
		store, err := cartpostgres.New(ctx, cartpostgres.Config{
			DSN:            cfg.Storage.Postgres.DSN,
			MaxConns:       cfg.Storage.Postgres.MaxConns,
			MigrateOnStart: cfg.Storage.Postgres.MigrateOnStart,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("cart storage enabled", "type", "postgres")
		return store, nil

	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}
}

// metricsMiddleware serves the Prometheus endpoint and instruments every
// other request.
func metricsMiddleware(path string) transport.Middleware {
	metricsHandler := promhttp.Handler()
	return func(next http.Handler) http.Handler {
		instrumented := observability.MetricsMiddleware(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == path {
				metricsHandler.ServeHTTP(w, r)
				return
			}
			instrumented.ServeHTTP(w, r)
		})
	}
}
