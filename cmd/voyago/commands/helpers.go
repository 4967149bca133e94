package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/voyago/voyago-go/internal/embedder"
	"github.com/voyago/voyago-go/internal/generator"
	"github.com/voyago/voyago-go/internal/history"
	"github.com/voyago/voyago-go/internal/index"
	"github.com/voyago/voyago-go/internal/pipeline"
	"github.com/voyago/voyago-go/internal/provider"
	"github.com/voyago/voyago-go/internal/rag"
	"github.com/voyago/voyago-go/internal/retriever"
	"github.com/voyago/voyago-go/internal/server"
)

// app bundles the assembled pipeline with the handles the commands need for
// readiness probes and shutdown.
type app struct {
	// Pipeline is the fully wired orchestrator.
	Pipeline *pipeline.Pipeline

	// Qdrant is the vector store when QDRANT_HOST is set, nil for the
	// in-memory store. Used by serve to build the readiness pinger.
	Qdrant *rag.QdrantStore

	// ProviderCfg is the model provider configuration, nil when running
	// with the offline mock generator.
	ProviderCfg *provider.Config

	// History is the exchange log, nil when disabled.
	History history.Store

	// close releases the store and history handles.
	close func()
}

// Close releases all resources held by the app.
func (a *app) Close() {
	if a.close != nil {
		a.close()
	}
}

// buildApp wires embedder, vector store, retriever, generator, and history
// into a pipeline. reg is the Prometheus registry for index metrics; nil
// skips instrumentation (one-shot CLI commands).
func buildApp(ctx context.Context, log *slog.Logger, reg *prometheus.Registry) (*app, error) {
	emb, err := embedder.NewFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to initialise embedder: %w", err)
	}

	var (
		store  rag.VectorStore
		qs     *rag.QdrantStore
		closer []func()
	)
	if host := os.Getenv("QDRANT_HOST"); host != "" {
		qs, err = rag.NewQdrantStore(ctx, &rag.QdrantConfig{
			Host:       host,
			Port:       getEnvInt("QDRANT_PORT", 6334),
			Collection: getEnvOrDefault("QDRANT_COLLECTION", "voyago-travel"),
			VectorSize: uint64(emb.Dimensions()), //nolint:gosec // dimensions are bounded
			APIKey:     os.Getenv("QDRANT_API_KEY"),
			UseTLS:     os.Getenv("QDRANT_TLS") == "true",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Qdrant at %s: %w", host, err)
		}
		store = qs
		closer = append(closer, func() { _ = qs.Close() })
		log.Info("qdrant store ready",
			slog.String("host", host),
			slog.String("collection", getEnvOrDefault("QDRANT_COLLECTION", "voyago-travel")),
		)
	} else {
		ms, msErr := rag.NewMemoryStore(emb.Dimensions())
		if msErr != nil {
			return nil, fmt.Errorf("failed to create in-memory store: %w", msErr)
		}
		store = ms
		log.Info("using in-memory vector store", slog.Int("dimensions", emb.Dimensions()))
	}

	idxCfg := &index.Config{
		Embedder: emb,
		Store:    store,
		Logger:   log,
	}
	if reg != nil {
		idxCfg.Metrics = index.NewMetrics(reg)
	}
	idx, err := index.New(idxCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	ret := retriever.New(idx, log)

	gen, providerCfg, err := buildGenerator(ctx, log)
	if err != nil {
		return nil, err
	}

	hist := openHistory(log)
	if hist != nil {
		closer = append(closer, func() { _ = hist.Close() })
	}

	pipeCfg := &pipeline.Config{
		Index:     idx,
		Retriever: ret,
		Generator: gen,
		History:   hist,
		Logger:    log,
	}
	if reg != nil {
		pipeCfg.Metrics = pipeline.NewMetrics(reg)
	}
	pipe, err := pipeline.New(pipeCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	return &app{
		Pipeline:    pipe,
		Qdrant:      qs,
		ProviderCfg: providerCfg,
		History:     hist,
		close: func() {
			for _, c := range closer {
				c()
			}
		},
	}, nil
}

// buildGenerator returns the live generator when MODEL_PROVIDER is set,
// otherwise the deterministic offline mock. The returned provider config is
// nil in mock mode.
func buildGenerator(ctx context.Context, log *slog.Logger) (generator.Generator, *provider.Config, error) {
	if !provider.Configured() {
		log.Info("MODEL_PROVIDER not set, using offline mock generator")
		return generator.NewMock(), nil, nil
	}

	cfg := provider.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid provider config: %w", err)
	}

	chatModel, err := provider.New(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialise model provider: %w", err)
	}
	log.Info("model provider initialised",
		slog.String("backend", string(cfg.Backend)),
		slog.String("model", cfg.Model),
	)

	gen, err := generator.NewLive(&generator.LiveConfig{
		ChatModel:   chatModel,
		ModelName:   cfg.Model,
		Temperature: cfg.Temperature,
		Logger:      log,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create generator: %w", err)
	}
	return gen, cfg, nil
}

// openHistory opens the exchange log. VOYAGO_HISTORY_DB overrides the default
// path (~/.voyago/history.db); "disabled" turns recording off. Failures are
// non-fatal: the pipeline runs without history.
func openHistory(log *slog.Logger) history.Store {
	dbPath := os.Getenv("VOYAGO_HISTORY_DB")
	if dbPath == "disabled" {
		log.Info("history: disabled via VOYAGO_HISTORY_DB=disabled")
		return nil
	}
	if dbPath == "" {
		var err error
		dbPath, err = history.DefaultDBPath()
		if err != nil {
			log.Warn("history: could not resolve default DB path, disabling", slog.Any("error", err))
			return nil
		}
	}

	hs, err := history.Open(dbPath)
	if err != nil {
		log.Warn("history: failed to open store, disabling", slog.Any("error", err))
		return nil
	}
	log.Info("history: store opened", slog.String("path", dbPath))
	return hs
}

// buildPingers assembles the readiness probes for the serve command from
// whichever dependencies are actually wired.
func buildPingers(a *app) []server.Pinger {
	var pingers []server.Pinger

	if a.Qdrant != nil {
		pingers = append(pingers, server.NewQdrantPinger(a.Qdrant.Client()))
	}

	if a.ProviderCfg != nil && a.ProviderCfg.BaseURL != "" {
		pingers = append(pingers, server.NewHTTPPinger(a.ProviderCfg.BaseURL, string(a.ProviderCfg.Backend)))
	}

	return pingers
}

// getEnvOrDefault returns the env var value or fallback when unset/empty.
func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt returns the env var parsed as int, or fallback when unset or
// unparsable.
func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
