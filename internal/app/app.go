package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dugoutlabs/ballstats/external/openaigen"
	"github.com/dugoutlabs/ballstats/external/statsfeed"
	"github.com/dugoutlabs/ballstats/internal/config"
	"github.com/dugoutlabs/ballstats/internal/domain/player"
	"github.com/dugoutlabs/ballstats/internal/infrastructure/repository/memory"
	"github.com/dugoutlabs/ballstats/internal/infrastructure/repository/mongodb"
	"github.com/dugoutlabs/ballstats/internal/interfaces/httpapi"
	"github.com/dugoutlabs/ballstats/internal/platform/cache"
	"github.com/dugoutlabs/ballstats/internal/platform/logging"
	"github.com/dugoutlabs/ballstats/internal/usecase"
)

// NewHTTPServer assembles the full service. The returned cleanup function
// releases store connections and must run during shutdown.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repo, cleanup, err := newPlayerRepository(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	feedClient := statsfeed.NewClient(statsfeed.ClientConfig{
		URL:            cfg.FeedURL,
		Timeout:        cfg.FeedTimeout,
		MaxRetries:     cfg.FeedMaxRetries,
		Logger:         logger,
		CircuitBreaker: cfg.FeedCircuit,
	})

	generator := openaigen.NewClient(openaigen.ClientConfig{
		APIKey:         cfg.OpenAIAPIKey,
		Model:          cfg.OpenAIModel,
		Timeout:        cfg.OpenAITimeout,
		Logger:         logger,
		CircuitBreaker: cfg.OpenAICircuit,
	})

	var descriptionCache *cache.Store
	if cfg.DescriptionCacheEnabled {
		descriptionCache = cache.NewStore(cfg.DescriptionCacheTTL)
	}

	playerSvc := usecase.NewPlayerService(repo, feedClient, cfg.ListLimit, logger)
	descriptionSvc := usecase.NewDescriptionService(generator, cfg.OpenAIMaxTokens, descriptionCache, logger)

	handler := httpapi.NewHandler(playerSvc, descriptionSvc, logger, cfg.ServiceName, cfg.ServiceVersion)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = cleanup(context.Background())
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

func newPlayerRepository(cfg config.Config, logger *logging.Logger) (player.Repository, func(context.Context) error, error) {
	if cfg.UseMemoryStore() {
		logger.Warn("MONGO_URI is empty, using in-memory player store")
		return memory.NewPlayerRepository(), func(context.Context) error { return nil }, nil
	}

	connectCtx, cancel := context.WithTimeout(context.Background(), cfg.MongoTimeout)
	defer cancel()

	client, collection, err := mongodb.Connect(connectCtx, cfg.MongoURI, cfg.DatabaseName, cfg.CollectionName)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("connected to mongodb",
		"database", cfg.DatabaseName,
		"collection", cfg.CollectionName,
	)

	return mongodb.NewPlayerRepository(collection), client.Disconnect, nil
}
