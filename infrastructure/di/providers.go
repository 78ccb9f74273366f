package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"techtree-backend/application/commands/bus"
	commandhandlers "techtree-backend/application/commands/handlers"
	"techtree-backend/application/ports"
	querybus "techtree-backend/application/queries/bus"
	queryhandlers "techtree-backend/application/queries/handlers"
	"techtree-backend/application/services"
	domainconfig "techtree-backend/domain/config"
	"techtree-backend/infrastructure/cache"
	"techtree-backend/infrastructure/config"
	"techtree-backend/infrastructure/dataset"
	"techtree-backend/infrastructure/layout"
	"techtree-backend/infrastructure/llm"
	"techtree-backend/infrastructure/messaging/eventbridge"
	"techtree-backend/infrastructure/persistence/dynamodb"
	"techtree-backend/infrastructure/persistence/memory"
	"techtree-backend/infrastructure/persistence/sqlite"
	"techtree-backend/infrastructure/render"
	"techtree-backend/interfaces/http/rest"
	"techtree-backend/interfaces/http/rest/middleware"
	"techtree-backend/pkg/auth"
	pkgerrors "techtree-backend/pkg/errors"
	"techtree-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

const (
	serviceName      = "techtree-backend"
	metricsNamespace = "techtree"
	lockWaitTimeout  = 10 * time.Second
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		zapCfg.Level = level
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", serviceName)), nil
}

// ProvideDomainConfig returns the display and classification rules
func ProvideDomainConfig() *domainconfig.DomainConfig {
	return domainconfig.DefaultDomainConfig()
}

// ProvideMetrics creates the Prometheus collector, or nil when disabled
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector(metricsNamespace)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer(serviceName, cfg.EnableTracing)
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideEventPublisher publishes to EventBridge when a bus is configured
func ProvideEventPublisher(cfg *config.Config, client *awseventbridge.Client, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return ports.NoopPublisher{}
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideDatasetStore loads the initial dataset snapshot
func ProvideDatasetStore(
	cfg *config.Config,
	domainCfg *domainconfig.DomainConfig,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) (*dataset.Store, error) {
	return dataset.NewStore(cfg.DatasetPath, domainCfg, publisher, metrics, logger)
}

// ProvideLayouter creates the layout engine
func ProvideLayouter() ports.Layouter {
	return layout.NewEngine()
}

// ProvideGenerator connects to Gemini. Without an API key it returns a nil
// generator, which the assistant reports as disabled.
func ProvideGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.Generator, error) {
	if !cfg.ChatEnabled() {
		logger.Warn("No generative model API key configured, chat is disabled")
		return nil, nil
	}
	gemini, err := llm.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	if err != nil {
		return nil, err
	}
	return gemini, nil
}

// ProvideAssistantBridge creates the assistant bridge
func ProvideAssistantBridge(generator ports.Generator, cfg *config.Config, tracer *observability.Tracer, logger *zap.Logger) *services.AssistantBridge {
	return services.NewAssistantBridge(generator, int32(cfg.ChatMaxOutputTokens), float32(cfg.ChatTemperature), tracer, logger)
}

// ProvideViewDeriver creates the view deriver
func ProvideViewDeriver(
	source *dataset.Store,
	layouter ports.Layouter,
	domainCfg *domainconfig.DomainConfig,
	cfg *config.Config,
	metrics *observability.Collector,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *services.ViewDeriver {
	return services.NewViewDeriver(source, layouter, domainCfg, ports.LayoutAlgorithm(cfg.LayoutAlgorithm), metrics, tracer, logger)
}

// ProvideKeyValueStore opens the transcript store selected by STORE_DRIVER
func ProvideKeyValueStore(ctx context.Context, cfg *config.Config, client *awsdynamodb.Client, logger *zap.Logger) (ports.KeyValueStore, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, nil, err
		}
		if cfg.ChatTTL > 0 {
			pruned, err := store.PruneBefore(ctx, time.Now().Add(-cfg.ChatTTL))
			if err != nil {
				logger.Warn("Failed to prune expired transcripts", zap.Error(err))
			} else if pruned > 0 {
				logger.Info("Pruned expired transcripts", zap.Int64("keys", pruned))
			}
		}
		cleanup := func() {
			if err := store.Close(); err != nil {
				logger.Warn("Failed to close sqlite store", zap.Error(err))
			}
		}
		return store, cleanup, nil
	case config.StoreDynamoDB:
		return dynamodb.NewTranscriptStore(client, cfg.ChatTable, cfg.ChatTTL, logger), func() {}, nil
	default:
		return memory.NewStore(), func() {}, nil
	}
}

// ProvideSessionLocker returns a cross-instance lock for the DynamoDB store,
// or nil when transcripts live in a single process.
func ProvideSessionLocker(cfg *config.Config, client *awsdynamodb.Client, logger *zap.Logger) ports.SessionLocker {
	if cfg.StoreDriver != config.StoreDynamoDB {
		return nil
	}
	return dynamodb.NewSessionLock(client, cfg.ChatTable, cfg.ChatLockLease, lockWaitTimeout, logger)
}

// ProvideChatService creates the chat service
func ProvideChatService(
	store ports.KeyValueStore,
	bridge *services.AssistantBridge,
	deriver *services.ViewDeriver,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	locker ports.SessionLocker,
	logger *zap.Logger,
) *services.ChatService {
	chat := services.NewChatService(store, bridge, deriver, publisher, metrics, logger)
	if locker != nil {
		chat.WithSessionLocker(locker)
	}
	return chat
}

// ProvideViewCache creates the derived-view cache
func ProvideViewCache(cfg *config.Config) (*cache.InMemoryCache, func()) {
	c := cache.NewInMemoryCache(cfg.ViewCacheSize)
	return c, c.Close
}

// ProvideQueryBus creates and configures the query bus
func ProvideQueryBus(
	deriver *services.ViewDeriver,
	source *dataset.Store,
	domainCfg *domainconfig.DomainConfig,
	chat *services.ChatService,
	viewCache *cache.InMemoryCache,
	cfg *config.Config,
	metrics *observability.Collector,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()

	caching := querybus.NewCachingMiddleware(viewCache, cfg.ViewCacheTTL, func() uint64 {
		return source.Current().Revision()
	})
	var metricsMW *querybus.MetricsMiddleware
	if metrics != nil {
		metricsMW = querybus.NewMetricsMiddleware(metrics)
	}

	registry := queryhandlers.Registry{
		DeriveView:  queryhandlers.NewDeriveViewHandler(deriver, logger),
		Tree:        queryhandlers.NewTreeHandler(source, domainCfg),
		ChatHistory: queryhandlers.NewChatHistoryHandler(chat),
	}
	if err := registry.Register(queryBus, caching, metricsMW); err != nil {
		return nil, fmt.Errorf("register query handlers: %w", err)
	}
	return queryBus, nil
}

// ProvideCommandBus creates and configures the command bus
func ProvideCommandBus(
	chat *services.ChatService,
	source *dataset.Store,
	metrics *observability.Collector,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	middlewares := []bus.Middleware{bus.LoggingMiddleware(logger)}
	if metrics != nil {
		middlewares = append(middlewares, bus.MetricsMiddleware(metrics))
	}
	commandBus := bus.NewCommandBus(middlewares...)

	if err := commandhandlers.Register(commandBus, chat, source, logger); err != nil {
		return nil, fmt.Errorf("register command handlers: %w", err)
	}
	return commandBus, nil
}

// ProvideErrorHandler creates the HTTP error renderer
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideRouterOptions derives HTTP settings, including authentication
func ProvideRouterOptions(cfg *config.Config, logger *zap.Logger) (rest.Options, error) {
	opts := rest.Options{
		EnableCORS:       cfg.EnableCORS,
		AllowedOrigins:   cfg.AllowedOrigins,
		DefaultAlgorithm: cfg.LayoutAlgorithm,
		SecureCookies:    cfg.IsProduction(),
		Renderer:         render.SVG,
		Auth: middleware.AuthOptions{
			TrustGateway: cfg.IsLambda,
			Logger:       logger,
		},
	}

	if cfg.AuthEnabled() {
		validator, err := auth.NewJWTValidator(auth.JWTConfig{
			SecretKey: cfg.JWTSecret,
			Issuer:    cfg.JWTIssuer,
			Audience:  []string{auth.DefaultAudience},
			Leeway:    30 * time.Second,
		})
		if err != nil {
			return rest.Options{}, fmt.Errorf("create JWT validator: %w", err)
		}
		opts.Auth.Validator = validator
	}
	return opts, nil
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	chat *services.ChatService,
	source *dataset.Store,
	metrics *observability.Collector,
	tracer *observability.Tracer,
	errorHandler *pkgerrors.ErrorHandler,
	opts rest.Options,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(commandBus, queryBus, chat, source, metrics, tracer, errorHandler, opts, logger)
}

// ProvideHTTPHandler builds the routed handler
func ProvideHTTPHandler(router *rest.Router) http.Handler {
	return router.Setup()
}
