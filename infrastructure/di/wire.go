//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"techtree-backend/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideMetrics,
	ProvideTracer,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideEventPublisher,
	ProvideDatasetStore,
	ProvideLayouter,
	ProvideGenerator,
	ProvideAssistantBridge,
	ProvideViewDeriver,
	ProvideKeyValueStore,
	ProvideSessionLocker,
	ProvideChatService,
	ProvideViewCache,
	ProvideQueryBus,
	ProvideCommandBus,
	ProvideErrorHandler,
	ProvideRouterOptions,
	ProvideRouter,
	ProvideHTTPHandler,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
