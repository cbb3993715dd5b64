//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"github.com/Xazratbek/storybridge-net/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideSupabaseClient,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideMemoryRepository,
	ProvideMediaStore,
	ProvideReferenceReader,
	ProvideAuthProvider,
	ProvideJWTValidator,
	ProvideMediaService,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideDashboardFactory,
	ProvideMemoryHandler,
	ProvideMediaHandler,
	ProvideDashboardHandler,
	ProvideReferenceHandler,
	ProvideAuthHandler,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
