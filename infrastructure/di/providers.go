// Package di assembles the application's dependency graph.
package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"github.com/Xazratbek/storybridge-net/application/commands"
	cmdbus "github.com/Xazratbek/storybridge-net/application/commands/bus"
	"github.com/Xazratbek/storybridge-net/application/dashboard"
	"github.com/Xazratbek/storybridge-net/application/ports"
	"github.com/Xazratbek/storybridge-net/application/queries"
	querybus "github.com/Xazratbek/storybridge-net/application/queries/bus"
	"github.com/Xazratbek/storybridge-net/application/services"
	"github.com/Xazratbek/storybridge-net/infrastructure/config"
	"github.com/Xazratbek/storybridge-net/infrastructure/identity"
	dynamostore "github.com/Xazratbek/storybridge-net/infrastructure/persistence/dynamodb"
	"github.com/Xazratbek/storybridge-net/infrastructure/persistence/dualstore"
	pgstore "github.com/Xazratbek/storybridge-net/infrastructure/persistence/postgrest"
	supastorage "github.com/Xazratbek/storybridge-net/infrastructure/storage/supabase"
	"github.com/Xazratbek/storybridge-net/interfaces/http/rest"
	"github.com/Xazratbek/storybridge-net/interfaces/http/rest/handlers"
	"github.com/Xazratbek/storybridge-net/pkg/auth"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideSupabaseClient creates the Supabase API client. The service key is
// used when present so the server bypasses row level security; handlers
// enforce ownership themselves.
func ProvideSupabaseClient(cfg *config.Config) (*supabase.Client, error) {
	key := cfg.SupabaseServiceKey
	if key == "" {
		key = cfg.SupabaseAnonKey
	}
	client, err := supabase.NewClient(cfg.SupabaseURL, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return client, nil
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

// ProvideMemoryRepository builds the dual-store repository. PRIMARY_STORE
// decides which backend reads prefer; writes always go to both.
func ProvideMemoryRepository(
	sb *supabase.Client,
	ddb *awsdynamodb.Client,
	cfg *config.Config,
	logger *zap.Logger,
) ports.MemoryRepository {
	pg := pgstore.NewMemoryRepository(sb, logger)
	dy := dynamostore.NewMemoryRepository(ddb, cfg.DynamoDBTable, cfg.DynamoDBIndex, logger)

	if cfg.PrimaryStore == config.StoreDynamoDB {
		return dualstore.New(dy, pg, logger)
	}
	return dualstore.New(pg, dy, logger)
}

// ProvideMediaStore selects the attachment backend to match the primary
// record store: object storage next to Postgres, inline blobs next to
// DynamoDB.
func ProvideMediaStore(
	sb *supabase.Client,
	ddb *awsdynamodb.Client,
	cfg *config.Config,
	logger *zap.Logger,
) ports.MediaStore {
	if cfg.PrimaryStore == config.StoreDynamoDB {
		return dynamostore.NewMediaStore(ddb, cfg.DynamoDBTable, cfg.DynamoDBIndex, logger)
	}
	return supastorage.NewMediaStore(sb, cfg.StorageBucket, logger)
}

// ProvideReferenceReader creates the reference data reader
func ProvideReferenceReader(sb *supabase.Client) ports.ReferenceReader {
	return pgstore.NewReferenceRepository(sb)
}

// ProvideAuthProvider creates the identity provider
func ProvideAuthProvider(sb *supabase.Client, logger *zap.Logger) ports.AuthProvider {
	return identity.NewAuthProvider(sb, logger)
}

// ProvideJWTValidator creates the session token validator
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	jwtConfig := auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
	}
	if cfg.JWTAudience != "" {
		jwtConfig.Audience = []string{cfg.JWTAudience}
	}
	return auth.NewJWTValidator(jwtConfig)
}

// ProvideMediaService creates the upload validation service
func ProvideMediaService(store ports.MediaStore, logger *zap.Logger) *services.MediaService {
	return services.NewMediaService(store, logger)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	repo ports.MemoryRepository,
	media ports.MediaStore,
	logger *zap.Logger,
) (*cmdbus.CommandBus, error) {
	commandBus := cmdbus.NewCommandBus()
	pipeline := cmdbus.NewPipeline(cmdbus.LoggingMiddleware(logger))

	registrations := []struct {
		cmd     cmdbus.Command
		handler cmdbus.CommandHandler
	}{
		{commands.CreateMemoryCommand{}, commands.NewCreateMemoryHandler(repo, logger)},
		{commands.UpdateMemoryCommand{}, commands.NewUpdateMemoryHandler(repo, logger)},
		{commands.DeleteMemoryCommand{}, commands.NewDeleteMemoryHandler(repo, media, logger)},
	}
	for _, reg := range registrations {
		if err := commandBus.Register(reg.cmd, pipeline.Execute(reg.handler)); err != nil {
			return nil, err
		}
	}
	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(repo ports.MemoryRepository, logger *zap.Logger) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()
	logging := querybus.LoggingMiddleware(logger)

	registrations := []struct {
		query   querybus.Query
		handler querybus.QueryHandler
	}{
		{queries.GetMemoryQuery{}, queries.NewGetMemoryHandler(repo)},
		{queries.ListMemoriesQuery{}, queries.NewListMemoriesHandler(repo)},
		{queries.TimelineQuery{}, queries.NewTimelineHandler(repo)},
		{queries.DashboardQuery{}, queries.NewDashboardHandler(repo)},
	}
	for _, reg := range registrations {
		if err := queryBus.Register(reg.query, logging(reg.handler)); err != nil {
			return nil, err
		}
	}
	return queryBus, nil
}

// DashboardFactory produces a fresh controller per user session.
type DashboardFactory func() *dashboard.Controller

// ProvideDashboardFactory creates the controller factory
func ProvideDashboardFactory(
	repo ports.MemoryRepository,
	commandBus *cmdbus.CommandBus,
	logger *zap.Logger,
) DashboardFactory {
	return func() *dashboard.Controller {
		return dashboard.NewController(repo, commandBus, logger)
	}
}

// ProvideMemoryHandler creates the memory REST handler
func ProvideMemoryHandler(
	commandBus *cmdbus.CommandBus,
	queryBus *querybus.QueryBus,
	cfg *config.Config,
	logger *zap.Logger,
) *handlers.MemoryHandler {
	return handlers.NewMemoryHandler(commandBus, queryBus, cfg.LoginURL, logger)
}

// ProvideMediaHandler creates the media REST handler
func ProvideMediaHandler(
	media *services.MediaService,
	repo ports.MemoryRepository,
	cfg *config.Config,
	logger *zap.Logger,
) *handlers.MediaHandler {
	return handlers.NewMediaHandler(media, repo, cfg.LoginURL, logger)
}

// ProvideDashboardHandler creates the dashboard session handler
func ProvideDashboardHandler(
	factory DashboardFactory,
	cfg *config.Config,
	logger *zap.Logger,
) *handlers.DashboardHandler {
	return handlers.NewDashboardHandler(factory, cfg.LoginURL, logger)
}

// ProvideReferenceHandler creates the reference data handler
func ProvideReferenceHandler(
	reader ports.ReferenceReader,
	cfg *config.Config,
	logger *zap.Logger,
) *handlers.ReferenceHandler {
	return handlers.NewReferenceHandler(reader, cfg.LoginURL, logger)
}

// ProvideAuthHandler creates the auth handler
func ProvideAuthHandler(
	provider ports.AuthProvider,
	cfg *config.Config,
	logger *zap.Logger,
) *handlers.AuthHandler {
	return handlers.NewAuthHandler(provider, cfg.LoginURL, logger)
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	cfg *config.Config,
	validator *auth.JWTValidator,
	memories *handlers.MemoryHandler,
	media *handlers.MediaHandler,
	dashboardHandler *handlers.DashboardHandler,
	reference *handlers.ReferenceHandler,
	authn *handlers.AuthHandler,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(cfg, validator, memories, media, dashboardHandler, reference, authn, logger)
}
