//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"copystudio-api/internal/application/catalog"
	"copystudio-api/internal/application/runwatch"
	"copystudio-api/internal/application/versions"
	"copystudio-api/internal/config"
	"copystudio-api/internal/domain/repository"
	"copystudio-api/internal/infrastructure/messaging"
	"copystudio-api/internal/infrastructure/persistence/postgres"
	"copystudio-api/internal/infrastructure/persistence/redis"
	"copystudio-api/internal/interfaces/http/handler"
	"copystudio-api/internal/interfaces/http/router"
)

// InitializeCache 仅初始化 Redis 缓存（用于 bootstrap 清理评估缓存）
func InitializeCache(ctx context.Context, cfg *config.Config) (*redis.Cache, func(), error) {
	wire.Build(
		ProvideRedisClient,
		redis.NewCache,
	)
	return nil, nil, nil
}

// InitializeRunWatcher 初始化运行状态轮询器（变化推送到 Redis Stream）
func InitializeRunWatcher(ctx context.Context, cfg *config.Config) (*runwatch.Watcher, func(), error) {
	wire.Build(
		ProvideRedisClient,
		MessagingSet,
		ProvideRunSource,
		runwatch.NewStreamSink,
		ProvideRunWatcher,
		wire.Bind(new(runwatch.RunStatusPublisher), new(*messaging.Producer)),
		wire.Bind(new(runwatch.RunSource), new(*runwatch.HTTPRunSource)),
		wire.Bind(new(runwatch.Sink), new(*runwatch.StreamSink)),
	)
	return nil, nil, nil
}

// InitializePostgresOnly 仅初始化 PostgreSQL 数据层（用于 bootstrap）
func InitializePostgresOnly(ctx context.Context, cfg *config.Config) (*PostgresOnlyDataLayer, func(), error) {
	wire.Build(
		ProvidePostgresClient,
		postgres.NewTemplateRepository,
		wire.Struct(new(PostgresOnlyDataLayer), "*"),
	)
	return nil, nil, nil
}

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		ApplicationSet,
		RouterSet,
	)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewTemplateRepository,
	postgres.NewContentVersionRepository,
)

// RepoSet 具体实现与接口绑定
var RepoSet = wire.NewSet(
	PostgresSet,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.TemplateRepository), new(*postgres.TemplateRepository)),
	wire.Bind(new(repository.ContentVersionRepository), new(*postgres.ContentVersionRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	redis.NewRateLimiter,
	ProvideSelectionStore,
)

// MessagingSet 消息队列提供者集合
var MessagingSet = wire.NewSet(
	ProvideMessagingProducer,
)

// ApplicationSet 应用服务提供者集合
var ApplicationSet = wire.NewSet(
	ProvideCatalogSource,
	ProvideCatalog,
	ProvideRanker,
	ProvideDeepEvaluator,
	ProvideQualityService,
	ProvideSelectionService,
	versions.NewService,
	wire.Bind(new(handler.TemplateCatalog), new(*catalog.Catalog)),
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideHealthHandler,
	handler.NewTemplateHandler,
	handler.NewQualityHandler,
	handler.NewDiffHandler,
	handler.NewAdapterHandler,
	handler.NewSelectionHandler,
	handler.NewVersionHandler,
	wire.Struct(new(router.RouterHandlers), "*"),
	ProvideRouter,
)
