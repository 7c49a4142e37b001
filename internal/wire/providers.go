// Package wire 提供依赖注入配置
package wire

import (
	"context"
	"fmt"

	"copystudio-api/internal/application/catalog"
	"copystudio-api/internal/application/llmeval"
	"copystudio-api/internal/application/quality"
	"copystudio-api/internal/application/runwatch"
	"copystudio-api/internal/application/selection"
	"copystudio-api/internal/application/suggest"
	"copystudio-api/internal/config"
	"copystudio-api/internal/domain/repository"
	"copystudio-api/internal/infrastructure/llm"
	"copystudio-api/internal/infrastructure/messaging"
	"copystudio-api/internal/infrastructure/persistence/postgres"
	"copystudio-api/internal/infrastructure/persistence/redis"
	"copystudio-api/internal/interfaces/http/handler"
	"copystudio-api/internal/interfaces/http/router"
	"copystudio-api/pkg/logger"
)

// Version 版本信息，由 main 在构建时注入后设置
var Version = "dev"

// PostgresOnlyDataLayer 仅包含 PostgreSQL 的数据层（用于 bootstrap）
type PostgresOnlyDataLayer struct {
	PgClient     *postgres.Client
	TemplateRepo *postgres.TemplateRepository
}

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideMessagingProducer 提供消息生产者
func ProvideMessagingProducer(redisClient *redis.Client, cfg *config.Config) *messaging.Producer {
	maxLen := cfg.Messaging.RedisStream.MaxLen
	if maxLen <= 0 {
		maxLen = 100000
	}
	return messaging.NewProducer(redisClient.Redis(), int64(maxLen))
}

// ProvideSelectionStore 提供会话选择状态存储
func ProvideSelectionStore(redisClient *redis.Client, cfg *config.Config) *redis.SelectionStore {
	return redis.NewSelectionStore(redisClient, cfg.Selection.KeyPrefix, cfg.Selection.TTL)
}

// ProvideCatalogSource 按配置选择模板目录来源
func ProvideCatalogSource(cfg *config.Config, repo repository.TemplateRepository) (catalog.Source, error) {
	switch cfg.Catalog.Source {
	case config.CatalogSourceBuiltin, "":
		return catalog.BuiltinSource, nil
	case config.CatalogSourceFile:
		return catalog.FileSource{Path: cfg.Catalog.Path}, nil
	case config.CatalogSourcePostgres:
		return catalog.RepositorySource{Repo: repo}, nil
	default:
		return nil, fmt.Errorf("invalid catalog source: %q", cfg.Catalog.Source)
	}
}

// ProvideCatalog 加载模板目录；文件来源且开启 watch 时在后台热加载
func ProvideCatalog(ctx context.Context, cfg *config.Config, src catalog.Source) (*catalog.Catalog, func(), error) {
	c, err := catalog.Load(ctx, src)
	if err != nil {
		return nil, nil, err
	}
	logger.Info(ctx, "template catalog loaded", "source", string(cfg.Catalog.Source), "templates", c.Len())

	if cfg.Catalog.Source != config.CatalogSourceFile || !cfg.Catalog.Watch {
		return c, func() {}, nil
	}

	watchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := catalog.Watch(watchCtx, c, cfg.Catalog.Path); err != nil {
			logger.Error(watchCtx, "catalog watcher stopped", err)
		}
	}()
	cleanup := func() {
		cancel()
		<-done
	}
	return c, cleanup, nil
}

// ProvideRanker 提供模板推荐器
func ProvideRanker() *suggest.Ranker {
	return suggest.Default()
}

// ProvideDeepEvaluator 深度评估器；未启用或初始化失败时返回 nil（接口 503）
func ProvideDeepEvaluator(ctx context.Context, cfg *config.Config, cache *redis.Cache) quality.Evaluator {
	deep := cfg.Quality.Deep
	if !deep.Enabled {
		return nil
	}

	models := llm.NewRegistry(&cfg.LLM)
	provider := models.Resolve(deep.Provider)
	ev, err := llmeval.New(models, provider)
	if err != nil {
		logger.Warn(ctx, "deep evaluation disabled", "error", err.Error())
		return nil
	}
	namespace := ev.CacheNamespace() + ":" + models.ModelName(provider)
	return quality.NewCachedEvaluator(ev, cache, deep.CacheTTL, namespace)
}

// ProvideQualityService 提供质量评分服务
func ProvideQualityService(cfg *config.Config, evaluator quality.Evaluator) *quality.Service {
	provider := cfg.Quality.Deep.Provider
	if provider == "" {
		provider = cfg.LLM.DefaultProvider
	}
	return quality.NewService(evaluator, provider, cfg.Quality.Deep.MaxInputRunes)
}

// ProvideSelectionService 提供选择状态服务
func ProvideSelectionService(store *redis.SelectionStore) *selection.Service {
	return selection.NewService(store)
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(pg *postgres.Client, redisClient *redis.Client, c *catalog.Catalog) *handler.HealthHandler {
	return handler.NewHealthHandler(pg, redisClient, c, Version)
}

// ProvideRunSource 提供运行列表来源
func ProvideRunSource(cfg *config.Config) *runwatch.HTTPRunSource {
	return runwatch.NewHTTPRunSource(cfg.Backend, cfg.RunWatch.Path, nil)
}

// ProvideRunWatcher 提供运行状态轮询器
func ProvideRunWatcher(cfg *config.Config, source runwatch.RunSource, sink runwatch.Sink) *runwatch.Watcher {
	return runwatch.New(source, sink, cfg.RunWatch.Interval, messaging.BackoffFromConfig(cfg.RunWatch.Backoff))
}

// ProvideRouter 提供路由器
func ProvideRouter(cfg *config.Config, handlers *router.RouterHandlers, limiter *redis.RateLimiter) *router.Router {
	return router.NewWithDeps(cfg, handlers, limiter, redis.BuildRateLimitKey)
}
