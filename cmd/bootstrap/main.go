// Package main 初始化数据库结构并写入模板目录
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"copystudio-api/internal/application/catalog"
	"copystudio-api/internal/application/quality"
	"copystudio-api/internal/config"
	"copystudio-api/internal/domain/entity"
	"copystudio-api/internal/wire"
)

func main() {
	_ = godotenv.Load()

	catalogFile := flag.String("catalog", "", "seed templates from this YAML file instead of the built-in catalog")
	flushDeep := flag.Bool("flush-deep-cache", false, "drop cached deep evaluation scores from redis")
	flag.Parse()

	fmt.Println("Starting system bootstrap...")

	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. 初始化数据层（仅 PostgreSQL）
	dataLayer, cleanup, err := wire.InitializePostgresOnly(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize data layer: %v", err)
	}
	defer cleanup()

	// 3. 迁移表结构
	if err := dataLayer.PgClient.AutoMigrate(ctx); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	fmt.Println("Schema migrated.")

	// 4. 写入模板目录
	var tpls []entity.Template
	if *catalogFile != "" {
		tpls, err = catalog.FileSource{Path: *catalogFile}.Load(ctx)
		if err != nil {
			log.Fatalf("failed to load catalog file: %v", err)
		}
	} else {
		tpls = catalog.Builtin()
	}
	if err := catalog.Seed(ctx, dataLayer.TemplateRepo, tpls); err != nil {
		log.Fatalf("failed to seed templates: %v", err)
	}
	fmt.Printf("Seeded %d templates.\n", len(tpls))

	// 5. 清理深度评估缓存（提示词或模型变更后）
	if *flushDeep {
		cache, cleanupCache, err := wire.InitializeCache(ctx, cfg)
		if err != nil {
			log.Fatalf("failed to initialize redis: %v", err)
		}
		defer cleanupCache()
		n, err := cache.InvalidatePrefix(ctx, quality.DeepScoreKeyPrefix)
		if err != nil {
			log.Fatalf("failed to flush deep score cache: %v", err)
		}
		fmt.Printf("Deep score cache flushed (%d keys).\n", n)
	}

	fmt.Println("Bootstrap completed successfully.")
}
