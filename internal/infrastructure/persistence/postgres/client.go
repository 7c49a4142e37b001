// Package postgres 提供 PostgreSQL 数据库访问层实现
package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"copystudio-api/internal/config"
	"copystudio-api/internal/domain/entity"
)

var tracer = otel.Tracer("postgres")

const connectTimeout = 5 * time.Second

// Client 持有模板目录与内容版本所用的 GORM 连接
type Client struct {
	db *gorm.DB
}

// NewClient 打开连接、配置连接池并验证可达
func NewClient(cfg *config.PostgresConfig) (*Client, error) {
	db, err := gorm.Open(postgres.Open(buildDSN(cfg)), &gorm.Config{
		Logger:                 newQueryLogger(cfg.SlowThreshold),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	return &Client{db: db}, nil
}

// buildDSN 生成 key=value 形式的连接串，值中的空格与引号按 libpq 规则转义
func buildDSN(cfg *config.PostgresConfig) string {
	pairs := []struct{ k, v string }{
		{"host", cfg.Host},
		{"port", strconv.Itoa(cfg.Port)},
		{"user", cfg.User},
		{"password", cfg.Password},
		{"dbname", cfg.Database},
		{"sslmode", cfg.SSLMode},
		{"connect_timeout", strconv.Itoa(int(connectTimeout / time.Second))},
	}

	var b strings.Builder
	for _, p := range pairs {
		if p.v == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p.k)
		b.WriteByte('=')
		b.WriteString(quoteDSNValue(p.v))
	}
	return b.String()
}

func quoteDSNValue(v string) string {
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

// AutoMigrate 迁移本服务拥有的表
func (c *Client) AutoMigrate(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "postgres.AutoMigrate")
	defer span.End()

	models := []any{&entity.Template{}, &entity.ContentVersion{}}
	span.SetAttributes(attribute.Int("postgres.models", len(models)))
	if err := c.db.WithContext(ctx).AutoMigrate(models...); err != nil {
		span.RecordError(err)
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// DB 返回 GORM 句柄
func (c *Client) DB() *gorm.DB {
	return c.db
}

// Close 关闭连接池
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// HealthCheck 就绪检查：SELECT 1，并在 span 上记录连接池占用
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "postgres.HealthCheck")
	defer span.End()

	if sqlDB, err := c.db.DB(); err == nil {
		st := sqlDB.Stats()
		span.SetAttributes(
			attribute.Int("postgres.pool.open", st.OpenConnections),
			attribute.Int("postgres.pool.in_use", st.InUse),
			attribute.Int64("postgres.pool.wait_count", st.WaitCount),
		)
	}

	var one int
	if err := c.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("postgres health check: %w", err)
	}
	return nil
}
