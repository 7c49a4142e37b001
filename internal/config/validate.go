package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate 校验配置项之间的约束，一次返回全部问题
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Server.HTTP.Port > 0 && c.Server.HTTP.Port <= 65535, "server.http.port out of range: %d", c.Server.HTTP.Port)
	check(c.Server.HTTP.MaxBodyBytes > 0, "server.http.max_body_bytes must be positive")

	switch c.Catalog.Source {
	case CatalogSourceBuiltin, CatalogSourcePostgres:
	case CatalogSourceFile:
		check(strings.TrimSpace(c.Catalog.Path) != "", "catalog.path is required when catalog.source=file")
	default:
		check(false, "invalid catalog.source: %q", c.Catalog.Source)
	}

	if c.Quality.Deep.Enabled {
		check(c.Quality.Deep.CacheTTL > 0, "quality.deep.cache_ttl must be positive")
		check(c.Quality.Deep.MaxInputRunes > 0, "quality.deep.max_input_runes must be positive")
	}

	check(c.RunWatch.Interval > 0, "run_watch.interval must be positive")
	check(c.RunWatch.Backoff.Multiplier >= 1, "run_watch.backoff.multiplier must be >= 1")
	check(c.Selection.TTL > 0, "selection.ttl must be positive")

	switch strings.ToLower(c.Observability.Logging.Format) {
	case "json", "text":
	default:
		check(false, "invalid observability.logging.format: %q", c.Observability.Logging.Format)
	}
	if c.Observability.Tracing.Enabled {
		r := c.Observability.Tracing.SampleRate
		check(r >= 0 && r <= 1, "observability.tracing.sample_rate must be within [0,1]: %v", r)
	}
	if c.Security.RateLimit.Enabled {
		check(c.Security.RateLimit.RequestsPerSecond > 0, "security.rate_limit.requests_per_second must be positive")
	}

	return errors.Join(errs...)
}
