package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copystudio-api/internal/application/catalog"
	"copystudio-api/internal/application/quality"
	"copystudio-api/internal/config"
	"copystudio-api/internal/interfaces/http/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// countingLimiter 每个 key 只放行前 limit 次
type countingLimiter struct {
	mu   sync.Mutex
	seen map[string]int
	keys []string
}

func (l *countingLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen[key]++
	l.keys = append(l.keys, key)
	return l.seen[key] <= limit, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "copystudio-api"
	cfg.Server.HTTP.MaxBodyBytes = 64
	cfg.Observability.Metrics.Enabled = true
	cfg.Observability.Metrics.Path = "/metrics"
	cfg.Security.RateLimit.Enabled = true
	cfg.Security.RateLimit.RequestsPerSecond = 2
	return cfg
}

func testHandlers() *RouterHandlers {
	cat := catalog.New(catalog.Builtin())
	return &RouterHandlers{
		Health:   handler.NewHealthHandler(nil, nil, cat, "test"),
		Template: handler.NewTemplateHandler(cat, nil),
		Quality:  handler.NewQualityHandler(quality.NewService(nil, "", 0)),
		Diff:     handler.NewDiffHandler(),
		Adapter:  handler.NewAdapterHandler(),
	}
}

func serve(r *Router, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, req)
	return w
}

func TestRouter_SystemEndpoints(t *testing.T) {
	r := NewWithDeps(testConfig(), testHandlers(), nil, nil)

	w := serve(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = serve(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "copystudio_http_requests_total")
}

func TestRouter_RateLimitPerClientAndRoute(t *testing.T) {
	limiter := &countingLimiter{seen: map[string]int{}}
	r := NewWithDeps(testConfig(), testHandlers(), limiter, func(client, endpoint string) string {
		return "rl:" + client + ":" + endpoint
	})

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/v1/templates", "").Code)
	}
	w := serve(r, http.MethodGet, "/v1/templates", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// 不同路由单独计数
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/v1/quality/score", `{"text":"oi"}`).Code)
	assert.Equal(t, "rl:192.0.2.1:/v1/templates", limiter.keys[0])
}

func TestRouter_BodyLimit(t *testing.T) {
	r := NewWithDeps(testConfig(), testHandlers(), nil, nil)

	body := `{"text":"` + strings.Repeat("a", 200) + `"}`
	w := serve(r, http.MethodPost, "/v1/quality/score", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
