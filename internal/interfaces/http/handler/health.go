// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const readinessTimeout = 2 * time.Second

// HealthChecker 依赖健康检查
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type dependency struct {
	name    string
	checker HealthChecker
}

// HealthHandler 探针处理器：/health /live 不访问依赖，/ready 并发检查依赖与模板目录
type HealthHandler struct {
	deps    []dependency
	catalog interface{ Len() int }
	version string
}

// NewHealthHandler 空的模板目录视为未就绪
func NewHealthHandler(pg, redisClient HealthChecker, catalog interface{ Len() int }, version string) *HealthHandler {
	return &HealthHandler{
		deps:    []dependency{{"postgres", pg}, {"redis", redisClient}},
		catalog: catalog,
		version: version,
	}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	Detail    string `json:"detail,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks"`
}

// Health 健康检查
// @Summary 健康检查
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Version: h.version})
}

// Live 存活检查
// @Summary 存活检查
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready 就绪检查，任一项非 ok 时返回 503
// @Summary 就绪检查
// @Tags System
// @Produce json
// @Success 200 {object} readinessResponse
// @Failure 503 {object} readinessResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	results := make([]*readinessCheck, len(h.deps))
	var wg sync.WaitGroup
	for i, dep := range h.deps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = runCheck(ctx, dep.checker)
		}()
	}
	wg.Wait()

	resp := readinessResponse{Status: "ok", Checks: make(map[string]*readinessCheck, len(h.deps)+1)}
	for i, dep := range h.deps {
		resp.Checks[dep.name] = results[i]
	}
	resp.Checks["catalog"] = h.catalogCheck()

	for _, check := range resp.Checks {
		if check.Status != "ok" {
			resp.Status = "not_ready"
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) catalogCheck() *readinessCheck {
	n := 0
	if h.catalog != nil {
		n = h.catalog.Len()
	}
	if n == 0 {
		return &readinessCheck{Status: "empty", Error: "template catalog is empty"}
	}
	return &readinessCheck{Status: "ok", Detail: strconv.Itoa(n) + " templates"}
}

func runCheck(ctx context.Context, dep HealthChecker) *readinessCheck {
	if dep == nil {
		return &readinessCheck{Status: "missing", Error: "client not configured"}
	}
	start := time.Now()
	err := dep.HealthCheck(ctx)
	check := &readinessCheck{Status: "ok", LatencyMs: time.Since(start).Milliseconds()}
	if err != nil {
		check.Status = "error"
		check.Error = err.Error()
	}
	return check
}
