// Package middleware 提供 HTTP 中间件
package middleware

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	apperrors "copystudio-api/pkg/errors"
	"copystudio-api/pkg/logger"
	"copystudio-api/pkg/metrics"
)

// Recovery 捕获 panic，记录堆栈并返回 500 错误结构。
// http.ErrAbortHandler 按 net/http 约定继续向上抛出。
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && stderrors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			metrics.HTTPPanicsTotal.WithLabelValues(route).Inc()
			logger.Error(c.Request.Context(), "panic recovered",
				fmt.Errorf("%v", rec),
				"route", route,
				"method", c.Request.Method,
				"stack", string(debug.Stack()),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			abortWithError(c, apperrors.ErrInternalError)
		}()

		c.Next()
	}
}
