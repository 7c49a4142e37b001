package middleware

import (
	"github.com/gin-gonic/gin"

	"copystudio-api/pkg/logger"
)

// LogParams 将路由参数注入日志上下文（sid -> session_id，did -> document_id）
func LogParams() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if sid := c.Param("sid"); sid != "" {
			ctx = logger.WithContext(ctx, logger.SessionIDKey, sid)
		}
		if did := c.Param("did"); did != "" {
			ctx = logger.WithContext(ctx, logger.DocumentIDKey, did)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
