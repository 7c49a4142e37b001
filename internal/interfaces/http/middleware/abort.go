package middleware

import (
	"github.com/gin-gonic/gin"

	"copystudio-api/internal/interfaces/http/dto"
)

// abortWithError 终止处理链并以统一错误结构响应
func abortWithError(c *gin.Context, err error) {
	c.Abort()
	dto.HandleError(c, err)
}
