// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h *RouterHandlers) {
	// 模板目录与推荐
	templates := v1.Group("/templates")
	{
		templates.GET("", h.Template.List)
		templates.POST("/suggest", h.Template.Suggest)
		templates.GET("/:id", h.Template.Get)
	}

	// 质量评分
	quality := v1.Group("/quality")
	{
		quality.POST("/score", h.Quality.Score)
		quality.POST("/deep", h.Quality.Deep)
		quality.POST("/compare", h.Quality.Compare)
	}

	// 差异与预览
	v1.POST("/diff", h.Diff.Diff)
	v1.POST("/content/preview", h.Diff.Preview)

	// 后端响应归一化
	v1.POST("/adapters/:kind", h.Adapter.Map)

	// 看板选择状态
	sessions := v1.Group("/sessions")
	{
		sessions.GET("/:sid/selection", h.Selection.Get)
		sessions.PUT("/:sid/selection", h.Selection.Put)
		sessions.POST("/:sid/selection/actions", h.Selection.Dispatch)
	}

	// 内容版本
	documents := v1.Group("/documents")
	{
		documents.POST("/:did/versions", h.Version.Create)
		documents.GET("/:did/versions", h.Version.List)
		documents.GET("/:did/compare", h.Version.Compare)
	}
}
