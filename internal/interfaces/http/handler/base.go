package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"copystudio-api/internal/interfaces/http/dto"
	apperrors "copystudio-api/pkg/errors"
	"copystudio-api/pkg/logger"
)

// respondError 写出错误响应；服务端错误额外记录日志
func respondError(c *gin.Context, msg string, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), msg, err)
	} else {
		logger.Debug(c.Request.Context(), msg, "error", err.Error())
	}
	dto.HandleError(c, err)
}
