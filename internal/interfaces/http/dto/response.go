// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "copystudio-api/pkg/errors"
)

// TraceIDKey 追踪中间件写入 gin.Context 的 trace ID 键
const TraceIDKey = "trace_id"

// Response 成功响应信封
type Response[T any] struct {
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Data    T         `json:"data,omitempty"`
	Meta    *PageMeta `json:"meta,omitempty"`
	TraceID string    `json:"trace_id,omitempty"`
}

// PageMeta 分页元数据
type PageMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// ErrorDetail 错误详情
type ErrorDetail struct {
	ErrorCode   string   `json:"error_code,omitempty"`
	Details     string   `json:"details,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// ErrorResponse 错误响应信封
type ErrorResponse struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Error   *ErrorDetail `json:"error,omitempty"`
	TraceID string       `json:"trace_id,omitempty"`
}

func writeData[T any](c *gin.Context, status int, message string, data T, meta *PageMeta) {
	c.JSON(status, Response[T]{
		Code:    status,
		Message: message,
		Data:    data,
		Meta:    meta,
		TraceID: c.GetString(TraceIDKey),
	})
}

// Success 200
func Success[T any](c *gin.Context, data T) {
	writeData(c, http.StatusOK, "success", data, nil)
}

// SuccessWithPage 200，附带分页元数据
func SuccessWithPage[T any](c *gin.Context, data T, meta *PageMeta) {
	writeData(c, http.StatusOK, "success", data, meta)
}

// Created 201
func Created[T any](c *gin.Context, data T) {
	writeData(c, http.StatusCreated, "created", data, nil)
}

func writeError(c *gin.Context, status int, message string, detail *ErrorDetail) {
	c.JSON(status, ErrorResponse{
		Code:    status,
		Message: message,
		Error:   detail,
		TraceID: c.GetString(TraceIDKey),
	})
}

// HandleError 按 AppError 写出错误响应；超出请求体上限为 413，其余非 AppError 视为 500
func HandleError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		writeError(c, http.StatusRequestEntityTooLarge, "request body too large", &ErrorDetail{
			ErrorCode: string(apperrors.CodeInvalidParam),
		})
		return
	}

	appErr := apperrors.AsAppError(err)
	writeError(c, appErr.HTTPStatus, appErr.Message, &ErrorDetail{
		ErrorCode: string(appErr.Code),
		Details:   appErr.Detail,
	})
}

// BindError 请求体绑定失败，统一为 400 invalid request body
func BindError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		HandleError(c, err)
		return
	}
	writeError(c, http.StatusBadRequest, "invalid request body", &ErrorDetail{
		ErrorCode: string(apperrors.CodeInvalidParam),
		Details:   err.Error(),
	})
}
