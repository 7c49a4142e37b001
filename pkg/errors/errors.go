// Package errors 定义对外错误码、HTTP 状态映射与预定义错误
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode 对外暴露的错误码
type ErrorCode string

// 1xxx 通用，3xxx 资源，4xxx 业务，5xxx 依赖
const (
	CodeUnknown            ErrorCode = "1000"
	CodeInvalidParam       ErrorCode = "1001"
	CodeTooManyRequests    ErrorCode = "1006"
	CodeInternalError      ErrorCode = "1007"
	CodeServiceUnavailable ErrorCode = "1008"

	CodeTemplateNotFound ErrorCode = "3001"
	CodeDocumentNotFound ErrorCode = "3002"
	CodeVersionNotFound  ErrorCode = "3003"
	CodeSessionNotFound  ErrorCode = "3004"
	CodeVersionConflict  ErrorCode = "3005"

	CodeUnknownAdapter    ErrorCode = "4001"
	CodeEvaluationFailed  ErrorCode = "4002"
	CodeCatalogLoadFailed ErrorCode = "4003"
	CodeRenderFailed      ErrorCode = "4004"
	CodeUpstreamFailed    ErrorCode = "4005"

	CodeDatabaseError ErrorCode = "5001"
	CodeCacheError    ErrorCode = "5002"
)

// statusByCode 未列出的错误码为 500
var statusByCode = map[ErrorCode]int{
	CodeInvalidParam:       http.StatusBadRequest,
	CodeUnknownAdapter:     http.StatusBadRequest,
	CodeTemplateNotFound:   http.StatusNotFound,
	CodeDocumentNotFound:   http.StatusNotFound,
	CodeVersionNotFound:    http.StatusNotFound,
	CodeSessionNotFound:    http.StatusNotFound,
	CodeVersionConflict:    http.StatusConflict,
	CodeRenderFailed:       http.StatusUnprocessableEntity,
	CodeTooManyRequests:    http.StatusTooManyRequests,
	CodeServiceUnavailable: http.StatusServiceUnavailable,
	CodeEvaluationFailed:   http.StatusBadGateway,
	CodeUpstreamFailed:     http.StatusBadGateway,
}

// StatusOf 错误码对应的 HTTP 状态
func StatusOf(code ErrorCode) int {
	if s, ok := statusByCode[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// AppError 携带错误码、对外消息与可选底层错误；预定义值只读，修饰方法均返回副本
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

func (e *AppError) Error() string {
	msg := string(e.Code) + " " + e.Message
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AppError) Unwrap() error { return e.Err }

// Is 错误码相同即视为匹配
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.Code == t.Code
}

// WithDetail 附带面向调用方的详情
func (e *AppError) WithDetail(detail string) *AppError {
	cp := *e
	cp.Detail = detail
	return &cp
}

// WithError 附带底层错误（不对外输出）
func (e *AppError) WithError(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// New 按错误码创建
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: StatusOf(code)}
}

// Wrap 以 err 为底层错误创建
func Wrap(err error, code ErrorCode, message string) *AppError {
	return New(code, message).WithError(err)
}

var (
	ErrInvalidParam       = New(CodeInvalidParam, "invalid parameter")
	ErrTooManyRequests    = New(CodeTooManyRequests, "too many requests")
	ErrInternalError      = New(CodeInternalError, "internal server error")
	ErrServiceUnavailable = New(CodeServiceUnavailable, "service unavailable")

	ErrTemplateNotFound = New(CodeTemplateNotFound, "template not found")
	ErrDocumentNotFound = New(CodeDocumentNotFound, "document not found")
	ErrVersionNotFound  = New(CodeVersionNotFound, "content version not found")
	ErrSessionNotFound  = New(CodeSessionNotFound, "session not found")
	ErrVersionConflict  = New(CodeVersionConflict, "content version conflict")

	ErrUnknownAdapter    = New(CodeUnknownAdapter, "unknown adapter kind")
	ErrEvaluationFailed  = New(CodeEvaluationFailed, "deep evaluation failed")
	ErrCatalogLoadFailed = New(CodeCatalogLoadFailed, "template catalog load failed")
	ErrRenderFailed      = New(CodeRenderFailed, "markdown render failed")
	ErrUpstreamFailed    = New(CodeUpstreamFailed, "upstream request failed")
)

// IsAppError err 链中是否含 AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError 取出链中的 AppError；没有时包装为 CodeUnknown（500）
func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeUnknown, "unknown error")
}
