// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"github.com/gin-gonic/gin"

	"layersense/internal/domain/scene"
)

// ErrorDetail 错误详情
type ErrorDetail struct {
	ErrorCode   string            `json:"error_code,omitempty"`
	Details     string            `json:"details,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
	Violations  []scene.Violation `json:"violations,omitempty"`
}

// ErrorResponse 错误响应结构
type ErrorResponse struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Error   *ErrorDetail `json:"error,omitempty"`
	TraceID string       `json:"trace_id,omitempty"`
}

// Error 返回错误响应
func Error(c *gin.Context, httpCode int, message string) {
	ErrorWithDetail(c, httpCode, message, nil)
}

// ErrorWithDetail 返回带详情的错误响应
func ErrorWithDetail(c *gin.Context, httpCode int, message string, detail *ErrorDetail) {
	c.JSON(httpCode, newErrorResponse(c, httpCode, message, detail))
}

// AbortWithError 中止后续处理并返回错误响应
func AbortWithError(c *gin.Context, httpCode int, message string, detail *ErrorDetail) {
	c.AbortWithStatusJSON(httpCode, newErrorResponse(c, httpCode, message, detail))
}

func newErrorResponse(c *gin.Context, httpCode int, message string, detail *ErrorDetail) ErrorResponse {
	return ErrorResponse{
		Code:    httpCode,
		Message: message,
		Error:   detail,
		TraceID: c.GetString("trace_id"),
	}
}

// UnprocessableEntity 返回 422 错误
func UnprocessableEntity(c *gin.Context, message string, detail *ErrorDetail) {
	ErrorWithDetail(c, 422, message, detail)
}

// InternalError 返回 500 错误
func InternalError(c *gin.Context, message string) {
	Error(c, 500, message)
}
