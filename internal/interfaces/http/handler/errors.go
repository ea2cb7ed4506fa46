package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"layersense/internal/domain/scene"
	"layersense/internal/interfaces/http/dto"
	apperrors "layersense/pkg/errors"
	"layersense/pkg/logger"
)

var suggestions = map[apperrors.ErrorCode][]string{
	apperrors.CodeSceneInvalid:     {"export the scene again from Excalidraw", "only rectangle, circle, ellipse and freedraw elements are supported"},
	apperrors.CodeRequestInvalid:   {"send a JSON object with string fields prompt and json_data"},
	apperrors.CodeAssetUnavailable: {"check agent.manim_generator.example_path"},
	apperrors.CodeLLMCallFailed:    {"check the LLM provider api_key and base_url"},
}

// writeError 将错误转换为统一的错误响应
func writeError(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}

	detail := &dto.ErrorDetail{
		ErrorCode:   string(appErr.Code),
		Details:     appErr.Detail,
		Suggestions: suggestions[appErr.Code],
	}

	var schemaErr *scene.SchemaValidationError
	if stderrors.As(err, &schemaErr) {
		detail.Violations = schemaErr.Violations
		if detail.Details == "" {
			detail.Details = schemaErr.Error()
		}
	}

	// 服务端错误不向客户端暴露底层原因
	if status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "request failed", err,
			"path", c.FullPath(),
			"code", string(appErr.Code),
		)
	}

	dto.ErrorWithDetail(c, status, appErr.Message, detail)
}
