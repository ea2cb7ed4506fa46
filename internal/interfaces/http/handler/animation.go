package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"layersense/internal/application/animation"
	"layersense/internal/interfaces/http/dto"
	apperrors "layersense/pkg/errors"
)

// AnimationService 动画生成用例
type AnimationService interface {
	CreateAnimation(ctx context.Context, in animation.AnimationInput) (*animation.AnimationOutput, error)
}

// AnimationHandler 动画处理器
type AnimationHandler struct {
	svc AnimationService
}

// NewAnimationHandler 创建动画处理器
func NewAnimationHandler(svc AnimationService) *AnimationHandler {
	return &AnimationHandler{svc: svc}
}

// Create 创建动画
// @Summary 创建动画
// @Description 根据提示词与 Excalidraw 场景生成 Manim 代码，返回会话 ID
// @Tags Animation
// @Accept json
// @Produce json
// @Param body body dto.CreateAnimationRequest true "提示词与场景 JSON 文本"
// @Success 200 {object} dto.ConversationCreatedResponse
// @Router /api/v1/scenes/animation [post]
func (h *AnimationHandler) Create(c *gin.Context) {
	var req dto.CreateAnimationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.Wrap(err, apperrors.CodeRequestInvalid, "invalid request body").
			WithDetail(err.Error()))
		return
	}

	out, err := h.svc.CreateAnimation(c.Request.Context(), animation.AnimationInput{
		Prompt:   *req.Prompt,
		JSONData: *req.JSONData,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ConversationCreatedResponse{ConversationID: out.ConversationID})
}
