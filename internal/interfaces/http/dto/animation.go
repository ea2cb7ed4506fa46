package dto

// CreateAnimationRequest 创建动画请求，两个字段都必须出现（允许空字符串）
type CreateAnimationRequest struct {
	Prompt   *string `json:"prompt" binding:"required"`
	JSONData *string `json:"json_data" binding:"required"`
}

// ConversationCreatedResponse 创建动画响应
type ConversationCreatedResponse struct {
	ConversationID string `json:"conversation_id"`
}
