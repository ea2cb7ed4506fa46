package service

import "context"

// LLMUsageInput 表示一次 LLM 调用的用量与可观测数据。
// 该结构位于 domain/service，作为跨层契约，基础设施层只依赖它而不依赖应用层实现。
type LLMUsageInput struct {
	ConversationID string

	Workflow string
	Provider string
	Model    string

	PromptTokens     int
	CompletionTokens int
	DurationMs       int
}

// TotalTokens 返回本次调用消耗的总 Token
func (in LLMUsageInput) TotalTokens() int {
	return in.PromptTokens + in.CompletionTokens
}

// LLMUsageRecorder 负责记录 LLM 使用量。
// 实现应为 best-effort，不应阻塞主业务流程。
type LLMUsageRecorder interface {
	Record(ctx context.Context, in LLMUsageInput) error
}
