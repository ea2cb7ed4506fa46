package service

import (
	"context"
	"strings"
)

const unknownLabel = "unknown"

type llmCtxKey string

const (
	llmCtxKeyWorkflow     llmCtxKey = "llm_workflow"
	llmCtxKeyProvider     llmCtxKey = "llm_provider"
	llmCtxKeyConversation llmCtxKey = "llm_conversation"
)

// LLMCallLabels 一次 LLM 调用的观测标签
type LLMCallLabels struct {
	Workflow       string
	Provider       string
	ConversationID string
}

func withValue(ctx context.Context, key llmCtxKey, value string) context.Context {
	if ctx == nil {
		return nil
	}
	v := strings.TrimSpace(value)
	if v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func valueOr(ctx context.Context, key llmCtxKey, fallback string) string {
	if ctx == nil {
		return fallback
	}
	s, ok := ctx.Value(key).(string)
	if !ok || s == "" {
		return fallback
	}
	return s
}

func WithWorkflow(ctx context.Context, workflow string) context.Context {
	return withValue(ctx, llmCtxKeyWorkflow, workflow)
}

func WithProvider(ctx context.Context, provider string) context.Context {
	return withValue(ctx, llmCtxKeyProvider, provider)
}

// WithConversation 标记调用所属的会话，用于用量记录
func WithConversation(ctx context.Context, conversationID string) context.Context {
	return withValue(ctx, llmCtxKeyConversation, conversationID)
}

func WithWorkflowProvider(ctx context.Context, workflow, provider string) context.Context {
	return WithProvider(WithWorkflow(ctx, workflow), provider)
}

func WorkflowFromContext(ctx context.Context) string {
	return valueOr(ctx, llmCtxKeyWorkflow, unknownLabel)
}

func ProviderFromContext(ctx context.Context) string {
	return valueOr(ctx, llmCtxKeyProvider, unknownLabel)
}

func ConversationFromContext(ctx context.Context) string {
	return valueOr(ctx, llmCtxKeyConversation, "")
}

// LabelsFromContext 一次性取出全部标签
func LabelsFromContext(ctx context.Context) LLMCallLabels {
	return LLMCallLabels{
		Workflow:       WorkflowFromContext(ctx),
		Provider:       ProviderFromContext(ctx),
		ConversationID: ConversationFromContext(ctx),
	}
}
