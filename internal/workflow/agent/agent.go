// Package agent 提供带动态系统指令的单轮 LLM Agent
package agent

import (
	"context"
	"errors"
)

var (
	ErrEmptyInstructions = errors.New("agent instructions are empty")
	// ErrEmptyOutput 供需要代码内容的调用方使用，Runner 本身不拒绝空回复
	ErrEmptyOutput       = errors.New("agent returned empty output")
	ErrNoFactory         = errors.New("chat model factory not configured")
)

// InstructionsFunc 根据每次调用的上下文对象生成系统指令
type InstructionsFunc[C any] func(ctx context.Context, runCtx C) (string, error)

// Agent 具名的 LLM Agent 定义
type Agent[C any] struct {
	Name string
	// Workflow 观测标签，为空时使用 Name
	Workflow string
	// Provider 为空时使用 llm.default_provider
	Provider string
	// Model 为空时使用 provider 配置的模型
	Model        string
	Instructions InstructionsFunc[C]
}

func (a *Agent[C]) workflow() string {
	if a.Workflow != "" {
		return a.Workflow
	}
	return a.Name
}

// Usage Token 消耗
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Result 一次 Agent 运行的结果
type Result struct {
	FinalOutput string
	Model       string
	Usage       *Usage
}

// Run 使用 runCtx 生成指令并执行一次调用
func Run[C any](ctx context.Context, r *Runner, a *Agent[C], userMessage string, runCtx C) (*Result, error) {
	if a == nil || a.Instructions == nil {
		return nil, ErrEmptyInstructions
	}
	instructions, err := a.Instructions(ctx, runCtx)
	if err != nil {
		return nil, err
	}
	return r.Invoke(ctx, Call{
		Name:         a.Name,
		Workflow:     a.workflow(),
		Provider:     a.Provider,
		Model:        a.Model,
		Instructions: instructions,
		UserMessage:  userMessage,
	})
}
