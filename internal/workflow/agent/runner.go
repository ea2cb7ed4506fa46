package agent

import (
	"context"
	"fmt"
	"strings"

	einocallbacks "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"layersense/internal/domain/service"
	"layersense/internal/workflow/port"
	"layersense/pkg/logger"
)

// Call 已解析指令后的一次调用
type Call struct {
	Name         string
	Workflow     string
	Provider     string
	Model        string
	Instructions string
	UserMessage  string
}

// Runner 执行 Agent 调用，每次调用只向模型发出一次请求，不做重试
type Runner struct {
	factory port.ChatModelFactory
}

func NewRunner(factory port.ChatModelFactory) *Runner {
	return &Runner{factory: factory}
}

// Invoke 发送 [system, user] 两条消息并返回模型的最终文本
func (r *Runner) Invoke(ctx context.Context, call Call) (*Result, error) {
	if r == nil || r.factory == nil {
		return nil, ErrNoFactory
	}
	if strings.TrimSpace(call.Instructions) == "" {
		return nil, ErrEmptyInstructions
	}

	ctx = service.WithWorkflowProvider(ctx, call.Workflow, call.Provider)

	chatModel, err := r.factory.Get(ctx, call.Provider)
	if err != nil {
		return nil, fmt.Errorf("agent %s: resolve chat model: %w", call.Name, err)
	}

	ctx = einocallbacks.InitCallbacks(ctx, &einocallbacks.RunInfo{
		Name:      call.Name,
		Type:      "Agent",
		Component: components.ComponentOfChatModel,
	})

	msgs := []*schema.Message{
		schema.SystemMessage(call.Instructions),
		schema.UserMessage(call.UserMessage),
	}

	var opts []model.Option
	if m := strings.TrimSpace(call.Model); m != "" {
		opts = append(opts, model.WithModel(m))
	}

	logger.Debug(ctx, "agent invoke",
		"agent", call.Name,
		"provider", call.Provider,
		"model", call.Model,
		"instructions_len", len(call.Instructions),
		"message_len", len(call.UserMessage),
	)

	out, err := chatModel.Generate(ctx, msgs, opts...)
	if err != nil {
		return nil, fmt.Errorf("agent %s: generate: %w", call.Name, err)
	}
	// 空回复不视为失败，由调用方决定如何处理
	res := &Result{Model: call.Model}
	if out == nil {
		return res, nil
	}
	res.FinalOutput = out.Content
	if out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
		u := out.ResponseMeta.Usage
		res.Usage = &Usage{
			PromptTokens:     u.PromptTokens,
			CompletionTokens: u.CompletionTokens,
			TotalTokens:      u.TotalTokens,
		}
	}
	return res, nil
}
