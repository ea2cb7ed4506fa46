// Package agenttest 提供测试用的 ChatModel 与工厂替身
package agenttest

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ChatModel 记录收到的消息并返回预设回复
type ChatModel struct {
	mu    sync.Mutex
	calls [][]*schema.Message
	opts  [][]model.Option

	Reply string
	Usage *schema.TokenUsage
	Err   error
}

func (m *ChatModel) Generate(_ context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	m.calls = append(m.calls, input)
	m.opts = append(m.opts, opts)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	msg := schema.AssistantMessage(m.Reply, nil)
	if m.Usage != nil {
		msg.ResponseMeta = &schema.ResponseMeta{Usage: m.Usage}
	}
	return msg, nil
}

func (m *ChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// Calls 返回每次调用收到的消息
func (m *ChatModel) Calls() [][]*schema.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]*schema.Message, len(m.calls))
	copy(out, m.calls)
	return out
}

// LastOptions 返回最后一次调用的通用选项
func (m *ChatModel) LastOptions() *model.Options {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.opts) == 0 {
		return nil
	}
	return model.GetCommonOptions(nil, m.opts[len(m.opts)-1]...)
}

// Factory 按提供商名返回固定的 ChatModel
type Factory struct {
	Models map[string]model.BaseChatModel
	// Default 提供商名为空或未登记时使用
	Default model.BaseChatModel
}

func (f *Factory) Get(_ context.Context, provider string) (model.BaseChatModel, error) {
	if m, ok := f.Models[provider]; ok {
		return m, nil
	}
	if f.Default != nil {
		return f.Default, nil
	}
	return nil, fmt.Errorf("provider %s not found", provider)
}
