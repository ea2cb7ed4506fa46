// Package entity 定义领域实体
package entity

import (
	"time"
)

// ConversationStatus 会话状态
type ConversationStatus string

const (
	ConversationStatusCompleted ConversationStatus = "completed"
	ConversationStatusFailed    ConversationStatus = "failed"
)

// Conversation 一次动画生成请求及其结果
type Conversation struct {
	ID        string             `json:"id"`
	Status    ConversationStatus `json:"status"`
	Prompt    string             `json:"prompt"`
	SceneJSON string             `json:"json_data"`
	Turns     []ConversationTurn `json:"turns"`
	Model     string             `json:"model,omitempty"`
	Usage     *TokenUsage        `json:"usage,omitempty"`
	Error     string             `json:"error,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

// ConversationTurn 会话中的一条消息
type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// TokenUsage Token 消耗
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// NewConversation 创建会话记录，userMessage 为发送给 Agent 的完整用户消息
func NewConversation(id, prompt, sceneJSON, userMessage string) *Conversation {
	return &Conversation{
		ID:        id,
		Prompt:    prompt,
		SceneJSON: sceneJSON,
		Turns:     []ConversationTurn{{Role: RoleUser, Content: userMessage}},
		CreatedAt: time.Now().UTC(),
	}
}

// Complete 记录 Agent 的最终输出
func (c *Conversation) Complete(output, model string, usage *TokenUsage) {
	c.Status = ConversationStatusCompleted
	c.Model = model
	c.Usage = usage
	c.Turns = append(c.Turns, ConversationTurn{Role: RoleAssistant, Content: output})
}

// Fail 记录失败原因
func (c *Conversation) Fail(err error) {
	c.Status = ConversationStatusFailed
	if err != nil {
		c.Error = err.Error()
	}
}

// Output 返回 Agent 的最终输出，未完成时为空
func (c *Conversation) Output() string {
	for i := len(c.Turns) - 1; i >= 0; i-- {
		if c.Turns[i].Role == RoleAssistant {
			return c.Turns[i].Content
		}
	}
	return ""
}
