// Package repository 定义数据访问层接口
package repository

import (
	"context"
	"errors"
	"time"

	"layersense/internal/domain/entity"
)

// ErrNotFound 记录不存在或已过期
var ErrNotFound = errors.New("record not found")

// ConversationRepository 会话结果存储
type ConversationRepository interface {
	// Save 保存会话，ttl 为 0 时不过期
	Save(ctx context.Context, conversation *entity.Conversation, ttl time.Duration) error
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
}
