package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"layersense/internal/domain/entity"
	"layersense/internal/domain/repository"
)

// ConversationStore 以 JSON 形式将会话结果保存在 Redis 中
type ConversationStore struct {
	client *Client
}

var _ repository.ConversationRepository = (*ConversationStore)(nil)

// NewConversationStore 创建会话存储
func NewConversationStore(client *Client) *ConversationStore {
	return &ConversationStore{client: client}
}

func (s *ConversationStore) key(id string) string {
	return s.client.Key("conversation", id)
}

// Save 保存会话
func (s *ConversationStore) Save(ctx context.Context, conversation *entity.Conversation, ttl time.Duration) error {
	if conversation == nil || conversation.ID == "" {
		return fmt.Errorf("conversation id is required")
	}
	ctx, span := tracer.Start(ctx, "conversation.Save",
		trace.WithAttributes(
			attribute.String("conversation.id", conversation.ID),
			attribute.Int64("redis.ttl_ms", ttl.Milliseconds()),
		))
	defer span.End()

	b, err := json.Marshal(conversation)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}
	if err := s.client.rdb.Set(ctx, s.key(conversation.ID), b, ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save conversation %s: %w", conversation.ID, err)
	}
	return nil
}

// GetByID 读取会话，不存在或已过期时返回 repository.ErrNotFound
func (s *ConversationStore) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	ctx, span := tracer.Start(ctx, "conversation.GetByID",
		trace.WithAttributes(attribute.String("conversation.id", id)))
	defer span.End()

	b, err := s.client.rdb.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if IsNil(err) {
			return nil, repository.ErrNotFound
		}
		span.RecordError(err)
		return nil, err
	}

	var c entity.Conversation
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("failed to decode conversation %s: %w", id, err)
	}
	return &c, nil
}
