package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"layersense/internal/domain/service"
)

// usageRetention 按天聚合的用量计数保留时长
const usageRetention = 30 * 24 * time.Hour

// UsageRecorder 将 LLM 用量按天累加到 Redis Hash
type UsageRecorder struct {
	client *Client
	now    func() time.Time
}

var _ service.LLMUsageRecorder = (*UsageRecorder)(nil)

// NewUsageRecorder 创建用量记录器
func NewUsageRecorder(client *Client) *UsageRecorder {
	return &UsageRecorder{client: client, now: time.Now}
}

func (r *UsageRecorder) key(day time.Time, workflow string) string {
	return r.client.Key("usage", day.UTC().Format("20060102"), workflow)
}

// Record 累加调用次数与 Token
func (r *UsageRecorder) Record(ctx context.Context, in service.LLMUsageInput) error {
	if r == nil || r.client == nil {
		return nil
	}
	key := r.key(r.now(), in.Workflow)
	model := in.Model
	if model == "" {
		model = "unknown"
	}

	_, err := r.client.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, key, "calls", 1)
		pipe.HIncrBy(ctx, key, "prompt_tokens", int64(in.PromptTokens))
		pipe.HIncrBy(ctx, key, "completion_tokens", int64(in.CompletionTokens))
		pipe.HIncrBy(ctx, key, "model:"+model, int64(in.TotalTokens()))
		pipe.Expire(ctx, key, usageRetention)
		return nil
	})
	return err
}
