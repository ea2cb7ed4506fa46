package wire

import (
	"github.com/google/wire"

	"layersense/internal/application/animation"
	"layersense/internal/config"
	"layersense/internal/domain/repository"
	"layersense/internal/domain/service"
	"layersense/internal/infrastructure/llm"
	"layersense/internal/infrastructure/persistence/redis"
	"layersense/internal/interfaces/http/handler"
	"layersense/internal/interfaces/http/middleware"
	"layersense/internal/interfaces/http/router"
	einoobs "layersense/internal/observability/eino"
	"layersense/internal/workflow/agent"
	"layersense/internal/workflow/port"
	"layersense/internal/workflow/prompt"
)

// App HTTP 服务依赖容器
type App struct {
	Config  *config.Config
	Router  *router.Router
	Service *animation.Service
	// Redis 未启用时为 nil
	Redis *redis.Client
}

// EinoCallbacks 标记 Eino 全局 callbacks 已注册
type EinoCallbacks struct{}

// RedisSet Redis 提供者集合，未启用 Redis 时各提供者返回 nil
var RedisSet = wire.NewSet(
	ProvideRedisClientOptional,
	ProvideConversationRepository,
	ProvideUsageRecorder,
	ProvideRateLimiter,
)

// LLMSet LLM 提供者集合
var LLMSet = wire.NewSet(
	llm.NewEinoFactory,
	wire.Bind(new(port.ChatModelFactory), new(*llm.EinoFactory)),
	ProvideEinoCallbacks,
	ProvideAgentRunner,
	ProvidePromptRegistry,
)

// AnimationSet 动画应用服务提供者集合
var AnimationSet = wire.NewSet(
	animation.NewManimGenerator,
	animation.OptionsFromConfig,
	ProvideExampleLoader,
	animation.NewService,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	handler.NewHealthHandler,
	handler.NewAnimationHandler,
	wire.Bind(new(handler.AnimationService), new(*animation.Service)),
	router.New,
)

// ProvideRedisClientOptional 提供 Redis 客户端；cache.redis.enabled 为 false 时返回 nil
func ProvideRedisClientOptional(cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideConversationRepository 提供会话存储
func ProvideConversationRepository(client *redis.Client) repository.ConversationRepository {
	if client == nil {
		return nil
	}
	return redis.NewConversationStore(client)
}

// ProvideUsageRecorder 提供 LLM 用量记录器
func ProvideUsageRecorder(client *redis.Client) service.LLMUsageRecorder {
	if client == nil {
		return nil
	}
	return redis.NewUsageRecorder(client)
}

// ProvideRateLimiter 提供限流器
func ProvideRateLimiter(client *redis.Client) middleware.RateLimiter {
	if client == nil {
		return nil
	}
	return redis.NewRateLimiter(client)
}

// ProvideEinoCallbacks 注册 Eino 全局 callbacks
func ProvideEinoCallbacks(recorder service.LLMUsageRecorder) EinoCallbacks {
	einoobs.Init(recorder)
	return EinoCallbacks{}
}

// ProvideAgentRunner 提供 Agent 执行器，依赖 callbacks 先完成注册
func ProvideAgentRunner(factory port.ChatModelFactory, _ EinoCallbacks) *agent.Runner {
	return agent.NewRunner(factory)
}

// ProvidePromptRegistry 提供提示词模板注册表，模板损坏时启动失败
func ProvidePromptRegistry() (*prompt.Registry, error) {
	registry := prompt.NewRegistry()
	if err := registry.Verify(); err != nil {
		return nil, err
	}
	return registry, nil
}

// ProvideExampleLoader 提供示例场景加载器
func ProvideExampleLoader(cfg *config.Config) *animation.ExampleLoader {
	return animation.NewExampleLoader(cfg.Agent.ManimGenerator.ExamplePath)
}
