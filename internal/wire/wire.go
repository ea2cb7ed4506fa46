//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"layersense/internal/application/animation"
	"layersense/internal/config"
)

// InitializeApp 初始化 HTTP 服务所需的全部依赖
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	wire.Build(
		RedisSet,
		LLMSet,
		AnimationSet,
		RouterSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}

// InitializeAnimationService 初始化命令行生成所需的依赖（不含 HTTP）
func InitializeAnimationService(ctx context.Context, cfg *config.Config) (*animation.Service, func(), error) {
	wire.Build(
		RedisSet,
		LLMSet,
		AnimationSet,
	)
	return nil, nil, nil
}
