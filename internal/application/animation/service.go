package animation

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"layersense/internal/config"
	"layersense/internal/domain/entity"
	"layersense/internal/domain/repository"
	"layersense/internal/domain/scene"
	"layersense/internal/domain/service"
	"layersense/internal/workflow/agent"
	apperrors "layersense/pkg/errors"
	"layersense/pkg/logger"
	"layersense/pkg/metrics"
)

// AnimationInput 创建动画请求
type AnimationInput struct {
	Prompt   string
	JSONData string
}

// AnimationOutput 创建动画响应，只暴露会话 ID
type AnimationOutput struct {
	ConversationID string
}

// GenerateInput 单次生成请求
type GenerateInput struct {
	Prompt    string
	SceneJSON string
	// ExampleJSON 非空时替代配置的示例文件
	ExampleJSON string
}

// GenerateOutput 单次生成结果
type GenerateOutput struct {
	ConversationID string
	Code           string
	Model          string
	Usage          *agent.Usage
}

// Options 服务行为开关
type Options struct {
	ValidateScenes bool
	PersistResults bool
	ResultTTL      time.Duration
}

// OptionsFromConfig 从配置读取功能开关
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ValidateScenes: cfg.Features.SceneValidation.Enabled,
		PersistResults: cfg.Features.ResultPersistence.Enabled,
		ResultTTL:      cfg.Features.ResultPersistence.TTL,
	}
}

// Service 动画生成应用服务
type Service struct {
	runner        *agent.Runner
	generator     *agent.Agent[ManimAgentContext]
	examples      *ExampleLoader
	conversations repository.ConversationRepository
	opts          Options
	newID         func() string
}

// NewService 创建动画服务，conversations 可为 nil
func NewService(
	runner *agent.Runner,
	generator *agent.Agent[ManimAgentContext],
	examples *ExampleLoader,
	conversations repository.ConversationRepository,
	opts Options,
) *Service {
	if opts.PersistResults && conversations == nil {
		logger.Warn(context.Background(), "result persistence enabled without a conversation store, disabling")
		opts.PersistResults = false
	}
	return &Service{
		runner:        runner,
		generator:     generator,
		examples:      examples,
		conversations: conversations,
		opts:          opts,
		newID:         func() string { return uuid.New().String() },
	}
}

// CreateAnimation 运行 Manim Generator 并返回新会话 ID，生成的代码不随响应返回
func (s *Service) CreateAnimation(ctx context.Context, in AnimationInput) (*AnimationOutput, error) {
	start := time.Now()

	out, err := s.Generate(ctx, GenerateInput{Prompt: in.Prompt, SceneJSON: in.JSONData})

	status := "success"
	if err != nil {
		status = errorStatus(err)
	}
	metrics.AnimationRequestsTotal.WithLabelValues(status).Inc()
	metrics.AnimationDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, err
	}
	return &AnimationOutput{ConversationID: out.ConversationID}, nil
}

// Generate 执行一次完整的生成流程并返回代码
func (s *Service) Generate(ctx context.Context, in GenerateInput) (*GenerateOutput, error) {
	conversationID := s.newID()
	ctx = logger.WithContext(ctx, logger.ConversationIDKey, conversationID)
	ctx = service.WithConversation(ctx, conversationID)

	userPrompt := in.Prompt + "\n" + in.SceneJSON

	if s.opts.ValidateScenes {
		if err := s.validateScene(ctx, in.SceneJSON); err != nil {
			return nil, err
		}
	}

	example := in.ExampleJSON
	if example == "" {
		var err error
		example, err = s.examples.Load(ctx)
		if err != nil {
			logger.Error(ctx, "load example scene failed", err, "path", s.examples.Path())
			return nil, err
		}
	}

	conversation := entity.NewConversation(conversationID, in.Prompt, in.SceneJSON, userPrompt)

	result, err := agent.Run(ctx, s.runner, s.generator, userPrompt, ManimAgentContext{JSONExample: example})
	if err != nil {
		logger.Error(ctx, "manim generator failed", err, "agent", s.generator.Name)
		return nil, apperrors.Wrap(err, apperrors.CodeLLMCallFailed, "animation generation failed")
	}

	metrics.GeneratedCodeSize.Observe(float64(len(result.FinalOutput)))
	logger.Info(ctx, "manim code generated",
		"model", result.Model,
		"output_len", len(result.FinalOutput),
	)

	var usage *entity.TokenUsage
	if result.Usage != nil {
		usage = &entity.TokenUsage{
			PromptTokens:     result.Usage.PromptTokens,
			CompletionTokens: result.Usage.CompletionTokens,
		}
	}
	conversation.Complete(result.FinalOutput, result.Model, usage)
	s.persist(ctx, conversation)

	return &GenerateOutput{
		ConversationID: conversationID,
		Code:           result.FinalOutput,
		Model:          result.Model,
		Usage:          result.Usage,
	}, nil
}

func (s *Service) validateScene(ctx context.Context, sceneJSON string) error {
	parsed, err := scene.Parse([]byte(sceneJSON))
	if err != nil {
		metrics.SceneValidationTotal.WithLabelValues("invalid").Inc()
		logger.Warn(ctx, "scene validation failed", "error", err.Error())
		return apperrors.Wrap(err, apperrors.CodeSceneInvalid, "scene validation failed")
	}
	metrics.SceneValidationTotal.WithLabelValues("valid").Inc()
	metrics.SceneElementCount.Observe(float64(len(parsed.Elements)))
	return nil
}

// persist 保存失败只记录日志，不影响响应
func (s *Service) persist(ctx context.Context, conversation *entity.Conversation) {
	if !s.opts.PersistResults {
		return
	}
	if err := s.conversations.Save(ctx, conversation, s.opts.ResultTTL); err != nil {
		metrics.ConversationPersistTotal.WithLabelValues("error").Inc()
		logger.Error(ctx, "persist conversation failed", err)
		return
	}
	metrics.ConversationPersistTotal.WithLabelValues("success").Inc()
}

// Conversation 读取已保存的会话
func (s *Service) Conversation(ctx context.Context, id string) (*entity.Conversation, error) {
	if s.conversations == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "conversation not found")
	}
	c, err := s.conversations.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "conversation not found")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "load conversation failed")
	}
	return c, nil
}

func errorStatus(err error) string {
	switch apperrors.AsAppError(err).Code {
	case apperrors.CodeSceneInvalid:
		return "invalid_scene"
	case apperrors.CodeAssetUnavailable:
		return "asset_unavailable"
	default:
		return "error"
	}
}
