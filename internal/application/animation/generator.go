package animation

import (
	"context"

	"layersense/internal/config"
	"layersense/internal/workflow/agent"
	"layersense/internal/workflow/prompt"
)

const (
	ManimGeneratorName     = "Manim Generator"
	ManimGeneratorWorkflow = "manim_generator"
	DefaultManimModel      = "gpt-4o-mini"
)

// NewManimGenerator 创建 Manim Generator Agent，系统指令由示例场景渲染得到
func NewManimGenerator(cfg *config.Config, registry *prompt.Registry) *agent.Agent[ManimAgentContext] {
	agentCfg := cfg.Agent.ManimGenerator
	modelName := agentCfg.Model
	if modelName == "" {
		modelName = DefaultManimModel
	}

	return &agent.Agent[ManimAgentContext]{
		Name:     ManimGeneratorName,
		Workflow: ManimGeneratorWorkflow,
		Provider: agentCfg.Provider,
		Model:    modelName,
		Instructions: func(ctx context.Context, c ManimAgentContext) (string, error) {
			return registry.RenderManimInstructions(ctx, prompt.ManimGeneratorVars{JSONExample: c.JSONExample})
		},
	}
}
