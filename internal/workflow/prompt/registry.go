package prompt

import (
	"context"
	"embed"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed templates/*.txt
var templatesFS embed.FS

type PromptID string

const (
	PromptManimGeneratorV1 PromptID = "manim_generator_v1"
)

// placeholderPattern 匹配 FString 占位符 {name}，{{ 与 }} 为转义
var placeholderPattern = regexp.MustCompile(`\{\{|\}\}|\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Vars 模板变量集合
type Vars interface {
	PromptID() PromptID
	Values() map[string]any
}

// ManimGeneratorVars manim_generator_v1 的模板变量
type ManimGeneratorVars struct {
	// JSONExample 示例场景 JSON，原样嵌入模板
	JSONExample string
}

func (ManimGeneratorVars) PromptID() PromptID { return PromptManimGeneratorV1 }

func (v ManimGeneratorVars) Values() map[string]any {
	return map[string]any{
		"json_example": v.JSONExample,
	}
}

// knownVars 每个模板对应的变量集合
var knownVars = []Vars{
	ManimGeneratorVars{},
}

type Registry struct {
	mu    sync.RWMutex
	cache map[PromptID]einoprompt.ChatTemplate
	fs    embed.FS
}

func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[PromptID]einoprompt.ChatTemplate),
		fs:    templatesFS,
	}
}

// Verify 校验每个模板的占位符集合与变量集合完全一致
//
// 启动时调用，失败意味着模板损坏，服务不应继续启动。
func (r *Registry) Verify() error {
	if r == nil {
		return fmt.Errorf("prompt registry is nil")
	}
	for _, vars := range knownVars {
		id := vars.PromptID()
		text, err := r.readTemplate(id)
		if err != nil {
			return err
		}
		if err := matchPlaceholders(id, Placeholders(text), vars.Values()); err != nil {
			return err
		}
	}
	return nil
}

// Placeholders 返回模板中出现的占位符名（去重、排序）
func Placeholders(text string) []string {
	set := make(map[string]struct{})
	for _, m := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		if m[1] == "" {
			continue
		}
		set[m[1]] = struct{}{}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func matchPlaceholders(id PromptID, placeholders []string, values map[string]any) error {
	var missing, unknown []string
	inTemplate := make(map[string]bool, len(placeholders))
	for _, name := range placeholders {
		inTemplate[name] = true
		if _, ok := values[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	for name := range values {
		if !inTemplate[name] {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	if len(missing) == 0 && len(unknown) == 0 {
		return nil
	}
	return fmt.Errorf("prompt %s malformed: missing placeholders %v, unbound placeholders %v", id, missing, unknown)
}

func (r *Registry) ChatTemplate(id PromptID) (einoprompt.ChatTemplate, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if tpl, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[id]; ok {
		return tpl, nil
	}

	system, err := r.readTemplate(id)
	if err != nil {
		return nil, err
	}

	// 用户消息由调用方直接传入，模板只包含系统指令
	tpl := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(system),
	)
	r.cache[id] = tpl
	return tpl, nil
}

// Render 渲染模板并返回系统指令文本
func (r *Registry) Render(ctx context.Context, vars Vars) (string, error) {
	tpl, err := r.ChatTemplate(vars.PromptID())
	if err != nil {
		return "", err
	}
	msgs, err := tpl.Format(ctx, vars.Values())
	if err != nil {
		return "", fmt.Errorf("format prompt %s: %w", vars.PromptID(), err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("prompt %s rendered no messages", vars.PromptID())
	}
	return msgs[0].Content, nil
}

// RenderManimInstructions 渲染 Manim Generator 的系统指令
func (r *Registry) RenderManimInstructions(ctx context.Context, vars ManimGeneratorVars) (string, error) {
	return r.Render(ctx, vars)
}

func (r *Registry) readTemplate(id PromptID) (string, error) {
	path, err := resolvePromptFile(id)
	if err != nil {
		return "", err
	}
	b, err := r.fs.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func resolvePromptFile(id PromptID) (string, error) {
	switch id {
	case PromptManimGeneratorV1:
		return "templates/manim_generator_v1.system.txt", nil
	default:
		return "", fmt.Errorf("unknown prompt id: %s", id)
	}
}
