// Package animation 实现从 Excalidraw 场景生成 Manim 动画代码的应用服务
package animation

// ManimAgentContext Manim Generator 每次调用的上下文
type ManimAgentContext struct {
	// JSONExample 示例场景文件的原始 JSON 文本，嵌入系统指令
	JSONExample string
}
