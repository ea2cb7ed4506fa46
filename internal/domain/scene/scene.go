// Package scene 定义 Excalidraw 画布导出格式的数据模型与校验
package scene

// Shape 图形类型（封闭集合）
type Shape string

const (
	ShapeRectangle Shape = "rectangle"
	ShapeCircle    Shape = "circle"
	ShapeEllipse   Shape = "ellipse"
	ShapeFreedraw  Shape = "freedraw"
)

// 场景信封默认值
const (
	SceneType      = "excalidraw"
	DefaultVersion = 2
	DefaultSource  = "http://localhost:3000"
)

// Shapes 返回所有允许的图形类型
func Shapes() []Shape {
	return []Shape{ShapeRectangle, ShapeCircle, ShapeEllipse, ShapeFreedraw}
}

// Valid 判断图形类型是否在允许集合内
func (s Shape) Valid() bool {
	switch s {
	case ShapeRectangle, ShapeCircle, ShapeEllipse, ShapeFreedraw:
		return true
	default:
		return false
	}
}

// Element 画布上的一个图形
//
// GroupIDs 与 FrameID 只在输入时接受，序列化时丢弃。
type Element struct {
	ID              string      `json:"id"`
	Type            Shape       `json:"type"`
	X               int         `json:"x"`
	Y               int         `json:"y"`
	Width           int         `json:"width"`
	Height          int         `json:"height"`
	Angle           float64     `json:"angle"`
	StrokeColor     string      `json:"strokeColor"`
	BackgroundColor string      `json:"backgroundColor"`
	FillStyle       string      `json:"fillStyle"`
	StrokeWidth     int         `json:"strokeWidth"`
	StrokeStyle     string      `json:"strokeStyle"`
	Roughness       float64     `json:"roughness"`
	Opacity         float64     `json:"opacity"`
	GroupIDs        []string    `json:"-"`
	FrameID         string      `json:"-"`
	Roundness       any         `json:"roundness"`
	Points          [][]float64 `json:"points"`
}

// HasHexBackground 背景色是否为十六进制颜色（否则为 "transparent" 等标记值）
func (e *Element) HasHexBackground() bool {
	return IsHexColor(e.BackgroundColor)
}

// AppState 画布全局状态
type AppState struct {
	GridSize            int    `json:"gridSize"`
	GridStep            int    `json:"gridStep"`
	GridModeEnabled     bool   `json:"gridModeEnabled"`
	ViewBackgroundColor string `json:"viewBackgroundColor"`
}

// ExcalidrawScene 场景信封
type ExcalidrawScene struct {
	Type     string         `json:"type"`
	Version  int            `json:"version"`
	Source   string         `json:"source"`
	Elements []Element      `json:"elements"`
	AppState AppState       `json:"appState"`
	Files    map[string]any `json:"files"`
}

// CountByShape 按图形类型统计元素数量
func (s *ExcalidrawScene) CountByShape() map[Shape]int {
	counts := make(map[Shape]int, len(s.Elements))
	for i := range s.Elements {
		counts[s.Elements[i].Type]++
	}
	return counts
}
