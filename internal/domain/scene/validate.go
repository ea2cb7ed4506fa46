package scene

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// hexColorPattern 3/4/6/8 位十六进制颜色
var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// decodeErrorPattern 从 mapstructure 错误消息中提取字段路径
var decodeErrorPattern = regexp.MustCompile(`^(?:error decoding |decoding failed for )?'([^']*)':?\s*(.*)$`)

const hexColorTag = "excalidraw_hex"

// IsHexColor 判断字符串是否为合法十六进制颜色
func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}

// rawElement 解码中间结构，指针字段用于区分缺失与零值
type rawElement struct {
	ID              *string     `mapstructure:"id" validate:"required"`
	Type            *string     `mapstructure:"type" validate:"required,oneof=rectangle circle ellipse freedraw"`
	X               *int        `mapstructure:"x" validate:"required"`
	Y               *int        `mapstructure:"y" validate:"required"`
	Width           *int        `mapstructure:"width" validate:"required"`
	Height          *int        `mapstructure:"height" validate:"required"`
	Angle           *float64    `mapstructure:"angle" validate:"required"`
	StrokeColor     *string     `mapstructure:"strokeColor" validate:"required,excalidraw_hex"`
	BackgroundColor *string     `mapstructure:"backgroundColor" validate:"required"`
	FillStyle       *string     `mapstructure:"fillStyle" validate:"required"`
	StrokeWidth     *int        `mapstructure:"strokeWidth" validate:"required"`
	StrokeStyle     *string     `mapstructure:"strokeStyle" validate:"required"`
	Roughness       *float64    `mapstructure:"roughness" validate:"required"`
	Opacity         *float64    `mapstructure:"opacity" validate:"required"`
	GroupIDs        []string    `mapstructure:"groupIds"`
	FrameID         *string     `mapstructure:"frameId"`
	Roundness       any         `mapstructure:"roundness"`
	Points          [][]float64 `mapstructure:"points"`
}

type rawAppState struct {
	GridSize            *int    `mapstructure:"gridSize" validate:"required"`
	GridStep            *int    `mapstructure:"gridStep" validate:"required"`
	GridModeEnabled     *bool   `mapstructure:"gridModeEnabled" validate:"required"`
	ViewBackgroundColor *string `mapstructure:"viewBackgroundColor" validate:"required,excalidraw_hex"`
}

type rawScene struct {
	Type     *string        `mapstructure:"type" validate:"required,eq=excalidraw"`
	Version  *int           `mapstructure:"version" validate:"required"`
	Source   *string        `mapstructure:"source" validate:"required"`
	Elements []rawElement   `mapstructure:"elements" validate:"required,dive"`
	AppState *rawAppState   `mapstructure:"appState" validate:"required"`
	Files    map[string]any `mapstructure:"files" validate:"required"`
}

// Validator 场景校验器
type Validator struct {
	validate *validator.Validate
}

// NewValidator 创建场景校验器
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// 违规路径使用输入字段名而非 Go 字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation(hexColorTag, func(fl validator.FieldLevel) bool {
		return IsHexColor(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", hexColorTag, err))
	}

	return &Validator{validate: v}
}

var defaultValidator = NewValidator()

// Validate 使用默认校验器校验场景
func Validate(payload map[string]any) (*ExcalidrawScene, error) {
	return defaultValidator.Validate(payload)
}

// Parse 解析 JSON 字节并校验场景
func Parse(data []byte) (*ExcalidrawScene, error) {
	return defaultValidator.Parse(data)
}

// Parse 解析 JSON 字节并校验场景
func (v *Validator) Parse(data []byte) (*ExcalidrawScene, error) {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &SchemaValidationError{Violations: []Violation{{
			Reason:  ReasonInvalidJSON,
			Message: err.Error(),
		}}}
	}
	m, ok := payload.(map[string]any)
	if !ok {
		return nil, &SchemaValidationError{Violations: []Violation{{
			Reason:  ReasonWrongType,
			Message: fmt.Sprintf("scene must be a JSON object, got %s", jsonKind(payload)),
		}}}
	}
	return v.Validate(m)
}

// Validate 将未类型化的 JSON 对象解析为场景
//
// 缺失、类型错误、取值不在集合内、颜色格式不匹配等问题会被全部收集到
// 同一个 *SchemaValidationError 中返回。未知字段被忽略。
func (v *Validator) Validate(payload map[string]any) (*ExcalidrawScene, error) {
	input := withEnvelopeDefaults(payload)

	var raw rawScene
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &raw,
		TagName:    "mapstructure",
		DecodeHook: mapstructure.DecodeHookFuncType(rejectFractionalInts),
	})
	if err != nil {
		return nil, fmt.Errorf("create scene decoder: %w", err)
	}

	var violations []Violation
	seen := make(map[string]bool)

	if err := decoder.Decode(input); err != nil {
		for _, violation := range decodeViolations(err) {
			seen[violation.Path] = true
			violations = append(violations, violation)
		}
	}

	if err := v.validate.Struct(&raw); err != nil {
		var fieldErrs validator.ValidationErrors
		if !stderrors.As(err, &fieldErrs) {
			return nil, fmt.Errorf("validate scene: %w", err)
		}
		for _, fe := range fieldErrs {
			path := stripRoot(fe.Namespace())
			// 类型错误导致字段及其子字段为空时不再重复报告缺失
			if coveredBy(seen, path) {
				continue
			}
			violations = append(violations, fieldViolation(path, fe))
		}
	}

	if len(violations) > 0 {
		sort.SliceStable(violations, func(i, j int) bool {
			return violations[i].Path < violations[j].Path
		})
		return nil, &SchemaValidationError{Violations: violations}
	}

	return raw.toScene(), nil
}

// withEnvelopeDefaults 为缺省的信封字段填充默认值，不修改调用方的 map
func withEnvelopeDefaults(payload map[string]any) map[string]any {
	input := make(map[string]any, len(payload)+3)
	for k, val := range payload {
		input[k] = val
	}
	if _, ok := input["type"]; !ok {
		input["type"] = SceneType
	}
	if _, ok := input["version"]; !ok {
		input["version"] = DefaultVersion
	}
	if _, ok := input["source"]; !ok {
		input["source"] = DefaultSource
	}
	return input
}

// rejectFractionalInts 拒绝将带小数或超出范围的数值解码到整数字段
func rejectFractionalInts(_ reflect.Type, to reflect.Type, data any) (any, error) {
	for to.Kind() == reflect.Ptr {
		to = to.Elem()
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
	default:
		return data, nil
	}

	var f float64
	switch n := data.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	default:
		return data, nil
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("expected integer, got fractional number %v", f)
	}
	// 2^63 可精确表示为 float64，int64(f) 在边界外会静默回绕
	if f >= 1<<63 || f < -(1<<63) || reflect.New(to).Elem().OverflowInt(int64(f)) {
		return nil, fmt.Errorf("integer %v out of range for %s", f, to.Kind())
	}
	return data, nil
}

// decodeViolations 将 mapstructure 的聚合错误拆分为逐字段违规
func decodeViolations(err error) []Violation {
	var out []Violation

	var walk func(e error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if joined, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range joined.Unwrap() {
				walk(inner)
			}
			return
		}

		if inner := stderrors.Unwrap(e); inner != nil && carriesFieldErrors(inner) {
			walk(inner)
			return
		}

		msg := e.Error()
		if m := decodeErrorPattern.FindStringSubmatch(msg); m != nil {
			out = append(out, decodeViolation(m[1], m[2]))
			return
		}

		// 兼容 "N error(s) decoding:\n\n* ..." 格式
		found := false
		for _, line := range strings.Split(msg, "\n") {
			line = strings.TrimSpace(line)
			if !strings.HasPrefix(line, "* ") {
				continue
			}
			line = strings.TrimPrefix(line, "* ")
			found = true
			if m := decodeErrorPattern.FindStringSubmatch(line); m != nil {
				out = append(out, decodeViolation(m[1], m[2]))
			} else {
				out = append(out, Violation{Reason: ReasonWrongType, Message: line})
			}
		}
		if !found {
			out = append(out, Violation{Reason: ReasonWrongType, Message: msg})
		}
	}

	walk(err)
	return out
}

// coveredBy 判断 path 本身或其某个祖先路径已报告过解码错误
func coveredBy(seen map[string]bool, path string) bool {
	if seen[path] {
		return true
	}
	for i := 0; i < len(path); i++ {
		if path[i] != '.' && path[i] != '[' {
			continue
		}
		if seen[path[:i]] {
			return true
		}
	}
	return false
}

// carriesFieldErrors 判断被包装的错误是否还带有字段级信息
func carriesFieldErrors(e error) bool {
	if _, ok := e.(interface{ Unwrap() []error }); ok {
		return true
	}
	return decodeErrorPattern.MatchString(e.Error())
}

func decodeViolation(path, message string) Violation {
	reason := ReasonWrongType
	switch {
	case strings.Contains(message, "fractional number"):
		reason = ReasonNotInteger
	case strings.Contains(message, "out of range"):
		reason = ReasonOutOfRange
	}
	return Violation{Path: path, Reason: reason, Message: message}
}

func fieldViolation(path string, fe validator.FieldError) Violation {
	switch fe.Tag() {
	case "required":
		return Violation{Path: path, Reason: ReasonMissing, Message: "field required"}
	case hexColorTag:
		return Violation{
			Path:    path,
			Reason:  ReasonPatternMismatch,
			Message: fmt.Sprintf("value %q does not match hex color pattern %s", fmt.Sprint(fe.Value()), hexColorPattern.String()),
		}
	case "oneof":
		return Violation{
			Path:    path,
			Reason:  ReasonNotAllowed,
			Message: fmt.Sprintf("value %q not in allowed set [%s]", fmt.Sprint(fe.Value()), fe.Param()),
		}
	case "eq":
		return Violation{
			Path:    path,
			Reason:  ReasonNotAllowed,
			Message: fmt.Sprintf("value %q must be %q", fmt.Sprint(fe.Value()), fe.Param()),
		}
	default:
		return Violation{Path: path, Reason: ReasonInvalid, Message: fmt.Sprintf("failed %q check", fe.Tag())}
	}
}

// stripRoot 去掉命名空间中的根结构体名
func stripRoot(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func (r *rawScene) toScene() *ExcalidrawScene {
	s := &ExcalidrawScene{
		Type:     *r.Type,
		Version:  *r.Version,
		Source:   *r.Source,
		Elements: make([]Element, 0, len(r.Elements)),
		AppState: AppState{
			GridSize:            *r.AppState.GridSize,
			GridStep:            *r.AppState.GridStep,
			GridModeEnabled:     *r.AppState.GridModeEnabled,
			ViewBackgroundColor: *r.AppState.ViewBackgroundColor,
		},
		Files: r.Files,
	}
	for i := range r.Elements {
		s.Elements = append(s.Elements, r.Elements[i].toElement())
	}
	return s
}

func (r *rawElement) toElement() Element {
	e := Element{
		ID:              *r.ID,
		Type:            Shape(*r.Type),
		X:               *r.X,
		Y:               *r.Y,
		Width:           *r.Width,
		Height:          *r.Height,
		Angle:           *r.Angle,
		StrokeColor:     *r.StrokeColor,
		BackgroundColor: *r.BackgroundColor,
		FillStyle:       *r.FillStyle,
		StrokeWidth:     *r.StrokeWidth,
		StrokeStyle:     *r.StrokeStyle,
		Roughness:       *r.Roughness,
		Opacity:         *r.Opacity,
		GroupIDs:        r.GroupIDs,
		Roundness:       r.Roundness,
		Points:          r.Points,
	}
	if r.FrameID != nil {
		e.FrameID = *r.FrameID
	}
	return e
}
