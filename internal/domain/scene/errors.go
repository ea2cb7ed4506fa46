package scene

import (
	"fmt"
	"strings"
)

// Reason 校验失败原因
type Reason string

const (
	ReasonMissing         Reason = "missing"
	ReasonWrongType       Reason = "wrong_type"
	ReasonNotInteger      Reason = "not_integer"
	ReasonOutOfRange      Reason = "out_of_range"
	ReasonPatternMismatch Reason = "pattern_mismatch"
	ReasonNotAllowed      Reason = "not_in_allowed_set"
	ReasonInvalidJSON     Reason = "invalid_json"
	ReasonInvalid         Reason = "invalid"
)

// Violation 单个字段的校验失败
type Violation struct {
	// Path 字段路径，如 elements[0].strokeColor；根对象为空串
	Path    string `json:"path"`
	Reason  Reason `json:"reason"`
	Message string `json:"message"`
}

// String 返回可读描述
func (v Violation) String() string {
	path := v.Path
	if path == "" {
		path = "(root)"
	}
	return fmt.Sprintf("%s: %s (%s)", path, v.Message, v.Reason)
}

// SchemaValidationError 聚合一次校验中发现的所有违规
type SchemaValidationError struct {
	Violations []Violation
}

// Error 实现 error 接口
func (e *SchemaValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d validation error(s) for ExcalidrawScene", len(e.Violations))
	for _, v := range e.Violations {
		b.WriteString("\n  ")
		b.WriteString(v.String())
	}
	return b.String()
}

// Paths 返回所有违规字段路径
func (e *SchemaValidationError) Paths() []string {
	paths := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		paths = append(paths, v.Path)
	}
	return paths
}

// Has 判断指定路径是否存在指定原因的违规
func (e *SchemaValidationError) Has(path string, reason Reason) bool {
	for _, v := range e.Violations {
		if v.Path == path && v.Reason == reason {
			return true
		}
	}
	return false
}
