package animation

import (
	"context"
	"os"

	"golang.org/x/sync/singleflight"

	apperrors "layersense/pkg/errors"
)

// ExampleLoader 每次请求读取示例场景文件，并发请求合并为一次读取
type ExampleLoader struct {
	path  string
	group singleflight.Group
}

func NewExampleLoader(path string) *ExampleLoader {
	return &ExampleLoader{path: path}
}

// Path 返回示例文件路径
func (l *ExampleLoader) Path() string {
	return l.path
}

// Load 返回示例文件的原始文本，文件缺失或不可读时返回 CodeAssetUnavailable
func (l *ExampleLoader) Load(ctx context.Context) (string, error) {
	ch := l.group.DoChan(l.path, func() (any, error) {
		b, err := os.ReadFile(l.path)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", apperrors.Wrap(res.Err, apperrors.CodeAssetUnavailable, "example scene unavailable").
				WithDetail(l.path)
		}
		return res.Val.(string), nil
	}
}
