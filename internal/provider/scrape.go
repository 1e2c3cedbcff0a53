package provider

import (
	"context"
	"fmt"
)

// Error 是 resolver 阶段的可追溯错误：记录在哪一步（fetch/parse）失败。
// 上层据此决定日志字段；两种阶段的失败都会被降级为默认结果。
type Error struct {
	Path  string
	Stage string // "fetch" 或 "parse"
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("path=%s stage=%s: %v", e.Path, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// FetchParse 抓取 path 并交给 parse 解析。
//
// 约束：
// - 只请求一次，不重试
// - parse 必须是纯函数：相同 html => 相同输出
// - 只有解析成功的页面才会被缓存
func FetchParse[T any](ctx context.Context, f Fetcher, path string, parse func(html []byte) (T, error)) (T, error) {
	return FetchParseKeep(ctx, f, path, parse, nil)
}

// FetchParseKeep 与 FetchParse 相同，但额外用 keep 判断解析结果是否值得缓存
// （例如空列表不缓存）。keep 为 nil 时，解析成功即缓存。
func FetchParseKeep[T any](ctx context.Context, f Fetcher, path string, parse func(html []byte) (T, error), keep func(T) bool) (T, error) {
	var zero T
	if f == nil {
		return zero, &Error{Path: path, Stage: "fetch", Err: fmt.Errorf("fetcher 不能为空")}
	}
	html, err := f.Fetch(ctx, path)
	if err != nil {
		return zero, &Error{Path: path, Stage: "fetch", Err: err}
	}
	v, err := parse(html)
	if c, ok := f.(PageCommitter); ok {
		c.Commit(path, err == nil && (keep == nil || keep(v)))
	}
	if err != nil {
		return zero, &Error{Path: path, Stage: "parse", Err: err}
	}
	return v, nil
}

// NonEmpty 是列表结果的 keep 判断：空列表不缓存。
func NonEmpty[T any](v []T) bool { return len(v) > 0 }
