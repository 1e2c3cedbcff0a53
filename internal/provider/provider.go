package provider

import (
	"context"
)

// Fetcher 是对外部 HTTP 协作者的最小抽象：按站内路径 GET 一个页面。
//
// 约束：
// - 只做 GET，不做重试（每个页面最多请求一次）
// - 非 2xx 必须返回错误（通常是 *HTTPStatusError），由各 resolver 自行降级
// - path 是站内路径（以 '/' 开头，可带 query），由实现拼接 base URL
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// FetcherFunc 让普通函数实现 Fetcher（测试里常用）。
type FetcherFunc func(ctx context.Context, path string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, path string) ([]byte, error) { return f(ctx, path) }
