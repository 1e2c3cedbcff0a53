package provider

import (
	"errors"
	"fmt"
	"strings"
)

// HTTPStatusError 表示站点返回了非 2xx 的 HTTP 状态码。
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Location   string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	loc := strings.TrimSpace(e.Location)
	if loc == "" {
		return fmt.Sprintf("HTTP %d url=%s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("HTTP %d url=%s location=%s", e.StatusCode, e.URL, loc)
}

// ErrNotFound 是所有“站点明确表示不存在”错误的哨兵值。
var ErrNotFound = errors.New("not found")

// NotFoundError 表示页面取到了，但站点给出了“不存在”的标记（或缺少必需区域）。
// 这是内部信号：resolver 边界会捕获它并返回默认值，不会传给调用方。
type NotFoundError struct {
	What string // 例如 "series" / "episode"
	Path string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return "not found"
	}
	return fmt.Sprintf("%s 不存在：%s", e.What, e.Path)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// IsNotFound 判断 err 是否为“站点不存在”信号。
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
