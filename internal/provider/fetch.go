package provider

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// PageCache 是可选的页面缓存（按站内路径索引）。
type PageCache interface {
	Get(path string) ([]byte, bool, error)
	Put(path string, body []byte) error
}

// PageCommitter 由带缓存的 Fetcher 实现：FetchParse 在解析结束后调用 Commit，
// 告知刚抓到的页面是否值得缓存。
type PageCommitter interface {
	Commit(path string, keep bool)
}

// HTTPFetcher 用 http.Client 按 BaseURL + path 抓取页面。
//
// 网络取回的 body 先挂起，只有 Commit(path, true) 才会写入 Cache。
// 站点的“不存在”页、空 season 页同样是 2xx，它们由解析结果决定不落盘。
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
	Cache   PageCache // 可为 nil
	Log     logrus.FieldLogger

	pending sync.Map // path => []byte
}

func (f *HTTPFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	if f == nil || f.Client == nil {
		return nil, errors.New("http client 不能为空")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	log := f.logger().WithField("path", path)

	if f.Cache != nil {
		b, ok, err := f.Cache.Get(path)
		if err != nil {
			log.WithError(err).Warn("读取页面缓存失败，改为直接请求")
		} else if ok {
			log.Debug("页面缓存命中")
			return b, nil
		}
	}

	u := strings.TrimRight(f.BaseURL, "/") + path
	b, err := fetchURL(ctx, f.Client, u)
	if err != nil {
		return nil, err
	}
	log.WithField("bytes", len(b)).Debug("页面抓取完成")

	if f.Cache != nil {
		f.pending.Store(path, b)
	}
	return b, nil
}

// Commit 结束 path 的挂起状态：keep 为 true 时写入缓存，否则丢弃。
// 缓存命中的页面没有挂起记录，Commit 不会重复写入。
func (f *HTTPFetcher) Commit(path string, keep bool) {
	if f == nil || f.Cache == nil {
		return
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	v, ok := f.pending.LoadAndDelete(path)
	if !ok || !keep {
		return
	}
	if err := f.Cache.Put(path, v.([]byte)); err != nil {
		f.logger().WithError(err).WithField("path", path).Warn("写入页面缓存失败")
	}
}

func (f *HTTPFetcher) logger() logrus.FieldLogger {
	if f.Log == nil {
		return logrus.StandardLogger()
	}
	return f.Log
}

func fetchURL(ctx context.Context, c *http.Client, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &HTTPStatusError{URL: u, StatusCode: resp.StatusCode, Location: resp.Header.Get("Location")}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, errors.New("empty response body")
	}
	return b, nil
}
