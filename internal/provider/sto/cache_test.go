package sto

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/John-Robertt/stoscrape/internal/provider"
	"github.com/John-Robertt/stoscrape/internal/site"
)

type memCache struct {
	m map[string][]byte
}

func (c *memCache) Get(path string) ([]byte, bool, error) {
	b, ok := c.m[path]
	return b, ok, nil
}

func (c *memCache) Put(path string, body []byte) error {
	c.m[path] = body
	return nil
}

// originHits 记录假站点每个 path 被请求的次数。
type originHits struct {
	mu sync.Mutex
	m  map[string]int
}

func (h *originHits) inc(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.m[path]++
	return h.m[path]
}

func (h *originHits) get(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.m[path]
}

// newCachedClient 用真实的 HTTPFetcher + 内存缓存连接到 pages 驱动的假站点。
func newCachedClient(t *testing.T, pages func(path string, hit int) []byte) (*Client, *memCache, *originHits) {
	t.Helper()
	hits := &originHits{m: map[string]int{}}
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		b := pages(p, hits.inc(p))
		if b == nil {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(b)
	}))
	t.Cleanup(origin.Close)

	s, err := site.New(site.ModeSerie, origin.URL)
	if err != nil {
		t.Fatalf("构造 site 失败：%v", err)
	}
	log, _ := test.NewNullLogger()
	cache := &memCache{m: map[string][]byte{}}
	f := &provider.HTTPFetcher{BaseURL: s.BaseURL(), Client: origin.Client(), Cache: cache, Log: log}
	return New(s, f, log), cache, hits
}

func TestSeries_NotFoundPageIsRefetched(t *testing.T) {
	notFound := readFixture(t, "series_notfound.html")
	found := readFixture(t, "series.html")
	c, cache, hits := newCachedClient(t, func(path string, hit int) []byte {
		if hit == 1 {
			return notFound
		}
		return found
	})

	if got := c.Series(context.Background(), "dark"); got != FallbackSeries("dark") {
		t.Fatalf("第一次期望退化为默认值，实际 %+v", got)
	}
	if _, ok := cache.m["/serie/stream/dark"]; ok {
		t.Fatalf("not found 页面不应写入缓存")
	}

	got := c.Series(context.Background(), "dark")
	if got.Description == "" {
		t.Fatalf("第二次期望取到真实页面，实际 %+v", got)
	}
	if n := hits.get("/serie/stream/dark"); n != 2 {
		t.Fatalf("期望请求站点 2 次，实际 %d", n)
	}

	_ = c.Series(context.Background(), "dark")
	if n := hits.get("/serie/stream/dark"); n != 2 {
		t.Fatalf("成功解析的页面应命中缓存，实际请求 %d 次", n)
	}
}

func TestEpisodes_EmptySeasonIsNotCached(t *testing.T) {
	season := readFixture(t, "season.html")
	empty := readFixture(t, "season_empty.html")
	var released atomic.Bool
	c, cache, hits := newCachedClient(t, func(path string, hit int) []byte {
		switch path {
		case "/serie/stream/dark/staffel-1":
			return season
		case "/serie/stream/dark/staffel-2":
			if released.Load() {
				return season
			}
			return empty
		}
		return nil
	})

	first := c.Episodes(context.Background(), "dark")
	if _, ok := cache.m["/serie/stream/dark/staffel-2"]; ok {
		t.Fatalf("空 season 页不应写入缓存")
	}

	released.Store(true)
	second := c.Episodes(context.Background(), "dark")
	if len(second) <= len(first) {
		t.Fatalf("新 season 发布后期望更多 episode，第一次 %d，第二次 %d", len(first), len(second))
	}
	if n := hits.get("/serie/stream/dark/staffel-1"); n != 1 {
		t.Fatalf("staffel-1 应命中缓存，实际请求 %d 次", n)
	}
}
