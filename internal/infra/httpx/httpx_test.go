package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClient_ProxyDisablesKeepAlive(t *testing.T) {
	c, err := NewClient("http://127.0.0.1:8080", 0)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	tr, ok := c.Transport.(*Transport)
	if !ok {
		t.Fatalf("期望 *Transport，实际 %T", c.Transport)
	}
	base := tr.Base.(*http.Transport)
	if base.Proxy == nil {
		t.Fatalf("期望启用代理，但 Proxy=nil")
	}
	if !base.DisableKeepAlives || !tr.DisableKeepAlives {
		t.Fatalf("期望禁用 keep-alive")
	}
	if c.Timeout != DefaultTimeout {
		t.Fatalf("期望默认超时 %v，实际 %v", DefaultTimeout, c.Timeout)
	}
}

func TestNewClient_NoProxyKeepsDefault(t *testing.T) {
	c, err := NewClient("", 3*time.Second)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	tr := c.Transport.(*Transport)
	base := tr.Base.(*http.Transport)
	if base.Proxy != nil {
		t.Fatalf("不期望启用代理，但 Proxy!=nil")
	}
	if base.DisableKeepAlives || tr.DisableKeepAlives {
		t.Fatalf("不期望禁用 keep-alive")
	}
	if c.Timeout != 3*time.Second {
		t.Fatalf("期望超时 3s，实际 %v", c.Timeout)
	}
}

func TestNewClient_InvalidProxyURL(t *testing.T) {
	_, err := NewClient("http://[::1", 0)
	if err == nil {
		t.Fatalf("期望错误，但得到 nil")
	}
}

func TestTransport_SetsHeaders(t *testing.T) {
	var gotUA, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c, err := NewClient("", time.Second)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	resp, err := c.Get(srv.URL)
	if err != nil {
		t.Fatalf("请求失败：%v", err)
	}
	resp.Body.Close()

	found := false
	for _, ua := range globalUA.uas {
		if ua == gotUA {
			found = true
		}
	}
	if !found {
		t.Fatalf("UA 不在池中：%q", gotUA)
	}
	if gotLang != acceptLanguage {
		t.Fatalf("Accept-Language 不符合预期：%q", gotLang)
	}
}

type countingRT struct {
	n   int
	err error
}

func (c *countingRT) RoundTrip(*http.Request) (*http.Response, error) {
	c.n++
	return nil, c.err
}

func TestTransport_NoRetry(t *testing.T) {
	base := &countingRT{err: errors.New("connection refused")}
	tr := &Transport{Base: base}

	req, _ := http.NewRequest(http.MethodGet, "http://example.invalid/", nil)
	if _, err := tr.RoundTrip(req); err == nil {
		t.Fatalf("期望错误，但得到 nil")
	}
	if base.n != 1 {
		t.Fatalf("期望只尝试 1 次，实际 %d", base.n)
	}
	if req.Header.Get("User-Agent") != "" {
		t.Fatalf("不应修改调用方的 request")
	}
}
