package sto

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/John-Robertt/stoscrape/internal/provider"
	"github.com/John-Robertt/stoscrape/internal/site"
)

// stubFetcher 按 path 返回预设页面；未登记的 path 返回 404。
type stubFetcher struct {
	pages map[string][]byte
	errs  map[string]error
	calls []string
}

func (f *stubFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	f.calls = append(f.calls, path)
	if err, ok := f.errs[path]; ok {
		return nil, err
	}
	if b, ok := f.pages[path]; ok {
		return b, nil
	}
	return nil, &provider.HTTPStatusError{URL: "https://s.to" + path, StatusCode: 404}
}

func newStub() *stubFetcher {
	return &stubFetcher{pages: map[string][]byte{}, errs: map[string]error{}}
}

func newTestClient(t *testing.T, f provider.Fetcher) (*Client, *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	return New(site.Default(), f, log), hook
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("读取 fixture 失败：%v", err)
	}
	return b
}
