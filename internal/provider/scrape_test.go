package provider

import (
	"context"
	"errors"
	"testing"
)

func TestFetchParse_OK(t *testing.T) {
	calls := 0
	f := FetcherFunc(func(ctx context.Context, path string) ([]byte, error) {
		calls++
		return []byte("42"), nil
	})

	got, err := FetchParse(context.Background(), f, "/x", func(b []byte) (string, error) {
		return "parsed:" + string(b), nil
	})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if got != "parsed:42" {
		t.Fatalf("结果不符合预期：%q", got)
	}
	if calls != 1 {
		t.Fatalf("期望只抓取 1 次，实际 %d", calls)
	}
}

func TestFetchParse_StageTagging(t *testing.T) {
	fetchErr := errors.New("boom")
	f := FetcherFunc(func(ctx context.Context, path string) ([]byte, error) { return nil, fetchErr })

	_, err := FetchParse(context.Background(), f, "/x", func(b []byte) (int, error) { return 0, nil })
	var pe *Error
	if !errors.As(err, &pe) || pe.Stage != "fetch" {
		t.Fatalf("期望 stage=fetch，实际 %v", err)
	}
	if !errors.Is(err, fetchErr) {
		t.Fatalf("期望可 Unwrap 到原始错误")
	}

	ok := FetcherFunc(func(ctx context.Context, path string) ([]byte, error) { return []byte("x"), nil })
	_, err = FetchParse(context.Background(), ok, "/y", func(b []byte) (int, error) {
		return 0, &NotFoundError{What: "series", Path: "/y"}
	})
	if !errors.As(err, &pe) || pe.Stage != "parse" {
		t.Fatalf("期望 stage=parse，实际 %v", err)
	}
	if !IsNotFound(err) {
		t.Fatalf("期望 IsNotFound=true")
	}
}

func TestFetchParse_NilFetcher(t *testing.T) {
	_, err := FetchParse[int](context.Background(), nil, "/x", func(b []byte) (int, error) { return 1, nil })
	if err == nil {
		t.Fatalf("期望错误，但得到 nil")
	}
}
