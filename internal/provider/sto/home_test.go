package sto

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func TestParseHome(t *testing.T) {
	c, _ := newTestClient(t, nil)
	entries, err := c.ParseHome(readFixture(t, "home.html"))
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	wantNames := []string{"Dark", "The Walking Dead", "Breaking Bad"}
	if len(entries) != len(wantNames) {
		t.Fatalf("期望 %d 条，实际 %d: %+v", len(wantNames), len(entries), entries)
	}
	for i, want := range wantNames {
		if entries[i].Name != want {
			t.Fatalf("entries[%d].Name=%q，期望 %q", i, entries[i].Name, want)
		}
	}
	if entries[0].Thumbnail != "https://s.to/public/img/cover/dark.jpg" {
		t.Fatalf("thumbnail 不符合预期：%q", entries[0].Thumbnail)
	}
	if entries[1].Thumbnail != "https://cdn.example/twd.jpg" {
		t.Fatalf("thumbnail 不符合预期：%q", entries[1].Thumbnail)
	}
	if entries[2].URL != "https://s.to/serie/stream/breaking-bad/staffel-5/episode-14" {
		t.Fatalf("URL 不符合预期：%q", entries[2].URL)
	}
	if entries[2].ID.Value != "/serie/stream/breaking-bad" || entries[2].Author.ID != entries[2].ID {
		t.Fatalf("ID 应为 series 规范路径，实际 %+v", entries[2].ID)
	}
}

func TestParseHome_Capped(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < MaxHomeEntries+10; i++ {
		fmt.Fprintf(&b, `<a href="/serie/stream/series-%d">x</a>`, i)
	}
	b.WriteString("</body></html>")

	c, _ := newTestClient(t, nil)
	entries, err := c.ParseHome([]byte(b.String()))
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(entries) != MaxHomeEntries {
		t.Fatalf("期望 %d 条，实际 %d", MaxHomeEntries, len(entries))
	}
}

func TestHome_FetchFailure(t *testing.T) {
	c, _ := newTestClient(t, newStub())
	if entries := c.Home(context.Background()); entries == nil || len(entries) != 0 {
		t.Fatalf("期望空（非 nil）列表，实际 %#v", entries)
	}
}
