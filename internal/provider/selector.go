package provider

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Selector 是同一逻辑字段的有序 CSS 候选列表（主选择器 + 兼容旧版的回退选择器）。
// 按顺序尝试，第一个有匹配的候选胜出。
type Selector struct {
	raw        []string
	candidates []cascadia.Selector
}

// Candidates 预编译候选选择器；非法选择器直接 panic（只用于包级常量）。
func Candidates(sels ...string) Selector {
	s := Selector{raw: sels, candidates: make([]cascadia.Selector, 0, len(sels))}
	for _, raw := range sels {
		s.candidates = append(s.candidates, cascadia.MustCompile(raw))
	}
	return s
}

// All 返回第一个有匹配的候选在 root 下的全部结果；都不匹配时返回空 Selection。
func (s Selector) All(root *goquery.Selection) *goquery.Selection {
	var last *goquery.Selection
	for _, c := range s.candidates {
		last = root.FindMatcher(c)
		if last.Length() > 0 {
			return last
		}
	}
	if last == nil {
		return root.Slice(0, 0)
	}
	return last
}

// First 返回第一个有匹配的候选的首个元素。
func (s Selector) First(root *goquery.Selection) *goquery.Selection {
	return s.All(root).First()
}

// Exists 判断任一候选在 root 下有匹配。
func (s Selector) Exists(root *goquery.Selection) bool {
	return s.All(root).Length() > 0
}

// Text 返回首个匹配元素的去空白文本；无匹配时返回 ""。
func (s Selector) Text(root *goquery.Selection) string {
	return strings.TrimSpace(s.First(root).Text())
}

func (s Selector) String() string { return strings.Join(s.raw, ", ") }

// AttrAny 按顺序读取属性，返回第一个非空值（例如 data-src 优先于 src）。
func AttrAny(sel *goquery.Selection, names ...string) string {
	for _, n := range names {
		if v, ok := sel.Attr(n); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}
