package site

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/John-Robertt/stoscrape/internal/domain"
)

// Kind 是 URL 的分类结果；四个有效类互不相交。
type Kind int

const (
	KindUnknown Kind = iota
	KindHome
	KindSearch
	KindSeries
	KindEpisode
)

func (k Kind) String() string {
	switch k {
	case KindHome:
		return "home"
	case KindSearch:
		return "search"
	case KindSeries:
		return "series"
	case KindEpisode:
		return "episode"
	default:
		return "unknown"
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// InputError 表示输入 URL 不符合所请求操作的固定语法。
// 这是致命错误：直接返回给调用方，不做猜测、不做降级。
type InputError struct {
	URL  string
	Want string // 期望的语法，例如 "episode"
}

func (e *InputError) Error() string {
	if e == nil {
		return "invalid input"
	}
	return fmt.Sprintf("URL 不符合 %s 语法：%q", e.Want, e.URL)
}

// Classify 按固定路径语法判断 raw 属于哪一类。
//
// 约束：
// - 相对路径与站内绝对 URL 都接受；其它域名的 URL 一律 KindUnknown
// - 只看 path，query/fragment 不参与匹配
func (s Site) Classify(raw string) Kind {
	u, ok := s.parse(raw)
	if !ok {
		return KindUnknown
	}
	p := u.EscapedPath()
	switch {
	case p == "" || p == "/":
		return KindHome
	case p == "/search" || p == "/search/":
		return KindSearch
	case s.seriesRE.MatchString(p):
		return KindSeries
	}
	if _, err := s.episodeFromPath(raw, p); err == nil {
		return KindEpisode
	}
	return KindUnknown
}

// IsSeriesURL 判断 raw 是否是 series 页面（不带 season/episode 后缀）。
func (s Site) IsSeriesURL(raw string) bool { return s.Classify(raw) == KindSeries }

// IsEpisodeURL 判断 raw 是否是 episode 页面。
func (s Site) IsEpisodeURL(raw string) bool { return s.Classify(raw) == KindEpisode }

// SeriesSlug 从任意站内 series/season/episode URL 中提取 slug。
// slug 截止到下一个路径段或 query。
func (s Site) SeriesSlug(raw string) (string, error) {
	u, ok := s.parse(raw)
	if !ok {
		return "", &InputError{URL: raw, Want: "series"}
	}
	m := s.slugRE.FindStringSubmatch(u.EscapedPath())
	if m == nil {
		return "", &InputError{URL: raw, Want: "series"}
	}
	return m[1], nil
}

// ParseEpisodeURL 从 episode URL 中提取 (slug, season, episode)。
// 不匹配 episode 语法时返回 *InputError。
func (s Site) ParseEpisodeURL(raw string) (domain.EpisodeRef, error) {
	u, ok := s.parse(raw)
	if !ok {
		return domain.EpisodeRef{}, &InputError{URL: raw, Want: "episode"}
	}
	return s.episodeFromPath(raw, u.EscapedPath())
}

func (s Site) episodeFromPath(raw, p string) (domain.EpisodeRef, error) {
	m := s.episodeRE.FindStringSubmatch(p)
	if m == nil {
		return domain.EpisodeRef{}, &InputError{URL: raw, Want: "episode"}
	}
	season, err1 := strconv.Atoi(m[2])
	episode, err2 := strconv.Atoi(m[3])
	if err1 != nil || err2 != nil {
		return domain.EpisodeRef{}, &InputError{URL: raw, Want: "episode"}
	}
	ref := domain.EpisodeRef{Slug: m[1], Season: season, Episode: episode}
	if err := ref.Validate(); err != nil {
		return domain.EpisodeRef{}, &InputError{URL: raw, Want: "episode"}
	}
	return ref, nil
}

// EpisodeURL 返回 episode 的绝对 URL（与 ParseEpisodeURL 互逆）。
func (s Site) EpisodeURL(ref domain.EpisodeRef) string {
	return s.baseURL + s.EpisodePath(ref.Slug, ref.Season, ref.Episode)
}

// SeriesURL 返回 series 的绝对 URL。
func (s Site) SeriesURL(slug string) string {
	return s.baseURL + s.SeriesPath(slug)
}

func (s Site) parse(raw string) (*url.URL, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || s.seriesRE == nil {
		return nil, false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, false
	}
	if u.Host != "" && normHost(u.Host) != s.host {
		return nil, false
	}
	if u.Host == "" && u.Scheme != "" {
		return nil, false
	}
	return u, true
}
