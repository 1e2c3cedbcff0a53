// Package site 描述站点身份（base URL + content type）以及固定的 URL 语法。
//
// Site 在启动时构造一次，之后只读，显式传给每个 resolver。
package site

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	ModeSerie = "serie" // s.to
	ModeAnime = "anime" // aniworld.to
)

// Site 是不可变的站点配置。
type Site struct {
	platform    string
	baseURL     string // 无尾部 '/'
	host        string // 小写，去掉 "www."
	contentType string

	seriesRE  *regexp.Regexp
	episodeRE *regexp.Regexp
	slugRE    *regexp.Regexp
}

// New 构造 Site。baseURL 为空时按 mode 选默认域名。
func New(mode, baseURL string) (Site, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	platform, defBase, err := modeDefaults(mode)
	if err != nil {
		return Site{}, err
	}

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = defBase
	}
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return Site{}, fmt.Errorf("base_url 无效：%q", baseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Site{}, fmt.Errorf("base_url 必须是 http/https：%q", baseURL)
	}
	prefix := "^/" + regexp.QuoteMeta(mode) + "/stream/"
	return Site{
		platform:    platform,
		baseURL:     u.Scheme + "://" + u.Host,
		host:        normHost(u.Host),
		contentType: mode,
		seriesRE:    regexp.MustCompile(prefix + `([^/?#]+)/?$`),
		episodeRE:   regexp.MustCompile(prefix + `([^/?#]+)/staffel-(\d+)/episode-(\d+)/?$`),
		slugRE:      regexp.MustCompile(prefix + `([^/?#]+)`),
	}, nil
}

// Default 返回 s.to 的默认配置。
func Default() Site {
	s, _ := New(ModeSerie, "")
	return s
}

func modeDefaults(mode string) (platform, base string, err error) {
	switch mode {
	case ModeSerie:
		return "S.to", "https://s.to", nil
	case ModeAnime:
		return "AniWorld", "https://aniworld.to", nil
	case "":
		return "", "", fmt.Errorf("mode 不能为空")
	default:
		return "", "", fmt.Errorf("mode 只能是 serie 或 anime，实际是 %q", mode)
	}
}

func (s Site) Platform() string    { return s.platform }
func (s Site) BaseURL() string     { return s.baseURL }
func (s Site) ContentType() string { return s.contentType }

// Abs 把站内路径或相对 URL 解析为绝对 URL；已是绝对 URL 时原样返回。
func (s Site) Abs(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	bu, err := url.Parse(s.baseURL + "/")
	if err != nil {
		return s.baseURL + href
	}
	ru, err := url.Parse(href)
	if err != nil {
		return s.baseURL + href
	}
	return bu.ResolveReference(ru).String()
}

// SeriesPath 返回 /<content-type>/stream/<slug>。
func (s Site) SeriesPath(slug string) string {
	return "/" + s.contentType + "/stream/" + slug
}

// SeasonPath 返回 /<content-type>/stream/<slug>/staffel-<season>。
func (s Site) SeasonPath(slug string, season int) string {
	return s.SeriesPath(slug) + "/staffel-" + strconv.Itoa(season)
}

// EpisodePath 返回 /<content-type>/stream/<slug>/staffel-<season>/episode-<episode>。
func (s Site) EpisodePath(slug string, season, episode int) string {
	return s.SeasonPath(slug, season) + "/episode-" + strconv.Itoa(episode)
}

// SearchPath 返回 /search?q=<query>（query 按 URL 组件编码）。
func (s Site) SearchPath(query string) string {
	return "/search?q=" + encodeURIComponent(query)
}

// encodeURIComponent 对 query 做组件编码，空格编码为 %20 而不是 '+'。
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func normHost(h string) string {
	h = strings.ToLower(h)
	return strings.TrimPrefix(h, "www.")
}
