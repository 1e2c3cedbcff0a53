package sto

import (
	"context"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/stoscrape/internal/domain"
	"github.com/John-Robertt/stoscrape/internal/normalize"
	"github.com/John-Robertt/stoscrape/internal/provider"
)

var (
	hosterRowSel    = provider.Candidates("ul.row li", ".hoster-list li")
	episodeTitleSel = provider.Candidates("h1", ".episode-title")
	episodeDescSel  = provider.Candidates(".episode-description", ".description")
	languageIconSel = provider.Candidates("div.changeLanguageBox img", ".language-selector img")
	watchLinkSel    = provider.Candidates("a.watchEpisode", "a.watch-link")
	hosterNameSel   = provider.Candidates("h4", ".hoster-name")
)

const langKeyAttr = "data-lang-key"

// Episode 解析 episode 页面。
//
// 永不失败：抓取失败、页面没有任何 hoster 行时返回空的 EpisodeInfo。
func (c *Client) Episode(ctx context.Context, ref domain.EpisodeRef) domain.EpisodeInfo {
	log := c.logger().WithField("op", "episode").WithField("slug", ref.Slug).WithField("season", ref.Season).WithField("episode", ref.Episode)
	if err := ref.Validate(); err != nil {
		log.WithError(err).Warn("episode 引用无效")
		return emptyEpisode()
	}
	path := c.Site.EpisodePath(ref.Slug, ref.Season, ref.Episode)
	info, err := provider.FetchParseKeep(ctx, c.Fetcher, path, func(html []byte) (domain.EpisodeInfo, error) {
		return c.ParseEpisode(ref, html)
	}, func(info domain.EpisodeInfo) bool { return len(info.Streams) > 0 })
	if err != nil {
		log.WithError(err).Warn("episode 解析失败，返回空结果")
		return emptyEpisode()
	}
	return info
}

func emptyEpisode() domain.EpisodeInfo {
	return domain.EpisodeInfo{Streams: []domain.StreamDescriptor{}}
}

// ParseEpisode 把 episode 页面解析为 EpisodeInfo。
//
// 两个独立区域通过 data-lang-key 关联：
// - 语言图标区：key => LanguagePair（由图标 src 解码）
// - hoster 列表：key => (hoster, watch link)
//
// 每个带 watch link 的 hoster 行恰好产出一个 StreamDescriptor；key 在语言区找不到时
// 语言为 {Unknown, none}。没有 watch link 的行直接跳过。
func (c *Client) ParseEpisode(ref domain.EpisodeRef, html []byte) (domain.EpisodeInfo, error) {
	root, err := parseDoc(html)
	if err != nil {
		return domain.EpisodeInfo{}, err
	}

	rows := hosterRowSel.All(root)
	if rows.Length() == 0 {
		return domain.EpisodeInfo{}, &provider.NotFoundError{What: "episode", Path: c.Site.EpisodePath(ref.Slug, ref.Season, ref.Episode)}
	}

	languages := make(map[int]domain.LanguagePair, 4)
	languageIconSel.All(root).Each(func(_ int, img *goquery.Selection) {
		key, ok := langKey(img)
		if !ok {
			return
		}
		src, _ := img.Attr("src")
		if strings.TrimSpace(src) == "" {
			return
		}
		languages[key] = normalize.DecodeLanguagePair(src)
	})

	streams := make([]domain.StreamDescriptor, 0, rows.Length())
	rows.Each(func(_ int, li *goquery.Selection) {
		link := watchLinkSel.First(li)
		if link.Length() == 0 {
			return
		}
		href := provider.AttrAny(link, "href")
		if href == "" {
			return
		}

		lang := domain.UnknownLanguage()
		if key, ok := langKey(li); ok {
			if l, found := languages[key]; found {
				lang = l
			}
		}

		streams = append(streams, domain.StreamDescriptor{
			Hoster:   normalize.DecodeHoster(normSpace(hosterNameSel.Text(li))),
			Language: lang,
			WatchURL: c.Site.Abs(href),
		})
	})

	return domain.EpisodeInfo{
		Title:       normSpace(episodeTitleSel.Text(root)),
		Description: normSpace(episodeDescSel.Text(root)),
		Duration:    0,
		Streams:     streams,
	}, nil
}

func langKey(s *goquery.Selection) (int, bool) {
	v, ok := s.Attr(langKeyAttr)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}
