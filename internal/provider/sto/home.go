package sto

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"

	"github.com/John-Robertt/stoscrape/internal/domain"
	"github.com/John-Robertt/stoscrape/internal/normalize"
	"github.com/John-Robertt/stoscrape/internal/provider"
)

// MaxHomeEntries 是首页列表的条目上限。
const MaxHomeEntries = 20

var homeLinkSel = provider.Candidates("a[href*='/stream/']")

// Home 解析首页上的 series 链接；失败时返回空列表。
func (c *Client) Home(ctx context.Context) []domain.CatalogEntry {
	entries, err := provider.FetchParseKeep(ctx, c.Fetcher, "/", c.ParseHome, provider.NonEmpty[domain.CatalogEntry])
	if err != nil {
		c.logger().WithError(err).WithField("op", "home").Warn("首页解析失败，返回空结果")
		return []domain.CatalogEntry{}
	}
	return entries
}

// ParseHome 收集首页中指向 /stream/ 的链接（同一 href 只保留第一次出现），最多 MaxHomeEntries 条。
// 标题由链接中的 series slug 推导。
func (c *Client) ParseHome(html []byte) ([]domain.CatalogEntry, error) {
	root, err := parseDoc(html)
	if err != nil {
		return nil, err
	}

	type link struct{ href, slug, thumb string }
	links := make([]link, 0, 64)
	homeLinkSel.All(root).Each(func(_ int, a *goquery.Selection) {
		href := provider.AttrAny(a, "href")
		slug, err := c.Site.SeriesSlug(href)
		if err != nil {
			return
		}
		thumb := ""
		if img := a.Find("img").First(); img.Length() > 0 {
			thumb = c.Site.Abs(provider.AttrAny(img, "data-src", "src"))
		}
		links = append(links, link{href: href, slug: slug, thumb: thumb})
	})

	links = lo.UniqBy(links, func(l link) string { return l.href })
	if len(links) > MaxHomeEntries {
		links = links[:MaxHomeEntries]
	}
	return lo.Map(links, func(l link, _ int) domain.CatalogEntry {
		return c.seriesEntry(l.href, normalize.SlugToTitle(l.slug), l.thumb)
	}), nil
}
