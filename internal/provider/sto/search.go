package sto

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/stoscrape/internal/domain"
	"github.com/John-Robertt/stoscrape/internal/provider"
)

var searchRowSel = provider.Candidates("li > a")

// Search 查询站点搜索页（单页、站点默认顺序，不做相关性排序）。
// 抓取失败或没有结果时返回空列表。
func (c *Client) Search(ctx context.Context, query string) []domain.CatalogEntry {
	entries, err := provider.FetchParseKeep(ctx, c.Fetcher, c.Site.SearchPath(query), c.ParseSearch, provider.NonEmpty[domain.CatalogEntry])
	if err != nil {
		c.logger().WithError(err).WithField("op", "search").WithField("query", query).Warn("搜索失败，返回空结果")
		return []domain.CatalogEntry{}
	}
	return entries
}

// ParseSearch 解析搜索结果行：同时具备 href 与 <em> 标题的 <a> 才算一条结果。
func (c *Client) ParseSearch(html []byte) ([]domain.CatalogEntry, error) {
	root, err := parseDoc(html)
	if err != nil {
		return nil, err
	}

	out := make([]domain.CatalogEntry, 0, 16)
	searchRowSel.All(root).Each(func(_ int, a *goquery.Selection) {
		href := provider.AttrAny(a, "href")
		title := normSpace(a.Find("em").First().Text())
		if href == "" || title == "" {
			return
		}
		thumb := ""
		if img := a.Find("img").First(); img.Length() > 0 {
			thumb = c.Site.Abs(provider.AttrAny(img, "data-src", "src"))
		}
		out = append(out, c.seriesEntry(strings.TrimSpace(href), title, thumb))
	})
	return out, nil
}
