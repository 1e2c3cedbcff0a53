package sto

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/John-Robertt/stoscrape/internal/domain"
	"github.com/John-Robertt/stoscrape/internal/normalize"
	"github.com/John-Robertt/stoscrape/internal/provider"
)

// MaxSeasons 是 season 扫描的硬上限：无论页面内容如何，最多请求这么多个 season 页。
const MaxSeasons = 20

var (
	episodeRowSel    = provider.Candidates("table.seasonEpisodesList tbody tr", ".episodes-list tr")
	episodeNumSel    = provider.Candidates("td a", ".episode-number")
	episodeRowTitSel = provider.Candidates("td:nth-child(2) strong", ".episode-title")
)

// Episodes 从 season 1 开始逐个抓取 season 页，直到某一季为空或抓取失败（两者同等对待），
// 最多 MaxSeasons 次请求。结果保持 season-major、页面内出现顺序，不重新排序。
func (c *Client) Episodes(ctx context.Context, slug string) []domain.CatalogEntry {
	all := make([]domain.CatalogEntry, 0, 32)
	for season := 1; season <= MaxSeasons; season++ {
		eps, err := c.Season(ctx, slug, season)
		if err != nil {
			c.logger().WithError(err).WithField("op", "episodes").WithField("slug", slug).WithField("season", season).Info("season 抓取失败，停止扫描")
			break
		}
		if len(eps) == 0 {
			break
		}
		all = append(all, eps...)
	}
	return all
}

// Season 抓取并解析单个 season 页。
func (c *Client) Season(ctx context.Context, slug string, season int) ([]domain.CatalogEntry, error) {
	return provider.FetchParseKeep(ctx, c.Fetcher, c.Site.SeasonPath(slug, season), func(html []byte) ([]domain.CatalogEntry, error) {
		return c.ParseSeason(slug, season, html)
	}, provider.NonEmpty[domain.CatalogEntry])
}

// ParseSeason 解析 season 页的 episode 列表。
// 没有可解析 episode 编号的行会被跳过（不视为停止条件）。
func (c *Client) ParseSeason(slug string, season int, html []byte) ([]domain.CatalogEntry, error) {
	root, err := parseDoc(html)
	if err != nil {
		return nil, err
	}

	author := c.seriesAuthor(slug, normalize.SlugToTitle(slug), "")
	out := make([]domain.CatalogEntry, 0, 16)
	episodeRowSel.All(root).Each(func(_ int, tr *goquery.Selection) {
		num := episodeNumSel.First(tr)
		if num.Length() == 0 {
			return
		}
		n := firstInt(num.Text())
		if n < 1 {
			return
		}
		ref := domain.EpisodeRef{Slug: slug, Season: season, Episode: n}

		name := ref.Label()
		if title := normSpace(episodeRowTitSel.Text(tr)); title != "" {
			name += ": " + title
		}

		out = append(out, domain.CatalogEntry{
			ID:     domain.PlatformID{Platform: c.Site.Platform(), Value: ref.ID()},
			Name:   name,
			Author: author,
			URL:    c.Site.EpisodeURL(ref),
		})
	})
	return out, nil
}
