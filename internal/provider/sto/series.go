package sto

import (
	"context"

	"github.com/John-Robertt/stoscrape/internal/domain"
	"github.com/John-Robertt/stoscrape/internal/normalize"
	"github.com/John-Robertt/stoscrape/internal/provider"
)

var (
	seriesNotFoundSel = provider.Candidates(".messageAlert.danger")
	seriesTitleSel    = provider.Candidates(".series-title h1", "h1")
	seriesDescSel     = provider.Candidates("p.seri_des", ".description")
	seriesCoverSel    = provider.Candidates(".seriesCoverBox img", ".cover img")
)

// Series 解析 series 页面。
//
// 永不失败：抓取失败或站点返回“不存在”时，退化为 FallbackSeries(slug)。
func (c *Client) Series(ctx context.Context, slug string) domain.SeriesInfo {
	path := c.Site.SeriesPath(slug)
	info, err := provider.FetchParse(ctx, c.Fetcher, path, func(html []byte) (domain.SeriesInfo, error) {
		return c.ParseSeries(slug, html)
	})
	if err != nil {
		c.logger().WithError(err).WithField("op", "series").WithField("slug", slug).Warn("series 解析失败，使用 slug 推导的默认值")
		return FallbackSeries(slug)
	}
	return info
}

// FallbackSeries 仅由 slug 推导 SeriesInfo（title = SlugToTitle，其余为空）。
func FallbackSeries(slug string) domain.SeriesInfo {
	return domain.SeriesInfo{Title: normalize.SlugToTitle(slug)}
}

// ParseSeries 把 series 页面 HTML 解析为 SeriesInfo。
// 页面带有站点级“不存在”标记时返回 *provider.NotFoundError。
func (c *Client) ParseSeries(slug string, html []byte) (domain.SeriesInfo, error) {
	root, err := parseDoc(html)
	if err != nil {
		return domain.SeriesInfo{}, err
	}
	if seriesNotFoundSel.Exists(root) {
		return domain.SeriesInfo{}, &provider.NotFoundError{What: "series", Path: c.Site.SeriesPath(slug)}
	}

	title := normSpace(seriesTitleSel.Text(root))
	if title == "" {
		title = normalize.SlugToTitle(slug)
	}

	desc := ""
	if d := seriesDescSel.First(root); d.Length() > 0 {
		// 截断的简介会把全文放在 data-full-description 里。
		desc = provider.AttrAny(d, "data-full-description")
		if desc == "" {
			desc = normSpace(d.Text())
		}
	}

	thumb := c.Site.Abs(provider.AttrAny(seriesCoverSel.First(root), "data-src", "src"))

	return domain.SeriesInfo{
		Title:       title,
		Description: desc,
		Thumbnail:   thumb,
		Banner:      thumb,
	}, nil
}
