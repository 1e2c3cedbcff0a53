// Package app 把站点路由与各个 resolver 组合成对外的 catalog 接口（CLI 与 HTTP API 共用）。
package app

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/John-Robertt/stoscrape/internal/domain"
	"github.com/John-Robertt/stoscrape/internal/normalize"
	"github.com/John-Robertt/stoscrape/internal/site"
)

// ErrUnsupported 表示站点不支持该功能（例如频道内搜索）。
var ErrUnsupported = errors.New("不支持的操作")

// Resolver 是 catalog 依赖的页面解析能力（由 sto.Client 实现）。
// 约束：所有方法永不失败，失败时由实现自行降级为默认值。
type Resolver interface {
	Home(ctx context.Context) []domain.CatalogEntry
	Search(ctx context.Context, query string) []domain.CatalogEntry
	Series(ctx context.Context, slug string) domain.SeriesInfo
	Episodes(ctx context.Context, slug string) []domain.CatalogEntry
	Episode(ctx context.Context, ref domain.EpisodeRef) domain.EpisodeInfo
}

// SearchCapabilities 描述搜索支持的 feed 类型、排序与过滤器。
type SearchCapabilities struct {
	Types   []string `json:"types"`
	Sorts   []string `json:"sorts"`
	Filters []string `json:"filters"`
}

// Catalog 按 URL 分类把请求分发给对应的 resolver。
//
// 错误语义：
// - URL 不符合操作要求的语法 => *site.InputError（直接返回）
// - 抓取失败/站点不存在 => 已在 Resolver 内降级，不会出现在这里
type Catalog struct {
	Site site.Site
	Src  Resolver
	Log  logrus.FieldLogger
}

func NewCatalog(s site.Site, src Resolver, log logrus.FieldLogger) *Catalog {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Catalog{Site: s, Src: src, Log: log}
}

func (c *Catalog) Home(ctx context.Context) domain.Page[domain.CatalogEntry] {
	return domain.NewPage(c.Src.Home(ctx))
}

func (c *Catalog) Search(ctx context.Context, query string) domain.Page[domain.CatalogEntry] {
	return domain.NewPage(c.Src.Search(ctx, query))
}

// SearchSuggestions 恒为空：站点没有联想接口。
func (c *Catalog) SearchSuggestions(ctx context.Context, query string) []string {
	return []string{}
}

// SearchCapabilities：单一混合 feed，按时间排序，无过滤器。
func (c *Catalog) SearchCapabilities() SearchCapabilities {
	return SearchCapabilities{
		Types:   []string{"mixed"},
		Sorts:   []string{"chronological"},
		Filters: []string{},
	}
}

func (c *Catalog) SearchChannels(ctx context.Context, query string) domain.Page[domain.Channel] {
	return domain.NewPage[domain.Channel](nil)
}

func (c *Catalog) SearchChannelContents(ctx context.Context, channelURL, query string) (domain.Page[domain.CatalogEntry], error) {
	return domain.Page[domain.CatalogEntry]{}, ErrUnsupported
}

func (c *Catalog) Classify(raw string) site.Kind { return c.Site.Classify(raw) }

func (c *Catalog) IsChannelURL(raw string) bool { return c.Site.IsSeriesURL(raw) }

func (c *Catalog) IsContentDetailsURL(raw string) bool { return c.Site.IsEpisodeURL(raw) }

// Channel 返回 series 对应的 channel。raw 可以是任意站内 series/season/episode URL。
func (c *Catalog) Channel(ctx context.Context, raw string) (domain.Channel, error) {
	slug, err := c.Site.SeriesSlug(raw)
	if err != nil {
		return domain.Channel{}, err
	}
	info := c.Src.Series(ctx, slug)
	return domain.Channel{
		ID:          domain.PlatformID{Platform: c.Site.Platform(), Value: c.Site.SeriesPath(slug)},
		Name:        info.Title,
		Thumbnail:   info.Thumbnail,
		Banner:      info.Banner,
		Subscribers: 0,
		Description: info.Description,
		URL:         c.Site.SeriesURL(slug),
	}, nil
}

// ChannelContents 返回 series 的全部 episode（season-major 顺序）。
func (c *Catalog) ChannelContents(ctx context.Context, raw string) (domain.Page[domain.CatalogEntry], error) {
	slug, err := c.Site.SeriesSlug(raw)
	if err != nil {
		return domain.Page[domain.CatalogEntry]{}, err
	}
	return domain.NewPage(c.Src.Episodes(ctx, slug)), nil
}

// ContentDetails 解析 episode URL 并组合 series 与 episode 两个页面的信息。
//
// 约束：
// - raw 必须匹配 episode 语法，否则返回 *site.InputError（不猜测）
// - name 优先 episode 标题，否则为 "<series title> - S<s>E<e>"
// - description 优先 series 简介，其次 episode 简介
func (c *Catalog) ContentDetails(ctx context.Context, raw string) (domain.EpisodeDetails, error) {
	ref, err := c.Site.ParseEpisodeURL(raw)
	if err != nil {
		return domain.EpisodeDetails{}, err
	}
	c.Log.WithField("op", "details").WithField("url", raw).Debug("解析 episode")

	series := c.Src.Series(ctx, ref.Slug)
	ep := c.Src.Episode(ctx, ref)

	name := ep.Title
	if name == "" {
		name = series.Title + " - " + ref.Label()
	}
	desc := series.Description
	if desc == "" {
		desc = ep.Description
	}
	streams := ep.Streams
	if streams == nil {
		streams = []domain.StreamDescriptor{}
	}

	return domain.EpisodeDetails{
		CatalogEntry: domain.CatalogEntry{
			ID:        domain.PlatformID{Platform: c.Site.Platform(), Value: ref.ID()},
			Name:      name,
			Thumbnail: series.Thumbnail,
			Author: domain.AuthorLink{
				ID:        domain.PlatformID{Platform: c.Site.Platform(), Value: c.Site.SeriesPath(ref.Slug)},
				Name:      series.Title,
				URL:       c.Site.SeriesURL(ref.Slug),
				Thumbnail: series.Thumbnail,
			},
			URL: c.Site.EpisodeURL(ref),
		},
		Description: desc,
		Duration:    0,
		Streams:     streams,
	}, nil
}

func (c *Catalog) Comments(ctx context.Context, raw string) domain.Page[domain.Comment] {
	return domain.NewPage[domain.Comment](nil)
}

func (c *Catalog) SubComments(ctx context.Context, parent domain.Comment) domain.Page[domain.Comment] {
	return domain.NewPage[domain.Comment](nil)
}

// SeriesRef 把命令行参数规范化为 series URL：
// 站内 URL 原样返回；其它文本视为标题，经 TitleToSlug 转为 slug。
func (c *Catalog) SeriesRef(arg string) string {
	arg = strings.TrimSpace(arg)
	if _, err := c.Site.SeriesSlug(arg); err == nil {
		return arg
	}
	if strings.Contains(arg, "://") || strings.HasPrefix(arg, "/") {
		return arg
	}
	slug := normalize.TitleToSlug(arg)
	if slug == "" {
		return arg
	}
	return c.Site.SeriesURL(slug)
}

// IsInputError 判断 err 是否为输入语法错误。
func IsInputError(err error) bool {
	var ie *site.InputError
	return errors.As(err, &ie)
}
