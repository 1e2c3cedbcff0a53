// Package sto 实现 S.to / AniWorld 这类模板站点的页面解析与资源发现。
//
// 约束：
// - ParseXxx 是纯函数：只依赖 Site + html，相同输入 => 相同输出
// - Client 的 resolver 方法对调用方“永不失败”：抓取失败/站点不存在一律降级为默认值
// - 所有网络请求严格串行，每个页面只请求一次
package sto

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/John-Robertt/stoscrape/internal/domain"
	"github.com/John-Robertt/stoscrape/internal/provider"
	"github.com/John-Robertt/stoscrape/internal/site"
)

// Client 把站点身份、抓取器与日志绑定在一起；本身无可变状态，可并发复用。
type Client struct {
	Site    site.Site
	Fetcher provider.Fetcher
	Log     logrus.FieldLogger
}

func New(s site.Site, f provider.Fetcher, log logrus.FieldLogger) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{Site: s, Fetcher: f, Log: log}
}

func (c *Client) logger() logrus.FieldLogger {
	if c.Log == nil {
		return logrus.StandardLogger()
	}
	return c.Log
}

func parseDoc(html []byte) (*goquery.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}
	return doc.Selection, nil
}

// seriesEntry 构造一条 series 级别的 CatalogEntry（home/search 共用）。
// 能识别出 slug 的 href（相对或绝对）一律以 series 规范路径作为 ID。
func (c *Client) seriesEntry(href, title, thumb string) domain.CatalogEntry {
	value := href
	if slug, err := c.Site.SeriesSlug(href); err == nil {
		value = c.Site.SeriesPath(slug)
	}
	id := domain.PlatformID{Platform: c.Site.Platform(), Value: value}
	abs := c.Site.Abs(href)
	return domain.CatalogEntry{
		ID:        id,
		Name:      title,
		Thumbnail: thumb,
		Author: domain.AuthorLink{
			ID:        id,
			Name:      title,
			URL:       abs,
			Thumbnail: thumb,
		},
		URL: abs,
	}
}

// seriesAuthor 返回指向 series 的 AuthorLink（series 的标识是其规范路径）。
func (c *Client) seriesAuthor(slug, title, thumb string) domain.AuthorLink {
	return domain.AuthorLink{
		ID:        domain.PlatformID{Platform: c.Site.Platform(), Value: c.Site.SeriesPath(slug)},
		Name:      title,
		URL:       c.Site.SeriesURL(slug),
		Thumbnail: thumb,
	}
}

func normSpace(s string) string { return strings.Join(strings.Fields(s), " ") }

// firstInt 提取第一段连续数字（"Folge 12" => 12）；没有数字时返回 0。
func firstInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			break
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, _ := strconv.Atoi(b.String())
	return n
}
