package domain

// PlatformID 是条目在站点内的稳定标识。
//
// 约束：Value 对同一资源必须稳定（series 用站内路径，episode 用 <slug>-s<S>e<E>）。
type PlatformID struct {
	Platform string `json:"platform"`
	Value    string `json:"value"`
}

// AuthorLink 指向条目所属的 series（在宿主对象模型中即 channel）。
type AuthorLink struct {
	ID        PlatformID `json:"id"`
	Name      string     `json:"name"`
	URL       string     `json:"url"`
	Thumbnail string     `json:"thumbnail"`
}

// CatalogEntry 是 home/search/episode 列表中的一条记录。
// 每次调用都重新构建，构建后不再修改。
type CatalogEntry struct {
	ID        PlatformID `json:"id"`
	Name      string     `json:"name"`
	Thumbnail string     `json:"thumbnail,omitempty"` // 零或一个缩略图
	Author    AuthorLink `json:"author"`
	URL       string     `json:"url"`
}

// SeriesInfo 是从 series 页面解析出的元数据。
//
// Thumbnail 与 Banner 目前来自同一个图片字段（站点未提供独立 banner）。
type SeriesInfo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Banner      string `json:"banner"`
}

// Channel 是携带 SeriesInfo 的频道对象。
type Channel struct {
	ID          PlatformID `json:"id"`
	Name        string     `json:"name"`
	Thumbnail   string     `json:"thumbnail"`
	Banner      string     `json:"banner"`
	Subscribers int        `json:"subscribers"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
}

// EpisodeInfo 是从 episode 页面解析出的元数据。
// Duration 恒为 0：站点不提供时长，不做估算。
type EpisodeInfo struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Duration    int                `json:"duration"`
	Streams     []StreamDescriptor `json:"streams"`
}

// StreamDescriptor 描述一个 hoster 播放入口。
//
// 约束：WatchURL 必须是绝对 URL。
type StreamDescriptor struct {
	Hoster   Hoster       `json:"hoster"`
	Language LanguagePair `json:"language"`
	WatchURL string       `json:"watch_url"`
}

// EpisodeDetails 是 content details：episode 元数据 + series 信息 + stream 列表。
type EpisodeDetails struct {
	CatalogEntry
	Description string             `json:"description"`
	Duration    int                `json:"duration"`
	Streams     []StreamDescriptor `json:"streams"`
}

// Page 是分页结果的包装。本站不实现分页游标，HasMore 恒为 false。
type Page[T any] struct {
	Items   []T  `json:"items"`
	HasMore bool `json:"has_more"`
}

// NewPage 构造单页结果；nil 统一为空切片，保证 JSON 输出为 []。
func NewPage[T any](items []T) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, HasMore: false}
}

// Comment 是评论条目。站点没有评论区，目前只作为空分页的元素类型出现。
type Comment struct {
	ID      PlatformID `json:"id"`
	Author  AuthorLink `json:"author"`
	Message string     `json:"message"`
	URL     string     `json:"url"`
}
