package domain

import (
	"errors"
	"fmt"
	"strings"
)

// EpisodeRef 唯一标识一集：(series slug, season, episode)。
//
// 约束：Slug 非空且不含 '/'；Season/Episode 从 1 开始。
type EpisodeRef struct {
	Slug    string
	Season  int
	Episode int
}

func (r EpisodeRef) Validate() error {
	if strings.TrimSpace(r.Slug) == "" {
		return errors.New("slug 不能为空")
	}
	if strings.ContainsAny(r.Slug, "/?#") {
		return fmt.Errorf("非法 slug：%q", r.Slug)
	}
	if r.Season < 1 {
		return fmt.Errorf("season 必须 >= 1，实际 %d", r.Season)
	}
	if r.Episode < 1 {
		return fmt.Errorf("episode 必须 >= 1，实际 %d", r.Episode)
	}
	return nil
}

// ID 返回 episode 的稳定标识：<slug>-s<season>e<episode>。
func (r EpisodeRef) ID() string {
	return fmt.Sprintf("%s-s%de%d", r.Slug, r.Season, r.Episode)
}

// Label 返回形如 S1E2 的短标签。
func (r EpisodeRef) Label() string {
	return fmt.Sprintf("S%dE%d", r.Season, r.Episode)
}
