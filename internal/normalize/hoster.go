package normalize

import (
	"strings"

	"github.com/John-Robertt/stoscrape/internal/domain"
)

var hosters = map[string]domain.Hoster{
	"voe":        domain.HosterVOE,
	"doodstream": domain.HosterDoodstream,
	"vidoza":     domain.HosterVidoza,
	"streamtape": domain.HosterStreamtape,
	"vidmoly":    domain.HosterVidmoly,
}

// DecodeHoster 按名称（大小写不敏感、精确匹配）识别 hoster；其它一律 HosterUnknown。
func DecodeHoster(name string) domain.Hoster {
	if h, ok := hosters[strings.ToLower(name)]; ok {
		return h
	}
	return domain.HosterUnknown
}
