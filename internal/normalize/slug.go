// Package normalize 把站点上不一致的原始字符串映射为稳定的领域值。
//
// 这里的函数都是纯函数：相同输入 => 相同输出，且不会失败。
package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SlugToTitle 把 URL slug 还原为展示标题："the-series-name" => "The Series Name"。
// 只把每个词的首字母转大写，其余字符保持原样。
func SlugToTitle(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// slugDropped 是 TitleToSlug 直接丢弃的字符（变音字母不做音译）。
var slugDropped = map[rune]struct{}{
	':': {}, ',': {}, '(': {}, ')': {}, '~': {}, '.': {}, '&': {}, '\'': {}, '+': {}, '!': {},
	'ü': {}, 'ä': {}, 'ö': {},
}

// TitleToSlug 把标题转换为站点 slug（用于匹配/规范化）。
//
// 规则：转小写；丢弃 slugDropped 中的字符；连续空格折叠为一个 '-'；'ß' 转写为 "ss"。
// 这是有损变换，与 SlugToTitle 不互逆。
func TitleToSlug(title string) string {
	var b strings.Builder
	lastWasDash := false
	for _, r := range strings.ToLower(title) {
		if _, ok := slugDropped[r]; ok {
			continue
		}
		switch r {
		case ' ':
			if !lastWasDash {
				b.WriteByte('-')
				lastWasDash = true
			}
			continue
		case 'ß':
			b.WriteString("ss")
		default:
			b.WriteRune(r)
		}
		lastWasDash = false
	}
	return b.String()
}
