package normalize

import (
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/John-Robertt/stoscrape/internal/domain"
)

const (
	// 语言图标文件名的固定前缀/后缀长度，例如 "/public/img" + "<tokens>" + ".svg"。
	languagePrefixLen = 11
	languageSuffixLen = 4
	languageMinLen    = languagePrefixLen + languageSuffixLen
)

// DecodeLanguagePair 从语言图标的 src 中解析 {audio, subtitle}。
//
// 长度与偏移按字符（rune）计，而不是按字节。
//
//   - 长度 < 15：{Unknown, none}
//   - 去掉前 11 / 后 4 个字符后按 '-' 切分，丢弃空 token
//   - 1 个 token：{decode(t1), none}
//   - 2 个 token：{decode(t1), decode(t2)}
//   - 0 个或多于 2 个：{Unknown, none}（不做部分解析）
func DecodeLanguagePair(src string) domain.LanguagePair {
	runes := []rune(src)
	if len(runes) < languageMinLen {
		return domain.UnknownLanguage()
	}
	core := string(runes[languagePrefixLen : len(runes)-languageSuffixLen])
	tokens := lo.Compact(strings.Split(core, "-"))

	switch len(tokens) {
	case 1:
		return domain.LanguagePair{Audio: DecodeLanguage(tokens[0]), Subtitle: mo.None[domain.Language]()}
	case 2:
		return domain.LanguagePair{Audio: DecodeLanguage(tokens[0]), Subtitle: mo.Some(DecodeLanguage(tokens[1]))}
	default:
		return domain.UnknownLanguage()
	}
}

// DecodeLanguage 把单个语言 token（大小写不敏感）映射为 domain.Language。
func DecodeLanguage(token string) domain.Language {
	switch strings.ToLower(token) {
	case "german", "deutsch":
		return domain.LanguageGerman
	case "germansub":
		return domain.LanguageGermanSub
	case "english", "englisch":
		return domain.LanguageEnglish
	case "englishsub":
		return domain.LanguageEnglishSub
	default:
		return domain.LanguageUnknown
	}
}
