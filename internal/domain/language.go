package domain

import (
	"encoding/json"

	"github.com/samber/mo"
)

// Language 是封闭的语言枚举；无法识别的输入一律映射为 LanguageUnknown。
type Language string

const (
	LanguageGerman     Language = "German"
	LanguageGermanSub  Language = "GermanSub"
	LanguageEnglish    Language = "English"
	LanguageEnglishSub Language = "EnglishSub"
	LanguageUnknown    Language = "Unknown"
)

// LanguagePair 是一个 stream 的音轨语言 + 可选字幕语言。
type LanguagePair struct {
	Audio    Language
	Subtitle mo.Option[Language]
}

// UnknownLanguage 返回 {Unknown, none}。
func UnknownLanguage() LanguagePair {
	return LanguagePair{Audio: LanguageUnknown, Subtitle: mo.None[Language]()}
}

// MarshalJSON 输出 {"audio": "...", "subtitle": "..."|null}。
func (p LanguagePair) MarshalJSON() ([]byte, error) {
	out := struct {
		Audio    Language  `json:"audio"`
		Subtitle *Language `json:"subtitle"`
	}{Audio: p.Audio}
	if sub, ok := p.Subtitle.Get(); ok {
		out.Subtitle = &sub
	}
	return json.Marshal(out)
}

// Hoster 是封闭的 hoster 枚举。
type Hoster string

const (
	HosterVOE        Hoster = "VOE"
	HosterDoodstream Hoster = "Doodstream"
	HosterVidoza     Hoster = "Vidoza"
	HosterStreamtape Hoster = "Streamtape"
	HosterVidmoly    Hoster = "Vidmoly"
	HosterUnknown    Hoster = "Unknown"
)
