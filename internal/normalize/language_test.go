package normalize

import (
	"testing"

	"github.com/samber/mo"

	"github.com/John-Robertt/stoscrape/internal/domain"
)

func TestDecodeLanguagePair(t *testing.T) {
	none := mo.None[domain.Language]()
	cases := []struct {
		in   string
		want domain.LanguagePair
	}{
		{"", domain.UnknownLanguage()},
		{"german.png", domain.UnknownLanguage()},
		{"xxxxxxxxxxx.png", domain.UnknownLanguage()},
		{"xxxxxxxxxxxgerman.png", domain.LanguagePair{Audio: domain.LanguageGerman, Subtitle: none}},
		{"xxxxxxxxxxxDEUTSCH.svg", domain.LanguagePair{Audio: domain.LanguageGerman, Subtitle: none}},
		{"xxxxxxxxxxx-german-.png", domain.LanguagePair{Audio: domain.LanguageGerman, Subtitle: none}},
		{"xxxxxxxxxxxgerman-englishsub.png", domain.LanguagePair{Audio: domain.LanguageGerman, Subtitle: mo.Some(domain.LanguageEnglishSub)}},
		{"xxxxxxxxxxxjapanese-germansub.svg", domain.LanguagePair{Audio: domain.LanguageUnknown, Subtitle: mo.Some(domain.LanguageGermanSub)}},
		{"xxxxxxxxxxxklingon.png", domain.LanguagePair{Audio: domain.LanguageUnknown, Subtitle: none}},
		{"xxxxxxxxxxxgerman-english-german.png", domain.UnknownLanguage()},
		{"xxxxxxxxxxx---.png", domain.UnknownLanguage()},
		{"äxxxxxxxxxxgerman.png", domain.LanguagePair{Audio: domain.LanguageGerman, Subtitle: none}},
		{"/ïmg/flägs/english-germansub.svg", domain.LanguagePair{Audio: domain.LanguageEnglish, Subtitle: mo.Some(domain.LanguageGermanSub)}},
		{"ääääääääää.png", domain.UnknownLanguage()},
	}
	for _, tc := range cases {
		if got := DecodeLanguagePair(tc.in); got != tc.want {
			t.Fatalf("DecodeLanguagePair(%q)=%+v，期望 %+v", tc.in, got, tc.want)
		}
	}
}

func TestDecodeLanguage(t *testing.T) {
	cases := map[string]domain.Language{
		"german":     domain.LanguageGerman,
		"Deutsch":    domain.LanguageGerman,
		"GermanSub":  domain.LanguageGermanSub,
		"english":    domain.LanguageEnglish,
		"ENGLISCH":   domain.LanguageEnglish,
		"englishsub": domain.LanguageEnglishSub,
		"japanese":   domain.LanguageUnknown,
		"":           domain.LanguageUnknown,
	}
	for in, want := range cases {
		if got := DecodeLanguage(in); got != want {
			t.Fatalf("DecodeLanguage(%q)=%q，期望 %q", in, got, want)
		}
	}
}
