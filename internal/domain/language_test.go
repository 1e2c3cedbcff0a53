package domain

import (
	"encoding/json"
	"testing"

	"github.com/samber/mo"
)

func TestLanguagePair_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(UnknownLanguage())
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if string(b) != `{"audio":"Unknown","subtitle":null}` {
		t.Fatalf("输出不符合预期：%s", b)
	}

	p := LanguagePair{Audio: LanguageGerman, Subtitle: mo.Some(LanguageEnglishSub)}
	b, err = json.Marshal(p)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if string(b) != `{"audio":"German","subtitle":"EnglishSub"}` {
		t.Fatalf("输出不符合预期：%s", b)
	}
}

func TestNewPage_NilBecomesEmpty(t *testing.T) {
	b, err := json.Marshal(NewPage[CatalogEntry](nil))
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if string(b) != `{"items":[],"has_more":false}` {
		t.Fatalf("输出不符合预期：%s", b)
	}
}
