package normalize

import "testing"

func TestSlugToTitle(t *testing.T) {
	cases := map[string]string{
		"the-series-name": "The Series Name",
		"breaking-bad":    "Breaking Bad",
		"x":               "X",
		"":                "",
		"9-1-1":           "9 1 1",
		"über-uns":        "Über Uns",
	}
	for in, want := range cases {
		if got := SlugToTitle(in); got != want {
			t.Fatalf("SlugToTitle(%q)=%q，期望 %q", in, got, want)
		}
	}
}

func TestTitleToSlug(t *testing.T) {
	cases := map[string]string{
		"Breaking Bad":                   "breaking-bad",
		"Star Trek: The Next Generation": "star-trek-the-next-generation",
		"Mr. Robot":                      "mr-robot",
		"Marvel's Agents (2013)":         "marvels-agents-2013",
		"Tom & Jerry":                    "tom-jerry",
		"Die Straße":                     "die-strasse",
		"Schöne Grüße":                   "schne-grsse",
		"Spaces   Collapse":              "spaces-collapse",
		"Already-Dashed Title":           "already-dashed-title",
		"Wow!+~":                         "wow",
	}
	for in, want := range cases {
		if got := TitleToSlug(in); got != want {
			t.Fatalf("TitleToSlug(%q)=%q，期望 %q", in, got, want)
		}
	}
}

func TestSlugToTitle_Deterministic(t *testing.T) {
	a := SlugToTitle("the-series-name")
	b := SlugToTitle("the-series-name")
	if a != b {
		t.Fatalf("同一输入得到不同输出：%q vs %q", a, b)
	}
}
