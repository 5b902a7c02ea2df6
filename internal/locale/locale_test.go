package locale

import (
	"testing"
)

func newTestSet(t *testing.T) *Set {
	t.Helper()
	set, err := NewSet([]string{"nl", "en"}, "nl")
	if err != nil {
		t.Fatalf("building locale set: %v", err)
	}
	return set
}

// --- NewSet ---

func TestNewSet_DefaultMustBeMember(t *testing.T) {
	if _, err := NewSet([]string{"nl", "en"}, "de"); err == nil {
		t.Fatal("expected error when default is not supported")
	}
}

func TestNewSet_Empty(t *testing.T) {
	if _, err := NewSet(nil, "en"); err == nil {
		t.Fatal("expected error for empty set")
	}
}

func TestNewSet_NormalizesAndDedupes(t *testing.T) {
	set, err := NewSet([]string{"EN-us", "en", "nl"}, "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := set.Supported()
	if len(got) != 2 || got[0] != "en" || got[1] != "nl" {
		t.Errorf("expected [en nl], got %v", got)
	}
}

// --- Resolve ---

func TestResolve_CookieWinsForEverySupportedTag(t *testing.T) {
	set := newTestSet(t)
	headers := []string{"", "en", "nl", "de-DE,fr;q=0.2", "garbage;;;q=x"}

	for _, loc := range set.Supported() {
		for _, h := range headers {
			if got := set.Resolve(string(loc), h); got != loc {
				t.Errorf("cookie %q header %q: expected %q, got %q", loc, h, loc, got)
			}
		}
	}
}

func TestResolve_UnsupportedCookieFallsThrough(t *testing.T) {
	set := newTestSet(t)
	if got := set.Resolve("de", "en"); got != "en" {
		t.Errorf("expected en, got %q", got)
	}
	// Membership is exact; the cookie is not normalized.
	if got := set.Resolve("EN", ""); got != "nl" {
		t.Errorf("expected default nl, got %q", got)
	}
}

func TestResolve_HeaderPrimarySubtag(t *testing.T) {
	set := newTestSet(t)
	if got := set.Resolve("", "en-US,en;q=0.9,nl;q=0.8"); got != "en" {
		t.Errorf("expected en, got %q", got)
	}
}

func TestResolve_QualityOrderBeatsHeaderOrder(t *testing.T) {
	set := newTestSet(t)
	if got := set.Resolve("", "nl;q=0.5,en;q=0.9"); got != "en" {
		t.Errorf("expected en, got %q", got)
	}
}

func TestResolve_EmptyHeaderYieldsDefault(t *testing.T) {
	set := newTestSet(t)
	for _, h := range []string{"", "   ", ",,,"} {
		if got := set.Resolve("", h); got != "nl" {
			t.Errorf("header %q: expected default nl, got %q", h, got)
		}
	}
}

func TestResolve_NoMatchYieldsDefault(t *testing.T) {
	set := newTestSet(t)
	if got := set.Resolve("", "de-DE,fr;q=0.8,*;q=0.1"); got != "nl" {
		t.Errorf("expected default nl, got %q", got)
	}
}

func TestResolve_MalformedQualityIsOne(t *testing.T) {
	set := newTestSet(t)
	// en has an unparseable q, so it ranks as 1.0 ahead of nl at 0.9.
	if got := set.Resolve("", "nl;q=0.9,en;q=abc"); got != "en" {
		t.Errorf("expected en, got %q", got)
	}
}

func TestResolve_CaseInsensitiveHeaderTags(t *testing.T) {
	set := newTestSet(t)
	if got := set.Resolve("", "EN-GB"); got != "en" {
		t.Errorf("expected en, got %q", got)
	}
}

// --- ParseAcceptLanguage ---

func TestParseAcceptLanguage_StableTies(t *testing.T) {
	got := ParseAcceptLanguage("fr, de;q=0.7, nl, en;q=0.7")
	want := []Weighted{
		{Tag: "fr", Quality: 1},
		{Tag: "nl", Quality: 1},
		{Tag: "de", Quality: 0.7},
		{Tag: "en", Quality: 0.7},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestParseAcceptLanguage_OddParameters(t *testing.T) {
	cases := []struct {
		header string
		want   float64
	}{
		{"en;q=", 1},
		{"en;q=NaN", 1},
		{"en;q=Inf", 1},
		{"en; Q = 0.3", 0.3},
		{"en;level=1;q=0.4", 0.4},
		{"en;q=0", 0},
	}
	for _, tc := range cases {
		got := ParseAcceptLanguage(tc.header)
		if len(got) != 1 {
			t.Fatalf("%q: expected one entry, got %v", tc.header, got)
		}
		if got[0].Quality != tc.want {
			t.Errorf("%q: expected q=%v, got %v", tc.header, tc.want, got[0].Quality)
		}
	}
}

func TestLabel(t *testing.T) {
	set := newTestSet(t)
	if got := set.Label("nl"); got != "Nederlands" {
		t.Errorf("expected Nederlands, got %q", got)
	}
	if got := set.Label("xx"); got != "xx" {
		t.Errorf("expected fallback to tag, got %q", got)
	}
}
