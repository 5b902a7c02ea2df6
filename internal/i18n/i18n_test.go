package i18n

import (
	"testing"
	"testing/fstest"
)

func TestLoadEmbedded_HasSiteLocales(t *testing.T) {
	c, err := LoadEmbedded("nl")
	if err != nil {
		t.Fatalf("loading embedded catalogs: %v", err)
	}
	for _, tag := range []string{"nl", "en"} {
		if !c.Has(tag) {
			t.Errorf("missing catalog for %q", tag)
		}
	}
	if got := c.Lookup("en", "nav.contact"); got != "Contact" {
		t.Errorf("expected Contact, got %q", got)
	}
}

func TestLoadEmbedded_CatalogsHaveSameKeys(t *testing.T) {
	c, err := LoadEmbedded("nl")
	if err != nil {
		t.Fatalf("loading embedded catalogs: %v", err)
	}
	nl, en := c.Messages("nl"), c.Messages("en")
	for k := range nl {
		if _, ok := en[k]; !ok {
			t.Errorf("key %q missing from en", k)
		}
	}
	for k := range en {
		if _, ok := nl[k]; !ok {
			t.Errorf("key %q missing from nl", k)
		}
	}
}

func TestLookup_Fallbacks(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/nl.yaml": {Data: []byte("greeting:\n  hello: Hallo\nonly_nl: ja\n")},
		"locales/en.yaml": {Data: []byte("greeting:\n  hello: Hello\n")},
	}
	c, err := LoadFS(fsys, "nl")
	if err != nil {
		t.Fatalf("loading: %v", err)
	}

	if got := c.Lookup("en", "greeting.hello"); got != "Hello" {
		t.Errorf("expected Hello, got %q", got)
	}
	if got := c.Lookup("en", "only_nl"); got != "ja" {
		t.Errorf("expected fallback to nl, got %q", got)
	}
	if got := c.Lookup("fr", "greeting.hello"); got != "Hallo" {
		t.Errorf("expected fallback for unknown locale, got %q", got)
	}
	if got := c.Lookup("en", "missing.key"); got != "missing.key" {
		t.Errorf("expected key echo, got %q", got)
	}
}

func TestLoadFS_MissingFallback(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en.yaml": {Data: []byte("a: b\n")},
	}
	if _, err := LoadFS(fsys, "nl"); err == nil {
		t.Fatal("expected error when fallback catalog is missing")
	}
}

func TestLoadFS_RejectsLists(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/nl.yaml": {Data: []byte("items:\n  - one\n  - two\n")},
	}
	if _, err := LoadFS(fsys, "nl"); err == nil {
		t.Fatal("expected error for list values")
	}
}
