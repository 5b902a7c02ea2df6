// Package locale negotiates the active display language for a request. The
// explicit locale cookie wins, then the weighted Accept-Language header,
// then the configured default. The resolver never returns a tag outside the
// supported set.
package locale

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Locale is a supported language tag such as "nl" or "en".
type Locale string

// String implements fmt.Stringer.
func (l Locale) String() string {
	return string(l)
}

// Set is the fixed collection of supported locales plus the default. Built
// once at startup from configuration and never mutated afterwards, so it is
// safe to share across request goroutines.
type Set struct {
	ordered []Locale
	members map[Locale]language.Tag
	def     Locale
}

// NewSet validates the configured tags and default. Tags are lower-cased
// primary subtags; each must parse as a BCP 47 language and the default
// must be one of them.
func NewSet(tags []string, def string) (*Set, error) {
	if len(tags) == 0 {
		return nil, fmt.Errorf("locale set is empty")
	}

	s := &Set{members: make(map[Locale]language.Tag, len(tags))}
	for _, raw := range tags {
		primary := primarySubtag(raw)
		if primary == "" {
			return nil, fmt.Errorf("invalid locale tag %q", raw)
		}
		tag, err := language.Parse(primary)
		if err != nil {
			return nil, fmt.Errorf("parsing locale tag %q: %w", raw, err)
		}
		loc := Locale(primary)
		if _, dup := s.members[loc]; dup {
			continue
		}
		s.members[loc] = tag
		s.ordered = append(s.ordered, loc)
	}

	d := Locale(primarySubtag(def))
	if _, ok := s.members[d]; !ok {
		return nil, fmt.Errorf("default locale %q is not in the supported set %v", def, s.ordered)
	}
	s.def = d

	return s, nil
}

// Default returns the fallback locale.
func (s *Set) Default() Locale {
	return s.def
}

// Supported returns the supported locales in configured order.
func (s *Set) Supported() []Locale {
	out := make([]Locale, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// Contains reports whether value is exactly a supported tag.
func (s *Set) Contains(value string) bool {
	_, ok := s.members[Locale(value)]
	return ok
}

// Label returns the language's name in its own language, e.g. "Nederlands"
// for "nl". Used by the language switcher.
func (s *Set) Label(l Locale) string {
	tag, ok := s.members[l]
	if !ok {
		return string(l)
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return string(l)
}

// Resolve picks the locale for a request from the explicit cookie value and
// the Accept-Language header value. Either may be empty.
func (s *Set) Resolve(cookie, acceptLanguage string) Locale {
	if s.Contains(cookie) {
		return Locale(cookie)
	}

	for _, w := range ParseAcceptLanguage(acceptLanguage) {
		if candidate := Locale(primarySubtag(w.Tag)); s.Contains(string(candidate)) {
			return candidate
		}
	}

	return s.def
}

// Weighted is one entry of an Accept-Language header.
type Weighted struct {
	Tag     string
	Quality float64
}

// ParseAcceptLanguage splits the header into (tag, quality) pairs ordered by
// quality, highest first. Equal qualities keep header order. A missing or
// malformed q parameter counts as 1.0. Never fails; garbage yields garbage
// tags that simply won't match anything.
func ParseAcceptLanguage(header string) []Weighted {
	if strings.TrimSpace(header) == "" {
		return nil
	}

	var out []Weighted
	for _, entry := range strings.Split(header, ",") {
		params := strings.Split(entry, ";")
		tag := strings.TrimSpace(params[0])
		if tag == "" {
			continue
		}
		out = append(out, Weighted{Tag: tag, Quality: parseQuality(params[1:])})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Quality > out[j].Quality
	})
	return out
}

// parseQuality reads the q parameter from a header entry's parameters.
func parseQuality(params []string) float64 {
	for _, p := range params {
		key, val, ok := strings.Cut(strings.TrimSpace(p), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "q") {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil || math.IsNaN(q) || math.IsInf(q, 0) {
			return 1.0
		}
		return q
	}
	return 1.0
}

// primarySubtag returns the lower-cased part of tag before the first '-'.
func primarySubtag(tag string) string {
	tag = strings.TrimSpace(tag)
	if i := strings.IndexByte(tag, '-'); i >= 0 {
		tag = tag[:i]
	}
	return strings.ToLower(tag)
}
