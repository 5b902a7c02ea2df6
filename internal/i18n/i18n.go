// Package i18n loads the translation catalogs. Each locale is one YAML file
// of nested keys which are flattened to dotted keys ("nav.home"). Lookups
// fall back to the default locale, then to the key itself.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var embedded embed.FS

// Catalog maps locale -> key -> message. Read-only after loading.
type Catalog struct {
	messages map[string]map[string]string
	fallback string
}

// LoadEmbedded loads the catalogs compiled into the binary.
func LoadEmbedded(fallback string) (*Catalog, error) {
	return LoadFS(embedded, fallback)
}

// LoadFS loads every locales/<tag>.yaml file from fsys. The fallback locale
// must be present.
func LoadFS(fsys fs.FS, fallback string) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("globbing catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}

	c := &Catalog{messages: make(map[string]map[string]string, len(paths)), fallback: fallback}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("reading catalog %s: %w", p, err)
		}

		var tree map[string]any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("parsing catalog %s: %w", p, err)
		}

		flat := make(map[string]string)
		if err := flatten("", tree, flat); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", p, err)
		}
		tag := strings.ToLower(strings.TrimSuffix(path.Base(p), ".yaml"))
		c.messages[tag] = flat
	}

	if _, ok := c.messages[fallback]; !ok {
		return nil, fmt.Errorf("fallback locale %q has no catalog", fallback)
	}
	return c, nil
}

// flatten walks the YAML tree and writes dotted keys into out.
func flatten(prefix string, node map[string]any, out map[string]string) error {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]any:
			if err := flatten(key, val, out); err != nil {
				return err
			}
		case nil:
			out[key] = ""
		case int, int64, float64, bool:
			out[key] = fmt.Sprint(val)
		default:
			return fmt.Errorf("key %q: unsupported value type %T", key, v)
		}
	}
	return nil
}

// Lookup returns the message for key in locale, falling back to the default
// locale and finally to the key.
func (c *Catalog) Lookup(locale, key string) string {
	if msg, ok := c.messages[locale][key]; ok {
		return msg
	}
	if msg, ok := c.messages[c.fallback][key]; ok {
		return msg
	}
	return key
}

// Messages returns a copy of all messages of one locale.
func (c *Catalog) Messages(locale string) map[string]string {
	src := c.messages[locale]
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Locales lists the locales that have a catalog, sorted.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.messages))
	for tag := range c.messages {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Has reports whether locale has a catalog.
func (c *Catalog) Has(locale string) bool {
	_, ok := c.messages[locale]
	return ok
}
