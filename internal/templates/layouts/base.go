package layouts

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"
)

// Base wraps body in the site shell: html lang attribute, navigation with the
// language switcher, and the footer. title is a catalog key.
func Base(titleKey string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		ew := NewPrinter(w)
		ew.Printf(`<!DOCTYPE html><html lang="%s"><head><meta charset="utf-8">`, Esc(GetLocale(ctx)))
		ew.Printf(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		if token := GetCSRFToken(ctx); token != "" {
			ew.Printf(`<meta name="csrf-token" content="%s">`, Esc(token))
		}
		ew.Printf(`<title>%s | %s</title>`, Esc(T(ctx, titleKey)), Esc(T(ctx, "site.name")))
		ew.Printf(`<link rel="stylesheet" href="/static/css/site.css"></head><body>`)
		if err := writeNav(ctx, ew); err != nil {
			return err
		}
		ew.Printf(`<main>`)
		if key := GetFlashSuccess(ctx); key != "" {
			ew.Printf(`<div class="flash flash-success" role="status">%s</div>`, Esc(T(ctx, key)))
		}
		if ew.Err() != nil {
			return ew.Err()
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		ew.Printf(`</main><footer><p>%s</p></footer></body></html>`, Esc(T(ctx, "site.footer")))
		return ew.Err()
	})
}

// writeNav renders the top navigation and language switcher.
func writeNav(ctx context.Context, ew *Printer) error {
	path := GetActivePath(ctx)
	ew.Printf(`<nav class="site-nav"><a href="/" class="brand">%s</a><ul>`, Esc(T(ctx, "site.name")))
	for _, link := range []struct{ href, key string }{
		{"/", "nav.home"},
		{"/contact", "nav.contact"},
	} {
		class := ""
		if path == link.href {
			class = ` class="active"`
		}
		ew.Printf(`<li><a href="%s"%s>%s</a></li>`, link.href, class, Esc(T(ctx, link.key)))
	}
	if IsAdmin(ctx) {
		ew.Printf(`<li><a href="/admin">%s</a></li>`, Esc(T(ctx, "nav.admin")))
	}
	ew.Printf(`</ul><ul class="languages">`)
	for _, opt := range GetLanguages(ctx) {
		if opt.Active {
			ew.Printf(`<li><strong lang="%s">%s</strong></li>`, Esc(opt.Tag), Esc(opt.Label))
			continue
		}
		ew.Printf(`<li><a lang="%s" href="%s">%s</a></li>`,
			Esc(opt.Tag), Esc(templ.URL("/locale/"+opt.Tag+"?next="+url.QueryEscape(path))), Esc(opt.Label))
	}
	ew.Printf(`</ul></nav>`)
	return ew.Err()
}

// Printer remembers the first write error so component bodies can stay
// linear. Used by page components in other packages as well.
type Printer struct {
	w   io.Writer
	err error
}

// NewPrinter wraps w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Printf writes formatted output unless an earlier write failed.
func (p *Printer) Printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// Err returns the first write error.
func (p *Printer) Err() error {
	return p.err
}

// Esc HTML-escapes user and catalog text.
func Esc(s any) string {
	switch v := s.(type) {
	case string:
		return templ.EscapeString(v)
	case templ.SafeURL:
		return templ.EscapeString(string(v))
	default:
		return templ.EscapeString(fmt.Sprint(v))
	}
}
