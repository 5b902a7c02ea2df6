// Package pages holds the public marketing pages and the shared error page.
// Plugin-specific pages live next to their handlers.
package pages

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"

	"github.com/keyxmakerx/showcase/internal/templates/layouts"
)

// landingSections are the catalog key prefixes of the landing page blocks,
// in display order.
var landingSections = []string{"services", "approach", "work"}

// Landing renders the home page.
func Landing() templ.Component {
	return layouts.Base("landing.title", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := layouts.NewPrinter(w)
		p.Printf(`<section class="hero"><h1>%s</h1><p class="lead">%s</p>`,
			layouts.Esc(layouts.T(ctx, "landing.hero.title")),
			layouts.Esc(layouts.T(ctx, "landing.hero.lead")))
		p.Printf(`<a class="btn btn-primary" href="/contact">%s</a></section>`,
			layouts.Esc(layouts.T(ctx, "landing.hero.cta")))
		for _, s := range landingSections {
			p.Printf(`<section id="%s" class="feature"><h2>%s</h2><p>%s</p></section>`,
				s,
				layouts.Esc(layouts.T(ctx, "landing."+s+".title")),
				layouts.Esc(layouts.T(ctx, "landing."+s+".body")))
		}
		return p.Err()
	}))
}

// ErrorPage renders a full-page error for browser requests.
func ErrorPage(code int, message string) templ.Component {
	return layouts.Base("error.title", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := layouts.NewPrinter(w)
		p.Printf(`<section class="error-page"><h1>%d %s</h1><p>%s</p><a href="/">%s</a></section>`,
			code,
			layouts.Esc(http.StatusText(code)),
			layouts.Esc(message),
			layouts.Esc(layouts.T(ctx, "error.back_home")))
		return p.Err()
	}))
}
