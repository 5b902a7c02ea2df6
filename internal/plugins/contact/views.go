package contact

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/keyxmakerx/showcase/internal/plugins/admin"
	"github.com/keyxmakerx/showcase/internal/templates/layouts"
)

// ContactPage renders the contact form. form repopulates the fields after a
// failed submission; errs maps field names to catalog keys.
func ContactPage(form SubmitRequest, errs map[string]string) templ.Component {
	return layouts.Base("contact.title", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := layouts.NewPrinter(w)
		p.Printf(`<section class="contact"><h1>%s</h1><p>%s</p>`,
			layouts.Esc(layouts.T(ctx, "contact.title")),
			layouts.Esc(layouts.T(ctx, "contact.intro")))
		p.Printf(`<form method="post" action="/contact" novalidate>`)
		p.Printf(`<input type="hidden" name="csrf_token" value="%s">`, layouts.Esc(layouts.GetCSRFToken(ctx)))
		writeField(ctx, p, "name", "text", form.Name, errs)
		writeField(ctx, p, "email", "email", form.Email, errs)

		p.Printf(`<label for="message">%s</label>`, layouts.Esc(layouts.T(ctx, "contact.message")))
		p.Printf(`<textarea id="message" name="message" rows="8" maxlength="%d" required>%s</textarea>`,
			maxMessageLength, layouts.Esc(form.Message))
		writeFieldError(ctx, p, errs["message"])

		p.Printf(`<button type="submit" class="btn btn-primary">%s</button></form></section>`,
			layouts.Esc(layouts.T(ctx, "contact.submit")))
		return p.Err()
	}))
}

func writeField(ctx context.Context, p *layouts.Printer, name, typ, value string, errs map[string]string) {
	p.Printf(`<label for="%s">%s</label>`, name, layouts.Esc(layouts.T(ctx, "contact."+name)))
	p.Printf(`<input id="%s" name="%s" type="%s" value="%s" required>`, name, name, typ, layouts.Esc(value))
	writeFieldError(ctx, p, errs[name])
}

func writeFieldError(ctx context.Context, p *layouts.Printer, key string) {
	if key == "" {
		return
	}
	p.Printf(`<p class="field-error" role="alert">%s</p>`, layouts.Esc(layouts.T(ctx, key)))
}

// InboxPage renders the admin dashboard: newest submissions first.
func InboxPage(msgs []Message, total, page, perPage int) templ.Component {
	return layouts.Base("admin.dashboard.title", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := layouts.NewPrinter(w)
		p.Printf(`<section class="admin-inbox"><header><h1>%s</h1>`, layouts.Esc(layouts.T(ctx, "admin.dashboard.title")))
		if err := p.Err(); err != nil {
			return err
		}
		if err := admin.LogoutButton().Render(ctx, w); err != nil {
			return err
		}
		p.Printf(`</header>`)

		if len(msgs) == 0 {
			p.Printf(`<p class="empty">%s</p></section>`, layouts.Esc(layouts.T(ctx, "admin.dashboard.empty")))
			return p.Err()
		}

		p.Printf(`<table><thead><tr><th>%s</th><th>%s</th><th></th><th></th></tr></thead><tbody>`,
			layouts.Esc(layouts.T(ctx, "admin.dashboard.received")),
			layouts.Esc(layouts.T(ctx, "admin.dashboard.from")))
		for i := range msgs {
			m := &msgs[i]
			class := ""
			if !m.IsRead() {
				class = ` class="unread"`
			}
			p.Printf(`<tr%s><td><time datetime="%s">%s</time></td><td>%s</td>`,
				class,
				m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
				m.CreatedAt.UTC().Format("2006-01-02 15:04"),
				layouts.Esc(m.Name))
			p.Printf(`<td><a href="%s">%s</a></td><td class="status status-%s">%s</td></tr>`,
				layouts.Esc(templ.URL(admin.Prefix+"/messages/"+m.ID)),
				layouts.Esc(m.Excerpt(80)),
				layouts.Esc(m.Status),
				layouts.Esc(layouts.T(ctx, "admin.dashboard.status."+m.Status)))
		}
		p.Printf(`</tbody></table>`)
		writePager(ctx, p, total, page, perPage)
		p.Printf(`</section>`)
		return p.Err()
	}))
}

func writePager(ctx context.Context, p *layouts.Printer, total, page, perPage int) {
	hasOlder := page*perPage < total
	if page <= 1 && !hasOlder {
		return
	}
	p.Printf(`<nav class="pager">`)
	if page > 1 {
		p.Printf(`<a href="%s?page=%d">%s</a>`, admin.Prefix, page-1, layouts.Esc(layouts.T(ctx, "admin.dashboard.newer")))
	}
	if hasOlder {
		p.Printf(`<a href="%s?page=%d">%s</a>`, admin.Prefix, page+1, layouts.Esc(layouts.T(ctx, "admin.dashboard.older")))
	}
	p.Printf(`</nav>`)
}

// MessagePage renders a single submission.
func MessagePage(m *Message) templ.Component {
	return layouts.Base("admin.dashboard.title", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := layouts.NewPrinter(w)
		p.Printf(`<article class="admin-message"><a href="%s">%s</a>`,
			admin.Prefix, layouts.Esc(layouts.T(ctx, "admin.dashboard.back")))
		p.Printf(`<h1>%s</h1>`, layouts.Esc(m.Name))
		p.Printf(`<dl><dt>%s</dt><dd><a href="%s">%s</a></dd>`,
			layouts.Esc(layouts.T(ctx, "admin.dashboard.from")),
			layouts.Esc(templ.URL("mailto:"+m.Email)),
			layouts.Esc(m.Email))
		p.Printf(`<dt>%s</dt><dd><time datetime="%s">%s</time> (%s)</dd></dl>`,
			layouts.Esc(layouts.T(ctx, "admin.dashboard.received")),
			m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			m.CreatedAt.UTC().Format("2006-01-02 15:04"),
			layouts.Esc(m.Locale))
		p.Printf(`<div class="message-body">%s</div></article>`, layouts.Esc(m.Body))
		return p.Err()
	}))
}
