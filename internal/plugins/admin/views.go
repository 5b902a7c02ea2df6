package admin

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/keyxmakerx/showcase/internal/templates/layouts"
)

// LoginPage renders the admin login form. errorKey is a catalog key shown
// inline above the form, or "".
func LoginPage(errorKey string) templ.Component {
	return layouts.Base("admin.login.title", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := layouts.NewPrinter(w)
		p.Printf(`<section class="admin-login"><h1>%s</h1>`, layouts.Esc(layouts.T(ctx, "admin.login.title")))
		if errorKey != "" {
			p.Printf(`<div class="form-error" role="alert">%s</div>`, layouts.Esc(layouts.T(ctx, errorKey)))
		}
		p.Printf(`<form method="post" action="%s">`, LoginPath)
		p.Printf(`<input type="hidden" name="csrf_token" value="%s">`, layouts.Esc(layouts.GetCSRFToken(ctx)))
		p.Printf(`<label for="secret">%s</label>`, layouts.Esc(layouts.T(ctx, "admin.login.secret")))
		p.Printf(`<input id="secret" name="secret" type="password" autocomplete="current-password" required>`)
		p.Printf(`<button type="submit" class="btn btn-primary">%s</button></form></section>`,
			layouts.Esc(layouts.T(ctx, "admin.login.submit")))
		return p.Err()
	}))
}

// LogoutButton renders the sign-out form used on admin pages.
func LogoutButton() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := layouts.NewPrinter(w)
		p.Printf(`<form method="post" action="%s/logout" class="logout">`, Prefix)
		p.Printf(`<input type="hidden" name="csrf_token" value="%s">`, layouts.Esc(layouts.GetCSRFToken(ctx)))
		p.Printf(`<button type="submit" class="btn">%s</button></form>`, layouts.Esc(layouts.T(ctx, "admin.logout")))
		return p.Err()
	})
}
