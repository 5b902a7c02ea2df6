// data.go provides typed context helpers for passing layout data from
// handlers/middleware to Templ templates. This avoids importing plugin
// types in the layouts package; only simple types are stored.
//
// Data flow: Middleware -> Echo Context -> LayoutInjector -> Go Context -> Templ
package layouts

import "context"

// ctxKey is a private type for context keys to prevent collisions.
type ctxKey string

const (
	keyLocale       ctxKey = "layout_locale"
	keyTranslator   ctxKey = "layout_translator"
	keyLanguages    ctxKey = "layout_languages"
	keyIsAdmin      ctxKey = "layout_is_admin"
	keyCSRFToken    ctxKey = "layout_csrf_token"
	keyActivePath   ctxKey = "layout_active_path"
	keyFlashSuccess ctxKey = "layout_flash_success"
)

// Translator looks up a catalog key for the active locale.
type Translator func(key string) string

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Tag    string
	Label  string
	Active bool
}

// --- Setters (called by the layout injector in app/routes.go) ---

// SetLocale stores the active locale tag.
func SetLocale(ctx context.Context, tag string) context.Context {
	return context.WithValue(ctx, keyLocale, tag)
}

// SetTranslator stores the catalog lookup for the active locale.
func SetTranslator(ctx context.Context, t Translator) context.Context {
	return context.WithValue(ctx, keyTranslator, t)
}

// SetLanguages stores the language switcher options.
func SetLanguages(ctx context.Context, opts []LanguageOption) context.Context {
	return context.WithValue(ctx, keyLanguages, opts)
}

// SetIsAdmin marks whether the request carries a verified admin session.
func SetIsAdmin(ctx context.Context, isAdmin bool) context.Context {
	return context.WithValue(ctx, keyIsAdmin, isAdmin)
}

// SetCSRFToken stores the CSRF token for form rendering.
func SetCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, keyCSRFToken, token)
}

// SetActivePath stores the request path for nav highlighting.
func SetActivePath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, keyActivePath, path)
}

// SetFlashSuccess stores the catalog key of a success banner for this
// render. Handlers set it on the request context before rendering.
func SetFlashSuccess(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, keyFlashSuccess, key)
}

// --- Getters (called from Templ templates) ---

// GetLocale returns the active locale tag, or "en" for the html lang attribute
// when nothing was injected.
func GetLocale(ctx context.Context) string {
	if v, ok := ctx.Value(keyLocale).(string); ok && v != "" {
		return v
	}
	return "en"
}

// T translates key for the active locale. Without a translator the key
// itself is returned so missing wiring is visible on the page.
func T(ctx context.Context, key string) string {
	if t, ok := ctx.Value(keyTranslator).(Translator); ok && t != nil {
		return t(key)
	}
	return key
}

// GetLanguages returns the language switcher options.
func GetLanguages(ctx context.Context) []LanguageOption {
	opts, _ := ctx.Value(keyLanguages).([]LanguageOption)
	return opts
}

// IsAdmin returns whether the request carries a verified admin session.
func IsAdmin(ctx context.Context) bool {
	v, _ := ctx.Value(keyIsAdmin).(bool)
	return v
}

// GetCSRFToken returns the CSRF token for forms.
func GetCSRFToken(ctx context.Context) string {
	v, _ := ctx.Value(keyCSRFToken).(string)
	return v
}

// GetActivePath returns the current request path.
func GetActivePath(ctx context.Context) string {
	v, _ := ctx.Value(keyActivePath).(string)
	return v
}

// GetFlashSuccess returns the success banner's catalog key, if any.
func GetFlashSuccess(ctx context.Context) string {
	v, _ := ctx.Value(keyFlashSuccess).(string)
	return v
}
