// Package contact handles the public contact form. Submissions are cleaned,
// validated, stored in MariaDB and relayed to the site owner by email. The
// admin area lists stored submissions.
package contact

import (
	"sort"
	"strings"
	"time"
)

// Submission statuses; must match the ENUM on contact_messages.status.
const (
	StatusNew         = "new"
	StatusRelayed     = "relayed"
	StatusRelayFailed = "relay_failed"
)

// Field limits, in runes.
const (
	maxNameLength    = 200
	maxEmailLength   = 254
	maxMessageLength = 5000
)

// Message is one stored contact submission.
type Message struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Body      string     `json:"message"`
	Locale    string     `json:"locale"`
	RemoteIP  string     `json:"-"`
	Status    string     `json:"status"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// IsRead reports whether an admin has opened the message.
func (m *Message) IsRead() bool {
	return m.ReadAt != nil
}

// Excerpt returns the first n runes of the body on one line.
func (m *Message) Excerpt(n int) string {
	line := strings.Join(strings.Fields(m.Body), " ")
	runes := []rune(line)
	if len(runes) <= n {
		return line
	}
	return string(runes[:n]) + "…"
}

// SubmitRequest is bound from the JSON API and the HTML form alike.
type SubmitRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Message string `json:"message" form:"message"`
}

// SubmitMeta carries request facts the visitor does not type in.
type SubmitMeta struct {
	Locale   string
	RemoteIP string
}

// SubmitResponse is the 202 body of POST /api/contact.
type SubmitResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ValidationError lists rejected fields. Values are catalog keys so the
// form can show them in the visitor's language.
type ValidationError struct {
	Fields map[string]string
}

// Error implements error.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid contact submission: " + strings.Join(names, ", ")
}

// validationResponse is the 422 body of POST /api/contact.
type validationResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}
