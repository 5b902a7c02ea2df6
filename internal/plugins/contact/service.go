package contact

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/keyxmakerx/showcase/internal/apperror"
	"github.com/keyxmakerx/showcase/internal/plugins/smtp"
	"github.com/keyxmakerx/showcase/internal/sanitize"
)

// perPage is the number of messages per admin inbox page.
const perPage = 25

// relayTimeout bounds the synchronous email relay of one submission.
const relayTimeout = 15 * time.Second

// ContactService handles business logic for contact submissions.
type ContactService interface {
	// Submit cleans and validates req, stores it, and relays it to the site
	// owner. A relay failure is recorded on the message, not returned.
	Submit(ctx context.Context, req SubmitRequest, meta SubmitMeta) (*Message, error)

	// Get returns one message and marks it read.
	Get(ctx context.Context, id string) (*Message, error)

	// List returns one 1-indexed inbox page and the total message count.
	List(ctx context.Context, page int) ([]Message, int, error)
}

// contactService implements ContactService.
type contactService struct {
	repo      MessageRepository
	mail      smtp.MailService
	recipient string
	now       func() time.Time
}

// NewContactService creates a contact service. mail may be unconfigured, in
// which case submissions are only stored; recipient is the owner's address.
func NewContactService(repo MessageRepository, mail smtp.MailService, recipient string) ContactService {
	return &contactService{
		repo:      repo,
		mail:      mail,
		recipient: recipient,
		now:       time.Now,
	}
}

// Submit implements ContactService.
func (s *contactService) Submit(ctx context.Context, req SubmitRequest, meta SubmitMeta) (*Message, error) {
	clean := SubmitRequest{
		Name:    sanitize.Line(req.Name),
		Email:   sanitize.Line(req.Email),
		Message: sanitize.Text(req.Message),
	}
	if err := validate(clean); err != nil {
		return nil, err
	}

	msg := &Message{
		ID:        uuid.NewString(),
		Name:      clean.Name,
		Email:     clean.Email,
		Body:      clean.Message,
		Locale:    meta.Locale,
		RemoteIP:  meta.RemoteIP,
		Status:    StatusNew,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("storing contact message: %w", err))
	}
	slog.Info("contact message received", slog.String("id", msg.ID), slog.String("locale", msg.Locale))

	s.relay(ctx, msg)
	return msg, nil
}

// relay emails msg to the owner and records the outcome.
func (s *contactService) relay(ctx context.Context, msg *Message) {
	if s.mail == nil || !s.mail.IsConfigured() || s.recipient == "" {
		slog.Warn("contact relay skipped: smtp not configured", slog.String("id", msg.ID))
		return
	}

	relayCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), relayTimeout)
	defer cancel()

	status := StatusRelayed
	err := s.mail.SendMail(relayCtx, smtp.Mail{
		To:      []string{s.recipient},
		ReplyTo: msg.Email,
		Subject: "Contact form: " + msg.Name,
		Body:    relayBody(msg),
	})
	if err != nil {
		status = StatusRelayFailed
		slog.Error("contact relay failed", slog.String("id", msg.ID), slog.Any("error", err))
	}

	if err := s.repo.UpdateStatus(relayCtx, msg.ID, status); err != nil {
		slog.Error("recording contact relay status", slog.String("id", msg.ID), slog.Any("error", err))
		return
	}
	msg.Status = status
}

func relayBody(msg *Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", msg.Name)
	fmt.Fprintf(&b, "Email: %s\n", msg.Email)
	fmt.Fprintf(&b, "Language: %s\n", msg.Locale)
	fmt.Fprintf(&b, "Received: %s\n\n", msg.CreatedAt.Format(time.RFC1123Z))
	b.WriteString(msg.Body)
	b.WriteString("\n")
	return b.String()
}

// validate checks cleaned input. Field errors are catalog keys.
func validate(req SubmitRequest) error {
	fields := map[string]string{}

	switch {
	case req.Name == "":
		fields["name"] = "contact.errors.name_required"
	case utf8.RuneCountInString(req.Name) > maxNameLength:
		fields["name"] = "contact.errors.name_too_long"
	}

	if !validEmail(req.Email) {
		fields["email"] = "contact.errors.email_invalid"
	}

	switch {
	case req.Message == "":
		fields["message"] = "contact.errors.message_required"
	case utf8.RuneCountInString(req.Message) > maxMessageLength:
		fields["message"] = "contact.errors.message_too_long"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// validEmail accepts a bare address only; display names and angle brackets
// are rejected.
func validEmail(s string) bool {
	if s == "" || len(s) > maxEmailLength {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	_, domain, _ := strings.Cut(addr.Address, "@")
	return strings.Contains(domain, ".")
}

// Get implements ContactService.
func (s *contactService) Get(ctx context.Context, id string) (*Message, error) {
	if err := uuid.Validate(id); err != nil {
		return nil, apperror.NewNotFound("message not found")
	}
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !msg.IsRead() {
		now := s.now().UTC()
		if err := s.repo.MarkRead(ctx, id, now); err != nil {
			slog.Warn("marking contact message read", slog.String("id", id), slog.Any("error", err))
		} else {
			msg.ReadAt = &now
		}
	}
	return msg, nil
}

// List implements ContactService. Invalid page numbers are clamped to 1.
func (s *contactService) List(ctx context.Context, page int) ([]Message, int, error) {
	if page < 1 {
		page = 1
	}
	msgs, total, err := s.repo.ListRecent(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, apperror.NewInternal(fmt.Errorf("listing contact messages: %w", err))
	}
	return msgs, total, nil
}
