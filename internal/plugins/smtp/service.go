package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/mail"
	gosmtp "net/smtp"
	"strings"
	"time"
)

// ErrNotConfigured is returned by SendMail when no relay host is set.
var ErrNotConfigured = errors.New("smtp relay is not configured")

// dialTimeout bounds the TCP connect to the relay.
const dialTimeout = 10 * time.Second

// MailService is the interface other plugins use to send email. The contact
// plugin relays submissions through it.
type MailService interface {
	SendMail(ctx context.Context, m Mail) error
	IsConfigured() bool
}

// smtpService implements MailService against one relay.
type smtpService struct {
	settings Settings
	now      func() time.Time
}

// NewSMTPService creates a new SMTP service.
func NewSMTPService(settings Settings) MailService {
	return &smtpService{settings: settings, now: time.Now}
}

// IsConfigured returns true if a relay host and sender address are set.
func (s *smtpService) IsConfigured() bool {
	return s.settings.Host != "" && s.settings.FromAddress != ""
}

// SendMail delivers m through the configured relay.
func (s *smtpService) SendMail(ctx context.Context, m Mail) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}
	if len(m.To) == 0 {
		return errors.New("smtp: no recipients")
	}

	from := mail.Address{Name: s.settings.FromName, Address: s.settings.FromAddress}
	msg := buildMessage(from, m, s.now())
	addr := net.JoinHostPort(s.settings.Host, fmt.Sprint(s.settings.Port))

	var err error
	switch s.settings.Encryption {
	case EncryptionSSL:
		err = s.sendSSL(ctx, addr, from.Address, m.To, msg)
	case EncryptionNone:
		err = s.sendPlain(ctx, addr, from.Address, m.To, msg, false)
	default:
		err = s.sendPlain(ctx, addr, from.Address, m.To, msg, true)
	}
	if err != nil {
		return err
	}

	slog.Debug("mail sent",
		slog.String("host", s.settings.Host),
		slog.Int("recipients", len(m.To)),
	)
	return nil
}

// buildMessage renders an RFC 5322 plain-text message. Header values are
// stripped of CR and LF so user input cannot inject headers.
func buildMessage(from mail.Address, m Mail, now time.Time) string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", from.String())
	fmt.Fprintf(&msg, "To: %s\r\n", headerValue(strings.Join(m.To, ", ")))
	if m.ReplyTo != "" {
		fmt.Fprintf(&msg, "Reply-To: %s\r\n", headerValue(m.ReplyTo))
	}
	fmt.Fprintf(&msg, "Subject: %s\r\n", headerValue(m.Subject))
	fmt.Fprintf(&msg, "Date: %s\r\n", now.UTC().Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(strings.ReplaceAll(strings.ReplaceAll(m.Body, "\r\n", "\n"), "\n", "\r\n"))
	return msg.String()
}

func headerValue(v string) string {
	return strings.NewReplacer("\r", "", "\n", " ").Replace(v)
}

// dial opens the TCP connection honouring ctx cancellation.
func (s *smtpService) dial(ctx context.Context, addr string) (net.Conn, error) {
	d := &net.Dialer{Timeout: dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	return conn, nil
}

// sendPlain sends over a plain connection, upgrading with STARTTLS when
// startTLS is set (port 587 typical).
func (s *smtpService) sendPlain(ctx context.Context, addr, from string, to []string, msg string, startTLS bool) error {
	conn, err := s.dial(ctx, addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := gosmtp.NewClient(conn, s.settings.Host)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}
	defer client.Close()

	if startTLS {
		tlsConfig := &tls.Config{ServerName: s.settings.Host, MinVersion: tls.VersionTLS12}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("starting TLS: %w", err)
		}
	}
	if err := s.auth(client); err != nil {
		return err
	}
	return sendMessage(client, from, to, msg)
}

// sendSSL sends email using implicit TLS (port 465 typical).
func (s *smtpService) sendSSL(ctx context.Context, addr, from string, to []string, msg string) error {
	raw, err := s.dial(ctx, addr)
	if err != nil {
		return err
	}
	conn := tls.Client(raw, &tls.Config{ServerName: s.settings.Host, MinVersion: tls.VersionTLS12})
	defer conn.Close()
	if err := conn.HandshakeContext(ctx); err != nil {
		return fmt.Errorf("TLS handshake with %s: %w", addr, err)
	}

	client, err := gosmtp.NewClient(conn, s.settings.Host)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}
	defer client.Close()

	if err := s.auth(client); err != nil {
		return err
	}
	return sendMessage(client, from, to, msg)
}

func (s *smtpService) auth(client *gosmtp.Client) error {
	if s.settings.Username == "" {
		return nil
	}
	a := gosmtp.PlainAuth("", s.settings.Username, s.settings.Password, s.settings.Host)
	if err := client.Auth(a); err != nil {
		return fmt.Errorf("authenticating: %w", err)
	}
	return nil
}

// sendMessage handles MAIL FROM, RCPT TO, DATA for an existing SMTP client.
func sendMessage(client *gosmtp.Client, from string, to []string, msg string) error {
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("MAIL FROM: %w", err)
	}
	for _, recipient := range to {
		if err := client.Rcpt(recipient); err != nil {
			return fmt.Errorf("RCPT TO %s: %w", recipient, err)
		}
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing data: %w", err)
	}
	return client.Quit()
}
