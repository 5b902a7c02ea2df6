package smtp

import (
	"context"
	"errors"
	"net"
	"net/mail"
	"net/textproto"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/keyxmakerx/showcase/internal/config"
)

func TestSettingsFromConfig_Defaults(t *testing.T) {
	s := SettingsFromConfig(config.SMTPConfig{Host: "mail.example.com", Encryption: "bogus"})
	if s.Port != 587 {
		t.Errorf("expected default port 587, got %d", s.Port)
	}
	if s.Encryption != EncryptionStartTLS {
		t.Errorf("expected starttls, got %q", s.Encryption)
	}
	if s.FromName == "" {
		t.Error("expected a default sender name")
	}

	s = SettingsFromConfig(config.SMTPConfig{Port: 465, Encryption: EncryptionSSL})
	if s.Port != 465 || s.Encryption != EncryptionSSL {
		t.Errorf("explicit values overwritten: %+v", s)
	}
}

func TestIsConfigured(t *testing.T) {
	if NewSMTPService(Settings{}).IsConfigured() {
		t.Error("empty settings must not be configured")
	}
	if NewSMTPService(Settings{Host: "h"}).IsConfigured() {
		t.Error("missing sender must not be configured")
	}
	if !NewSMTPService(Settings{Host: "h", FromAddress: "a@b.c"}).IsConfigured() {
		t.Error("expected configured")
	}
}

func TestSendMail_NotConfigured(t *testing.T) {
	err := NewSMTPService(Settings{}).SendMail(context.Background(), Mail{To: []string{"x@y.z"}})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestBuildMessage_StripsHeaderInjection(t *testing.T) {
	from := mail.Address{Name: "Site", Address: "site@example.com"}
	msg := buildMessage(from, Mail{
		To:      []string{"owner@example.com"},
		ReplyTo: "evil@example.com\r\nBcc: victim@example.com",
		Subject: "Hello\nBcc: victim@example.com",
		Body:    "line one\nline two",
	}, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	headers, body, found := strings.Cut(msg, "\r\n\r\n")
	if !found {
		t.Fatal("message has no header/body separator")
	}
	for _, line := range strings.Split(headers, "\r\n") {
		if strings.HasPrefix(line, "Bcc:") {
			t.Errorf("injected header survived: %q", line)
		}
	}
	if !strings.Contains(headers, "Date: Fri, 02 Jan 2026 03:04:05 +0000") {
		t.Errorf("unexpected date header in %q", headers)
	}
	if body != "line one\r\nline two" {
		t.Errorf("expected CRLF body, got %q", body)
	}
}

// fakeRelay accepts one SMTP session and reports the DATA payload.
func fakeRelay(t *testing.T) (host string, port int, got <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	ch := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		tp := textproto.NewConn(conn)
		_ = tp.PrintfLine("220 fake ESMTP")
		for {
			line, err := tp.ReadLine()
			if err != nil {
				return
			}
			switch cmd := strings.ToUpper(line); {
			case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
				_ = tp.PrintfLine("250 fake")
			case strings.HasPrefix(cmd, "MAIL"), strings.HasPrefix(cmd, "RCPT"):
				_ = tp.PrintfLine("250 OK")
			case cmd == "DATA":
				_ = tp.PrintfLine("354 go ahead")
				lines, _ := tp.ReadDotLines()
				ch <- strings.Join(lines, "\n")
				_ = tp.PrintfLine("250 queued")
			case cmd == "QUIT":
				_ = tp.PrintfLine("221 bye")
				return
			default:
				_ = tp.PrintfLine("502 not implemented")
			}
		}
	}()

	h, p, _ := net.SplitHostPort(ln.Addr().String())
	port, _ = strconv.Atoi(p)
	return h, port, ch
}

func TestSendMail_PlainRelay(t *testing.T) {
	host, port, got := fakeRelay(t)
	svc := NewSMTPService(Settings{
		Host:        host,
		Port:        port,
		FromAddress: "site@example.com",
		FromName:    "Site",
		Encryption:  EncryptionNone,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := svc.SendMail(ctx, Mail{
		To:      []string{"owner@example.com"},
		Subject: "New message",
		Body:    "hello there",
	})
	if err != nil {
		t.Fatalf("SendMail: %v", err)
	}

	select {
	case data := <-got:
		if !strings.Contains(data, "Subject: New message") || !strings.Contains(data, "hello there") {
			t.Errorf("unexpected payload %q", data)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("relay never received DATA")
	}
}
