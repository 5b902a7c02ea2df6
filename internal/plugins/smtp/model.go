// Package smtp provides outbound email for the site. The relay is configured
// from environment variables at start-up; the password is never logged or
// rendered anywhere.
package smtp

import "github.com/keyxmakerx/showcase/internal/config"

// Encryption modes accepted in SMTP_ENCRYPTION.
const (
	EncryptionStartTLS = "starttls"
	EncryptionSSL      = "ssl"
	EncryptionNone     = "none"
)

// Settings holds the relay configuration. Built once from config.SMTPConfig.
type Settings struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	Encryption  string // "starttls", "ssl", or "none".
}

// SettingsFromConfig copies the SMTP section of the process config and fills
// in defaults.
func SettingsFromConfig(cfg config.SMTPConfig) Settings {
	s := Settings{
		Host:        cfg.Host,
		Port:        cfg.Port,
		Username:    cfg.Username,
		Password:    cfg.Password,
		FromAddress: cfg.FromAddress,
		FromName:    cfg.FromName,
		Encryption:  cfg.Encryption,
	}
	if s.Port <= 0 {
		s.Port = 587
	}
	if s.FromName == "" {
		s.FromName = "Showcase"
	}
	switch s.Encryption {
	case EncryptionSSL, EncryptionNone:
	default:
		s.Encryption = EncryptionStartTLS
	}
	return s
}

// Mail represents an email message to be sent.
type Mail struct {
	To      []string
	ReplyTo string
	Subject string
	Body    string
}
