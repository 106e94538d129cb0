package config

import (
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail/v2"
)

// MailSettings holds the SMTP relay configuration.
type MailSettings struct {
	Host          string
	Port          int
	User          string
	Pass          string
	From          string // e.g. "Review Desk <no-reply@your.org>"
	SkipTLSVerify bool
}

func LoadMailSettings() MailSettings {
	return MailSettings{
		Host:          EnvString("SMTP_HOST", ""),
		Port:          EnvInt("SMTP_PORT", 587),
		User:          EnvString("SMTP_USER", ""),
		Pass:          EnvString("SMTP_PASS", ""),
		From:          EnvString("SMTP_FROM", ""),
		SkipTLSVerify: EnvBool("SMTP_SKIP_TLS_VERIFY", false),
	}
}

// Configured reports whether enough settings exist to send mail.
func (s MailSettings) Configured() bool {
	return s.Host != "" && s.From != ""
}

// SendMail delivers an HTML message through the configured relay.
func SendMail(s MailSettings, to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}
	if !s.Configured() {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := mail.NewDialer(s.Host, s.Port, s.User, s.Pass)

	// STARTTLS is mandatory on 587.
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         s.Host,
		InsecureSkipVerify: s.SkipTLSVerify, // dev only
	}

	return d.DialAndSend(m)
}
