package utils

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"campus-events/core/config"
)

// EmailMessage is a single outbound HTML email.
type EmailMessage struct {
	To      []string
	Subject string
	HTML    string
}

// SendEmailTLS delivers a message over SMTP with STARTTLS.
func SendEmailTLS(msg EmailMessage) error {
	cfg, ok := config.GetSafe()
	if !ok {
		return fmt.Errorf("config not initialized")
	}
	ec := cfg.Email

	addr := fmt.Sprintf("%s:%d", ec.Host, ec.Port)

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer client.Close()

	if err = client.StartTLS(&tls.Config{ServerName: ec.Host}); err != nil {
		return fmt.Errorf("smtp starttls: %w", err)
	}

	auth := smtp.PlainAuth("", ec.Username, ec.Password, ec.Host)
	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err = client.Mail(ec.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, rcpt := range msg.To {
		if err = client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp rcpt %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}

	headers := []string{
		"From: " + ec.From,
		"To: " + strings.Join(msg.To, ", "),
		"Subject: " + msg.Subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
	}
	body := strings.Join(headers, "\r\n") + "\r\n\r\n" + msg.HTML

	if _, err = w.Write([]byte(body)); err != nil {
		return fmt.Errorf("smtp write body: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("smtp close body: %w", err)
	}

	return client.Quit()
}
