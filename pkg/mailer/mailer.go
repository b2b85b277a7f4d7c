// Package mailer provides functionality to send emails through an SMTP relay
// using fixed sender credentials. The OTP service uses it to deliver one-time
// passcodes; the relay host and port come from configuration so development
// setups can point at a capture service such as Mailtrap instead of a real
// provider.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends a single email per call. A nil or disabled implementation
// degrades only the features that need outbound mail.
type Mailer interface {
	Send(recipient, subject, body string) error
}

// SMTPMailer implements Mailer over net/smtp with PLAIN authentication.
type SMTPMailer struct {
	host     string
	port     string
	sender   string
	password string
}

// NewSMTPMailer creates a new SMTPMailer. The sender address doubles as the
// SMTP username, which is how Gmail-style app-password relays authenticate.
func NewSMTPMailer(host, port, sender, password string) (*SMTPMailer, error) {
	if host == "" || port == "" {
		return nil, fmt.Errorf("SMTP host and port must be provided")
	}
	if sender == "" || password == "" {
		return nil, fmt.Errorf("SMTP sender and password must be provided")
	}
	return &SMTPMailer{host: host, port: port, sender: sender, password: password}, nil
}

// Send sends one email to the recipient.
//
// The Content-Type header is inferred from the body: bodies containing basic
// HTML tags are sent as text/html, everything else as text/plain.
func (m *SMTPMailer) Send(recipient, subject, body string) error {
	if recipient == "" {
		return fmt.Errorf("recipient email address cannot be empty")
	}
	if subject == "" {
		return fmt.Errorf("email subject cannot be empty")
	}

	contentType := "text/plain; charset=UTF-8"
	if strings.Contains(strings.ToLower(body), "<html>") || strings.Contains(strings.ToLower(body), "<p>") {
		contentType = "text/html; charset=UTF-8"
	}

	message := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: %s\r\n"+
		"\r\n"+
		"%s\r\n", recipient, m.sender, subject, contentType, body))

	auth := smtp.PlainAuth("", m.sender, m.password, m.host)

	if err := smtp.SendMail(m.host+":"+m.port, auth, m.sender, []string{recipient}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
