package services

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
)

// EmailSender delivers transactional notifications. Implementations should
// treat delivery as best-effort; callers decide whether a failure is fatal.
type EmailSender interface {
	SendCarnivalClaimedEmail(to, carnivalTitle, claimantName string) error
	SendAttendanceConfirmationEmail(to, carnivalTitle, clubName string, numberOfTeams int) error
}

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

type smtpEmailService struct {
	cfg SMTPConfig
}

func NewSMTPEmailService(cfg SMTPConfig) EmailSender {
	return &smtpEmailService{cfg: cfg}
}

func (s *smtpEmailService) SendCarnivalClaimedEmail(to, carnivalTitle, claimantName string) error {
	subject := fmt.Sprintf("Your carnival '%s' has been claimed", carnivalTitle)
	body := fmt.Sprintf(
		"<p>Hello,</p><p>%s has claimed management of <strong>%s</strong>. "+
			"They are now the point of contact for registrations and enquiries.</p>",
		claimantName, carnivalTitle)
	return s.send([]string{to}, subject, body)
}

func (s *smtpEmailService) SendAttendanceConfirmationEmail(to, carnivalTitle, clubName string, numberOfTeams int) error {
	subject := fmt.Sprintf("Registration confirmed for %s", carnivalTitle)
	body := fmt.Sprintf(
		"<p>Hello,</p><p><strong>%s</strong> is registered for <strong>%s</strong> with %d team(s).</p>",
		clubName, carnivalTitle, numberOfTeams)
	return s.send([]string{to}, subject, body)
}

func (s *smtpEmailService) send(to []string, subject, body string) error {
	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)

	msg := []byte("To: " + to[0] + "\r\n" +
		"From: " + s.cfg.From + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	tlsconfig := &tls.Config{
		ServerName: s.cfg.Host,
	}

	var client *smtp.Client
	if s.cfg.Port == 465 {
		// Implicit TLS.
		conn, err := tls.Dial("tcp", addr, tlsconfig)
		if err != nil {
			return fmt.Errorf("smtp tls dial: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.Host)
		if err != nil {
			return fmt.Errorf("smtp client: %w", err)
		}
	} else {
		// STARTTLS, typically port 587.
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("smtp dial: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsconfig); err != nil {
			client.Close()
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp rcpt to: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}

	return nil
}
