package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"portfolio-backend/config"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/logger"
	"strings"
	"time"
)

// ErrNotConfigured is returned when SMTP settings are incomplete
var ErrNotConfigured = errors.New("email service is not configured")

// EmailService sends contact notifications via an authenticated SMTP relay
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	toEmail   string
	timeout   time.Duration
	now       func() time.Time
}

// NewEmailService creates a new email service from SMTP configuration
func NewEmailService(cfg *config.Config) *EmailService {
	from := cfg.SMTPFromEmail
	if from == "" {
		from = cfg.SMTPUsername // most relays accept the login as sender
	}
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: from,
		toEmail:   cfg.ContactEmailTo,
		timeout:   cfg.DispatchTimeout,
		now:       time.Now,
	}
}

func (s *EmailService) Name() string {
	return "smtp"
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != "" && s.toEmail != ""
}

// Notify sends one plain-text email to the site owner.
func (s *EmailService) Notify(ctx context.Context, n domain.Notification) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	addr := net.JoinHostPort(s.host, s.port)
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	// Unblock any pending read/write if the request goes away
	raw := conn
	stop := context.AfterFunc(ctx, func() { _ = raw.SetDeadline(time.Now()) })
	defer stop()

	implicitTLS := s.port == "465"
	if implicitTLS {
		conn = tls.Client(conn, s.tlsConfig())
	}

	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to start smtp session: %w", err)
	}
	defer c.Close()

	if !implicitTLS {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(s.tlsConfig()); err != nil {
				return fmt.Errorf("failed to start tls: %w", err)
			}
		}
	}

	if ok, _ := c.Extension("AUTH"); !ok {
		return errors.New("smtp server does not support AUTH")
	}
	if err := c.Auth(smtp.PlainAuth("", s.username, s.password, s.host)); err != nil {
		return fmt.Errorf("smtp authentication failed: %w", err)
	}

	if err := c.Mail(s.fromEmail); err != nil {
		return fmt.Errorf("smtp MAIL FROM rejected: %w", err)
	}
	if err := c.Rcpt(s.toEmail); err != nil {
		return fmt.Errorf("smtp RCPT TO rejected: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA rejected: %w", err)
	}
	if _, err := w.Write(s.buildMessage(n)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	// DATA was accepted; a failed QUIT does not undo delivery
	if err := c.Quit(); err != nil {
		logger.Log.Warn("SMTP QUIT failed after delivery", "host", s.host, "error", err)
	}
	return nil
}

func (s *EmailService) tlsConfig() *tls.Config {
	return &tls.Config{
		ServerName: s.host,
		MinVersion: tls.VersionTLS12,
	}
}

// buildMessage constructs the RFC 5322 message with a plain-text body
func (s *EmailService) buildMessage(n domain.Notification) []byte {
	subject := mime.QEncoding.Encode("UTF-8", "Portfolio contact: "+headerSafe(n.SenderName))

	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", s.fromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", s.toEmail)
	if n.SenderEmail != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", headerSafe(n.SenderEmail))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", s.now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(crlf(n.Text))
	b.WriteString("\r\n")
	return b.Bytes()
}

// headerSafe removes line breaks so user input cannot add headers
func headerSafe(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

func crlf(v string) string {
	v = strings.ReplaceAll(v, "\r\n", "\n")
	return strings.ReplaceAll(v, "\n", "\r\n")
}
