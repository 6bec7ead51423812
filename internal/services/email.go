package services

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/resend/resend-go/v2"

	"dues_portal_echo/internal/config"
)

// EmailMessage is a single HTML email to one recipient
type EmailMessage struct {
	To      string
	Subject string
	HTML    string
}

// EmailSender delivers one message. Implementations must be safe for concurrent use.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
	Name() string
}

// SMTPSender sends mail through an SMTP relay with PLAIN auth
type SMTPSender struct {
	host     string
	port     string
	user     string
	password string
	from     string
}

func NewSMTPSender(host, port, user, password, from string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
	}
}

func (s *SMTPSender) Name() string { return "smtp" }

func (s *SMTPSender) Send(ctx context.Context, msg EmailMessage) error {
	if s.host == "" || s.port == "" || s.user == "" || s.password == "" {
		return fmt.Errorf("SMTP credentials not fully configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.user, s.password, s.host)

	message := []byte(fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
		"\r\n"+
		"%s\r\n", s.from, msg.To, msg.Subject, msg.HTML))

	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	if err := smtp.SendMail(addr, auth, envelopeAddress(s.from), []string{msg.To}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// envelopeAddress strips a display name: "Admin <a@b.c>" -> "a@b.c"
func envelopeAddress(from string) string {
	if start := strings.LastIndex(from, "<"); start >= 0 {
		if end := strings.LastIndex(from, ">"); end > start {
			return from[start+1 : end]
		}
	}
	return from
}

// ResendSender sends mail through the Resend API
type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (s *ResendSender) Name() string { return "resend" }

func (s *ResendSender) Send(ctx context.Context, msg EmailMessage) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	}

	res, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send email via resend: %w", err)
	}
	log.Printf("ResendSender: sent %q to %s (id %s)", msg.Subject, msg.To, res.Id)
	return nil
}

// LoggingSender only logs. It is used when no provider is configured.
type LoggingSender struct{}

func (LoggingSender) Name() string { return "log" }

func (LoggingSender) Send(ctx context.Context, msg EmailMessage) error {
	log.Printf("[email] to=%s subject=%q (%d bytes, not delivered)", msg.To, msg.Subject, len(msg.HTML))
	return nil
}

// BuildEmailSender picks one provider from configuration: Resend when its key is set, else SMTP.
// With neither configured, mail is only logged. A failed send is reported, never re-sent elsewhere.
func BuildEmailSender(cfg *config.Config) EmailSender {
	switch {
	case cfg.ResendAPIKey != "":
		if cfg.SMTPHost != "" {
			log.Println("Both Resend and SMTP configured, using Resend")
		}
		return NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom)
	case cfg.SMTPHost != "":
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom)
	default:
		log.Println("Warning: no email provider configured, emails will only be logged")
		return LoggingSender{}
	}
}
