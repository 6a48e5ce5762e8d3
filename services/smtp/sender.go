package smtp

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/opentracing/opentracing-go"

	"github.com/intentstack/intentstack/config"
	"github.com/intentstack/intentstack/internal/tracing"
)

// Sender delivers outbound mail through a single configured SMTP relay
type Sender struct {
	cfg *config.SMTPConfig
}

func NewSender(cfg *config.SMTPConfig) *Sender {
	return &Sender{
		cfg: cfg,
	}
}

type OutboundEmail struct {
	To      []string
	Subject string
	Body    string
}

func (s *Sender) Send(ctx context.Context, email OutboundEmail) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "Sender.Send")
	defer span.Finish()
	tracing.TagComponentService(span)

	if len(email.To) == 0 {
		err := fmt.Errorf("at least one recipient is required")
		tracing.TraceErr(span, err)
		return err
	}
	if email.Subject == "" {
		err := fmt.Errorf("email must have a subject")
		tracing.TraceErr(span, err)
		return err
	}
	if s.cfg.Host == "" {
		err := fmt.Errorf("SMTP relay is not configured")
		tracing.TraceErr(span, err)
		return err
	}

	buffer := s.prepareMessage(email)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	err := smtp.SendMail(addr, auth, s.cfg.From, email.To, buffer.Bytes())
	if err != nil {
		err = fmt.Errorf("failed to send email: %w", err)
		tracing.TraceErr(span, err)
		return err
	}

	return nil
}

func (s *Sender) prepareMessage(email OutboundEmail) *bytes.Buffer {
	var buffer bytes.Buffer
	buffer.WriteString(fmt.Sprintf("From: %s\r\n", s.cfg.From))
	buffer.WriteString(fmt.Sprintf("To: %s\r\n", email.To[0]))
	buffer.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	buffer.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z)))
	buffer.WriteString("MIME-Version: 1.0\r\n")
	buffer.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buffer.WriteString("\r\n")
	buffer.WriteString(email.Body)
	return &buffer
}
