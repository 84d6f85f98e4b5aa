// AngelaMos | 2026
// mailer.go

package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mentorcamp/backend/internal/config"
)

type Recipient struct {
	Email string
	Name  string
}

// Mailer sends account lifecycle mail. Callers treat errors as
// best-effort and never fail the triggering request on them.
type Mailer interface {
	SendConfirmation(ctx context.Context, to Recipient, token string) error
	SendPasswordReset(ctx context.Context, to Recipient, token string) error
}

type Message struct {
	To      Recipient
	Subject string
	Body    string
}

// New returns an SMTP mailer when a host is configured and a log mailer
// otherwise.
func New(cfg config.MailConfig, baseURL string, logger *slog.Logger) Mailer {
	links := linkBuilder{base: strings.TrimRight(baseURL, "/")}
	if cfg.Host == "" {
		return &LogMailer{links: links, logger: logger}
	}
	return &SMTPMailer{cfg: cfg, links: links}
}

type linkBuilder struct {
	base string
}

func (l linkBuilder) build(path, token string) string {
	return l.base + path + "?token=" + url.QueryEscape(token)
}

func confirmationMessage(to Recipient, link string) Message {
	return Message{
		To:      to,
		Subject: "Confirm your Mentorcamp account",
		Body: fmt.Sprintf(
			"Hi %s,\r\n\r\nConfirm your account by opening the link below:\r\n\r\n%s\r\n",
			to.Name, link,
		),
	}
}

func resetMessage(to Recipient, link string) Message {
	return Message{
		To:      to,
		Subject: "Reset your Mentorcamp password",
		Body: fmt.Sprintf(
			"Hi %s,\r\n\r\nA password reset was requested for your account. "+
				"If it was you, open the link below:\r\n\r\n%s\r\n",
			to.Name, link,
		),
	}
}

type SMTPMailer struct {
	cfg   config.MailConfig
	links linkBuilder
}

func (m *SMTPMailer) SendConfirmation(ctx context.Context, to Recipient, token string) error {
	return m.Send(ctx, confirmationMessage(to, m.links.build("/confirm", token)))
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to Recipient, token string) error {
	return m.Send(ctx, resetMessage(to, m.links.build("/reset-password", token)))
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, envelopeFrom(m.cfg.From), []string{msg.To.Email}, m.render(msg))
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send mail to %s: %w", msg.To.Email, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send mail to %s: %w", msg.To.Email, ctx.Err())
	}
}

func (m *SMTPMailer) render(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To.Email)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}

// envelopeFrom strips a display name: "Name <a@b>" becomes "a@b".
func envelopeFrom(from string) string {
	if i := strings.LastIndex(from, "<"); i >= 0 {
		if j := strings.LastIndex(from, ">"); j > i {
			return from[i+1 : j]
		}
	}
	return from
}

// LogMailer writes messages to the log. Used in development.
type LogMailer struct {
	links  linkBuilder
	logger *slog.Logger
}

func (m *LogMailer) SendConfirmation(ctx context.Context, to Recipient, token string) error {
	m.log(ctx, confirmationMessage(to, m.links.build("/confirm", token)))
	return nil
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, to Recipient, token string) error {
	m.log(ctx, resetMessage(to, m.links.build("/reset-password", token)))
	return nil
}

func (m *LogMailer) log(ctx context.Context, msg Message) {
	m.logger.InfoContext(ctx, "mail not sent, no smtp host configured",
		"to", msg.To.Email,
		"subject", msg.Subject,
		"body", msg.Body,
	)
}
