package forward

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/tmuir/minute/internal/config"
)

// Mailer submits action items as plain-text email over SMTP.
type Mailer struct {
	host string
	port int
	from string
	to   string
	auth smtp.Auth

	// send is swappable for tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer creates an SMTP mailer from the forward config.
func NewMailer(cfg config.ForwardConfig) *Mailer {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}
	return &Mailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		from: cfg.SMTPFrom,
		to:   cfg.EmailTo,
		auth: auth,
		send: smtp.SendMail,
	}
}

func (m *Mailer) Name() string { return "smtp" }

// Submit sends the item as a single email.
func (m *Mailer) Submit(ctx context.Context, item Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", m.to)
	fmt.Fprintf(&b, "Subject: Action: %s\r\n", sanitizeHeader(item.Action.Description))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "%s\r\n\r\n", item.Action.Description)
	fmt.Fprintf(&b, "Note:    %s (%s/%s)\r\n", item.NoteTitle, item.Project, item.NoteID)
	if item.Action.Assignee != "" {
		fmt.Fprintf(&b, "Owner:   %s\r\n", item.Action.Assignee)
	}
	if item.Action.DueDate != "" {
		fmt.Fprintf(&b, "Due:     %s\r\n", item.Action.DueDate)
	}
	if item.Action.Priority != "" {
		fmt.Fprintf(&b, "Priority: %s\r\n", item.Action.Priority)
	}

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	if err := m.send(addr, m.auth, m.from, []string{m.to}, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// sanitizeHeader strips CR/LF so item text cannot inject extra headers.
func sanitizeHeader(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
