package forward

import (
	"context"
	"fmt"

	"github.com/tmuir/minute/internal/config"
	"github.com/tmuir/minute/internal/note"
)

// Item is one action point packaged with enough note context for an
// external provider to render it.
type Item struct {
	Project   string
	NoteID    string
	NoteTitle string
	NoteDate  string
	Action    note.ActionPoint
}

// Submitter delivers action items to an external system.
type Submitter interface {
	Submit(ctx context.Context, item Item) error
	Name() string
}

// NewCalendar creates the calendar submitter named by the config, or nil
// when forwarding to a calendar is disabled.
func NewCalendar(cfg config.ForwardConfig) (Submitter, error) {
	switch cfg.Calendar {
	case "", "none":
		return nil, nil
	case "caldav":
		if cfg.CalDAVURL == "" {
			return nil, fmt.Errorf("caldav provider requires caldav_url")
		}
		return NewCalDAV(cfg.CalDAVURL, cfg.CalDAVUser, cfg.CalDAVToken), nil
	case "mock":
		return &MockSubmitter{Provider: "mock-calendar"}, nil
	default:
		return nil, fmt.Errorf("unknown calendar provider: %q", cfg.Calendar)
	}
}

// NewEmail creates the email submitter named by the config, or nil when
// forwarding by email is disabled.
func NewEmail(cfg config.ForwardConfig) (Submitter, error) {
	switch cfg.Email {
	case "", "none":
		return nil, nil
	case "smtp":
		if cfg.SMTPHost == "" || cfg.SMTPFrom == "" || cfg.EmailTo == "" {
			return nil, fmt.Errorf("smtp provider requires smtp_host, smtp_from and email_to")
		}
		return NewMailer(cfg), nil
	case "mock":
		return &MockSubmitter{Provider: "mock-email"}, nil
	default:
		return nil, fmt.Errorf("unknown email provider: %q", cfg.Email)
	}
}
