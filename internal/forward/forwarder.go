package forward

import (
	"context"
	"fmt"
	"log"

	"github.com/tmuir/minute/internal/note"
	"github.com/tmuir/minute/internal/outbox"
)

// Forwarder delivers a note's open action points to the configured
// providers, consulting the outbox so nothing is sent twice.
type Forwarder struct {
	Outbox    *outbox.DB
	Providers []Submitter
}

// New creates a Forwarder over the given outbox and providers. Nil
// providers are skipped, so disabled config slots can be passed directly.
func New(db *outbox.DB, providers ...Submitter) *Forwarder {
	f := &Forwarder{Outbox: db}
	for _, p := range providers {
		if p != nil {
			f.Providers = append(f.Providers, p)
		}
	}
	return f
}

// Report summarizes one forwarding run.
type Report struct {
	Sent    int      `json:"sent"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// ForwardNote sends every open action point of the note to every provider.
// Completed actions are ignored. Individual delivery failures are recorded
// and counted, not fatal; the run continues with the remaining items.
func (f *Forwarder) ForwardNote(ctx context.Context, n *note.Note) (*Report, error) {
	if len(f.Providers) == 0 {
		return nil, fmt.Errorf("no forwarding providers configured")
	}

	report := &Report{}
	for _, ap := range n.ActionPoints {
		if ap.Status == "done" {
			continue
		}
		item := Item{
			Project:   n.Project,
			NoteID:    n.ID,
			NoteTitle: n.Title,
			NoteDate:  n.Date,
			Action:    ap,
		}
		for _, p := range f.Providers {
			if err := ctx.Err(); err != nil {
				return report, err
			}

			sent, err := f.Outbox.WasSubmitted(n.ID, ap.ID, p.Name())
			if err != nil {
				return report, fmt.Errorf("check outbox: %w", err)
			}
			if sent {
				report.Skipped++
				continue
			}

			if err := p.Submit(ctx, item); err != nil {
				log.Printf("forward: %s delivery failed for %s/%s: %v", p.Name(), n.ID, ap.ID, err)
				report.Failed++
				report.Errors = append(report.Errors, fmt.Sprintf("%s: %s: %v", p.Name(), ap.ID, err))
				if rerr := f.Outbox.RecordFailed(n.Project, n.ID, ap.ID, p.Name(), err.Error()); rerr != nil {
					return report, fmt.Errorf("record failure: %w", rerr)
				}
				continue
			}

			if err := f.Outbox.RecordSent(n.Project, n.ID, ap.ID, p.Name()); err != nil {
				return report, fmt.Errorf("record sent: %w", err)
			}
			report.Sent++
		}
	}
	return report, nil
}
