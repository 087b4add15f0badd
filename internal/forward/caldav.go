package forward

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// CalDAV submits action items as VTODO resources to a CalDAV collection.
// Each item is PUT under a resource named after its action ID, so resending
// the same item overwrites rather than duplicates.
type CalDAV struct {
	baseURL string
	user    string
	token   string
	client  *http.Client
}

// NewCalDAV creates a new CalDAV client for the given collection URL.
func NewCalDAV(baseURL, user, token string) *CalDAV {
	return &CalDAV{
		baseURL: strings.TrimRight(baseURL, "/"),
		user:    user,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *CalDAV) Name() string { return "caldav" }

// Submit PUTs the item to the collection as an iCalendar VTODO.
func (c *CalDAV) Submit(ctx context.Context, item Item) error {
	body := renderVTODO(item)
	url := fmt.Sprintf("%s/%s.ics", c.baseURL, item.Action.ID)

	req, err := http.NewRequestWithContext(ctx, "PUT", url, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/calendar; charset=utf-8")
	if c.user != "" {
		req.SetBasicAuth(c.user, c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("caldav put: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("caldav status %d: %s", resp.StatusCode, respBody)
	}
	return nil
}

// renderVTODO builds a minimal VCALENDAR wrapping one VTODO component.
func renderVTODO(item Item) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//minute//forward//EN\r\n")
	b.WriteString("BEGIN:VTODO\r\n")
	fmt.Fprintf(&b, "UID:%s@minute\r\n", item.Action.ID)
	fmt.Fprintf(&b, "DTSTAMP:%s\r\n", time.Now().UTC().Format("20060102T150405Z"))
	fmt.Fprintf(&b, "SUMMARY:%s\r\n", escapeText(item.Action.Description))
	desc := fmt.Sprintf("From note %q (%s/%s)", item.NoteTitle, item.Project, item.NoteID)
	fmt.Fprintf(&b, "DESCRIPTION:%s\r\n", escapeText(desc))
	if due, err := time.Parse("2006-01-02", item.Action.DueDate); err == nil {
		fmt.Fprintf(&b, "DUE;VALUE=DATE:%s\r\n", due.Format("20060102"))
	}
	switch item.Action.Priority {
	case "high":
		b.WriteString("PRIORITY:1\r\n")
	case "low":
		b.WriteString("PRIORITY:9\r\n")
	}
	b.WriteString("END:VTODO\r\n")
	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

// escapeText escapes commas, semicolons, backslashes and newlines per RFC 5545.
func escapeText(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
	)
	return r.Replace(s)
}
