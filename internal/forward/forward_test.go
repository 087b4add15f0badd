package forward

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"

	"github.com/tmuir/minute/internal/config"
	"github.com/tmuir/minute/internal/note"
	"github.com/tmuir/minute/internal/outbox"
)

func testNote() *note.Note {
	return &note.Note{
		ID:      "sprint-retro",
		Title:   "Sprint Retro",
		Date:    "2025-03-10",
		Project: "work",
		ActionPoints: []note.ActionPoint{
			{ID: "a1", Description: "Update the roadmap", Assignee: "Dana", DueDate: "2025-03-14", Priority: "high", Status: "open"},
			{ID: "a2", Description: "Book the retro room", Status: "open"},
			{ID: "a3", Description: "Archive old tickets", Status: "done"},
		},
	}
}

func TestNewCalendar(t *testing.T) {
	sub, err := NewCalendar(config.ForwardConfig{Calendar: "none"})
	if err != nil {
		t.Fatalf("NewCalendar none: %v", err)
	}
	if sub != nil {
		t.Error("disabled calendar should be nil")
	}

	sub, err = NewCalendar(config.ForwardConfig{Calendar: "caldav", CalDAVURL: "https://dav.example.com/todos"})
	if err != nil {
		t.Fatalf("NewCalendar caldav: %v", err)
	}
	if _, ok := sub.(*CalDAV); !ok {
		t.Errorf("expected *CalDAV, got %T", sub)
	}

	if _, err := NewCalendar(config.ForwardConfig{Calendar: "caldav"}); err == nil {
		t.Error("expected error for caldav without URL")
	}
	if _, err := NewCalendar(config.ForwardConfig{Calendar: "gcal"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewEmail(t *testing.T) {
	sub, err := NewEmail(config.ForwardConfig{Email: "smtp", SMTPHost: "mail.example.com", SMTPFrom: "me@example.com", EmailTo: "me@example.com"})
	if err != nil {
		t.Fatalf("NewEmail smtp: %v", err)
	}
	if _, ok := sub.(*Mailer); !ok {
		t.Errorf("expected *Mailer, got %T", sub)
	}

	if _, err := NewEmail(config.ForwardConfig{Email: "smtp"}); err == nil {
		t.Error("expected error for smtp without host")
	}
}

func TestCalDAVSubmit(t *testing.T) {
	var gotPath, gotBody, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		gotBody = string(body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewCalDAV(srv.URL+"/todos/", "dana", "secret")
	item := Item{
		Project:   "work",
		NoteID:    "sprint-retro",
		NoteTitle: "Sprint Retro",
		Action:    note.ActionPoint{ID: "a1", Description: "Update the roadmap; soon", DueDate: "2025-03-14", Priority: "high"},
	}
	if err := c.Submit(context.Background(), item); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if gotPath != "/todos/a1.ics" {
		t.Errorf("path = %q, want /todos/a1.ics", gotPath)
	}
	if gotAuth == "" {
		t.Error("missing basic auth header")
	}
	for _, want := range []string{
		"BEGIN:VTODO",
		"UID:a1@minute",
		"SUMMARY:Update the roadmap\\; soon",
		"DUE;VALUE=DATE:20250314",
		"PRIORITY:1",
	} {
		if !strings.Contains(gotBody, want) {
			t.Errorf("body missing %q:\n%s", want, gotBody)
		}
	}
}

func TestCalDAVSubmitError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewCalDAV(srv.URL, "", "")
	err := c.Submit(context.Background(), Item{Action: note.ActionPoint{ID: "a1"}})
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("error should mention status: %v", err)
	}
}

func TestMailerSubmit(t *testing.T) {
	m := NewMailer(config.ForwardConfig{
		SMTPHost: "mail.example.com",
		SMTPPort: 2525,
		SMTPFrom: "minute@example.com",
		EmailTo:  "dana@example.com",
	})

	var gotAddr, gotFrom, gotMsg string
	var gotTo []string
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, string(msg)
		return nil
	}

	item := Item{
		Project:   "work",
		NoteID:    "sprint-retro",
		NoteTitle: "Sprint Retro",
		Action:    note.ActionPoint{ID: "a1", Description: "Update\r\nthe roadmap", Assignee: "Dana", DueDate: "2025-03-14"},
	}
	if err := m.Submit(context.Background(), item); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if gotAddr != "mail.example.com:2525" {
		t.Errorf("addr = %q", gotAddr)
	}
	if gotFrom != "minute@example.com" {
		t.Errorf("from = %q", gotFrom)
	}
	if len(gotTo) != 1 || gotTo[0] != "dana@example.com" {
		t.Errorf("to = %v", gotTo)
	}
	if !strings.Contains(gotMsg, "Subject: Action: Update the roadmap\r\n") {
		t.Errorf("newlines not stripped from subject:\n%s", gotMsg)
	}
	if !strings.Contains(gotMsg, "Due:     2025-03-14") {
		t.Errorf("message missing due date:\n%s", gotMsg)
	}
}

func TestForwardNote(t *testing.T) {
	db, err := outbox.OpenMemory()
	if err != nil {
		t.Fatalf("open outbox: %v", err)
	}
	defer db.Close()

	cal := &MockSubmitter{Provider: "mock-calendar"}
	mail := &MockSubmitter{Provider: "mock-email"}
	f := New(db, cal, nil, mail)
	if len(f.Providers) != 2 {
		t.Fatalf("nil provider not dropped: %d", len(f.Providers))
	}

	n := testNote()
	report, err := f.ForwardNote(context.Background(), n)
	if err != nil {
		t.Fatalf("ForwardNote: %v", err)
	}

	// Two open actions times two providers; the done action is ignored.
	if report.Sent != 4 || report.Skipped != 0 || report.Failed != 0 {
		t.Errorf("report = %+v, want 4 sent", report)
	}
	if len(cal.Calls) != 2 || len(mail.Calls) != 2 {
		t.Errorf("calls = %d calendar, %d email, want 2 each", len(cal.Calls), len(mail.Calls))
	}
	for _, call := range cal.Calls {
		if call.Action.Status == "done" {
			t.Errorf("done action forwarded: %+v", call.Action)
		}
	}
}

func TestForwardNoteIdempotent(t *testing.T) {
	db, err := outbox.OpenMemory()
	if err != nil {
		t.Fatalf("open outbox: %v", err)
	}
	defer db.Close()

	cal := &MockSubmitter{Provider: "mock-calendar"}
	f := New(db, cal)

	n := testNote()
	if _, err := f.ForwardNote(context.Background(), n); err != nil {
		t.Fatalf("first run: %v", err)
	}
	report, err := f.ForwardNote(context.Background(), n)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if report.Sent != 0 || report.Skipped != 2 {
		t.Errorf("second run report = %+v, want all skipped", report)
	}
	if len(cal.Calls) != 2 {
		t.Errorf("provider called %d times total, want 2", len(cal.Calls))
	}
}

func TestForwardNoteRecordsFailures(t *testing.T) {
	db, err := outbox.OpenMemory()
	if err != nil {
		t.Fatalf("open outbox: %v", err)
	}
	defer db.Close()

	bad := &MockSubmitter{Provider: "mock-calendar", Err: errors.New("connection refused")}
	f := New(db, bad)

	n := testNote()
	report, err := f.ForwardNote(context.Background(), n)
	if err != nil {
		t.Fatalf("ForwardNote: %v", err)
	}
	if report.Failed != 2 || report.Sent != 0 {
		t.Errorf("report = %+v, want 2 failed", report)
	}

	// Failures do not block a retry.
	bad.Err = nil
	report, err = f.ForwardNote(context.Background(), n)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if report.Sent != 2 {
		t.Errorf("retry report = %+v, want 2 sent", report)
	}
}

func TestForwardNoteNoProviders(t *testing.T) {
	db, err := outbox.OpenMemory()
	if err != nil {
		t.Fatalf("open outbox: %v", err)
	}
	defer db.Close()

	f := New(db)
	if _, err := f.ForwardNote(context.Background(), testNote()); err == nil {
		t.Error("expected error with no providers")
	}
}

func TestMockSubmitter(t *testing.T) {
	mock := &MockSubmitter{}
	if mock.Name() != "mock" {
		t.Errorf("default name = %q", mock.Name())
	}
	if err := mock.Submit(context.Background(), Item{NoteID: "n1"}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(mock.Calls) != 1 || mock.Calls[0].NoteID != "n1" {
		t.Errorf("calls = %+v", mock.Calls)
	}
}
