package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLinkAndUnlink(t *testing.T) {
	srv := testServer(t)
	createNote(t, srv, "work", "Sprint Retro", "alpha")
	createNote(t, srv, "work", "Quarterly Planning", "bravo")

	body := `{"target_id":"quarterly-planning"}`
	req := httptest.NewRequest("POST", "/api/notes/work/sprint-retro/links", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("link status = %d, body: %s", w.Code, w.Body.String())
	}
	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	json.Unmarshal(w.Body.Bytes(), &result)
	if !result.Success {
		t.Fatalf("link failed: %s", result.Message)
	}

	// Backlink visible from the target side.
	req = httptest.NewRequest("GET", "/api/notes/work/quarterly-planning/links", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	var links struct {
		Count int `json:"count"`
		Links []struct {
			NoteID string `json:"note_id"`
			Type   string `json:"type"`
		} `json:"links"`
	}
	json.Unmarshal(w.Body.Bytes(), &links)
	if links.Count != 1 || links.Links[0].NoteID != "sprint-retro" || links.Links[0].Type != "backlink" {
		t.Errorf("target links = %+v", links)
	}

	// Unlink removes both sides.
	req = httptest.NewRequest("DELETE", "/api/notes/work/sprint-retro/links", strings.NewReader(body))
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unlink status = %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/notes/work/quarterly-planning/links", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	json.Unmarshal(w.Body.Bytes(), &links)
	if links.Count != 0 {
		t.Errorf("links after unlink = %d, want 0", links.Count)
	}
}

func TestLinkMissingTarget(t *testing.T) {
	srv := testServer(t)
	createNote(t, srv, "work", "Sprint Retro", "alpha")

	body := `{"target_id":"ghost"}`
	req := httptest.NewRequest("POST", "/api/notes/work/sprint-retro/links", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	// Soft failure: 200 with success=false.
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var result struct {
		Success bool `json:"success"`
	}
	json.Unmarshal(w.Body.Bytes(), &result)
	if result.Success {
		t.Error("linking a missing note should not succeed")
	}
}

func TestRelatedEndpoint(t *testing.T) {
	srv := testServer(t)
	createNote(t, srv, "work", "Sprint Retro", "velocity roadmap deployment pipeline discussion")
	createNote(t, srv, "work", "Sprint Planning", "velocity roadmap deployment pipeline discussion")
	createNote(t, srv, "home", "Groceries", "eggs milk butter")

	req := httptest.NewRequest("GET", "/api/notes/work/sprint-retro/related", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Count   int `json:"count"`
		Related []struct {
			NoteID    string `json:"note_id"`
			Relevance int    `json:"relevance"`
		} `json:"related"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Count != 1 || resp.Related[0].NoteID != "sprint-planning" {
		t.Errorf("related = %+v", resp)
	}
	if resp.Related[0].Relevance <= 0 {
		t.Errorf("relevance = %d, want positive", resp.Related[0].Relevance)
	}
}

func TestRelatedMissingSource(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest("GET", "/api/notes/work/ghost/related", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Count int `json:"count"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Count != 0 {
		t.Errorf("count = %d, want 0", resp.Count)
	}
}

func TestAutoLinkEndpoint(t *testing.T) {
	srv := testServer(t)
	createNote(t, srv, "work", "Sprint Retro", "velocity roadmap deployment pipeline discussion quarterly")
	createNote(t, srv, "work", "Sprint Planning", "velocity roadmap deployment pipeline discussion quarterly")

	req := httptest.NewRequest("POST", "/api/notes/work/sprint-retro/autolink", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Added int `json:"added"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Added != 1 {
		t.Errorf("added = %d, want 1", resp.Added)
	}

	// Second run adds nothing.
	req = httptest.NewRequest("POST", "/api/notes/work/sprint-retro/autolink", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Added != 0 {
		t.Errorf("second run added = %d, want 0", resp.Added)
	}
}

func TestGraphEndpoint(t *testing.T) {
	srv := testServer(t)
	createNote(t, srv, "work", "Sprint Retro", "alpha")
	createNote(t, srv, "work", "Quarterly Planning", "bravo")

	body := `{"target_id":"quarterly-planning"}`
	req := httptest.NewRequest("POST", "/api/notes/work/sprint-retro/links", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	req = httptest.NewRequest("GET", "/api/graph", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var graph struct {
		Nodes []any `json:"nodes"`
		Edges []any `json:"edges"`
	}
	json.Unmarshal(w.Body.Bytes(), &graph)
	if len(graph.Nodes) != 2 {
		t.Errorf("nodes = %d, want 2", len(graph.Nodes))
	}
	if len(graph.Edges) != 1 {
		t.Errorf("edges = %d, want 1", len(graph.Edges))
	}
}

func TestBacklinksEndpoint(t *testing.T) {
	srv := testServer(t)
	createNote(t, srv, "work", "Sprint Retro", "alpha")
	createNote(t, srv, "work", "Weekly Summary", "Covered in [[Sprint Retro]] on Monday.")

	req := httptest.NewRequest("GET", "/api/notes/work/sprint-retro/backlinks", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Count     int `json:"count"`
		Backlinks []struct {
			NoteID string `json:"note_id"`
		} `json:"backlinks"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Count != 1 || resp.Backlinks[0].NoteID != "weekly-summary" {
		t.Errorf("backlinks = %+v", resp)
	}
}

func TestForwardEndpoint(t *testing.T) {
	srv := testServer(t)
	createNote(t, srv, "work", "Sprint Retro", "- [ ] Update the roadmap\n- [x] Done already")

	req := httptest.NewRequest("POST", "/api/notes/work/sprint-retro/forward", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	var report struct {
		Sent    int `json:"sent"`
		Skipped int `json:"skipped"`
	}
	json.Unmarshal(w.Body.Bytes(), &report)
	if report.Sent != 1 {
		t.Errorf("sent = %d, want 1", report.Sent)
	}

	// Second run skips via the outbox.
	req = httptest.NewRequest("POST", "/api/notes/work/sprint-retro/forward", nil)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	json.Unmarshal(w.Body.Bytes(), &report)
	if report.Sent != 0 || report.Skipped != 1 {
		t.Errorf("second run = %+v, want skipped", report)
	}
}

func TestForwardNotConfigured(t *testing.T) {
	srv := testServer(t)
	srv.forwarder = nil
	createNote(t, srv, "work", "Sprint Retro", "- [ ] Task")

	req := httptest.NewRequest("POST", "/api/notes/work/sprint-retro/forward", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}
