package engine

import (
	"testing"

	"github.com/tmuir/minute/internal/note"
	"github.com/tmuir/minute/internal/store"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	return New(st, nil)
}

func mustCreate(t *testing.T, e *Engine, n *note.Note) *note.Note {
	t.Helper()
	if err := e.Store.CreateNote(n); err != nil {
		t.Fatalf("CreateNote %s: %v", n.Title, err)
	}
	return n
}

// seedVault creates a small cross-project population with known pairwise
// scores against "sprint-review":
//
//	sprint-retro       71  (shared tag, 5/8 keywords, same project+day)
//	quarterly-planning 31  (2/8 keywords, same project, 2 days apart)
//	groceries           0  (nothing in common)
func seedVault(t *testing.T, e *Engine) {
	t.Helper()
	mustCreate(t, e, &note.Note{
		ID: "sprint-review", Title: "Sprint Review", Project: "work",
		Date: "2025-03-10", Tags: []string{"sprint"},
		Content: "alpha bravo charlie delta echo foxtrot",
	})
	mustCreate(t, e, &note.Note{
		ID: "sprint-retro", Title: "Sprint Retro", Project: "work",
		Date: "2025-03-10", Tags: []string{"sprint"},
		Content: "alpha bravo charlie delta golf hotel",
	})
	mustCreate(t, e, &note.Note{
		ID: "quarterly-planning", Title: "Quarterly Planning", Project: "work",
		Date: "2025-03-12",
		Content: "alpha bravo zulu yankee xray whiskey",
	})
	mustCreate(t, e, &note.Note{
		ID: "groceries", Title: "Groceries", Project: "personal",
		Date: "2025-01-01",
		Content: "milk eggs bread",
	})
}

func TestPoolOrder(t *testing.T) {
	e := testEngine(t)
	seedVault(t, e)

	pool, err := e.allNotes()
	if err != nil {
		t.Fatalf("allNotes: %v", err)
	}

	// Projects sorted, then filenames sorted within each project.
	want := []string{"groceries", "quarterly-planning", "sprint-retro", "sprint-review"}
	if len(pool) != len(want) {
		t.Fatalf("pool size = %d, want %d", len(pool), len(want))
	}
	for i, w := range want {
		if pool[i].ID != w {
			t.Errorf("pool[%d] = %q, want %q", i, pool[i].ID, w)
		}
	}
}

func TestConfiguredProjectOrder(t *testing.T) {
	e := testEngine(t)
	seedVault(t, e)
	e.Projects = []string{"work", "personal"}

	pool, err := e.allNotes()
	if err != nil {
		t.Fatalf("allNotes: %v", err)
	}
	if pool[0].Project != "work" {
		t.Errorf("pool[0].Project = %q, want work (configured order)", pool[0].Project)
	}
	if pool[len(pool)-1].ID != "groceries" {
		t.Errorf("last note = %q, want groceries", pool[len(pool)-1].ID)
	}
}
