package engine

import (
	"testing"

	"github.com/tmuir/minute/internal/note"
)

func TestFindRelatedNotes(t *testing.T) {
	e := testEngine(t)
	seedVault(t, e)

	links, err := e.FindRelatedNotes("work", "sprint-review", DefaultRelatedLimit, DefaultRelatedMinScore)
	if err != nil {
		t.Fatalf("FindRelatedNotes: %v", err)
	}

	if len(links) != 2 {
		t.Fatalf("got %d links, want 2: %+v", len(links), links)
	}
	if links[0].NoteID != "sprint-retro" || links[0].Relevance != 71 {
		t.Errorf("links[0] = %+v, want sprint-retro @ 71", links[0])
	}
	if links[1].NoteID != "quarterly-planning" || links[1].Relevance != 31 {
		t.Errorf("links[1] = %+v, want quarterly-planning @ 31", links[1])
	}

	for _, l := range links {
		if l.Type != note.LinkRelated {
			t.Errorf("link type = %q, want related", l.Type)
		}
		if l.Relevance < DefaultRelatedMinScore {
			t.Errorf("score %d below minScore", l.Relevance)
		}
	}
}

func TestFindRelatedNotesSortedAndLimited(t *testing.T) {
	e := testEngine(t)
	seedVault(t, e)

	links, err := e.FindRelatedNotes("work", "sprint-review", 1, 15)
	if err != nil {
		t.Fatalf("FindRelatedNotes: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("got %d links, want 1", len(links))
	}
	if links[0].NoteID != "sprint-retro" {
		t.Errorf("top link = %q, want sprint-retro", links[0].NoteID)
	}

	// Raising minScore drops the weaker candidate.
	links, err = e.FindRelatedNotes("work", "sprint-review", 5, 40)
	if err != nil {
		t.Fatalf("FindRelatedNotes: %v", err)
	}
	if len(links) != 1 || links[0].NoteID != "sprint-retro" {
		t.Errorf("links = %+v, want only sprint-retro", links)
	}
}

func TestFindRelatedNotesMissingSource(t *testing.T) {
	e := testEngine(t)
	seedVault(t, e)

	links, err := e.FindRelatedNotes("work", "no-such-note", 5, 15)
	if err != nil {
		t.Fatalf("FindRelatedNotes: %v", err)
	}
	if len(links) != 0 {
		t.Errorf("expected empty result for missing source, got %+v", links)
	}
}

func TestFindRelatedEmptyPool(t *testing.T) {
	src := &note.Note{ID: "solo", Title: "Solo", Project: "work"}
	if links := FindRelated(src, nil, 5, 15); len(links) != 0 {
		t.Errorf("expected empty result, got %+v", links)
	}
}

func TestAutoLinkRelatedNotes(t *testing.T) {
	e := testEngine(t)
	seedVault(t, e)

	added, err := e.AutoLinkRelatedNotes("work", "sprint-review", DefaultAutoLinkLimit, DefaultAutoLinkMinScore)
	if err != nil {
		t.Fatalf("AutoLinkRelatedNotes: %v", err)
	}
	if len(added) != 2 {
		t.Fatalf("got %d added links, want 2: %+v", len(added), added)
	}

	// Links are persisted on the source only.
	src, err := e.Store.GetNote("work", "sprint-review")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if len(src.LinkedNotes) != 2 {
		t.Errorf("persisted links = %+v", src.LinkedNotes)
	}
	tgt, err := e.Store.GetNote("work", "sprint-retro")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if len(tgt.LinkedNotes) != 0 {
		t.Errorf("related links must not create backlinks, target has %+v", tgt.LinkedNotes)
	}
}

func TestAutoLinkIdempotent(t *testing.T) {
	e := testEngine(t)
	seedVault(t, e)

	first, err := e.AutoLinkRelatedNotes("work", "sprint-review", 3, 20)
	if err != nil {
		t.Fatalf("first AutoLinkRelatedNotes: %v", err)
	}
	if len(first) == 0 {
		t.Fatal("expected links on first invocation")
	}

	second, err := e.AutoLinkRelatedNotes("work", "sprint-review", 3, 20)
	if err != nil {
		t.Fatalf("second AutoLinkRelatedNotes: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("second invocation added %+v, want nothing", second)
	}

	src, _ := e.Store.GetNote("work", "sprint-review")
	if len(src.LinkedNotes) != len(first) {
		t.Errorf("link list grew to %d entries, want %d", len(src.LinkedNotes), len(first))
	}
}

func TestAutoLinkMissingSource(t *testing.T) {
	e := testEngine(t)
	seedVault(t, e)

	added, err := e.AutoLinkRelatedNotes("work", "ghost", 3, 20)
	if err != nil {
		t.Fatalf("AutoLinkRelatedNotes: %v", err)
	}
	if len(added) != 0 {
		t.Errorf("expected nothing for missing source, got %+v", added)
	}
}
