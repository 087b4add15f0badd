package engine

import (
	"errors"
	"fmt"

	"github.com/tmuir/minute/internal/note"
	"github.com/tmuir/minute/internal/store"
)

// Result is the soft outcome of a link mutation. Expected conditions
// (missing note, duplicate link) come back as Success=false with a message,
// never as an error.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LinkNotes creates a manual link from source to target plus a backlink
// from target to source, persisting both notes. The duplicate check is on
// the source side only: a link entry for the target id, of any type,
// blocks the operation.
func (e *Engine) LinkNotes(srcProject, srcID, tgtProject, tgtID string) (Result, error) {
	src, err := e.Store.GetNote(srcProject, srcID)
	if errors.Is(err, store.ErrNotFound) {
		return Result{Message: fmt.Sprintf("note %s/%s not found", srcProject, srcID)}, nil
	}
	if err != nil {
		return Result{}, err
	}

	tgt, err := e.Store.GetNote(tgtProject, tgtID)
	if errors.Is(err, store.ErrNotFound) {
		return Result{Message: fmt.Sprintf("note %s/%s not found", tgtProject, tgtID)}, nil
	}
	if err != nil {
		return Result{}, err
	}

	if src.HasLinkTo(tgtID) {
		return Result{Message: fmt.Sprintf("%s/%s already links to %s/%s", srcProject, srcID, tgtProject, tgtID)}, nil
	}

	srcLinks := append(src.LinkedNotes, note.Link{
		NoteID:  tgt.ID,
		Title:   tgt.Title,
		Project: tgt.Project,
		Type:    note.LinkManual,
	})
	tgtLinks := append(tgt.LinkedNotes, note.Link{
		NoteID:  src.ID,
		Title:   src.Title,
		Project: src.Project,
		Type:    note.LinkBacklink,
	})

	// Two independent single-note writes. If the second fails the first is
	// not rolled back; UnlinkNotes self-heals the one-sided state.
	if _, err := e.Store.UpdateNote(srcProject, srcID, store.Patch{LinkedNotes: &srcLinks}); err != nil {
		return Result{}, err
	}
	if _, err := e.Store.UpdateNote(tgtProject, tgtID, store.Patch{LinkedNotes: &tgtLinks}); err != nil {
		return Result{}, err
	}

	return Result{
		Success: true,
		Message: fmt.Sprintf("linked %s/%s to %s/%s", srcProject, srcID, tgtProject, tgtID),
	}, nil
}

// UnlinkNotes removes every link between the two notes, in both
// directions and regardless of type. Each side is filtered independently,
// so an inconsistent one-sided link is repaired rather than rejected.
func (e *Engine) UnlinkNotes(srcProject, srcID, tgtProject, tgtID string) (Result, error) {
	src, err := e.Store.GetNote(srcProject, srcID)
	if errors.Is(err, store.ErrNotFound) {
		return Result{Message: fmt.Sprintf("note %s/%s not found", srcProject, srcID)}, nil
	}
	if err != nil {
		return Result{}, err
	}

	tgt, err := e.Store.GetNote(tgtProject, tgtID)
	if errors.Is(err, store.ErrNotFound) {
		return Result{Message: fmt.Sprintf("note %s/%s not found", tgtProject, tgtID)}, nil
	}
	if err != nil {
		return Result{}, err
	}

	if src.LinkedNotes != nil {
		kept := withoutTarget(src.LinkedNotes, tgtID)
		if _, err := e.Store.UpdateNote(srcProject, srcID, store.Patch{LinkedNotes: &kept}); err != nil {
			return Result{}, err
		}
	}
	if tgt.LinkedNotes != nil {
		kept := withoutTarget(tgt.LinkedNotes, srcID)
		if _, err := e.Store.UpdateNote(tgtProject, tgtID, store.Patch{LinkedNotes: &kept}); err != nil {
			return Result{}, err
		}
	}

	return Result{
		Success: true,
		Message: fmt.Sprintf("unlinked %s/%s and %s/%s", srcProject, srcID, tgtProject, tgtID),
	}, nil
}

// LinkedNotes returns a note's stored link list verbatim: manual, related,
// and backlink entries alike.
func (e *Engine) LinkedNotes(project, noteID string) ([]note.Link, error) {
	n, err := e.Store.GetNote(project, noteID)
	if err != nil {
		return nil, err
	}
	return n.LinkedNotes, nil
}

func withoutTarget(links []note.Link, noteID string) []note.Link {
	kept := make([]note.Link, 0, len(links))
	for _, l := range links {
		if l.NoteID != noteID {
			kept = append(kept, l)
		}
	}
	return kept
}
