package engine

import (
	"errors"
	"sort"

	"github.com/tmuir/minute/internal/note"
	"github.com/tmuir/minute/internal/store"
)

// FindRelated scores every candidate in the pool against the source note
// and returns links for those at or above minScore, best first, at most
// limit entries. The source may appear in the pool; the scorer's self-guard
// excludes it. Ties keep the pool's enumeration order.
func FindRelated(source *note.Note, pool []note.Note, limit, minScore int) []note.Link {
	type scored struct {
		n     *note.Note
		score int
	}

	var kept []scored
	for i := range pool {
		// The scorer returns 0 for the source itself, which the minScore
		// threshold filters out.
		s := note.Score(source, &pool[i])
		if s >= minScore {
			kept = append(kept, scored{n: &pool[i], score: s})
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].score > kept[j].score
	})
	if len(kept) > limit {
		kept = kept[:limit]
	}

	links := make([]note.Link, 0, len(kept))
	for _, s := range kept {
		links = append(links, note.Link{
			NoteID:    s.n.ID,
			Title:     s.n.Title,
			Project:   s.n.Project,
			Type:      note.LinkRelated,
			Relevance: s.score,
		})
	}
	return links
}

// FindRelatedNotes locates a note and finds its most similar peers across
// all configured projects. A missing source yields an empty result, not an
// error.
func (e *Engine) FindRelatedNotes(project, noteID string, limit, minScore int) ([]note.Link, error) {
	source, err := e.Store.GetNote(project, noteID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	pool, err := e.allNotes()
	if err != nil {
		return nil, err
	}
	return FindRelated(source, pool, limit, minScore), nil
}

// AutoLinkRelatedNotes discovers related notes and persists them as
// `related` links on the source. Links whose target the source already
// references are skipped, so repeated invocations add nothing. Returns only
// the newly added links. No backlinks are written; auto-discovered links
// stay one-directional.
func (e *Engine) AutoLinkRelatedNotes(project, noteID string, limit, minScore int) ([]note.Link, error) {
	source, err := e.Store.GetNote(project, noteID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	pool, err := e.allNotes()
	if err != nil {
		return nil, err
	}

	var added []note.Link
	for _, cand := range FindRelated(source, pool, limit, minScore) {
		if source.HasLinkTo(cand.NoteID) {
			continue
		}
		source.LinkedNotes = append(source.LinkedNotes, cand)
		added = append(added, cand)
	}

	if len(added) > 0 {
		if _, err := e.Store.UpdateNote(project, noteID, store.Patch{LinkedNotes: &source.LinkedNotes}); err != nil {
			return nil, err
		}
	}
	return added, nil
}
