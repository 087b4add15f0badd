// Package engine implements the note-relatedness core: keyword-based
// similarity search, manual link maintenance, auto-linking, backlink
// discovery, and graph construction over the file store.
package engine

import (
	"fmt"

	"github.com/tmuir/minute/internal/note"
	"github.com/tmuir/minute/internal/store"
)

// Defaults for the finder and auto-linker.
const (
	DefaultRelatedLimit    = 5
	DefaultRelatedMinScore = 15

	DefaultAutoLinkLimit    = 3
	DefaultAutoLinkMinScore = 20
)

// Engine answers linking and similarity queries. It holds no state between
// calls; every query re-reads the note population from the store.
type Engine struct {
	Store *store.FileStore

	// Projects pins the project iteration order. When empty the store's
	// sorted directory listing is used instead.
	Projects []string
}

// New creates an Engine over a file store. projects may be nil.
func New(st *store.FileStore, projects []string) *Engine {
	return &Engine{Store: st, Projects: projects}
}

// projectList returns the configured projects, or every project in the
// vault when none are configured.
func (e *Engine) projectList() ([]string, error) {
	if len(e.Projects) > 0 {
		return e.Projects, nil
	}
	return e.Store.Projects()
}

// pool loads every note across the given projects, preserving project
// order then per-project filename order. That ordering is load-bearing:
// stable sorts and first-wins graph edges depend on it.
func (e *Engine) pool(projects []string) ([]note.Note, error) {
	var all []note.Note
	for _, p := range projects {
		notes, err := e.Store.ListNotes(p)
		if err != nil {
			return nil, fmt.Errorf("list notes in %s: %w", p, err)
		}
		all = append(all, notes...)
	}
	return all, nil
}

// allNotes is pool() across every configured project.
func (e *Engine) allNotes() ([]note.Note, error) {
	projects, err := e.projectList()
	if err != nil {
		return nil, err
	}
	return e.pool(projects)
}
