package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tmuir/minute/internal/note"
	"github.com/tmuir/minute/internal/store"
)

// FindBacklinks scans every note's raw text for mentions of the target's
// title: either a [[wikilink]] or a bare substring, both case-insensitive.
// A mention qualifies even without a stored link entry. Bare substring
// matching is deliberately loose and produces false positives for short or
// common titles.
func (e *Engine) FindBacklinks(project, noteID string) ([]note.Link, error) {
	target, err := e.Store.GetNote(project, noteID)
	if err != nil {
		return nil, err
	}

	pool, err := e.allNotes()
	if err != nil {
		return nil, err
	}

	title := strings.ToLower(target.Title)
	wikilink := "[[" + title + "]]"

	var backlinks []note.Link
	for i := range pool {
		n := &pool[i]
		if n.ID == noteID && n.Project == project {
			continue
		}
		content := strings.ToLower(n.Content)
		if strings.Contains(content, wikilink) || strings.Contains(content, title) {
			backlinks = append(backlinks, note.Link{
				NoteID:  n.ID,
				Title:   n.Title,
				Project: n.Project,
				Type:    note.LinkBacklink,
			})
		}
	}
	return backlinks, nil
}

// relatedHeadingRe detects an existing related/linked notes section so the
// generator never appends a second one.
var relatedHeadingRe = regexp.MustCompile(`(?mi)^#{1,6}\s*(related|linked)\s+notes\b`)

// linkTypeIcon maps a link type to its display marker in generated
// markdown.
func linkTypeIcon(t note.LinkType) string {
	switch t {
	case note.LinkManual:
		return "🔗"
	case note.LinkRelated:
		return "✨"
	case note.LinkBacklink:
		return "↩"
	default:
		return "•"
	}
}

// ObsidianLinks renders the note's content with a "Related Notes" section
// of wikilinks appended, one line per stored link, annotated with a type
// icon and the relevance score when present. Content that already has a
// related or linked notes heading is returned unchanged.
func ObsidianLinks(n *note.Note) string {
	if len(n.LinkedNotes) == 0 || relatedHeadingRe.MatchString(n.Content) {
		return n.Content
	}

	var b strings.Builder
	b.WriteString(n.Content)
	if !strings.HasSuffix(n.Content, "\n") && n.Content != "" {
		b.WriteString("\n")
	}
	b.WriteString("\n## Related Notes\n\n")
	for _, l := range n.LinkedNotes {
		b.WriteString("- " + linkTypeIcon(l.Type) + " [[" + l.Title + "]]")
		if l.Relevance > 0 {
			fmt.Fprintf(&b, " (score: %d)", l.Relevance)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// SyncObsidian rewrites a note's content with the generated related-notes
// section and persists it. Notes whose content already carries a section,
// or that have no links, are left untouched.
func (e *Engine) SyncObsidian(project, noteID string) (Result, error) {
	n, err := e.Store.GetNote(project, noteID)
	if err != nil {
		return Result{}, err
	}

	updated := ObsidianLinks(n)
	if updated == n.Content {
		return Result{Success: true, Message: "no changes"}, nil
	}

	if _, err := e.Store.UpdateNote(project, noteID, store.Patch{Content: &updated}); err != nil {
		return Result{}, err
	}
	return Result{Success: true, Message: fmt.Sprintf("updated %s/%s", project, noteID)}, nil
}
