package note

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-date format used on notes. Notes carry a day,
// not a timestamp.
const DateLayout = "2006-01-02"

// LinkType classifies an entry in a note's linked-note list.
type LinkType string

const (
	// LinkManual is a user-created link. Always paired with a LinkBacklink
	// entry on the target note.
	LinkManual LinkType = "manual"
	// LinkRelated is a link discovered by the similarity engine. One
	// directional; no backlink is written for it.
	LinkRelated LinkType = "related"
	// LinkBacklink records that another note links here.
	LinkBacklink LinkType = "backlink"
)

// Link is a stored reference from one note to another. Title and Project are
// denormalized so the link renders without a second lookup.
type Link struct {
	NoteID    string   `yaml:"noteId" json:"note_id"`
	Title     string   `yaml:"title" json:"title"`
	Project   string   `yaml:"project" json:"project"`
	Type      LinkType `yaml:"type" json:"type"`
	Relevance int      `yaml:"relevance,omitempty" json:"relevance,omitempty"`
}

// ActionPoint is a task extracted from or attached to a note.
type ActionPoint struct {
	ID          string `yaml:"id" json:"id"`
	Description string `yaml:"description" json:"description"`
	Assignee    string `yaml:"assignee,omitempty" json:"assignee,omitempty"`
	DueDate     string `yaml:"dueDate,omitempty" json:"due_date,omitempty"`
	Priority    string `yaml:"priority,omitempty" json:"priority,omitempty"`
	Status      string `yaml:"status" json:"status"`
}

// Note is a meeting note. The ID is a slug unique within its project; the
// project plus ID locate the note's file on disk.
type Note struct {
	ID           string        `yaml:"-" json:"id"`
	Title        string        `yaml:"title" json:"title"`
	Date         string        `yaml:"date" json:"date"`
	Project      string        `yaml:"-" json:"project"`
	Content      string        `yaml:"-" json:"content"`
	Tags         []string      `yaml:"tags,omitempty" json:"tags,omitempty"`
	ActionPoints []ActionPoint `yaml:"actionPoints,omitempty" json:"action_points,omitempty"`
	LinkedNotes  []Link        `yaml:"linkedNotes,omitempty" json:"linked_notes,omitempty"`
	CreatedAt    time.Time     `yaml:"created" json:"created_at"`
	UpdatedAt    time.Time     `yaml:"updated" json:"updated_at"`
}

// Day parses the note's calendar date. The zero time is returned for notes
// without a parseable date.
func (n *Note) Day() time.Time {
	t, err := time.Parse(DateLayout, n.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// HasLinkTo reports whether the note's stored links already reference the
// given note ID.
func (n *Note) HasLinkTo(noteID string) bool {
	for _, l := range n.LinkedNotes {
		if l.NoteID == noteID {
			return true
		}
	}
	return false
}

// Slugify turns a title into a filesystem-safe note ID: lowercase
// alphanumerics with single hyphens between words.
func Slugify(title string) string {
	var b strings.Builder
	prevHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// NewID derives a note ID from a title, falling back to a random UUID when
// the title slugifies to nothing.
func NewID(title string) string {
	if s := Slugify(title); s != "" {
		return s
	}
	return uuid.NewString()
}

// NewActionID returns a fresh action point identifier.
func NewActionID() string {
	return uuid.NewString()
}
