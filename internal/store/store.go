package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tmuir/minute/internal/note"
)

// ErrNotFound is returned when a note or project does not exist.
var ErrNotFound = errors.New("note not found")

// FileStore persists notes as markdown files with YAML frontmatter, one
// project per directory: <base>/<project>/<id>.md.
type FileStore struct {
	Base string
}

// DefaultBasePath returns the default vault location: ~/.minute/notes
func DefaultBasePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".minute", "notes"), nil
}

// Open opens (or creates) the vault at the given base path.
func Open(base string) (*FileStore, error) {
	if base == "" {
		return nil, errors.New("empty vault path")
	}
	if err := os.MkdirAll(base, 0755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}
	return &FileStore{Base: base}, nil
}

func (s *FileStore) notePath(project, id string) string {
	return filepath.Join(s.Base, project, id+".md")
}

// GetNote loads a single note by project and ID.
func (s *FileStore) GetNote(project, id string) (*note.Note, error) {
	data, err := os.ReadFile(s.notePath(project, id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read note %s/%s: %w", project, id, err)
	}
	n, err := Decode(data, project, id)
	if err != nil {
		return nil, fmt.Errorf("decode note %s/%s: %w", project, id, err)
	}
	return n, nil
}

// ListNotes returns every note in a project, sorted by filename so callers
// iterate in a stable order. A missing project directory is an empty
// project, not an error.
func (s *FileStore) ListNotes(project string) ([]note.Note, error) {
	dir := filepath.Join(s.Base, project)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", dir, err)
	}
	sort.Strings(matches)

	notes := make([]note.Note, 0, len(matches))
	for _, path := range matches {
		id := strings.TrimSuffix(filepath.Base(path), ".md")
		n, err := s.GetNote(project, id)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *n)
	}
	return notes, nil
}

// Projects returns all project names in the vault, sorted.
func (s *FileStore) Projects() ([]string, error) {
	entries, err := os.ReadDir(s.Base)
	if err != nil {
		return nil, fmt.Errorf("read vault dir: %w", err)
	}

	var projects []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			projects = append(projects, e.Name())
		}
	}
	sort.Strings(projects)
	return projects, nil
}

// CreateNote writes a new note to disk. An empty ID is derived from the
// title; action points without IDs get one. Fails if the note already
// exists.
func (s *FileStore) CreateNote(n *note.Note) error {
	if n.Project == "" {
		return errors.New("note project cannot be empty")
	}
	if n.ID == "" {
		n.ID = note.NewID(n.Title)
	}
	if _, err := os.Stat(s.notePath(n.Project, n.ID)); err == nil {
		return fmt.Errorf("note %s/%s already exists", n.Project, n.ID)
	}

	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now
	if n.Date == "" {
		n.Date = now.Format(note.DateLayout)
	}
	for i := range n.ActionPoints {
		if n.ActionPoints[i].ID == "" {
			n.ActionPoints[i].ID = note.NewActionID()
		}
		if n.ActionPoints[i].Status == "" {
			n.ActionPoints[i].Status = "open"
		}
	}

	return s.write(n)
}

// Patch carries the optional fields of an update. Nil fields are left
// untouched; a non-nil empty slice clears its list.
type Patch struct {
	Content      *string
	LinkedNotes  *[]note.Link
	ActionPoints *[]note.ActionPoint
	Tags         *[]string
}

// UpdateNote applies a partial update and persists the result, returning
// the updated note.
func (s *FileStore) UpdateNote(project, id string, patch Patch) (*note.Note, error) {
	n, err := s.GetNote(project, id)
	if err != nil {
		return nil, err
	}

	if patch.Content != nil {
		n.Content = *patch.Content
	}
	if patch.LinkedNotes != nil {
		n.LinkedNotes = *patch.LinkedNotes
	}
	if patch.ActionPoints != nil {
		n.ActionPoints = *patch.ActionPoints
	}
	if patch.Tags != nil {
		n.Tags = *patch.Tags
	}
	n.UpdatedAt = time.Now().UTC()

	if err := s.write(n); err != nil {
		return nil, err
	}
	return n, nil
}

// DeleteNote removes a note file.
func (s *FileStore) DeleteNote(project, id string) error {
	err := os.Remove(s.notePath(project, id))
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete note %s/%s: %w", project, id, err)
	}
	return nil
}

func (s *FileStore) write(n *note.Note) error {
	dir := filepath.Join(s.Base, n.Project)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create project dir: %w", err)
	}

	data, err := Encode(n)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.notePath(n.Project, n.ID), data, 0644); err != nil {
		return fmt.Errorf("write note %s/%s: %w", n.Project, n.ID, err)
	}
	return nil
}
