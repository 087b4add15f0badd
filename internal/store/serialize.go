package store

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tmuir/minute/internal/note"
)

// frontmatter is the YAML header persisted at the top of every note file.
// ID, project, and body are implied by the file's path and content section.
type frontmatter struct {
	Title        string             `yaml:"title"`
	Date         string             `yaml:"date"`
	Tags         []string           `yaml:"tags,omitempty"`
	ActionPoints []note.ActionPoint `yaml:"actionPoints,omitempty"`
	LinkedNotes  []note.Link        `yaml:"linkedNotes,omitempty"`
	Created      string             `yaml:"created"`
	Updated      string             `yaml:"updated"`
}

// Encode renders a note as markdown with a YAML frontmatter block.
func Encode(n *note.Note) ([]byte, error) {
	fm := frontmatter{
		Title:        n.Title,
		Date:         n.Date,
		Tags:         n.Tags,
		ActionPoints: n.ActionPoints,
		LinkedNotes:  n.LinkedNotes,
		Created:      n.CreatedAt.UTC().Format(time.RFC3339),
		Updated:      n.UpdatedAt.UTC().Format(time.RFC3339),
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	enc.Close()
	buf.WriteString("---\n")
	buf.WriteString(n.Content)
	return buf.Bytes(), nil
}

// Decode parses a note file. Project and ID come from the path, not the
// file, so the caller supplies them.
func Decode(data []byte, project, id string) (*note.Note, error) {
	n := &note.Note{ID: id, Project: project}

	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		// No frontmatter; treat the whole file as body.
		n.Content = string(data)
		return n, nil
	}

	rest := data[3:]
	parts := bytes.SplitN(rest, []byte("\n---"), 2)
	if len(parts) == 1 {
		return nil, errors.New("frontmatter started but no closing delimiter found")
	}

	var fm frontmatter
	if err := yaml.Unmarshal(parts[0], &fm); err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	n.Title = fm.Title
	n.Date = fm.Date
	n.Tags = fm.Tags
	n.ActionPoints = fm.ActionPoints
	n.LinkedNotes = fm.LinkedNotes
	if fm.Created != "" {
		if t, err := time.Parse(time.RFC3339, fm.Created); err == nil {
			n.CreatedAt = t
		}
	}
	if fm.Updated != "" {
		if t, err := time.Parse(time.RFC3339, fm.Updated); err == nil {
			n.UpdatedAt = t
		}
	}

	content := string(parts[1])
	content = strings.TrimPrefix(content, "\n")
	content = strings.TrimPrefix(content, "\r\n")
	n.Content = content
	return n, nil
}
