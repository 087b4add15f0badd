package store

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType classifies a vault change.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event is a change to a note file in the vault.
type Event struct {
	Type    EventType
	Project string
	ID      string
}

// debounceWindow collapses the burst of fsnotify events an editor save
// produces into a single MODIFY.
const debounceWindow = 100 * time.Millisecond

// Watch streams note changes until ctx is cancelled. The base directory and
// every project directory are watched; project directories created later are
// picked up as they appear.
func (s *FileStore) Watch(ctx context.Context) (<-chan Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(s.Base); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", s.Base, err)
	}
	projects, err := s.Projects()
	if err != nil {
		watcher.Close()
		return nil, err
	}
	for _, p := range projects {
		if err := watcher.Add(filepath.Join(s.Base, p)); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("watch project %s: %w", p, err)
		}
	}

	events := make(chan Event)
	go func() {
		defer close(events)
		defer watcher.Close()

		lastEmit := make(map[string]time.Time)
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("watch: %v", err)
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				name := filepath.Base(ev.Name)
				if strings.HasPrefix(name, tempPrefix) {
					continue
				}

				// New project directory; start watching it.
				if ev.Op.Has(fsnotify.Create) && filepath.Dir(ev.Name) == s.Base && !strings.Contains(name, ".") {
					watcher.Add(ev.Name)
					continue
				}

				if !strings.HasSuffix(name, ".md") {
					continue
				}

				var typ EventType
				switch {
				case ev.Op.Has(fsnotify.Create):
					typ = EventCreate
				case ev.Op.Has(fsnotify.Write):
					typ = EventModify
				case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
					typ = EventDelete
				default:
					continue
				}

				now := time.Now()
				key := string(typ) + ":" + ev.Name
				if now.Sub(lastEmit[key]) < debounceWindow {
					continue
				}
				lastEmit[key] = now

				out := Event{
					Type:    typ,
					Project: filepath.Base(filepath.Dir(ev.Name)),
					ID:      strings.TrimSuffix(name, ".md"),
				}
				select {
				case events <- out:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}
