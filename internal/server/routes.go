package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tmuir/minute/internal/engine"
	"github.com/tmuir/minute/internal/note"
	"github.com/tmuir/minute/internal/store"
)

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.engine.Store.Projects()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	project := r.URL.Query().Get("project")

	var notes []note.Note
	var err error
	if project != "" {
		notes, err = s.engine.Store.ListNotes(project)
	} else {
		var projects []string
		projects, err = s.engine.Store.Projects()
		if err == nil {
			for _, p := range projects {
				batch, lerr := s.engine.Store.ListNotes(p)
				if lerr != nil {
					err = lerr
					break
				}
				notes = append(notes, batch...)
			}
		}
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(notes),
		"notes": notes,
	})
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Project string   `json:"project"`
		Title   string   `json:"title"`
		Date    string   `json:"date"`
		Content string   `json:"content"`
		Tags    []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Project == "" || req.Title == "" {
		writeError(w, http.StatusBadRequest, "project and title required")
		return
	}

	n := &note.Note{
		Title:        req.Title,
		Date:         req.Date,
		Project:      req.Project,
		Content:      req.Content,
		Tags:         req.Tags,
		ActionPoints: note.ExtractActionPoints(req.Content),
	}
	if err := s.engine.Store.CreateNote(n); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")
	noteID := chi.URLParam(r, "noteID")

	n, err := s.engine.Store.GetNote(project, noteID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")
	noteID := chi.URLParam(r, "noteID")

	var req struct {
		Content *string   `json:"content"`
		Tags    *[]string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	patch := store.Patch{Content: req.Content, Tags: req.Tags}
	if req.Content != nil {
		actions := note.ExtractActionPoints(*req.Content)
		patch.ActionPoints = &actions
	}

	n, err := s.engine.Store.UpdateNote(project, noteID, patch)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")
	noteID := chi.URLParam(r, "noteID")

	err := s.engine.Store.DeleteNote(project, noteID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleRelated(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")
	noteID := chi.URLParam(r, "noteID")
	limit := queryInt(r, "limit", engine.DefaultRelatedLimit)
	minScore := queryInt(r, "min_score", engine.DefaultRelatedMinScore)

	links, err := s.engine.FindRelatedNotes(project, noteID, limit, minScore)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(links),
		"related": links,
	})
}

func (s *Server) handleGetLinks(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")
	noteID := chi.URLParam(r, "noteID")

	links, err := s.engine.LinkedNotes(project, noteID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(links),
		"links": links,
	})
}

func (s *Server) handleLink(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")
	noteID := chi.URLParam(r, "noteID")

	var req struct {
		TargetProject string `json:"target_project"`
		TargetID      string `json:"target_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.TargetID == "" {
		writeError(w, http.StatusBadRequest, "target_id required")
		return
	}
	if req.TargetProject == "" {
		req.TargetProject = project
	}

	result, err := s.engine.LinkNotes(project, noteID, req.TargetProject, req.TargetID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleUnlink(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")
	noteID := chi.URLParam(r, "noteID")

	var req struct {
		TargetProject string `json:"target_project"`
		TargetID      string `json:"target_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.TargetID == "" {
		writeError(w, http.StatusBadRequest, "target_id required")
		return
	}
	if req.TargetProject == "" {
		req.TargetProject = project
	}

	result, err := s.engine.UnlinkNotes(project, noteID, req.TargetProject, req.TargetID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAutoLink(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")
	noteID := chi.URLParam(r, "noteID")
	limit := queryInt(r, "limit", engine.DefaultAutoLinkLimit)
	minScore := queryInt(r, "min_score", engine.DefaultAutoLinkMinScore)

	added, err := s.engine.AutoLinkRelatedNotes(project, noteID, limit, minScore)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"added": len(added),
		"links": added,
	})
}

func (s *Server) handleBacklinks(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")
	noteID := chi.URLParam(r, "noteID")

	links, err := s.engine.FindBacklinks(project, noteID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":     len(links),
		"backlinks": links,
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	project := r.URL.Query().Get("project")

	graph, err := s.engine.NoteGraph(project)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, graph)
}

func (s *Server) handleForward(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")
	noteID := chi.URLParam(r, "noteID")

	if s.forwarder == nil {
		writeError(w, http.StatusServiceUnavailable, "forwarding not configured")
		return
	}

	n, err := s.engine.Store.GetNote(project, noteID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	report, err := s.forwarder.ForwardNote(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
