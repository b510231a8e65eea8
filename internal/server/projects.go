package server

import (
	"net/http"

	"github.com/balkashynov/tempo/internal/db"
)

type projectBody struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (b projectBody) request() db.ProjectRequest {
	return db.ProjectRequest{Name: b.Name, Description: b.Description}
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var body projectBody
	if err := readJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	project, err := s.tracker.CreateProject(r.Context(), body.request())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, http.StatusCreated, "Project created successfully", project)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.tracker.ListProjects(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, http.StatusOK, "Projects retrieved successfully", projects)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	project, err := s.tracker.GetProject(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, http.StatusOK, "Project retrieved successfully", project)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var body projectBody
	if err := readJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	project, err := s.tracker.UpdateProject(r.Context(), id, body.request())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, http.StatusOK, "Project updated successfully", project)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.tracker.DeleteProject(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, http.StatusOK, "Project deleted successfully", nil)
}
