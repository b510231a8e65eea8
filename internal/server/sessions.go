package server

import (
	"net/http"
)

type startBody struct {
	ProjectID int64 `json:"projectId"`
}

type endBody struct {
	SessionID int64 `json:"sessionId"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var body startBody
	if err := readJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	projectID, err := bodyID("projectId", body.ProjectID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	session, err := s.tracker.StartSession(r.Context(), projectID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, http.StatusCreated, "Session started successfully", session)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	var body endBody
	if err := readJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	sessionID, err := bodyID("sessionId", body.SessionID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	session, err := s.tracker.EndSession(r.Context(), sessionID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, http.StatusOK, "Session ended successfully", session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sessions, err := s.tracker.ListSessions(r.Context(), projectID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, http.StatusOK, "Sessions retrieved successfully", sessions)
}

func (s *Server) handleActiveForProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	active, err := s.tracker.GetActiveSessionForProject(r.Context(), projectID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, http.StatusOK, activeMessage(active.Active), active)
}

func (s *Server) handleActive(w http.ResponseWriter, r *http.Request) {
	active, err := s.tracker.GetActiveSession(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, http.StatusOK, activeMessage(active.Active), active)
}

func activeMessage(active bool) string {
	if active {
		return "Active session found"
	}
	return "No active session"
}

func (s *Server) handleAverageDuration(w http.ResponseWriter, r *http.Request) {
	avg, err := s.tracker.AverageDuration(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, http.StatusOK, "Average duration calculated successfully", avg)
}

func (s *Server) handleGlobalStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.tracker.GlobalStatistics(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, http.StatusOK, "Statistics retrieved successfully", stats)
}

func (s *Server) handleProjectStatistics(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	stats, err := s.tracker.ProjectStatistics(r.Context(), projectID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeOK(w, http.StatusOK, "Project statistics retrieved successfully", stats)
}
