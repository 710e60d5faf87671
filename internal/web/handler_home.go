package web

import "net/http"

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	session, err := s.ensureSession(w, r)
	if err != nil {
		http.Error(w, "failed to resolve session", http.StatusInternalServerError)
		s.logger.Error("ensure session failed", "error", err)
		return
	}

	view, err := s.buildHomeView(r.Context(), session.ID)
	if err != nil {
		http.Error(w, "failed to load page", http.StatusInternalServerError)
		s.logger.Error("build home view failed", "session_id", session.ID, "error", err)
		return
	}

	if err := s.renderPage(w, view,
		"base.html", "pages/home.html", "partials/app.html", "partials/results.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}
