package web

import "net/http"

// handleGetPhoto serves the session's cached photo. It reads the cookie
// directly instead of going through ensureSession so an image fetch never
// spawns a session of its own.
func (s *Server) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	data, ok := s.service.Photo(c.Value)
	if !ok {
		http.NotFound(w, r)
		return
	}

	// The photo changes under the same URL with every upload.
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "image/jpeg")
	if _, err := w.Write(data); err != nil {
		s.logger.Error("write photo failed", "error", err)
	}
}
