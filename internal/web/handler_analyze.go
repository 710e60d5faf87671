package web

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vbonduro/nutrisnap/internal/vision"
)

const maxPhotoSize = 50 * 1024 * 1024 // 50 MB

// allowedImageTypes is the set of MIME types accepted for meal photos. The
// model backends take JPEG and PNG; everything else is rejected before any
// analysis happens. net/http.DetectContentType identifies both via
// magic-byte sniffing, so the client-supplied Content-Type is ignored.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// allowedImageMIME returns the sniffed MIME type and true when data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	session, err := s.ensureSession(w, r)
	if err != nil {
		http.Error(w, "failed to resolve session", http.StatusInternalServerError)
		s.logger.Error("ensure session failed", "error", err)
		return
	}

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		s.renderFlash(w, "Could not read the upload. Try again with a smaller photo.")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		s.renderFlash(w, "Choose a photo of your meal first.")
		return
	}
	defer closeWithLog(file, "upload file", s.logger)

	imageData, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file", http.StatusInternalServerError)
		s.logger.Error("read upload failed", "session_id", session.ID, "error", err)
		return
	}

	if _, ok := allowedImageMIME(imageData); !ok {
		s.renderFlash(w, "Unsupported image format. Upload a JPG or PNG photo.")
		return
	}

	if _, err := s.service.AnalyzeMeal(r.Context(), session.ID, imageData); err != nil {
		s.logger.Error("analyze meal failed", "session_id", session.ID, "error", err)
		s.renderFlash(w, analyzeErrorMessage(err))
		return
	}

	view, err := s.buildHomeView(r.Context(), session.ID)
	if err != nil {
		http.Error(w, "failed to load page", http.StatusInternalServerError)
		s.logger.Error("build home view failed", "session_id", session.ID, "error", err)
		return
	}

	if err := s.renderFragment(w, "app", view, "partials/app.html", "partials/results.html"); err != nil {
		s.logger.Error("render fragment failed", "error", err)
	}
}

// renderFlash swaps an error notice into #flash and leaves the result panel
// untouched. HX-Retarget overrides the form's hx-target, so the stored
// analysis keeps rendering whatever it held before the failed attempt.
func (s *Server) renderFlash(w http.ResponseWriter, message string) {
	w.Header().Set("HX-Retarget", "#flash")
	w.Header().Set("HX-Reswap", "innerHTML")
	if err := s.renderFragment(w, "flash", map[string]any{"Message": message}, "partials/flash.html"); err != nil {
		s.logger.Error("render flash failed", "error", err)
	}
}

// analyzeErrorMessage maps an analysis failure to the notice a visitor sees.
func analyzeErrorMessage(err error) string {
	var statusErr *vision.StatusError
	var parseErr *vision.ParseError
	var schemaErr *vision.SchemaError
	switch {
	case errors.As(err, &statusErr):
		return fmt.Sprintf("The analysis service returned an error (status %d). Please try again.", statusErr.StatusCode)
	case errors.As(err, &parseErr):
		return "The model did not return a readable analysis. Please try again."
	case errors.As(err, &schemaErr):
		return "The model response was missing required fields. Please try again."
	default:
		return "Analysis failed. Please try again with a clear, well-lit photo."
	}
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
