package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/swiftgrasp/swiftgrasp/internal/common"

	"github.com/ternarybob/arbor"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageHandler serves the embedded single-page UI.
type PageHandler struct {
	templates *template.Template
	logger    arbor.ILogger
}

// NewPageHandler parses the embedded templates.
func NewPageHandler(logger arbor.ILogger) (*PageHandler, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &PageHandler{
		templates: templates,
		logger:    logger,
	}, nil
}

// IndexHandler handles GET /
func (h *PageHandler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !RequireMethod(w, r, "GET") {
		return
	}

	data := map[string]interface{}{
		"Version": common.GetVersion(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to render index page")
	}
}
