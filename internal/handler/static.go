package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// SPAHandler serves the built single-page front-end. Unknown paths fall
// back to index.html so client-side routing keeps working on reload.
type SPAHandler struct {
	dir string
}

// NewSPAHandler creates a SPAHandler rooted at dir.
func NewSPAHandler(dir string) *SPAHandler {
	return &SPAHandler{dir: dir}
}

func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// API paths never fall through to the SPA.
	if strings.HasPrefix(r.URL.Path, "/v1/") {
		http.NotFound(w, r)
		return
	}

	urlPath := r.URL.Path
	if urlPath == "/" {
		urlPath = "/index.html"
	}

	filePath := filepath.Join(h.dir, filepath.Clean(urlPath))
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.dir, "index.html"))
		return
	}

	http.ServeFile(w, r, filePath)
}
