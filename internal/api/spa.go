package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// SPAHandler serves the built frontend. A request that does not resolve to a
// file falls back to index.html so client-side routes deep-link correctly.
type SPAHandler struct {
	staticDir string
}

// NewSPAHandler creates a handler rooted at staticDir. An empty staticDir
// disables asset serving entirely.
func NewSPAHandler(staticDir string) *SPAHandler {
	return &SPAHandler{staticDir: staticDir}
}

func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.staticDir == "" {
		http.NotFound(w, r)
		return
	}

	// Normalize and contain the path inside the static dir.
	reqPath := filepath.Clean("/" + r.URL.Path)
	if strings.Contains(reqPath, "..") {
		http.NotFound(w, r)
		return
	}

	fullPath := filepath.Join(h.staticDir, reqPath)
	if info, err := os.Stat(fullPath); err == nil && !info.IsDir() {
		http.ServeFile(w, r, fullPath)
		return
	}

	// SPA fallback
	http.ServeFile(w, r, filepath.Join(h.staticDir, "index.html"))
}
