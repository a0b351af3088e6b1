package api

import (
	"io/fs"
	"net/http"
	"strings"
)

// spaHandler serves the embedded frontend.
// Requests for files that exist in the FS are served directly; every other
// path falls through to index.html so client-side routing works.
type spaHandler struct {
	root   fs.FS
	server http.Handler
}

func newSPAHandler(root fs.FS) *spaHandler {
	return &spaHandler{
		root:   root,
		server: http.FileServer(http.FS(root)),
	}
}

func (h *spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/")
	if path == "" {
		path = "index.html"
	}

	f, err := h.root.Open(path)
	if err == nil {
		stat, statErr := f.Stat()
		_ = f.Close()
		if statErr == nil && !stat.IsDir() {
			h.server.ServeHTTP(w, r)
			return
		}
	}

	// Fallback: rewrite to / and let the file server emit index.html.
	r = r.Clone(r.Context())
	r.URL.Path = "/"
	h.server.ServeHTTP(w, r)
}
