// Package ui serves the compliance frontend. The compiled assets live in
// dist/ (a placeholder index.html is committed so the binary builds before
// the frontend does) and are embedded in production builds.
package ui

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// Handler returns an http.Handler serving the frontend with client-side
// routing: paths that do not match a file fall back to index.html.
func Handler() http.Handler {
	dist := DistFS()
	fileServer := http.FileServerFS(dist)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if name == "" {
			name = "index.html"
		}

		if _, err := fs.Stat(dist, name); err != nil {
			// Client-side route like /complaints/123; let the SPA render it.
			http.ServeFileFS(w, r, dist, "index.html")
			return
		}

		fileServer.ServeHTTP(w, r)
	})
}
