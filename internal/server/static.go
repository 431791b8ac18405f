package server

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed static
var staticFS embed.FS

// registerUI serves the embedded week-dial page at the site root.
func registerUI(router chi.Router) {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return
	}
	fileServer := http.FileServer(http.FS(sub))
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, sub, "index.html")
	})
	router.Get("/static/*", http.StripPrefix("/static/", fileServer).ServeHTTP)
}
