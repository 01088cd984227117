package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// StaticAssets is the server-side offline asset set. None of them depend on a
// session; /admin.html is a shell that forwards to the live console at /admin.
var StaticAssets = []string{"/admin.html", "/manifest.json", "/static/admin.css", "/static/admin.js"}

var pages = map[string]*template.Template{
	"login":          mustPage("login.html"),
	"console":        mustPage("console.html"),
	"confirm_delete": mustPage("confirm_delete.html"),
}

func mustPage(name string) *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/"+name))
}

// StaticHandler serves /admin.html, /manifest.json and /static/* from the
// embedded tree.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	files := http.FileServer(http.FS(sub))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/admin.html":
			http.ServeFileFS(w, r, sub, "admin.html")
		case r.URL.Path == "/manifest.json":
			w.Header().Set("Content-Type", "application/manifest+json")
			http.ServeFileFS(w, r, sub, "manifest.json")
		case strings.HasPrefix(r.URL.Path, "/static/"):
			http.StripPrefix("/static", files).ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
