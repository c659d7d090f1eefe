package views

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
)

//go:embed templates/*.html
var viewsFS embed.FS

var homeTmpl *template.Template

// loadTemplatesFromFS loads the page templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	tmpl, err := template.ParseFS(sub, "*.html")
	if err != nil {
		return err
	}
	if tmpl.Lookup("home") == nil {
		return errors.New("views: template \"home\" not defined")
	}
	homeTmpl = tmpl
	return nil
}

// LoadTemplates loads embedded templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// HomeData lists the routes shown on the landing page. Entries are escaped,
// so placeholders like "<start>" render as text.
type HomeData struct {
	Routes []string
}

func RenderHome(w io.Writer, data *HomeData) error {
	if homeTmpl == nil {
		return errors.New("home template not loaded: call views.LoadTemplates during startup")
	}
	return homeTmpl.ExecuteTemplate(w, "home", data)
}
